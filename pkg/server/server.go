/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/blob"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	dbclient "github.com/AMD-AGI/Primus-Batch/pkg/database/client"
	"github.com/AMD-AGI/Primus-Batch/pkg/handlers"
	"github.com/AMD-AGI/Primus-Batch/pkg/handlers/middleware"
	batchklog "github.com/AMD-AGI/Primus-Batch/pkg/klog"
	"github.com/AMD-AGI/Primus-Batch/pkg/options"
	"github.com/AMD-AGI/Primus-Batch/pkg/trace"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	opts       *options.Options
	httpServer *http.Server
	dbClient   *dbclient.Client
	store      blob.Store
	ctx        context.Context
	cancel     context.CancelFunc
	isInited   bool
}

// NewServer creates and returns a new Server instance.
func NewServer() (*Server, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	s := &Server{
		opts:   &options.Options{},
		ctx:    ctx,
		cancel: cancel,
	}
	if err := s.init(); err != nil {
		cancel()
		return nil, err
	}
	return s, nil
}

// init performs the initial setup of the server: flag parsing, logging,
// configuration loading, the job store connection and the blob store.
func (s *Server) init() error {
	gin.SetMode(gin.ReleaseMode)
	var err error
	if err = s.opts.InitFlags(); err != nil {
		klog.ErrorS(err, "failed to parse flags")
		return err
	}
	if err = batchklog.Init(s.opts.LogfilePath, s.opts.LogFileSize, s.opts.Verbosity); err != nil {
		klog.ErrorS(err, "failed to init logs")
		return err
	}
	if err = s.initConfig(); err != nil {
		klog.ErrorS(err, "failed to init config")
		return err
	}
	if s.dbClient = dbclient.NewClient(); s.dbClient == nil {
		return fmt.Errorf("failed to connect to the job store")
	}
	if s.store, err = blob.NewStore(s.ctx); err != nil {
		klog.ErrorS(err, "failed to init blob store")
		return err
	}
	if err = trace.InitTracer("primus-batch-apiserver"); err != nil {
		klog.Warningf("Failed to init tracer: %v", err)
	}
	s.isInited = true
	return nil
}

// initConfig loads the server configuration from the specified config file path.
func (s *Server) initConfig() error {
	fullPath, err := filepath.Abs(s.opts.Config)
	if err != nil {
		return err
	}
	if err = config.LoadConfig(fullPath); err != nil {
		return fmt.Errorf("config path: %s, err: %v", fullPath, err)
	}
	return nil
}

// Start runs the HTTP server and blocks until a termination signal arrives,
// then shuts down gracefully.
func (s *Server) Start() {
	if !s.isInited {
		klog.Errorf("please init api-server first")
		return
	}

	klog.Infof("starting api-server")
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.startHttpServer()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			klog.ErrorS(err, "failed to start http-server")
		}
	case <-s.ctx.Done():
	}
	s.Stop()
}

// Stop gracefully shuts down the HTTP server, drains the audit buffer and
// flushes logs.
func (s *Server) Stop() {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	klog.Info("shutting down http server...")
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			klog.ErrorS(err, "failed to shutdown httpserver")
		}
	}
	middleware.StopAudit()
	if err := trace.CloseTracer(); err != nil {
		klog.ErrorS(err, "failed to close tracer")
	}
	s.dbClient.Close()
	klog.Info("apiserver is stopped")
	klog.Flush()
}

// startHttpServer initializes and starts the HTTP server.
func (s *Server) startHttpServer() error {
	if config.GetServerPort() <= 0 {
		return fmt.Errorf("the apiserver port is not defined")
	}
	handler, err := handlers.InitHttpHandlers(s.ctx, s.dbClient, s.store)
	if err != nil {
		return err
	}
	addr := fmt.Sprintf(":%d", config.GetServerPort())
	s.httpServer = &http.Server{Addr: addr, Handler: handler}
	klog.Infof("http-server listen port: %d", config.GetServerPort())
	if err = s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

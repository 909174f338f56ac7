/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/blob"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	dbclient "github.com/AMD-AGI/Primus-Batch/pkg/database/client"
	"github.com/AMD-AGI/Primus-Batch/pkg/engine"
	batchklog "github.com/AMD-AGI/Primus-Batch/pkg/klog"
	"github.com/AMD-AGI/Primus-Batch/pkg/options"
	"github.com/AMD-AGI/Primus-Batch/pkg/trace"
)

// Server is the worker process: one claim loop, one heartbeat task and the
// sweepers, all sharing a lifetime bound to SIGINT/SIGTERM.
type Server struct {
	opts      *options.Options
	dbClient  *dbclient.Client
	store     blob.Store
	engine    engine.Interface
	registry  *engine.Registry
	heartbeat *heartbeatTask
	processor *Processor
	sweeper   *Sweeper
	workerId  string
	ctx       context.Context
	cancel    context.CancelFunc
	isInited  bool
}

// NewServer creates and returns a new worker Server instance.
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

// init performs the initial setup of the worker: flag parsing, logging,
// configuration, the job store, the blob store, the engine client and the
// model registry.
func (s *Server) init() error {
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
	if s.engine, err = engine.NewHttpEngine(); err != nil {
		klog.ErrorS(err, "failed to init engine client")
		return err
	}
	if s.registry, err = engine.NewRegistry(config.GetEngineRegistryPath()); err != nil {
		klog.ErrorS(err, "failed to load model registry")
		return err
	}
	if err = trace.InitTracer("primus-batch-worker"); err != nil {
		klog.Warningf("Failed to init tracer: %v", err)
	}

	s.workerId = config.GetWorkerId()
	if s.workerId == "" {
		host, _ := os.Hostname()
		s.workerId = fmt.Sprintf("%s-%d", host, os.Getpid())
	}
	s.heartbeat = newHeartbeatTask(s.dbClient, s.engine, s.workerId)
	s.processor = NewProcessor(s.dbClient, s.store, s.engine, s.registry, s.heartbeat, s.workerId)
	s.sweeper = NewSweeper(s.dbClient, s.store)
	s.isInited = true
	return nil
}

// initConfig loads the worker configuration from the specified config file path.
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

// Start runs the claim loop and blocks until a termination signal arrives,
// then shuts down gracefully.
func (s *Server) Start() {
	if !s.isInited {
		klog.Errorf("please init worker first")
		return
	}

	klog.InfoS("starting worker", "workerId", s.workerId)
	go s.heartbeat.run(s.ctx)
	if err := s.sweeper.Start(); err != nil {
		klog.ErrorS(err, "failed to start sweepers")
		s.Stop()
		return
	}

	// Jobs this worker id held before a restart come first, so a half-done
	// batch resumes before new work is claimed.
	if reclaimed, err := s.dbClient.ReclaimOwnedBatchJobs(s.ctx, s.workerId); err != nil {
		klog.ErrorS(err, "failed to reclaim owned batches")
	} else if len(reclaimed) > 0 {
		klog.InfoS("reclaimed batches from previous run", "count", len(reclaimed))
	}

	s.claimLoop()
	s.Stop()
}

// claimLoop claims and processes jobs one at a time, sleeping the poll
// interval when the queue is empty.
func (s *Server) claimLoop() {
	pollInterval := time.Duration(config.GetPollIntervalSecond()) * time.Second
	for {
		if s.ctx.Err() != nil {
			return
		}
		job, err := s.dbClient.ClaimNextBatchJob(s.ctx, s.workerId)
		if err != nil {
			klog.ErrorS(err, "failed to claim next batch")
		} else if job != nil {
			s.processor.Process(s.ctx, job)
			continue
		}
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(pollInterval):
		}
	}
}

// Stop shuts down the sweepers, the heartbeat and the store connections, and
// flushes logs.
func (s *Server) Stop() {
	s.cancel()
	klog.Info("shutting down worker...")
	if s.sweeper != nil {
		s.sweeper.Stop()
	}
	if s.registry != nil {
		s.registry.Close()
	}
	if err := trace.CloseTracer(); err != nil {
		klog.ErrorS(err, "failed to close tracer")
	}
	s.dbClient.Close()
	klog.Info("worker is stopped")
	klog.Flush()
}

/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AMD-AGI/Primus-Batch/pkg/apiutils"
	"github.com/AMD-AGI/Primus-Batch/pkg/blob"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	dbclient "github.com/AMD-AGI/Primus-Batch/pkg/database/client"
	"github.com/AMD-AGI/Primus-Batch/pkg/errors"
	adminhandlers "github.com/AMD-AGI/Primus-Batch/pkg/handlers/admin-handlers"
	batchhandlers "github.com/AMD-AGI/Primus-Batch/pkg/handlers/batch-handlers"
	filehandlers "github.com/AMD-AGI/Primus-Batch/pkg/handlers/file-handlers"
	"github.com/AMD-AGI/Primus-Batch/pkg/handlers/middleware"
)

// InitHttpHandlers builds the gin engine for the API server: the shared
// middleware chain, the OpenAI-compatible file and batch routes, the
// operational endpoints and the metrics scrape target.
func InitHttpHandlers(_ context.Context, dbClient dbclient.Interface, store blob.Store) (*gin.Engine, error) {
	engine := gin.New()
	engine.Use(apiutils.RequestId(), apiutils.Logger(), gin.Recovery(),
		middleware.HandleTracing(), middleware.AuditLog(dbClient))
	if proxies := config.GetTrustedProxy(); len(proxies) > 0 {
		if err := engine.SetTrustedProxies(proxies); err != nil {
			return nil, err
		}
	}
	engine.NoRoute(func(c *gin.Context) {
		apiutils.AbortWithApiError(c, errors.NewNotFound(c.Request.RequestURI))
	})

	filehandlers.InitFileRouters(engine, filehandlers.NewHandler(dbClient, store))
	batchhandlers.InitBatchRouters(engine, batchhandlers.NewHandler(dbClient))
	adminhandlers.InitAdminRouters(engine, adminhandlers.NewHandler(dbClient))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine, nil
}

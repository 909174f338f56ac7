/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package batchhandlers

import (
	"github.com/gin-gonic/gin"

	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	"github.com/AMD-AGI/Primus-Batch/pkg/handlers/middleware"
)

// InitBatchRouters registers the batch API and the queue view.
func InitBatchRouters(e *gin.Engine, h *Handler) {
	group := e.Group("/v1/batches")
	{
		group.POST("", middleware.RateLimit("batches", config.GetRateLimitBatchesPerMin()), h.CreateBatch)
		group.GET("", h.ListBatches)
		group.GET(":id", h.GetBatch)
		group.POST(":id/cancel", h.CancelBatch)
	}
	e.GET("/v1/queue", h.GetQueue)
}

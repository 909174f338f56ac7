/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package filehandlers

import (
	"github.com/gin-gonic/gin"

	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	"github.com/AMD-AGI/Primus-Batch/pkg/handlers/middleware"
)

// InitFileRouters registers the file API. Uploads carry their own per-IP
// rate budget, separate from batch creation.
func InitFileRouters(e *gin.Engine, h *Handler) {
	group := e.Group("/v1/files")
	{
		group.POST("", middleware.RateLimit("files", config.GetRateLimitFilesPerMin()), h.UploadFile)
		group.GET("", h.ListFiles)
		group.GET(":id", h.GetFile)
		group.GET(":id/content", h.GetFileContent)
		group.DELETE(":id", h.DeleteFile)
	}
}

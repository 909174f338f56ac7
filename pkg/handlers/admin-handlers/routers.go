/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package adminhandlers

import (
	"github.com/gin-gonic/gin"
)

// InitAdminRouters registers health and the maintenance toggle.
func InitAdminRouters(e *gin.Engine, h *Handler) {
	e.GET("/health", h.Health)
	group := e.Group("/admin")
	{
		group.GET("maintenance", h.GetMaintenance)
		group.POST("maintenance", h.SetMaintenance)
	}
}

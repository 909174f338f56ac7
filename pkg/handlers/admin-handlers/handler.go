/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package adminhandlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/apis"
	"github.com/AMD-AGI/Primus-Batch/pkg/apiutils"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	dbclient "github.com/AMD-AGI/Primus-Batch/pkg/database/client"
	dbutils "github.com/AMD-AGI/Primus-Batch/pkg/database/utils"
	"github.com/AMD-AGI/Primus-Batch/pkg/errors"
)

type handleFunc func(*gin.Context) (interface{}, error)

// handle executes the handler function and processes the response/error.
func handle(c *gin.Context, fn handleFunc) {
	response, err := fn(c)
	if err != nil {
		apiutils.AbortWithApiError(c, err)
		return
	}
	code := http.StatusOK
	if c.Writer.Status() > 0 {
		code = c.Writer.Status()
	}
	c.JSON(code, response)
}

// Handler serves the operational endpoints: health and maintenance mode.
type Handler struct {
	dbClient dbclient.Interface
}

func NewHandler(dbClient dbclient.Interface) *Handler {
	return &Handler{dbClient: dbClient}
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	handle(c, h.health)
}

// GetMaintenance handles GET /admin/maintenance.
func (h *Handler) GetMaintenance(c *gin.Context) {
	handle(c, h.getMaintenance)
}

// SetMaintenance handles POST /admin/maintenance.
func (h *Handler) SetMaintenance(c *gin.Context) {
	handle(c, h.setMaintenance)
}

// health summarizes worker liveness, GPU state and maintenance mode. The
// endpoint itself always answers 200; degradation is in the body.
func (h *Handler) health(c *gin.Context) (interface{}, error) {
	ctx := c.Request.Context()
	rsp := apis.HealthResponse{Status: apis.HealthStatusHealthy}

	status, err := h.dbClient.GetSystemStatus(ctx)
	if err != nil {
		return nil, err
	}
	if status.MaintenanceMode {
		rsp.Status = apis.HealthStatusDegraded
		rsp.MaintenanceMode = true
		rsp.MaintenanceReason = dbutils.ParseNullString(status.MaintenanceReason)
		if status.MaintenanceEtaMinute.Valid {
			rsp.MaintenanceEtaMinute = int(status.MaintenanceEtaMinute.Int64)
		}
	}

	hb, err := h.dbClient.GetLatestWorkerHeartbeat(ctx)
	if err != nil {
		if !errors.IsNotFound(err) {
			return nil, err
		}
		rsp.Status = apis.HealthStatusDegraded
		return rsp, nil
	}
	age := time.Since(dbutils.ParseNullTime(hb.LastSeen))
	rsp.WorkerHeartbeatAgeS = age.Seconds()
	if age > time.Duration(config.GetHeartbeatStaleSecond())*time.Second {
		rsp.Status = apis.HealthStatusDegraded
	}
	if hb.GpuMemoryTotalBytes.Valid && hb.GpuMemoryTotalBytes.Int64 > 0 && hb.GpuMemoryUsedBytes.Valid {
		rsp.Gpu.MemoryPct = float64(hb.GpuMemoryUsedBytes.Int64) / float64(hb.GpuMemoryTotalBytes.Int64) * 100
	}
	if hb.GpuTemperatureC.Valid {
		rsp.Gpu.TemperatureC = hb.GpuTemperatureC.Float64
		if hb.GpuTemperatureC.Float64 > config.GetGpuTemperatureLimit() {
			rsp.Status = apis.HealthStatusDegraded
		}
	}
	return rsp, nil
}

func (h *Handler) getMaintenance(c *gin.Context) (interface{}, error) {
	status, err := h.dbClient.GetSystemStatus(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return cvtMaintenance(status), nil
}

// setMaintenance toggles maintenance mode. Entering it only stops new
// admissions; running jobs drain on their own.
func (h *Handler) setMaintenance(c *gin.Context) (interface{}, error) {
	var req apis.MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	ctx := c.Request.Context()
	if err := h.dbClient.SetMaintenance(ctx, req.Enabled, req.Reason, req.EtaMinutes); err != nil {
		return nil, err
	}
	status, err := h.dbClient.GetSystemStatus(ctx)
	if err != nil {
		return nil, err
	}
	klog.InfoS("maintenance mode toggled", "enabled", req.Enabled, "reason", req.Reason)
	return cvtMaintenance(status), nil
}

func cvtMaintenance(status *dbclient.SystemStatus) *apis.MaintenanceResponse {
	rsp := &apis.MaintenanceResponse{
		Enabled: status.MaintenanceMode,
		Reason:  dbutils.ParseNullString(status.MaintenanceReason),
	}
	if status.MaintenanceStartedAt.Valid {
		startedAt := status.MaintenanceStartedAt.Time.Unix()
		rsp.StartedAt = &startedAt
	}
	if status.MaintenanceEtaMinute.Valid {
		rsp.EtaMinutes = int(status.MaintenanceEtaMinute.Int64)
	}
	return rsp
}

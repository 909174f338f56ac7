/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/blob"
	"github.com/AMD-AGI/Primus-Batch/pkg/config"
	dbclient "github.com/AMD-AGI/Primus-Batch/pkg/database/client"
	"github.com/AMD-AGI/Primus-Batch/pkg/metrics"
)

const sweepTimeout = 2 * time.Minute

// Sweeper runs the periodic maintenance jobs: expiring overdue batches,
// releasing work orphaned by dead workers, refreshing queue positions and
// pruning aged rows and blobs. It runs inside the worker process so a
// single-binary deployment still gets all of them.
type Sweeper struct {
	dbClient dbclient.Interface
	store    blob.Store
	cron     *cron.Cron
}

func NewSweeper(dbClient dbclient.Interface, store blob.Store) *Sweeper {
	return &Sweeper{
		dbClient: dbClient,
		store:    store,
		cron:     cron.New(),
	}
}

// Start registers the schedules and launches the cron runner.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", s.minuteSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@hourly", s.hourlySweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) minuteSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if n, err := s.dbClient.MarkExpiredBatchJobs(ctx); err != nil {
		klog.ErrorS(err, "failed to expire overdue batches")
	} else if n > 0 {
		klog.InfoS("expired overdue batches", "count", n)
	}

	staleBefore := time.Now().UTC().Add(-time.Duration(config.GetHeartbeatStaleSecond()) * time.Second)
	if released, err := s.dbClient.ReleaseStaleBatchJobs(ctx, staleBefore); err != nil {
		klog.ErrorS(err, "failed to release stale batches")
	} else if len(released) > 0 {
		klog.InfoS("released batches from stale workers", "batchIds", released)
	}

	if err := s.dbClient.RefreshQueuePositions(ctx); err != nil {
		klog.ErrorS(err, "failed to refresh queue positions")
	}

	if depth, err := s.dbClient.CountQueueDepth(ctx); err != nil {
		klog.ErrorS(err, "failed to count queue depth")
	} else {
		metrics.QueueDepth.Set(float64(depth))
	}
}

func (s *Sweeper) hourlySweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	refs, err := s.dbClient.SweepExpiredFiles(ctx)
	if err != nil {
		klog.ErrorS(err, "failed to sweep expired files")
	}
	for _, ref := range refs {
		// Row is already tombstoned; a failed blob delete is retried by the
		// next sweep only if the backend reports the object on a later list,
		// so log loudly.
		if err = s.store.Delete(ctx, ref); err != nil {
			klog.ErrorS(err, "failed to delete expired blob", "ref", ref)
		}
	}
	if len(refs) > 0 {
		klog.InfoS("swept expired files", "count", len(refs))
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -config.GetFailedRequestRetentionDays())
	if n, err := s.dbClient.DeleteFailedRequestsBefore(ctx, cutoff); err != nil {
		klog.ErrorS(err, "failed to prune failed requests")
	} else if n > 0 {
		klog.InfoS("pruned failed requests", "count", n)
	}

	auditCutoff := time.Now().UTC().AddDate(0, 0, -config.GetAuditRetentionDays())
	if n, err := s.dbClient.DeleteAuditLogsBefore(ctx, auditCutoff); err != nil {
		klog.ErrorS(err, "failed to prune audit logs")
	} else if n > 0 {
		klog.InfoS("pruned audit logs", "count", n)
	}
}

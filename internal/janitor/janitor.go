// Package janitor deletes stored documents past their retention age on a
// cron schedule. Processed chunks are working material, not an archive;
// retention keeps the store from growing without bound.
package janitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hyperjump/wakeru/internal/store"
)

// Janitor runs retention sweeps against the store.
type Janitor struct {
	store    store.Store
	maxAge   time.Duration
	schedule string
	logger   *zap.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// New creates a janitor. maxAge of zero disables retention; schedule is a
// cron expression or descriptor like "@hourly".
func New(st store.Store, maxAge time.Duration, schedule string, logger *zap.Logger) *Janitor {
	return &Janitor{
		store:    st,
		maxAge:   maxAge,
		schedule: schedule,
		logger:   logger,
	}
}

// Start schedules periodic sweeps and returns. It is a no-op when retention
// is disabled or the janitor is already running.
func (j *Janitor) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return nil
	}
	if j.maxAge <= 0 {
		j.logger.Info("retention disabled, janitor not started")
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(j.schedule, j.runSweep); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", j.schedule, err)
	}
	c.Start()
	j.cron = c
	j.running = true
	j.logger.Info("janitor started",
		zap.String("schedule", j.schedule),
		zap.Duration("max_age", j.maxAge))
	return nil
}

// Sweep runs one retention pass immediately and returns the number of
// documents removed.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-j.maxAge)
	n, err := j.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("retention sweep: %w", err)
	}
	if n > 0 {
		j.logger.Info("retention sweep removed documents",
			zap.Int64("documents", n),
			zap.Time("cutoff", cutoff))
	}
	return n, nil
}

func (j *Janitor) runSweep() {
	if _, err := j.Sweep(context.Background()); err != nil {
		j.logger.Error("retention sweep failed", zap.Error(err))
	}
}

// Running reports whether the cron schedule is active.
func (j *Janitor) Running() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

// Stop stops the schedule and waits briefly for an in-flight sweep.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running {
		return
	}
	ctx := j.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Second):
		j.logger.Warn("janitor stop timed out")
	}
	j.cron = nil
	j.running = false
}

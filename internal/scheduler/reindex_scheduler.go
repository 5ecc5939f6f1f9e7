package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Reindexer recomputes stored variant identifiers.
type Reindexer interface {
	RegenerateAllIdentifiers(ctx context.Context, batchSize int) (int, error)
}

// ReindexScheduler periodically rebuilds variant identifiers so labels stay
// in step with attribute renames.
type ReindexScheduler struct {
	cron      *cron.Cron
	reindexer Reindexer
	spec      string
	batchSize int

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewReindexScheduler(reindexer Reindexer, spec string, batchSize int) *ReindexScheduler {
	return &ReindexScheduler{
		cron:      cron.New(),
		reindexer: reindexer,
		spec:      spec,
		batchSize: batchSize,
	}
}

// Start registers the job and starts the cron loop. The context bounds every
// run; cancelling it aborts a reindex in progress.
func (s *ReindexScheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for identifier reindex", err, map[string]interface{}{
			"schedule": s.spec,
		})
		s.cancel()
		return err
	}

	s.cron.Start()
	logger.Info("Reindex scheduler started", map[string]interface{}{
		"schedule":   s.spec,
		"batch_size": s.batchSize,
	})
	return nil
}

// RunOnce performs a single reindex. Overlapping runs are skipped.
func (s *ReindexScheduler) RunOnce() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		logger.Warn("Skipping reindex, previous run still in progress", nil)
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	runLog := logger.WithContext(map[string]interface{}{
		"run_id": uuid.NewString(),
	})
	runLog.Info("Starting scheduled identifier reindex", nil)

	started := time.Now()
	updated, err := s.reindexer.RegenerateAllIdentifiers(ctx, s.batchSize)
	if err != nil {
		runLog.Error("Scheduled identifier reindex failed", err)
		return
	}

	runLog.Info("Scheduled identifier reindex finished", map[string]interface{}{
		"updated":  updated,
		"duration": time.Since(started).String(),
	})
}

// Stop halts the cron loop and waits for a running job to return.
func (s *ReindexScheduler) Stop() {
	logger.Info("Stopping reindex scheduler...", nil)
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	logger.Info("Reindex scheduler stopped", nil)
}

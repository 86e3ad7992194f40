// Package service wires the row store, the matcher, the aggregator and the
// insight pipeline into the operations the HTTP API and the CLI expose.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/cohortinsights/internal/adapters/mq/queue"
	"github.com/okian/cohortinsights/internal/adapters/mq/worker"
	"github.com/okian/cohortinsights/internal/adapters/repository"
	"github.com/okian/cohortinsights/internal/domain/aggregate"
	"github.com/okian/cohortinsights/internal/domain/insight"
	"github.com/okian/cohortinsights/internal/domain/matcher"
	"github.com/okian/cohortinsights/pkg/logger"
	"github.com/okian/cohortinsights/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize   = 64
	defaultTaskTimeout = 5 * time.Minute
	shutdownTimeout    = 30 * time.Second
)

// Service implements the API dependencies for cohort dashboards and insights.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	generator  worker.Generator
	matcher    *matcher.Matcher
	aggregator *aggregate.Aggregator
	tracker    *insight.Tracker
	queue      queue.Queue
	pool       *worker.Pool

	// Configuration
	workerCount int
	queueSize   int
	taskTimeout time.Duration
	now         func() time.Time

	started bool
	logger  logger.Logger
}

// New constructs a Service reading rows from store and generating insights
// through gen.
func New(store repository.Store, gen worker.Generator, opts ...Option) *Service {
	s := &Service{
		store:       store,
		generator:   gen,
		matcher:     matcher.New(matcher.DefaultAliasTable()),
		aggregator:  aggregate.New(),
		tracker:     insight.NewTracker(),
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		taskTimeout: defaultTaskTimeout,
		now:         time.Now,
		logger:      logger.Get().Named("service"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start creates the insight queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithBufferSize(s.queueSize),
	)
	s.pool = worker.NewPool(s.workerCount, s.queue, s.generator, s.tracker,
		worker.WithTaskTimeout(s.taskTimeout),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "cohort insights service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.String("alias_version", s.matcher.Version()),
	)
	return nil
}

// Stop drains the insight queue and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping cohort insights service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(ctx, "store close failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "cohort insights service stopped")
}

// Matcher returns the matcher in use.
func (s *Service) Matcher() *matcher.Matcher { return s.matcher }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"aliasVersion":  s.matcher.Version(),
		"queueLength":   0,
		"activeWorkers": 0,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(context.Background())
		stats["activeWorkers"] = s.pool.Active()
		metrics.UpdateWorkerCount(s.pool.Size())
	}
	return stats
}

func (s *Service) running() (queue.Queue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, fmt.Errorf("insight jobs: %w", ErrNotStarted)
	}
	return s.queue, nil
}

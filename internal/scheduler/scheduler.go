// Package scheduler runs the periodic background work of the server: catalog
// refreshes and eviction of idle per-session state.
package scheduler

import (
	"context"
	"fmt"
	"time"

	applog "jobflow/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// HousekeepingSpec is how often idle state is evicted.
const HousekeepingSpec = "@every 5m"

// Reloader refetches a data set.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Pruner drops entries unused for longer than idle.
type Pruner interface {
	Prune(idle time.Duration) int
}

// Cleaner drops expired entries.
type Cleaner interface {
	Cleanup() int
}

// Options wires the jobs. A nil dependency or empty spec disables its job.
type Options struct {
	Catalog      Reloader
	RefreshSpec  string
	FetchTimeout time.Duration

	Chrome      Pruner
	IdleTimeout time.Duration

	RateLimiter Cleaner
}

// Scheduler wraps robfig/cron.
type Scheduler struct {
	cron   *cron.Cron
	opts   Options
	logger *zap.Logger
}

func New(opts Options, logger *zap.Logger) *Scheduler {
	logger = applog.OrNop(logger)
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 15 * time.Second
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 30 * time.Minute
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cronLogger{logger.Sugar()}), cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger.Sugar()}))),
		opts:   opts,
		logger: logger,
	}
}

// Start registers the jobs and starts the cron loop. ctx bounds every run.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.opts.Catalog != nil && s.opts.RefreshSpec != "" {
		if _, err := s.cron.AddFunc(s.opts.RefreshSpec, func() { s.RefreshCatalog(ctx) }); err != nil {
			return fmt.Errorf("schedule catalog refresh %q: %w", s.opts.RefreshSpec, err)
		}
	}
	if _, err := s.cron.AddFunc(HousekeepingSpec, s.Housekeep); err != nil {
		return fmt.Errorf("schedule housekeeping: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started",
		zap.String("refresh_spec", s.opts.RefreshSpec),
		zap.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// RefreshCatalog reloads the catalog once. A failed refresh keeps serving
// the previous snapshot.
func (s *Scheduler) RefreshCatalog(ctx context.Context) {
	if s.opts.Catalog == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	if err := s.opts.Catalog.Reload(ctx); err != nil {
		s.logger.Warn("Scheduled catalog refresh failed", zap.Error(err))
	}
}

// Housekeep evicts idle chrome and expired rate limit windows.
func (s *Scheduler) Housekeep() {
	var pruned, cleaned int
	if s.opts.Chrome != nil {
		pruned = s.opts.Chrome.Prune(s.opts.IdleTimeout)
	}
	if s.opts.RateLimiter != nil {
		cleaned = s.opts.RateLimiter.Cleanup()
	}
	if pruned > 0 || cleaned > 0 {
		s.logger.Debug("Housekeeping done",
			zap.Int("sessions_pruned", pruned),
			zap.Int("rate_limits_cleaned", cleaned),
		)
	}
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

package rfq

import (
	"context"
	"fmt"
	"time"

	"github.com/bazarlink/bazarlink-backend/pkg/config"
	"github.com/bazarlink/bazarlink-backend/pkg/logger"
	"github.com/bazarlink/bazarlink-backend/pkg/metrics"
)

const sweepJobName = "rfq_sweeper"

type locker interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name string) error
}

// Sweeper marks overdue RFQs and lapsed quotes as expired. A distributed
// lock keeps concurrent sweeper replicas from double-counting the same
// batch.
type Sweeper struct {
	repo    Repository
	lock    locker
	logg    *logger.Logger
	metrics *metrics.JobMetrics
	cfg     config.RFQConfig
}

// NewSweeper builds the sweeper. The locker may be nil for single-instance
// deployments and tests.
func NewSweeper(repo Repository, lock locker, logg *logger.Logger, jobMetrics *metrics.JobMetrics, cfg config.RFQConfig) (*Sweeper, error) {
	if repo == nil {
		return nil, fmt.Errorf("rfq repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = 200
	}
	return &Sweeper{
		repo:    repo,
		lock:    lock,
		logg:    logg,
		metrics: jobMetrics,
		cfg:     cfg,
	}, nil
}

// Run sweeps on the configured interval until the context is cancelled. It
// runs one sweep immediately so a fresh deploy does not wait a full tick.
func (s *Sweeper) Run(ctx context.Context) {
	interval := s.cfg.SweepInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	s.sweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if s.lock != nil {
		acquired, err := s.lock.AcquireLock(ctx, sweepJobName, s.cfg.SweepLockTTL)
		if err != nil {
			s.logg.Error(ctx, "sweep lock acquire failed", err)
			s.metrics.IncFailure(sweepJobName)
			return
		}
		if !acquired {
			return
		}
		defer func() {
			if err := s.lock.ReleaseLock(ctx, sweepJobName); err != nil {
				s.logg.Error(ctx, "sweep lock release failed", err)
			}
		}()
	}

	start := time.Now()
	rfqs, quotes, err := s.SweepOnce(ctx, start)
	s.metrics.ObserveDuration(sweepJobName, time.Since(start))
	if err != nil {
		s.logg.Error(ctx, "sweep failed", err)
		s.metrics.IncFailure(sweepJobName)
		return
	}
	s.metrics.IncSuccess(sweepJobName)
	if rfqs > 0 || quotes > 0 {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"expired_rfqs":   rfqs,
			"expired_quotes": quotes,
		})
		s.logg.Info(ctx, "sweep expired stale negotiations")
	}
}

// SweepOnce expires one batch of overdue RFQs and lapsed quotes as of now.
// It returns how many of each it marked.
func (s *Sweeper) SweepOnce(ctx context.Context, now time.Time) (int64, int64, error) {
	ids, err := s.repo.FindExpiredRFQIDs(ctx, now, s.cfg.SweepBatchSize)
	if err != nil {
		return 0, 0, fmt.Errorf("finding expired rfqs: %w", err)
	}

	var rfqCount int64
	if len(ids) > 0 {
		rfqCount, err = s.repo.ExpireRFQs(ctx, ids)
		if err != nil {
			return 0, 0, fmt.Errorf("expiring rfqs: %w", err)
		}
		s.metrics.AddExpired("rfq", int(rfqCount))
	}

	quoteCount, err := s.repo.ExpireQuotes(ctx, now, s.cfg.SweepBatchSize)
	if err != nil {
		return rfqCount, 0, fmt.Errorf("expiring quotes: %w", err)
	}
	s.metrics.AddExpired("quote", int(quoteCount))

	return rfqCount, quoteCount, nil
}

// Package sweep runs the periodic pass that finalizes publications left
// unopposed past the objection window.
package sweep

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is how often the sweep runs when the config leaves it unset.
const DefaultInterval = time.Hour

// Finalizer is the single service operation the sweeper drives.
type Finalizer interface {
	SweepStalePublications(ctx context.Context) (int64, error)
}

type Sweeper struct {
	service  Finalizer
	interval time.Duration
	logger   *zap.Logger
}

func New(service Finalizer, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		service:  service,
		interval: interval,
		logger:   logger.Named("sweeper"),
	}
}

// Run executes one pass immediately, then keeps sweeping on the interval
// until the context is canceled. Each pass is idempotent, so a missed or
// doubled tick changes nothing.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("sweeper started", zap.Duration("interval", s.interval))
	for {
		s.sweepOnce(ctx)
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-time.After(s.interval):
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	count, err := s.service.SweepStalePublications(ctx)
	if err != nil {
		s.logger.Error("sweep pass failed", zap.Error(err))
		return
	}
	if count > 0 {
		s.logger.Info("sweep pass finished", zap.Int64("finalized", count))
	}
}

// Package sequencer assigns the per-year objection numbers and the 13-digit
// tracking codes. Allocation is an explicit two-phase call made by the
// service layer before the row is built, not a side effect buried in the
// persistence hooks.
package sequencer

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/cenkalti/backoff/v4"
	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"go.uber.org/zap"
)

// CodeLength is the fixed width of a tracking code.
const CodeLength = 13

// maxAttempts bounds the integrity-error retries before the failure is
// surfaced to the caller.
const maxAttempts = 3

// Store is the slice of the repository the sequencer reads.
type Store interface {
	MaxObjectionNumber(ctx context.Context, year int) (int, error)
	ObjectionCodeExists(ctx context.Context, code string) (bool, error)
}

type Sequencer struct {
	mu     sync.Mutex
	store  Store
	logger *zap.Logger
}

func New(store Store, logger *zap.Logger) *Sequencer {
	return &Sequencer{
		store:  store,
		logger: logger.Named("sequencer"),
	}
}

// WithNextNumber computes the next objection number for the year (max
// assigned so far plus one, or 1 for the first of the year) and hands it
// to insert. The mutex serializes in-process callers; a concurrent writer
// from another process trips the (number, year) unique index, which insert
// reports as ErrDuplicateNumber and the sequencer retries with a fresh
// number. Any other insert failure aborts immediately.
func (s *Sequencer) WithNextNumber(ctx context.Context, year int, insert func(number int) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt := 0
	op := func() error {
		attempt++
		max, err := s.store.MaxObjectionNumber(ctx, year)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read max number for %d: %w", year, err))
		}
		if err := insert(max + 1); err != nil {
			if errors.Is(err, e.ErrDuplicateNumber) {
				s.logger.Warn("number collision, recomputing",
					zap.Int("year", year),
					zap.Int("number", max+1),
					zap.Int("attempt", attempt),
				)
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxAttempts), ctx)
	return backoff.Retry(op, bo)
}

// TrackingCode draws random 13-digit codes until one is unused. The code
// space is 10^13, so in practice the loop exits on the first draw; the
// attempt cap is there so a store failure mode cannot spin forever.
func (s *Sequencer) TrackingCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 100; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate tracking code: %w", err)
		}
		exists, err := s.store.ObjectionCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		s.logger.Warn("tracking code collision, regenerating", zap.Int("attempt", attempt+1))
	}
	return "", fmt.Errorf("%w: exhausted tracking code attempts", e.ErrDuplicateCode)
}

func randomCode() (string, error) {
	code := make([]byte, CodeLength)
	for i := range code {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code[i] = '0' + byte(d.Int64())
	}
	return string(code), nil
}

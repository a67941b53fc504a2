package sequencer

import (
	"context"
	"sync"
	"testing"

	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// memoryStore mimics the repository's view of assigned numbers and codes.
type memoryStore struct {
	mu      sync.Mutex
	numbers map[int]map[int]bool
	codes   map[string]bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		numbers: make(map[int]map[int]bool),
		codes:   make(map[string]bool),
	}
}

func (s *memoryStore) MaxObjectionNumber(_ context.Context, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := 0
	for n := range s.numbers[year] {
		if n > max {
			max = n
		}
	}
	return max, nil
}

func (s *memoryStore) ObjectionCodeExists(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[code], nil
}

func (s *memoryStore) insert(year, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.numbers[year] == nil {
		s.numbers[year] = make(map[int]bool)
	}
	if s.numbers[year][number] {
		return e.ErrDuplicateNumber
	}
	s.numbers[year][number] = true
	return nil
}

func TestWithNextNumberStartsAtOne(t *testing.T) {
	store := newMemoryStore()
	seq := New(store, zaptest.NewLogger(t))
	ctx := context.Background()

	var got int
	err := seq.WithNextNumber(ctx, 2024, func(number int) error {
		got = number
		return store.insert(2024, number)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got, "first number of a year should be 1")
}

func TestWithNextNumberIsContiguousPerYear(t *testing.T) {
	store := newMemoryStore()
	seq := New(store, zaptest.NewLogger(t))
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		var got int
		err := seq.WithNextNumber(ctx, 2024, func(number int) error {
			got = number
			return store.insert(2024, number)
		})
		require.NoError(t, err)
		assert.Equal(t, i, got, "numbers should be assigned without gaps")
	}

	// A different year restarts from 1.
	var got int
	err := seq.WithNextNumber(ctx, 2025, func(number int) error {
		got = number
		return store.insert(2025, number)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got, "each year keeps its own sequence")
}

func TestWithNextNumberConcurrent(t *testing.T) {
	store := newMemoryStore()
	seq := New(store, zaptest.NewLogger(t))
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := seq.WithNextNumber(ctx, 2024, func(number int) error {
				return store.insert(2024, number)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	max, err := store.MaxObjectionNumber(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, workers, max, "every insert should get a distinct contiguous number")
	assert.Len(t, store.numbers[2024], workers)
}

func TestWithNextNumberRetriesOnCollision(t *testing.T) {
	store := newMemoryStore()
	seq := New(store, zaptest.NewLogger(t))
	ctx := context.Background()

	// Simulate an external writer stealing the first computed number.
	calls := 0
	err := seq.WithNextNumber(ctx, 2024, func(number int) error {
		calls++
		if calls == 1 {
			require.NoError(t, store.insert(2024, number))
			return e.ErrDuplicateNumber
		}
		return store.insert(2024, number)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "a duplicate should retry with a recomputed number")
}

func TestWithNextNumberPermanentFailure(t *testing.T) {
	store := newMemoryStore()
	seq := New(store, zaptest.NewLogger(t))
	ctx := context.Background()

	calls := 0
	err := seq.WithNextNumber(ctx, 2024, func(int) error {
		calls++
		return context.DeadlineExceeded
	})
	assert.Error(t, err, "non-duplicate insert failures should surface")
	assert.Equal(t, 1, calls, "non-duplicate failures should not retry")
}

func TestTrackingCodeFormat(t *testing.T) {
	store := newMemoryStore()
	seq := New(store, zaptest.NewLogger(t))
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := seq.TrackingCode(ctx)
		require.NoError(t, err)
		assert.Len(t, code, CodeLength, "codes should always be 13 characters")
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "codes should be all digits")
		}
		assert.False(t, seen[code], "codes should not repeat")
		seen[code] = true
		store.codes[code] = true
	}
}

func TestTrackingCodeRegeneratesOnCollision(t *testing.T) {
	store := newMemoryStore()
	seq := New(store, zaptest.NewLogger(t))
	ctx := context.Background()

	// Force the first lookups to report a collision.
	lookups := 0
	collider := &collidingStore{inner: store, collisions: 3, lookups: &lookups}
	seq = New(collider, zaptest.NewLogger(t))

	code, err := seq.TrackingCode(ctx)
	require.NoError(t, err)
	assert.Len(t, code, CodeLength)
	assert.Equal(t, 4, lookups, "the sequencer should redraw until the code is unused")
}

type collidingStore struct {
	inner      *memoryStore
	collisions int
	lookups    *int
}

func (s *collidingStore) MaxObjectionNumber(ctx context.Context, year int) (int, error) {
	return s.inner.MaxObjectionNumber(ctx, year)
}

func (s *collidingStore) ObjectionCodeExists(ctx context.Context, code string) (bool, error) {
	*s.lookups++
	if *s.lookups <= s.collisions {
		return true, nil
	}
	return s.inner.ObjectionCodeExists(ctx, code)
}

// Package latency puts an artificial round-trip delay in front of store calls,
// standing in for the network hop a real backend would add.
package latency

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Simulator delays each call by a duration drawn uniformly from [Min, Max].
// The zero value adds no delay.
type Simulator struct {
	Min time.Duration
	Max time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

func New(min, max time.Duration, seed int64) *Simulator {
	return &Simulator{
		Min: min,
		Max: max,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// None returns a simulator with no delay, for tests and batch tools.
func None() *Simulator {
	return &Simulator{}
}

func (s *Simulator) next() time.Duration {
	if s == nil || s.Max <= 0 {
		return 0
	}
	if s.Max <= s.Min {
		return s.Min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s.Min + time.Duration(s.rng.Int63n(int64(s.Max-s.Min)+1))
}

// Wait blocks for one simulated round trip or until ctx is done.
func (s *Simulator) Wait(ctx context.Context) error {
	d := s.next()
	if d == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do waits one round trip, then runs fn. fn runs to completion once started.
func Do[T any](ctx context.Context, s *Simulator, fn func(ctx context.Context) (T, error)) (T, error) {
	if err := s.Wait(ctx); err != nil {
		var zero T
		return zero, err
	}
	return fn(ctx)
}

// Exec is Do for operations without a result.
func Exec(ctx context.Context, s *Simulator, fn func(ctx context.Context) error) error {
	_, err := Do(ctx, s, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LimiterSuite struct {
	suite.Suite
	now     time.Time
	nowMu   sync.Mutex
	limiter *Limiter
	slept   []time.Duration
}

func TestLimiterSuite(t *testing.T) {
	suite.Run(t, new(LimiterSuite))
}

func (s *LimiterSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.slept = nil

	l, err := PerMinute("test", 60)
	s.Require().NoError(err)
	l.clock = s.clock
	// Simulated sleep: advance the fake clock instead of blocking.
	l.sleep = func(ctx context.Context, d time.Duration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.slept = append(s.slept, d)
		s.advance(d)
		return nil
	}
	l.lastRefill = s.clock()
	s.limiter = l
}

func (s *LimiterSuite) clock() time.Time {
	s.nowMu.Lock()
	defer s.nowMu.Unlock()
	return s.now
}

func (s *LimiterSuite) advance(d time.Duration) {
	s.nowMu.Lock()
	defer s.nowMu.Unlock()
	s.now = s.now.Add(d)
}

func (s *LimiterSuite) TestRejectsNonPositiveRate() {
	_, err := PerMinute("bad", 0)
	s.Error(err)
	_, err = PerMinute("bad", -5)
	s.Error(err)
}

func (s *LimiterSuite) TestBurstUpToCapacity() {
	for i := 0; i < 60; i++ {
		require.True(s.T(), s.limiter.TryAcquire(), "permit %d", i+1)
	}
	s.False(s.limiter.TryAcquire())
}

func (s *LimiterSuite) TestSixtyFirstRequestDelayedNotDropped() {
	ctx := context.Background()
	for i := 0; i < 60; i++ {
		s.Require().NoError(s.limiter.Acquire(ctx))
	}
	s.Empty(s.slept, "first 60 permits should not wait")

	// 61st must wait for at least one refill interval (1s at 60/min).
	s.Require().NoError(s.limiter.Acquire(ctx))
	s.Require().Len(s.slept, 1)
	s.GreaterOrEqual(s.slept[0], time.Second)
}

func (s *LimiterSuite) TestRefillRestoresPermits() {
	for i := 0; i < 60; i++ {
		s.limiter.TryAcquire()
	}
	s.False(s.limiter.TryAcquire())

	s.advance(2 * time.Second)
	s.True(s.limiter.TryAcquire())
	s.True(s.limiter.TryAcquire())
	s.False(s.limiter.TryAcquire())
}

func (s *LimiterSuite) TestRefillCapsAtCapacity() {
	s.advance(time.Hour)
	s.Equal(60, s.limiter.Available())
}

func (s *LimiterSuite) TestAcquireHonorsContextCancellation() {
	ctx := context.Background()
	for i := 0; i < 60; i++ {
		s.Require().NoError(s.limiter.Acquire(ctx))
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.limiter.Acquire(cancelled)
	s.ErrorIs(err, context.Canceled)
}

func (s *LimiterSuite) TestConcurrentAcquireNeverOverAdmits() {
	l, err := PerMinute("concurrent", 10)
	s.Require().NoError(err)

	var granted int64
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryAcquire() {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(int64(10), granted)
}

package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type expiredTokenDeleterStub struct {
	mu      sync.Mutex
	calls   int
	lastNow time.Time
	deleted int64
	err     error
}

func (s *expiredTokenDeleterStub) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastNow = now
	return s.deleted, s.err
}

func (s *expiredTokenDeleterStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestSweep_PassesNow(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &expiredTokenDeleterStub{deleted: 3}
	job := NewVerificationTokenSweeper(repo, time.Minute)
	job.nowFunc = func() time.Time { return fixed }

	job.sweep(context.Background())
	require.Equal(t, 1, repo.calls)
	require.Equal(t, fixed, repo.lastNow)
}

func TestSweep_ErrorAndEmpty(t *testing.T) {
	repo := &expiredTokenDeleterStub{err: errors.New("db down")}
	job := NewVerificationTokenSweeper(repo, time.Minute)
	job.sweep(context.Background())
	require.Equal(t, 1, repo.calls)

	repo.err = nil
	job.sweep(context.Background())
	require.Equal(t, 2, repo.calls)
}

func TestStart_StopsOnStop(t *testing.T) {
	repo := &expiredTokenDeleterStub{}
	job := NewVerificationTokenSweeper(repo, time.Millisecond)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return repo.callCount() > 0 }, time.Second, time.Millisecond)
	job.Stop()
	job.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	job := NewVerificationTokenSweeper(&expiredTokenDeleterStub{}, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"quizhub/internal/cache"
	"quizhub/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSweep struct {
	calls int32
	err   error
}

func (m *mockSweep) Run(ctx context.Context, now time.Time) (*service.SweepResult, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.err != nil {
		return nil, m.err
	}
	return &service.SweepResult{Processed: 2}, nil
}

type mockRelay struct {
	calls int32
	err   error
}

func (m *mockRelay) Deliver(ctx context.Context, authID string, attempts int, now time.Time) error {
	return nil
}

func (m *mockRelay) RelayDue(ctx context.Context, now time.Time) (service.RelayResult, error) {
	atomic.AddInt32(&m.calls, 1)
	return service.RelayResult{Delivered: 1}, m.err
}

// mockLocker is an in-memory lease table.
type mockLocker struct {
	mu      sync.Mutex
	held    map[string]string
	unlocks []string
}

func newMockLocker() *mockLocker {
	return &mockLocker{held: map[string]string{}}
}

func (m *mockLocker) TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[key]; ok {
		return false, nil
	}
	m.held[key] = token
	return true, nil
}

func (m *mockLocker) Unlock(ctx context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] == token {
		delete(m.held, key)
	}
	m.unlocks = append(m.unlocks, token)
	return nil
}

func TestSweeper_RunOnce(t *testing.T) {
	sweep, relay, locker := &mockSweep{}, &mockRelay{}, newMockLocker()
	s := NewSweeper(sweep, relay, locker, time.Minute)
	s.newToken = func() string { return "token-1" }

	ran, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.EqualValues(t, 1, sweep.calls)
	assert.EqualValues(t, 1, relay.calls)
	assert.Equal(t, []string{"token-1"}, locker.unlocks)
	assert.Empty(t, locker.held, "lease is released after the run")
}

func TestSweeper_SkipsWhenLeaseHeld(t *testing.T) {
	sweep, relay, locker := &mockSweep{}, &mockRelay{}, newMockLocker()
	locker.held[cache.JobLockKey(SweepJob)] = "other-instance"
	s := NewSweeper(sweep, relay, locker, time.Minute)

	ran, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Zero(t, sweep.calls)
	assert.Zero(t, relay.calls)
	assert.Equal(t, "other-instance", locker.held[cache.JobLockKey(SweepJob)])
}

func TestSweeper_RelaysEvenWhenSweepFails(t *testing.T) {
	sweep := &mockSweep{err: errors.New("db down")}
	relay := &mockRelay{}
	s := NewSweeper(sweep, relay, nil, time.Minute)

	ran, err := s.RunOnce(context.Background())
	assert.True(t, ran)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.EqualValues(t, 1, relay.calls)
}

func TestSweeper_StartStopsOnCancel(t *testing.T) {
	sweep, relay := &mockSweep{}, &mockRelay{}
	s := NewSweeper(sweep, relay, newMockLocker(), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&sweep.calls) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

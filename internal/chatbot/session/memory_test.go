package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 10, 29, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	st, err := s.Create(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, st.FollowUpCount)
	assert.Empty(t, st.CurrentIntent)
	assert.NotNil(t, st.Context)

	_, err = s.Update(ctx, "s1", func(st *State) error {
		st.FollowUpCount = 2
		return nil
	})
	require.NoError(t, err)

	// Create on a known id keeps the existing state.
	st, err = s.Create(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, st.FollowUpCount)

	n, _ := s.Len(ctx)
	assert.Equal(t, 1, n)
}

func TestMemoryStore_UpdateCreatesLazily(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	st, err := s.Update(ctx, "fresh", func(st *State) error {
		st.CurrentIntent = "card_arrival"
		st.FollowUpCount++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "card_arrival", st.CurrentIntent)
	assert.Equal(t, 1, st.FollowUpCount)

	got, err := s.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestMemoryStore_FailedUpdateWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Update(ctx, "s1", func(st *State) error {
		st.FollowUpCount = 1
		st.Context["k"] = "v"
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = s.Update(ctx, "s1", func(st *State) error {
		st.FollowUpCount = 3
		st.Context["k"] = "changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.FollowUpCount)
	assert.Equal(t, "v", got.Context["k"])
}

func TestMemoryStore_ReturnedStateIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	st, err := s.Create(ctx, "s1")
	require.NoError(t, err)

	st.Context["leak"] = true
	st.FollowUpCount = 3

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.FollowUpCount)
	assert.NotContains(t, got.Context, "leak")
}

func TestMemoryStore_ConcurrentUpdatesSameSession(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "shared", func(st *State) error {
				n, _ := st.Context["n"].(int)
				st.Context["n"] = n + 1
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, workers, got.Context["n"])
}

func TestMemoryStore_ConcurrentDistinctSessions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", i)
			for j := 0; j < 3; j++ {
				_, err := s.Update(ctx, id, func(st *State) error {
					st.FollowUpCount++
					return nil
				})
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	n, _ := s.Len(ctx)
	assert.Equal(t, 20, n)
	got, err := s.Get(ctx, "s-7")
	require.NoError(t, err)
	assert.Equal(t, 3, got.FollowUpCount)
}

func TestMemoryStore_SweepAndDelete(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	s := NewMemoryStore(WithClock(clock.Now))

	_, _ = s.Create(ctx, "old")
	clock.Advance(20 * time.Minute)
	_, _ = s.Create(ctx, "recent")
	clock.Advance(15 * time.Minute)

	evicted, err := s.Sweep(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)

	_, err = s.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "recent")
	assert.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "recent"))
	require.NoError(t, s.Delete(ctx, "never-existed"))
	n, _ := s.Len(ctx)
	assert.Equal(t, 0, n)
}

func TestMemoryStore_UpdateRefreshesIdleClock(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	s := NewMemoryStore(WithClock(clock.Now))

	_, _ = s.Create(ctx, "s1")
	clock.Advance(25 * time.Minute)
	_, err := s.Update(ctx, "s1", func(st *State) error { return nil })
	require.NoError(t, err)
	clock.Advance(25 * time.Minute)

	evicted, _ := s.Sweep(ctx, 30*time.Minute)
	assert.Equal(t, 0, evicted)
}

func TestMemoryStore_PanickingUpdateReleasesSession(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	assert.Panics(t, func() {
		_, _ = s.Update(ctx, "s1", func(*State) error { panic("boom") })
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Sweep(ctx, time.Hour)
		st, err := s.Update(ctx, "s1", func(st *State) error {
			st.FollowUpCount = 1
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, st.FollowUpCount)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("store stayed locked after a panicking update")
	}
}

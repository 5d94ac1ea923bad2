package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"banking-chatbot/internal/common/logger"
)

func TestSweeper_SweepOnce(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStore(WithClock(clock.Now))

	_, _ = store.Create(ctx, "a")
	_, _ = store.Create(ctx, "b")
	clock.Advance(time.Hour)
	_, _ = store.Create(ctx, "c")

	sw := NewSweeper(store, 30*time.Minute, time.Minute, logger.NewTestLogger(t))
	assert.Equal(t, 2, sw.SweepOnce(ctx))

	n, _ := store.Len(ctx)
	assert.Equal(t, 1, n)
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewMemoryStore()
	sw := NewSweeper(store, time.Millisecond, time.Millisecond, nil)

	done := make(chan error, 1)
	go func() { done <- sw.Run(ctx) }()

	_, _ = store.Create(context.Background(), "s1")
	require.Eventually(t, func() bool {
		n, _ := store.Len(context.Background())
		return n == 0
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSweeper_Disabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sw := NewSweeper(NewMemoryStore(), 0, time.Second, nil)
	assert.NoError(t, sw.Run(ctx))
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "", 30*time.Minute), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniredisStore(t)

	_, err := s.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	st, err := s.Update(ctx, "s1", func(st *State) error {
		st.CurrentIntent = "card_swallowed"
		st.FollowUpCount = 1
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, st.FollowUpCount)

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "card_swallowed", got.CurrentIntent)
	assert.Equal(t, 1, got.FollowUpCount)

	assert.True(t, mr.Exists("chat_session:s1"))
	assert.Equal(t, 30*time.Minute, mr.TTL("chat_session:s1"))

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Delete(ctx, "s1"))
	assert.False(t, mr.Exists("chat_session:s1"))
}

func TestRedisStore_CreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newMiniredisStore(t)

	_, err := s.Update(ctx, "s1", func(st *State) error {
		st.FollowUpCount = 2
		return nil
	})
	require.NoError(t, err)

	st, err := s.Create(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, st.FollowUpCount)
}

func TestRedisStore_FailedUpdateWritesNothing(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniredisStore(t)

	boom := errors.New("boom")
	_, err := s.Update(ctx, "s1", func(st *State) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("chat_session:s1"))
}

func TestRedisStore_ExpiresIdleSessions(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniredisStore(t)

	_, err := s.Create(ctx, "s1")
	require.NoError(t, err)

	mr.FastForward(31 * time.Minute)

	_, err = s.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	evicted, err := s.Sweep(ctx, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, evicted)
}

func TestRedisStore_LenIgnoresOtherKeys(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniredisStore(t)

	require.NoError(t, mr.Set("unrelated", "x"))
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.Create(ctx, id)
		require.NoError(t, err)
	}

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRedisStore_CreateReturnsExistingState(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, "test:", time.Minute)
	fixed := time.Date(2024, 10, 29, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	fresh, err := json.Marshal(newState(fixed))
	require.NoError(t, err)
	existing, err := json.Marshal(State{CurrentIntent: "exchange_rate", FollowUpCount: 1})
	require.NoError(t, err)

	mock.ExpectSetNX("test:s1", fresh, time.Minute).SetVal(false)
	mock.ExpectGet("test:s1").SetVal(string(existing))

	st, err := s.Create(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "exchange_rate", st.CurrentIntent)
	assert.Equal(t, 1, st.FollowUpCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Errors(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, "test:", time.Minute)

	mock.ExpectGet("test:s1").SetErr(errors.New("connection refused"))
	_, err := s.Get(ctx, "s1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")

	mock.ExpectGet("test:s2").SetVal("{not json")
	_, err = s.Get(ctx, "s2")
	assert.ErrorContains(t, err, "decode session")

	mock.ExpectDel("test:s3").SetErr(errors.New("readonly"))
	assert.ErrorContains(t, s.Delete(ctx, "s3"), "readonly")

	assert.NoError(t, mock.ExpectationsWereMet())
}

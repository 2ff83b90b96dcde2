package repository

import (
	"adaptive_learning_backend/internal/model"
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func events(n int, start time.Time) []model.InteractionEvent {
	out := make([]model.InteractionEvent, n)
	for i := range out {
		out[i] = model.InteractionEvent{
			Type:      model.EventAnswerSubmitted,
			Timestamp: start.Add(time.Duration(i) * time.Second),
			Correct:   model.BoolPtr(i%2 == 0),
		}
	}
	return out
}

func exerciseBuffer(t *testing.T, buf EventBuffer) {
	ctx := context.Background()
	session := uuid.NewString()
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	got, err := buf.Events(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, buf.Append(ctx, session, events(60, start)...))
	got, err = buf.Events(ctx, session)
	require.NoError(t, err)
	require.Len(t, got, model.MaxSessionEvents)
	// 最早的 10 个被丢弃
	assert.True(t, got[0].Timestamp.Equal(start.Add(10*time.Second)))

	require.NoError(t, buf.Clear(ctx, session))
	got, err = buf.Events(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryEventBuffer(t *testing.T) {
	exerciseBuffer(t, NewMemoryEventBuffer(time.Hour))
}

func TestMemoryEventBuffer_Expiry(t *testing.T) {
	buf := NewMemoryEventBuffer(time.Minute)
	now := time.Now()
	buf.now = func() time.Time { return now }

	require.NoError(t, buf.Append(context.Background(), "s", events(3, now)...))
	now = now.Add(2 * time.Minute)

	got, err := buf.Events(context.Background(), "s")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, buf.Append(context.Background(), "s2", events(1, now)...))
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, buf.Sweep())
}

// 需要本地 Redis：REDIS_ADDR=localhost:6379 go test ./...
func TestRedisEventBuffer(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())

	exerciseBuffer(t, NewRedisEventBuffer(rdb, time.Minute))
}

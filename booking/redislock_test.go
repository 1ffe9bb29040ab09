package booking

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLocker(t *testing.T, mr *miniredis.Miniredis, logger *slog.Logger) *RedisLocker {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        mr.Addr(),
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisLocker(rdb, time.Second, 5*time.Millisecond, "test", logger)
}

func TestRedisLocker_HeldLockBlocksUntilContextDone(t *testing.T) {
	// GIVEN: a held lock on k
	mr := miniredis.RunT(t)
	l := newTestRedisLocker(t, mr, nil)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	// WHEN: a second holder asks for k with a short deadline
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = l.Lock(ctx, "k")

	// THEN: it waits for the deadline and gives up
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	// AND: other keys are unaffected
	other, err := l.Lock(context.Background(), "other")
	require.NoError(t, err)
	other()
}

func TestRedisLocker_RelockAfterUnlock(t *testing.T) {
	mr := miniredis.RunT(t)
	l := newTestRedisLocker(t, mr, nil)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:k"))

	unlock()
	assert.False(t, mr.Exists("test:k"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	again, err := l.Lock(ctx, "k")
	require.NoError(t, err)
	again()
}

func TestRedisLocker_ExpiredLockTakenOverAndStaleUnlockIgnored(t *testing.T) {
	// GIVEN: a holder whose lock outlives its TTL
	mr := miniredis.RunT(t)
	l := newTestRedisLocker(t, mr, nil)

	stale, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)
	require.False(t, mr.Exists("test:k"))

	// WHEN: a new holder takes the lock
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	current, err := l.Lock(ctx, "k")
	require.NoError(t, err)
	token, err := mr.Get("test:k")
	require.NoError(t, err)

	// AND: the stale holder releases
	stale()

	// THEN: the new holder's key stays in place
	got, err := mr.Get("test:k")
	require.NoError(t, err)
	assert.Equal(t, token, got)

	current()
	assert.False(t, mr.Exists("test:k"))
}

func TestRedisLocker_FailedReleaseLogsWarning(t *testing.T) {
	// GIVEN: a held lock and a Redis that goes away
	mr, err := miniredis.Run()
	require.NoError(t, err)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l := newTestRedisLocker(t, mr, logger)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	mr.Close()

	// WHEN: releasing
	unlock()

	// THEN: the failure is reported with the key
	out := buf.String()
	assert.Contains(t, out, "lock release failed")
	assert.Contains(t, out, "key=test:k")
	assert.Contains(t, out, "level=WARN")
}

package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLocker is a Locker shared by every engine instance pointing at the same
// Redis. The lock is a key set with NX and a TTL; release deletes it only if
// the token still matches, so an expired lock taken over by another holder is
// never released by the previous one.
type RedisLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	retry  time.Duration
	prefix string
	logger *slog.Logger
}

var redisReleaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// NewRedisLocker creates a locker on rdb. A nil logger uses slog.Default.
func NewRedisLocker(rdb *redis.Client, ttl, retry time.Duration, prefix string, logger *slog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if retry <= 0 {
		retry = 25 * time.Millisecond
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "lock"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{rdb: rdb, ttl: ttl, retry: retry, prefix: prefix, logger: logger.With("component", "lock")}
}

func (l *RedisLocker) key(key string) string { return l.prefix + ":" + key }

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := l.key(key)
	token := uuid.NewString()

	for {
		ok, err := l.rdb.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	return func() {
		// Release must not depend on the caller's context being alive.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := redisReleaseScript.Run(releaseCtx, l.rdb, []string{k}, token).Err(); err != nil {
			// The key stays until its TTL expires.
			l.logger.Warn("lock release failed", "key", k, "ttl", l.ttl.String(), "error", err)
		}
	}, nil
}

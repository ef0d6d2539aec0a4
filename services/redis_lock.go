package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	lockKeyPrefix   = "withdrawal_lock:"
	lockTTL         = 15 * time.Second
	lockRetryDelay  = 100 * time.Millisecond
	lockMaxAttempts = 50
)

// RedisEarnerLocker serializes withdrawal requests per earner across
// server instances with a SETNX lock. The TTL bounds how long a crashed
// holder can block an earner.
type RedisEarnerLocker struct {
	client *redis.Client
}

func NewRedisEarnerLocker(client *redis.Client) *RedisEarnerLocker {
	return &RedisEarnerLocker{client: client}
}

func (l *RedisEarnerLocker) Lock(ctx context.Context, earnerID string) (func(), error) {
	key := lockKeyPrefix + earnerID
	for attempt := 0; attempt < lockMaxAttempts; attempt++ {
		acquired, err := l.client.SetNX(ctx, key, "1", lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if acquired {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				l.client.Del(releaseCtx, key)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return nil, errors.New("could not acquire withdrawal lock for earner " + earnerID)
}

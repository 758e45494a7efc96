package cache

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockTimeout = errors.New("timed out waiting for lock")

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// KeyedLock is a per-key mutex shared by every process using the same Redis.
type KeyedLock struct {
	client *redis.Client

	TTL      time.Duration
	MaxWait  time.Duration
	RetryGap time.Duration
}

func NewKeyedLock(client *redis.Client) *KeyedLock {
	return &KeyedLock{
		client:   client,
		TTL:      30 * time.Second,
		MaxWait:  10 * time.Second,
		RetryGap: 50 * time.Millisecond,
	}
}

// Lock blocks until key is free, MaxWait passes or ctx ends. The returned
// func releases the lock and is safe to call once.
func (l *KeyedLock) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.MaxWait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		t := time.NewTimer(l.RetryGap)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (l *KeyedLock) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		log.Warnf("[Cache] failed to release lock %s: %v", key, err)
	}
}

// Package lock keeps two bulk imports of the same kind from running at the
// same time, across processes when Redis is configured.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLocked = errors.New("lock already held")

type Locker interface {
	// Acquire returns a release func, or ErrLocked when another holder has
	// the name.
	Acquire(ctx context.Context, name string) (release func(), err error)
}

type RedisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{rdb: rdb, ttl: ttl}
}

func key(name string) string { return fmt.Sprintf("keyloan:lock:%s", name) }

// compare-and-delete so an expired holder cannot release a newer lock
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *RedisLocker) Acquire(ctx context.Context, name string) (func(), error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, key(name), token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", name, err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		// the caller's ctx may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.rdb, []string{key(name)}, token).Err()
	}, nil
}

// LocalLocker is the in-process fallback used when Redis is not configured.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewLocalLocker() *LocalLocker { return &LocalLocker{held: map[string]bool{}} }

func (l *LocalLocker) Acquire(_ context.Context, name string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[name] {
		return nil, ErrLocked
	}
	l.held[name] = true
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, name)
			l.mu.Unlock()
		})
	}, nil
}

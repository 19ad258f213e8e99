// Package loginguard throttles password guessing per account.
package loginguard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultMaxFailures = 5
	DefaultWindow      = 15 * time.Minute
)

type Guard interface {
	// Allowed is false once the account hit MaxFailures inside the window
	Allowed(ctx context.Context, email string) (bool, error)
	Fail(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

func key(email string) string {
	return fmt.Sprintf("login:fail:%s", strings.ToLower(strings.TrimSpace(email)))
}

type redisGuard struct {
	rdb         *redis.Client
	maxFailures int64
	window      time.Duration
}

func NewRedisGuard(rdb *redis.Client, maxFailures int, window time.Duration) Guard {
	return &redisGuard{rdb: rdb, maxFailures: int64(maxFailures), window: window}
}

func (g *redisGuard) Allowed(ctx context.Context, email string) (bool, error) {
	n, err := g.rdb.Get(ctx, key(email)).Int64()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return n < g.maxFailures, nil
}

// Fail counts a failure; the window starts at the first one
func (g *redisGuard) Fail(ctx context.Context, email string) error {
	k := key(email)
	n, err := g.rdb.Incr(ctx, k).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return g.rdb.Expire(ctx, k, g.window).Err()
	}
	return nil
}

func (g *redisGuard) Reset(ctx context.Context, email string) error {
	return g.rdb.Del(ctx, key(email)).Err()
}

type entry struct {
	count   int
	expires time.Time
}

// MemoryGuard is the single-process Guard used in tests and when redis is absent
type MemoryGuard struct {
	mu          sync.Mutex
	entries     map[string]*entry
	maxFailures int
	window      time.Duration
}

func NewMemoryGuard(maxFailures int, window time.Duration) *MemoryGuard {
	return &MemoryGuard{entries: map[string]*entry{}, maxFailures: maxFailures, window: window}
}

func (g *MemoryGuard) live(k string) *entry {
	e, ok := g.entries[k]
	if !ok {
		return nil
	}
	if time.Now().After(e.expires) {
		delete(g.entries, k)
		return nil
	}
	return e
}

func (g *MemoryGuard) Allowed(ctx context.Context, email string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e := g.live(key(email))
	return e == nil || e.count < g.maxFailures, nil
}

func (g *MemoryGuard) Fail(ctx context.Context, email string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	k := key(email)
	if e := g.live(k); e != nil {
		e.count++
		return nil
	}
	g.entries[k] = &entry{count: 1, expires: time.Now().Add(g.window)}
	return nil
}

func (g *MemoryGuard) Reset(ctx context.Context, email string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, key(email))
	return nil
}

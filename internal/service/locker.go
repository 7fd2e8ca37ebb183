package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Locker 防止多个实例同时执行同一后台任务
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// NewLocker 有 Redis 时使用分布式锁，否则使用进程内锁
func NewLocker(rdb *redis.Client) Locker {
	if rdb == nil {
		return NewLocalLocker()
	}
	return &RedisLocker{rdb: rdb}
}

type RedisLocker struct {
	rdb *redis.Client
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.rdb.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
}

func (l *RedisLocker) Unlock(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, key).Err()
}

type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]time.Time)}
}

func (l *LocalLocker) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if until, ok := l.locks[key]; ok && time.Now().Before(until) {
		return false, nil
	}
	l.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (l *LocalLocker) Unlock(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.locks, key)
	l.mu.Unlock()
	return nil
}

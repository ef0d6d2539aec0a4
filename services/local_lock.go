package services

import (
	"context"
	"sync"
)

// LocalEarnerLocker serializes withdrawal requests per earner within a
// single process. It is the fallback when Redis is unavailable; running
// more than one instance without Redis weakens the exclusivity guarantee
// to per-process.
type LocalEarnerLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalEarnerLocker() *LocalEarnerLocker {
	return &LocalEarnerLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalEarnerLocker) Lock(ctx context.Context, earnerID string) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[earnerID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[earnerID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock, nil
}

package cache

import (
	"sync"
)

// keyLocks is an arena of keyed mutexes. A lock exists only while someone
// holds or waits for it; the refcount tears the entry down on last release
// so the arena does not grow with the keyspace.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: map[string]*keyLock{}}
}

// acquire blocks until the caller holds the key's exclusive lock and returns
// the release func. Release is safe on every exit path and must be called
// exactly once.
func (kl *keyLocks) acquire(key string) func() {
	kl.mu.Lock()
	l, ok := kl.locks[key]
	if !ok {
		l = &keyLock{}
		kl.locks[key] = l
	}
	l.refs++
	kl.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			kl.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(kl.locks, key)
			}
			kl.mu.Unlock()
		})
	}
}

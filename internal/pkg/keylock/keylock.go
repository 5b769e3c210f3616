// Package keylock serializes work per string key.
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex hands out one mutex per key and forgets keys nobody holds
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// New creates an empty KeyedMutex
func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*entry)}
}

// Lock blocks until key is free and returns the matching unlock func
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// Len returns the number of keys currently held or awaited
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

// Package cache stores fully composed (decorated) responses so that an
// unchanged composite does not have to be re-fetched and re-merged. Entries
// are validated, not aged out: a stored composite is only ever served when
// the current freshness verdict carries the exact same effective
// last-modified value.
package cache

import (
	"sync"
	"time"
)

// Provider is the storage for composed responses, keyed by request path.
//
// Implementations must be thread-safe!
type Provider interface {
	// Get returns the stored composite for the given key, if any.
	Get(key string) (Entry, bool, error)
	// Put stores the composite, replacing any previous entry for its key.
	Put(Entry) error
	// Purge removes the entry for the given key.
	Purge(key string)
}

// Entry is one stored composite response.
type Entry struct {
	// Key is the decorated request path.
	Key string
	// LastModified is the composite's effective modification time at the
	// time it was composed. Millisecond precision is preserved here even
	// though the emitted header has second precision.
	LastModified time.Time
	ContentType  string
	Body         []byte
}

// MemCache is a Provider backed by an in-process map.
type MemCache struct {
	mutex *sync.RWMutex
	db    map[string]Entry
}

func NewMemCache() MemCache {
	return MemCache{
		mutex: &sync.RWMutex{},
		db:    make(map[string]Entry),
	}
}

func (m MemCache) Get(key string) (Entry, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	entry, ok := m.db[key]
	return entry, ok, nil
}

func (m MemCache) Put(entry Entry) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.db[entry.Key] = entry
	return nil
}

func (m MemCache) Purge(key string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.db, key)
}

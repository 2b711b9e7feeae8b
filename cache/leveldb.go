package cache

import (
	"bytes"
	"encoding/gob"
	"errors"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDBCache is a Provider backed by an on-disk LevelDB database.
type LevelDBCache struct {
	db *leveldb.DB
}

// levelDBEntry is the gob-encoded representation of an Entry value. The key
// is not repeated in the value.
type levelDBEntry struct {
	LastModifiedMillis int64
	ContentType        string
	Body               []byte
}

func NewLevelDBCache(path string) (LevelDBCache, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return LevelDBCache{}, err
	}
	return LevelDBCache{db: db}, nil
}

func (l LevelDBCache) Close() error {
	return l.db.Close()
}

func (l LevelDBCache) Get(key string) (Entry, bool, error) {
	value, err := l.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	var stored levelDBEntry
	if err := gob.NewDecoder(bytes.NewReader(value)).Decode(&stored); err != nil {
		return Entry{}, false, err
	}
	return Entry{
		Key:          key,
		LastModified: time.UnixMilli(stored.LastModifiedMillis).UTC(),
		ContentType:  stored.ContentType,
		Body:         stored.Body,
	}, true, nil
}

func (l LevelDBCache) Put(entry Entry) error {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(levelDBEntry{
		LastModifiedMillis: entry.LastModified.UnixMilli(),
		ContentType:        entry.ContentType,
		Body:               entry.Body,
	})
	if err != nil {
		return err
	}
	return l.db.Put([]byte(entry.Key), buf.Bytes(), nil)
}

func (l LevelDBCache) Purge(key string) {
	_ = l.db.Delete([]byte(key), nil)
}

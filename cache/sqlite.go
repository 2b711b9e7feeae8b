package cache

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// SQLiteCache is a Provider backed by a SQLite database.
type SQLiteCache struct {
	db         *sql.DB
	writeMutex *sync.Mutex
}

// NewSQLiteCache creates a new cache with the given filename as the db.
// If the file name is empty, a new in-memory db is opened.
func NewSQLiteCache(filename string) SQLiteCache {
	if filename == "" {
		filename = "file::memory:?cache=shared"
	}
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		panic(err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS composite (
		key TEXT PRIMARY KEY,
		last_modified INTEGER,
		content_type TEXT,
		body BLOB
	)`)
	if err != nil {
		panic(err)
	}
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		panic(err)
	}
	return SQLiteCache{
		db:         db,
		writeMutex: &sync.Mutex{},
	}
}

func (s SQLiteCache) Get(key string) (Entry, bool, error) {
	entry := Entry{Key: key}
	var lastModified int64
	err := s.db.QueryRow(
		"SELECT last_modified, content_type, body FROM composite WHERE key = ?", key,
	).Scan(&lastModified, &entry.ContentType, &entry.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	entry.LastModified = time.UnixMilli(lastModified).UTC()
	return entry, true, nil
}

func (s SQLiteCache) Put(entry Entry) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	_, err := s.db.Exec(`INSERT OR REPLACE INTO composite
		(key, last_modified, content_type, body) VALUES (?, ?, ?, ?)`,
		entry.Key, entry.LastModified.UnixMilli(), entry.ContentType, entry.Body)
	return err
}

func (s SQLiteCache) Purge(key string) {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	_, err := s.db.Exec("DELETE FROM composite WHERE key = ?", key)
	if err != nil {
		panic(err)
	}
}

package store

import (
	"database/sql"
	"sync"
)

// Store is the control plane's serialized-writer view over the embedded
// database. All mutating methods take writeMu so writes are strictly
// ordered; reads go straight to the database, which sqlite itself
// serializes against any in-flight write.
type Store struct {
	client  *Client
	writeMu sync.Mutex
}

// NewStore wraps an already-opened Client.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// DB exposes the underlying connection for health checks.
func (s *Store) DB() *sql.DB {
	return s.client.DB()
}

package store // import "github.com/Takashicc/repub/internal/store"

import (
	"database/sql"
	"sync"
)

// Store is the scan cache. sqlite allows a single writer, so writes are
// serialized with dbLock.
type Store struct {
	db     *sql.DB
	dbLock sync.Mutex
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping() error {
	return s.db.Ping()
}

func (s *Store) Close() error {
	return s.db.Close()
}

type MigrationHistory struct {
	Version   string
	CreatedTs int64
}

type UpsertMigrationHistory struct {
	Version string
}

type FindMigrationHistory struct{}

package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store is a small document store on top of SQLite. Each user gets one
// table per domain (e.g. "alice_todos") holding JSON documents keyed by a
// string id. The shared "users" table is the only cross-user collection.
type Store struct {
	db *sqlx.DB
}

// Open opens (and creates if missing) the SQLite database at path and
// ensures the shared users collection exists.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	users := &Collection{db: db, table: usersTable}
	if err := users.ensure(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}

	log.Println("Database initialized successfully")
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tenant returns a collection handle for the given key, creating the
// backing table on first use. Handles are cheap and acquired fresh per
// call; nothing is cached across requests.
func (s *Store) Tenant(ctx context.Context, key TenantKey) (*Collection, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	c := &Collection{db: s.db, table: key.table()}
	if err := c.ensure(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare collection %s: %w", key.table(), err)
	}
	return c, nil
}

const usersTable = "users"

// Users returns the shared account collection, keyed by email.
func (s *Store) Users() *Collection {
	return &Collection{db: s.db, table: usersTable}
}

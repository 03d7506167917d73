package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Collection is a handle to one table of JSON documents. Documents are
// stored as (id, doc) rows; insertion order is preserved via rowid.
type Collection struct {
	db    *sqlx.DB
	table string
}

// Document is a raw stored document together with its id.
type Document struct {
	ID  string
	Doc json.RawMessage
}

func (c *Collection) ensure(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		id TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`, c.table)
	_, err := c.db.ExecContext(ctx, query)
	return err
}

// Insert stores doc under a freshly generated id and returns it.
func (c *Collection) Insert(ctx context.Context, doc any) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	id := uuid.NewString()
	query := fmt.Sprintf(`INSERT INTO %q (id, doc) VALUES (?, ?)`, c.table)
	if _, err := c.db.ExecContext(ctx, query, id, string(data)); err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	return id, nil
}

// Get retrieves the document stored under id. Returns ErrNotFound if no
// such document exists.
func (c *Collection) Get(ctx context.Context, id string) (json.RawMessage, error) {
	query := fmt.Sprintf(`SELECT doc FROM %q WHERE id = ?`, c.table)

	var doc string
	err := c.db.QueryRowContext(ctx, query, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return json.RawMessage(doc), nil
}

// All returns every document in the collection in insertion order.
func (c *Collection) All(ctx context.Context) ([]Document, error) {
	query := fmt.Sprintf(`SELECT id, doc FROM %q ORDER BY rowid ASC`, c.table)

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		var doc string
		if err := rows.Scan(&d.ID, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.Doc = json.RawMessage(doc)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return out, nil
}

// Replace overwrites the document stored under id. Returns ErrNotFound if
// no such document exists.
func (c *Collection) Replace(ctx context.Context, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := fmt.Sprintf(`UPDATE %q SET doc = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, c.table)
	res, err := c.db.ExecContext(ctx, query, string(data), id)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Put stores doc under a caller-chosen key, inserting or overwriting.
// Used for singleton documents (weekly templates) and records keyed by a
// natural id (streaks by slot_id, users by email).
func (c *Collection) Put(ctx context.Context, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %q (id, doc) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET
			doc = excluded.doc,
			updated_at = CURRENT_TIMESTAMP
	`, c.table)
	if _, err := c.db.ExecContext(ctx, query, id, string(data)); err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// Delete removes the document stored under id. Returns ErrNotFound if no
// such document exists.
func (c *Collection) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %q WHERE id = ?`, c.table)
	res, err := c.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

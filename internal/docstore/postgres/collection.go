// Package postgres stores documents as JSONB rows in Postgres.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/a010145456/FitTrackApp/internal/docstore"
)

// Schema creates the shared documents table. Every collection is a partition of its rows.
const Schema = `CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    doc_id     TEXT NOT NULL,
    fields     JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (collection, doc_id)
)`

// EnsureSchema applies Schema. It is safe to call on every start.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure documents table: %w", err)
	}
	return nil
}

// Collection is a docstore.Collection backed by the documents table.
type Collection struct {
	pool *pgxpool.Pool
	name string
}

var _ docstore.Collection = (*Collection)(nil)

// NewCollection constructs a Collection for the named collection.
func NewCollection(pool *pgxpool.Pool, name string) *Collection {
	return &Collection{pool: pool, name: name}
}

// Insert implements docstore.Collection.
func (c *Collection) Insert(ctx context.Context, fields docstore.Fields) (string, error) {
	body, err := json.Marshal(fields.Clone())
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	const stmt = `INSERT INTO documents (collection, doc_id, fields) VALUES ($1, $2, $3::jsonb)`
	if _, err := c.pool.Exec(ctx, stmt, c.name, id, string(body)); err != nil {
		return "", err
	}
	return id, nil
}

// FetchAll implements docstore.Collection.
func (c *Collection) FetchAll(ctx context.Context) ([]docstore.Document, error) {
	const query = `SELECT doc_id, fields FROM documents WHERE collection=$1 ORDER BY doc_id`

	rows, err := c.pool.Query(ctx, query, c.name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]docstore.Document, 0)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		fields, err := docstore.DecodeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
		docs = append(docs, docstore.Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// OverwriteFields implements docstore.Collection using a JSONB merge.
func (c *Collection) OverwriteFields(ctx context.Context, id string, fields docstore.Fields) error {
	body, err := json.Marshal(fields.Clone())
	if err != nil {
		return err
	}

	const stmt = `UPDATE documents SET fields = fields || $3::jsonb, updated_at = NOW()
        WHERE collection=$1 AND doc_id=$2`
	tag, err := c.pool.Exec(ctx, stmt, c.name, id, string(body))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// Remove implements docstore.Collection.
func (c *Collection) Remove(ctx context.Context, id string) error {
	_, err := c.pool.Exec(ctx, `DELETE FROM documents WHERE collection=$1 AND doc_id=$2`, c.name, id)
	return err
}

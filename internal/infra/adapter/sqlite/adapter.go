// Package sqlite provides a backend adapter persisting records as JSON
// payloads in a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"recordstore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.Adapter = (*Adapter)(nil)

// Adapter persists each record as one row keyed by (resource, id).
type Adapter struct {
	db    *sql.DB
	path  string
	newID func() string
}

// New opens (or creates) the sqlite file at path and ensures the records
// table exists. An empty path defaults to ./recordstore.db.
func New(path string) (*Adapter, error) {
	if path == "" {
		path = "recordstore.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		resource TEXT NOT NULL,
		id TEXT NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (resource, id)
	)`); err != nil {
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &Adapter{db: db, path: path, newID: uuid.NewString}, nil
}

// Name implements domain.Adapter.
func (a *Adapter) Name() string { return "sqlite" }

// Close releases the underlying database handle.
func (a *Adapter) Close() error { return a.db.Close() }

// Create stores the attributes under an authoritative identity.
func (a *Adapter) Create(ctx context.Context, def domain.ResourceDefinition, attrs domain.Record, _ domain.Options) (domain.Record, error) {
	if attrs == nil {
		return nil, domain.IllegalArgumentError{Reason: "attrs cannot be nil"}
	}
	stored := attrs.DeepCopy()
	pk := def.PrimaryKey()
	id, ok := stored.ID(pk)
	if !ok || domain.IsTemporaryID(id) {
		id = a.newID()
	}
	stored[pk] = id
	if err := a.upsert(ctx, def.Name, id, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Update merges the attributes over the stored payload, inserting when the
// identity is unknown.
func (a *Adapter) Update(ctx context.Context, def domain.ResourceDefinition, id string, attrs domain.Record, _ domain.Options) (domain.Record, error) {
	if attrs == nil {
		return nil, domain.IllegalArgumentError{Reason: "attrs cannot be nil"}
	}
	stored, err := a.load(ctx, def.Name, id)
	if err != nil {
		var notFound domain.RecordNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		stored = domain.Record{}
	}
	stored.Merge(attrs.DeepCopy())
	stored[def.PrimaryKey()] = id
	if err := a.upsert(ctx, def.Name, id, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Find loads the stored attributes for an identity.
func (a *Adapter) Find(ctx context.Context, def domain.ResourceDefinition, id string) (domain.Record, error) {
	return a.load(ctx, def.Name, id)
}

// Destroy removes an identity.
func (a *Adapter) Destroy(ctx context.Context, def domain.ResourceDefinition, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM records WHERE resource = ? AND id = ?`, def.Name, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.RecordNotFoundError{Resource: def.Name, ID: id}
	}
	return nil
}

func (a *Adapter) upsert(ctx context.Context, resource, id string, rec domain.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if _, err := a.db.ExecContext(ctx,
		`INSERT INTO records(resource, id, payload) VALUES(?, ?, ?)
		 ON CONFLICT(resource, id) DO UPDATE SET payload = excluded.payload`,
		resource, id, payload); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

func (a *Adapter) load(ctx context.Context, resource, id string) (domain.Record, error) {
	var payload []byte
	err := a.db.QueryRowContext(ctx,
		`SELECT payload FROM records WHERE resource = ? AND id = ?`, resource, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.RecordNotFoundError{Resource: resource, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("select record: %w", err)
	}
	var rec domain.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// Package snapshot captures and restores store state through an archive
// backend.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"recordstore/internal/archive/core"
	corestore "recordstore/internal/core"
)

const keyPrefix = "snapshots/"

// Archiver serializes store snapshots as JSON documents into an archive
// backend and hydrates stores from them.
type Archiver struct {
	store *corestore.Store
	blobs core.Store
	nowFn func() time.Time
}

// NewArchiver constructs an archiver for the given store and backend.
func NewArchiver(store *corestore.Store, blobs core.Store) *Archiver {
	return &Archiver{
		store: store,
		blobs: blobs,
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

// Capture exports the store and writes the snapshot under a timestamped key.
// The label defaults to "snapshot" and may not contain path separators.
func (a *Archiver) Capture(ctx context.Context, label string) (core.Info, error) {
	if label == "" {
		label = "snapshot"
	}
	if strings.ContainsAny(label, "/\\") {
		return core.Info{}, fmt.Errorf("invalid snapshot label %q", label)
	}
	snap := a.store.Snapshot()
	payload, err := json.Marshal(snap)
	if err != nil {
		return core.Info{}, fmt.Errorf("encode snapshot: %w", err)
	}
	key := fmt.Sprintf("%s%s-%s.json", keyPrefix, label, a.nowFn().Format("20060102T150405.000000000Z"))
	info, err := a.blobs.Put(ctx, key, bytes.NewReader(payload), "application/json")
	if err != nil {
		return core.Info{}, fmt.Errorf("archive snapshot: %w", err)
	}
	return info, nil
}

// Restore loads the snapshot stored under key and injects its records into
// the store.
func (a *Archiver) Restore(ctx context.Context, key string) error {
	_, rc, err := a.blobs.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}
	defer func() { _ = rc.Close() }()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	var snap corestore.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return a.store.ImportSnapshot(snap)
}

// List returns metadata for all archived snapshots, ordered by key.
func (a *Archiver) List(ctx context.Context) ([]core.Info, error) {
	return a.blobs.List(ctx, keyPrefix)
}

package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"recordstore/pkg/domain"
)

var docDef = domain.ResourceDefinition{Name: "document"}

func newTestAdapter(t *testing.T) (*Adapter, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.db")
	a, err := New(path)
	if err != nil {
		t.Fatalf("open sqlite adapter: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a, path
}

func TestCreateFindRoundTrip(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	created, err := a.Create(ctx, docDef, domain.Record{"title": "a", "views": float64(3)}, domain.Options{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id, ok := created.ID("id")
	if !ok || domain.IsTemporaryID(id) {
		t.Fatalf("identity = %q", id)
	}

	found, err := a.Find(ctx, docDef, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found["title"] != "a" || found["views"] != float64(3) {
		t.Fatalf("found = %v", found)
	}
}

func TestCreateReplacesTemporaryIdentity(t *testing.T) {
	a, _ := newTestAdapter(t)
	created, err := a.Create(context.Background(), docDef,
		domain.Record{"id": domain.TemporaryID(), "title": "t"}, domain.Options{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id, _ := created.ID("id"); domain.IsTemporaryID(id) {
		t.Fatalf("temporary identity not replaced: %q", id)
	}
}

func TestUpdateMergesStoredPayload(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	if _, err := a.Create(ctx, docDef, domain.Record{"id": "doc-1", "title": "a", "views": float64(1)}, domain.Options{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := a.Update(ctx, docDef, "doc-1", domain.Record{"title": "b"}, domain.Options{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated["title"] != "b" || updated["views"] != float64(1) {
		t.Fatalf("merged = %v", updated)
	}

	// Unknown identities insert.
	inserted, err := a.Update(ctx, docDef, "doc-2", domain.Record{"title": "new"}, domain.Options{})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if id, _ := inserted.ID("id"); id != "doc-2" {
		t.Fatalf("inserted = %v", inserted)
	}
}

func TestDestroy(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	if _, err := a.Create(ctx, docDef, domain.Record{"id": "doc-1"}, domain.Options{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := a.Destroy(ctx, docDef, "doc-1"); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	var notFound domain.RecordNotFoundError
	if _, err := a.Find(ctx, docDef, "doc-1"); !errors.As(err, &notFound) {
		t.Fatalf("find after destroy = %v", err)
	}
	if err := a.Destroy(ctx, docDef, "doc-1"); !errors.As(err, &notFound) {
		t.Fatalf("second destroy = %v", err)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	a, err := New(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := a.Create(context.Background(), docDef, domain.Record{"id": "doc-1", "title": "kept"}, domain.Options{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	found, err := reopened.Find(context.Background(), docDef, "doc-1")
	if err != nil {
		t.Fatalf("find after reopen: %v", err)
	}
	if found["title"] != "kept" {
		t.Fatalf("found = %v", found)
	}
}

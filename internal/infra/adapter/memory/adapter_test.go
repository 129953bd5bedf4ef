package memory

import (
	"context"
	"errors"
	"testing"

	"recordstore/pkg/domain"
)

var docDef = domain.ResourceDefinition{Name: "document"}

func TestCreateAssignsServerIdentity(t *testing.T) {
	a := New()
	ctx := context.Background()

	created, err := a.Create(ctx, docDef, domain.Record{"title": "a"}, domain.Options{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id, ok := created.ID("id")
	if !ok {
		t.Fatalf("no identity assigned: %v", created)
	}
	if domain.IsTemporaryID(id) {
		t.Fatalf("temporary identity leaked: %q", id)
	}

	tmp := domain.TemporaryID()
	created, err = a.Create(ctx, docDef, domain.Record{"id": tmp, "title": "b"}, domain.Options{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id, _ := created.ID("id"); domain.IsTemporaryID(id) {
		t.Fatalf("temporary identity not replaced: %q", id)
	}

	created, err = a.Create(ctx, docDef, domain.Record{"id": "doc-1", "title": "c"}, domain.Options{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id, _ := created.ID("id"); id != "doc-1" {
		t.Fatalf("caller identity replaced: %q", id)
	}
}

func TestCreateRejectsNilAttrs(t *testing.T) {
	a := New()
	_, err := a.Create(context.Background(), docDef, nil, domain.Options{})
	var illegal domain.IllegalArgumentError
	if !errors.As(err, &illegal) {
		t.Fatalf("error = %v", err)
	}
}

func TestUpdateMergesOrInserts(t *testing.T) {
	a := New()
	ctx := context.Background()

	if _, err := a.Create(ctx, docDef, domain.Record{"id": "doc-1", "title": "a", "views": 1}, domain.Options{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := a.Update(ctx, docDef, "doc-1", domain.Record{"title": "b"}, domain.Options{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated["title"] != "b" || updated["views"] != 1 {
		t.Fatalf("merged = %v", updated)
	}

	inserted, err := a.Update(ctx, docDef, "doc-2", domain.Record{"title": "new"}, domain.Options{})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if id, _ := inserted.ID("id"); id != "doc-2" {
		t.Fatalf("inserted = %v", inserted)
	}
}

func TestFindAndDestroy(t *testing.T) {
	a := New()
	ctx := context.Background()

	if _, err := a.Create(ctx, docDef, domain.Record{"id": "doc-1", "title": "a"}, domain.Options{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	found, err := a.Find(ctx, docDef, "doc-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found["title"] != "a" {
		t.Fatalf("found = %v", found)
	}

	// Returned records are detached from adapter storage.
	found["title"] = "tampered"
	again, _ := a.Find(ctx, docDef, "doc-1")
	if again["title"] != "a" {
		t.Fatalf("find shares storage with the adapter")
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

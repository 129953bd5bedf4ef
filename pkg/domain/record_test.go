package domain

import (
	"reflect"
	"testing"
)

func TestRecordCopyIsShallow(t *testing.T) {
	nested := map[string]any{"city": "Oslo"}
	rec := Record{"name": "Ada", "address": nested}
	cp := rec.Copy()
	if !reflect.DeepEqual(rec, cp) {
		t.Fatalf("copy mismatch: %v vs %v", rec, cp)
	}
	cp["name"] = "Grace"
	if rec["name"] != "Ada" {
		t.Fatalf("copy mutated source")
	}
	nested["city"] = "Bergen"
	if cp["address"].(map[string]any)["city"] != "Bergen" {
		t.Fatalf("expected shallow copy to share nested values")
	}
}

func TestRecordDeepCopyDetachesNestedValues(t *testing.T) {
	rec := Record{
		"name":    "Ada",
		"tags":    []any{"a", "b"},
		"address": map[string]any{"city": "Oslo"},
		"extra":   Record{"k": "v"},
	}
	cp := rec.DeepCopy()
	if cp["name"] != "Ada" {
		t.Fatalf("deep copy mismatch: %v vs %v", rec, cp)
	}
	rec["address"].(map[string]any)["city"] = "Bergen"
	rec["tags"].([]any)[0] = "z"
	rec["extra"].(Record)["k"] = "w"
	if cp["address"].(Record)["city"] != "Oslo" {
		t.Fatalf("nested map not detached")
	}
	if cp["tags"].([]any)[0] != "a" {
		t.Fatalf("nested slice not detached")
	}
	if cp["extra"].(Record)["k"] != "v" {
		t.Fatalf("nested record not detached")
	}
}

func TestRecordDeepCopyNil(t *testing.T) {
	var rec Record
	if rec.DeepCopy() != nil {
		t.Fatalf("expected nil deep copy of nil record")
	}
	if rec.Copy() != nil {
		t.Fatalf("expected nil copy of nil record")
	}
}

func TestRecordMergeOverwrites(t *testing.T) {
	rec := Record{"a": 1, "b": 2}
	rec.Merge(Record{"b": 3, "c": 4})
	want := Record{"a": 1, "b": 3, "c": 4}
	if !reflect.DeepEqual(rec, want) {
		t.Fatalf("merge result %v, want %v", rec, want)
	}
}

func TestRecordID(t *testing.T) {
	cases := []struct {
		name   string
		rec    Record
		wantID string
		wantOK bool
	}{
		{"string id", Record{"id": "abc"}, "abc", true},
		{"numeric id", Record{"id": 42}, "42", true},
		{"empty string", Record{"id": ""}, "", false},
		{"nil value", Record{"id": nil}, "", false},
		{"absent", Record{}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := tc.rec.ID("id")
			if id != tc.wantID || ok != tc.wantOK {
				t.Fatalf("ID() = (%q, %v), want (%q, %v)", id, ok, tc.wantID, tc.wantOK)
			}
		})
	}
}

func TestTemporaryIDs(t *testing.T) {
	a := TemporaryID()
	b := TemporaryID()
	if a == b {
		t.Fatalf("temporary ids must be unique, got %q twice", a)
	}
	if !IsTemporaryID(a) {
		t.Fatalf("expected %q to be recognized as temporary", a)
	}
	if IsTemporaryID("doc-1") {
		t.Fatalf("doc-1 misclassified as temporary")
	}
}

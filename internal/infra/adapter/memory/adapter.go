// Package memory provides an in-process backend adapter used for tests and
// ephemeral environments. It assigns a server-side identity whenever the
// incoming attributes carry none, or carry a temporary placeholder.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"recordstore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.Adapter = (*Adapter)(nil)

// Adapter stores serialized records per resource in process memory.
type Adapter struct {
	mu     sync.Mutex
	tables map[string]map[string]domain.Record
	newID  func() string
}

// New returns an empty in-memory adapter.
func New() *Adapter {
	return &Adapter{
		tables: make(map[string]map[string]domain.Record),
		newID:  uuid.NewString,
	}
}

// Name implements domain.Adapter.
func (a *Adapter) Name() string { return "memory" }

func (a *Adapter) table(resource string) map[string]domain.Record {
	t, ok := a.tables[resource]
	if !ok {
		t = make(map[string]domain.Record)
		a.tables[resource] = t
	}
	return t
}

// Create persists the attributes under an authoritative identity and returns
// the stored representation.
func (a *Adapter) Create(_ context.Context, def domain.ResourceDefinition, attrs domain.Record, _ domain.Options) (domain.Record, error) {
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
	a.mu.Lock()
	a.table(def.Name)[id] = stored
	a.mu.Unlock()
	return stored.DeepCopy(), nil
}

// Update merges the attributes over the existing record, inserting when the
// identity is unknown.
func (a *Adapter) Update(_ context.Context, def domain.ResourceDefinition, id string, attrs domain.Record, _ domain.Options) (domain.Record, error) {
	if attrs == nil {
		return nil, domain.IllegalArgumentError{Reason: "attrs cannot be nil"}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	table := a.table(def.Name)
	stored, ok := table[id]
	if !ok {
		stored = domain.Record{}
	}
	stored.Merge(attrs.DeepCopy())
	stored[def.PrimaryKey()] = id
	table[id] = stored
	return stored.DeepCopy(), nil
}

// Find returns the stored attributes for an identity.
func (a *Adapter) Find(_ context.Context, def domain.ResourceDefinition, id string) (domain.Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	stored, ok := a.table(def.Name)[id]
	if !ok {
		return nil, domain.RecordNotFoundError{Resource: def.Name, ID: id}
	}
	return stored.DeepCopy(), nil
}

// Destroy removes an identity.
func (a *Adapter) Destroy(_ context.Context, def domain.ResourceDefinition, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	table := a.table(def.Name)
	if _, ok := table[id]; !ok {
		return domain.RecordNotFoundError{Resource: def.Name, ID: id}
	}
	delete(table, id)
	return nil
}

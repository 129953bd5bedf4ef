package core

import (
	"context"
	"fmt"
	"sync"

	"recordstore/pkg/domain"
)

// stubAdapter is a scriptable backend for pipeline tests. The default
// behavior echoes the attributes back, substituting a server-side identity
// when the incoming one is missing or temporary.
type stubAdapter struct {
	mu       sync.Mutex
	name     string
	store    *Store
	createFn func(ctx context.Context, def ResourceDefinition, attrs Record, opts Options) (Record, error)
	updateFn func(ctx context.Context, def ResourceDefinition, id string, attrs Record, opts Options) (Record, error)
	creates  int
	updates  int
	seq      int
}

func (a *stubAdapter) Name() string {
	if a.name == "" {
		return "stub"
	}
	return a.name
}

func (a *stubAdapter) Create(ctx context.Context, def ResourceDefinition, attrs Record, opts Options) (Record, error) {
	a.mu.Lock()
	a.creates++
	fn := a.createFn
	a.mu.Unlock()
	if fn != nil {
		return fn(ctx, def, attrs, opts)
	}
	out := attrs.DeepCopy()
	pk := def.PrimaryKey()
	if id, ok := out.ID(pk); !ok || domain.IsTemporaryID(id) {
		a.mu.Lock()
		a.seq++
		out[pk] = fmt.Sprintf("srv-%d", a.seq)
		a.mu.Unlock()
	}
	return out, nil
}

func (a *stubAdapter) Update(ctx context.Context, def ResourceDefinition, id string, attrs Record, opts Options) (Record, error) {
	a.mu.Lock()
	a.updates++
	fn := a.updateFn
	a.mu.Unlock()
	if fn != nil {
		return fn(ctx, def, id, attrs, opts)
	}
	out := attrs.DeepCopy()
	out[def.PrimaryKey()] = id
	return out, nil
}

func (a *stubAdapter) Find(_ context.Context, def ResourceDefinition, id string) (Record, error) {
	return nil, RecordNotFoundError{Resource: def.Name, ID: id}
}

func (a *stubAdapter) Destroy(_ context.Context, def ResourceDefinition, id string) error {
	return nil
}

func (a *stubAdapter) counts() (creates, updates int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.creates, a.updates
}

// captureEmitter records every broadcast lifecycle event.
type captureEmitter struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	resource string
	event    string
	payload  Record
}

func (e *captureEmitter) Emit(def ResourceDefinition, event string, payload Record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, capturedEvent{resource: def.Name, event: event, payload: payload})
}

func (e *captureEmitter) captured() []capturedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]capturedEvent, len(e.events))
	copy(out, e.events)
	return out
}

// newDocumentStore builds a store with one registered "document" resource
// backed by the supplied adapter.
func newDocumentStore(adapter Adapter, def ResourceDefinition) *Store {
	s := NewStore()
	if adapter != nil {
		if err := s.RegisterAdapter(adapter); err != nil {
			panic(err)
		}
	}
	if def.Name == "" {
		def.Name = "document"
	}
	if err := s.RegisterResource(def); err != nil {
		panic(err)
	}
	return s
}

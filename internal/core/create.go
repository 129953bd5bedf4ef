package core

import (
	"context"
	"errors"
	"fmt"
)

// Create runs the create pipeline for a resource: the four pre-backend hook
// stages, optional eager injection, backend dispatch, the afterCreate stage,
// and the final commit into the identity index. On any failure after an eager
// injection the temporary entry is ejected, silently, before the original
// error is returned.
//
// When the attributes already carry a primary-key value and upsert is enabled
// (the default), the call redirects to Update before any hook runs.
func (s *Store) Create(ctx context.Context, resource string, attrs Record, opts Options) (Record, error) {
	def, err := s.definition(resource)
	if err != nil {
		return nil, err
	}
	if attrs == nil {
		return nil, IllegalArgumentError{Reason: "attrs cannot be nil"}
	}
	pk := def.PrimaryKey()

	if opts.UpsertEnabled() {
		if id, ok := attrs.ID(pk); ok {
			return s.Update(ctx, resource, id, attrs, opts)
		}
	}

	adapter, err := s.adapterFor(def, opts.Adapter)
	if err != nil {
		return nil, err
	}

	cache := opts.CacheResponseEnabled()
	eager := cache && opts.EagerInjectEnabled(def)
	notify := opts.NotifyEnabled(def)

	for _, stage := range []HookStage{StageBeforeValidate, StageValidate, StageAfterValidate, StageBeforeCreate} {
		attrs, err = applyHook(ctx, resolveHook(stage, opts, def), resource, attrs)
		if err != nil {
			return nil, err
		}
	}

	// Optimistic write: the record becomes visible to concurrent reads under
	// a temporary identity while the backend call is in flight.
	var tempID string
	if eager {
		id, ok := attrs.ID(pk)
		if !ok {
			id = s.newTempID()
			attrs[pk] = id
		}
		tempID = id
		s.mu.Lock()
		if rs, ok := s.resources[resource]; ok {
			s.injectLocked(rs, tempID, attrs)
		}
		s.mu.Unlock()
	}

	result, err := s.dispatchCreate(ctx, adapter, def, resource, attrs, opts, notify)
	if err != nil {
		return nil, s.rollbackEager(resource, tempID, eager, err)
	}

	if !cache {
		detached := result.DeepCopy()
		if def.Wrap != nil {
			detached = def.Wrap(detached)
		}
		return detached, nil
	}

	stored, err := s.commitCreate(def, resource, tempID, eager, result)
	if err != nil {
		return nil, s.rollbackEager(resource, tempID, eager, err)
	}
	return stored, nil
}

// dispatchCreate covers the backend round trip: beforeCreate notification,
// serialization, adapter dispatch, deserialization, the afterCreate stage,
// and the afterCreate notification.
func (s *Store) dispatchCreate(ctx context.Context, adapter Adapter, def ResourceDefinition, resource string, attrs Record, opts Options, notify bool) (Record, error) {
	if notify {
		s.emit(def, EventBeforeCreate, attrs.Copy())
	}
	payload, err := resolveSerialize(opts, def)(resource, attrs)
	if err != nil {
		return nil, err
	}
	raw, err := adapter.Create(ctx, def, payload, opts)
	if err != nil {
		return nil, err
	}
	result, err := resolveDeserialize(opts, def)(resource, raw)
	if err != nil {
		return nil, err
	}
	result, err = applyHook(ctx, resolveHook(StageAfterCreate, opts, def), resource, result)
	if err != nil {
		return nil, err
	}
	if notify {
		s.emit(def, EventAfterCreate, result.Copy())
	}
	return result, nil
}

// commitCreate reconciles an eager injection with the authoritative backend
// identity and performs the final injection. Metadata migration happens
// before the temporary entry is removed, so the index never lacks both
// entries. The committed identity reads as clean, saved, and fully fetched.
func (s *Store) commitCreate(def ResourceDefinition, resource, tempID string, eager bool, result Record) (Record, error) {
	pk := def.PrimaryKey()
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.resources[resource]
	if !ok {
		return nil, NonexistentResourceError{Resource: resource}
	}
	id, hasID := result.ID(pk)
	if !hasID {
		return nil, IllegalArgumentError{Reason: "create response for " + resource + " missing primary key " + pk}
	}
	if eager && id != tempID {
		if rec, exists := rs.items[tempID]; exists {
			rs.rekeyMeta(tempID, id)
			rec[pk] = id
			rs.items[id] = rec
			delete(rs.items, tempID)
		}
	}
	stored := s.injectLocked(rs, id, result)
	now := s.nowFn()
	meta := rs.metaFor(id)
	meta.previous = stored.DeepCopy()
	meta.modified = false
	meta.saved = now
	meta.completedQuery = now
	return stored, nil
}

// rollbackEager reverts an optimistic injection after a pipeline failure. The
// temporary entry is ejected without notification; an already-absent entry is
// tolerated. An eject failure is fatal to the call and carries the original
// pipeline error.
func (s *Store) rollbackEager(resource, tempID string, eager bool, cause error) error {
	if !eager {
		return cause
	}
	if _, err := s.eject(resource, tempID, true); err != nil {
		var notFound RecordNotFoundError
		if errors.As(err, &notFound) {
			return cause
		}
		return fmt.Errorf("rollback of %s %q failed: %v: %w", resource, tempID, err, cause)
	}
	return cause
}

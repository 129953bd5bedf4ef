package core

import "context"

// Update persists changed attributes for an existing identity and re-injects
// the backend response. It is also the redirect target for upserted creates;
// the create-stage hooks never run here.
func (s *Store) Update(ctx context.Context, resource, id string, attrs Record, opts Options) (Record, error) {
	def, err := s.definition(resource)
	if err != nil {
		return nil, err
	}
	if attrs == nil {
		return nil, IllegalArgumentError{Reason: "attrs cannot be nil"}
	}
	if id == "" {
		return nil, IllegalArgumentError{Reason: "id cannot be empty"}
	}
	adapter, err := s.adapterFor(def, opts.Adapter)
	if err != nil {
		return nil, err
	}
	notify := opts.NotifyEnabled(def)

	attrs, err = applyHook(ctx, resolveHook(StageBeforeUpdate, opts, def), resource, attrs)
	if err != nil {
		return nil, err
	}
	if notify {
		s.emit(def, EventBeforeUpdate, attrs.Copy())
	}
	payload, err := resolveSerialize(opts, def)(resource, attrs)
	if err != nil {
		return nil, err
	}
	raw, err := adapter.Update(ctx, def, id, payload, opts)
	if err != nil {
		return nil, err
	}
	result, err := resolveDeserialize(opts, def)(resource, raw)
	if err != nil {
		return nil, err
	}
	result, err = applyHook(ctx, resolveHook(StageAfterUpdate, opts, def), resource, result)
	if err != nil {
		return nil, err
	}
	if notify {
		s.emit(def, EventAfterUpdate, result.Copy())
	}

	if !opts.CacheResponseEnabled() {
		detached := result.DeepCopy()
		if def.Wrap != nil {
			detached = def.Wrap(detached)
		}
		return detached, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.resources[resource]
	if !ok {
		return nil, NonexistentResourceError{Resource: resource}
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

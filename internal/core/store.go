package core

import (
	"sort"
	"sync"
	"time"

	"recordstore/pkg/domain"
)

// ObserverFunc receives field-level change notifications for one identity.
// Observers run while the store lock is held and must not call back into the
// store.
type ObserverFunc func(id, field string, previous, current any)

// recordMeta bundles all per-identity metadata slots into one value so that
// re-keying an identity is a single map-key move rather than five
// synchronized copies.
type recordMeta struct {
	previous       Record
	changes        []Change
	observers      map[int]ObserverFunc
	modified       bool
	saved          time.Time
	completedQuery time.Time
}

func newRecordMeta() *recordMeta {
	return &recordMeta{observers: make(map[int]ObserverFunc)}
}

type resourceState struct {
	def   ResourceDefinition
	items map[string]Record
	meta  map[string]*recordMeta
}

func (rs *resourceState) metaFor(id string) *recordMeta {
	m, ok := rs.meta[id]
	if !ok {
		m = newRecordMeta()
		rs.meta[id] = m
	}
	return m
}

func (rs *resourceState) rekeyMeta(oldID, newID string) {
	if m, ok := rs.meta[oldID]; ok {
		rs.meta[newID] = m
		delete(rs.meta, oldID)
	}
}

// Store is the identity-mapped in-memory record store. It owns one identity
// index per registered resource, runs the create and update pipelines, and
// delegates persistence to named backend adapters. A store is constructed
// once per application and shared by reference.
type Store struct {
	mu             sync.Mutex
	resources      map[string]*resourceState
	adapters       map[string]Adapter
	defaultAdapter string
	emitter        Emitter
	nowFn          func() time.Time
	newTempID      func() string
	observerSeq    int
}

// NewStore constructs an empty store with no resources or adapters.
func NewStore() *Store {
	return &Store{
		resources: make(map[string]*resourceState),
		adapters:  make(map[string]Adapter),
		nowFn:     func() time.Time { return time.Now().UTC() },
		newTempID: domain.TemporaryID,
	}
}

// SetEmitter installs the lifecycle event emitter. A nil emitter disables
// notification regardless of per-call flags.
func (s *Store) SetEmitter(e Emitter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitter = e
}

// RegisterAdapter makes a backend adapter selectable by name. The first
// registered adapter becomes the store default.
func (s *Store) RegisterAdapter(a Adapter) error {
	if a == nil {
		return IllegalArgumentError{Reason: "adapter cannot be nil"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name := a.Name()
	if _, exists := s.adapters[name]; exists {
		return IllegalArgumentError{Reason: "adapter " + name + " already registered"}
	}
	s.adapters[name] = a
	if s.defaultAdapter == "" {
		s.defaultAdapter = name
	}
	return nil
}

// SetDefaultAdapter selects the fallback adapter used when neither the call
// nor the resource definition names one.
func (s *Store) SetDefaultAdapter(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.adapters[name]; !ok {
		return IllegalArgumentError{Reason: "unknown adapter " + name}
	}
	s.defaultAdapter = name
	return nil
}

// RegisterResource adds a resource definition to the store. Definitions are
// immutable once registered.
func (s *Store) RegisterResource(def ResourceDefinition) error {
	if def.Name == "" {
		return IllegalArgumentError{Reason: "resource definition missing name"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.resources[def.Name]; exists {
		return IllegalArgumentError{Reason: "resource " + def.Name + " already registered"}
	}
	s.resources[def.Name] = &resourceState{
		def:   def,
		items: make(map[string]Record),
		meta:  make(map[string]*recordMeta),
	}
	return nil
}

func (s *Store) definition(resource string) (ResourceDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.resources[resource]
	if !ok {
		return ResourceDefinition{}, NonexistentResourceError{Resource: resource}
	}
	return rs.def, nil
}

func (s *Store) adapterFor(def ResourceDefinition, override string) (Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := override
	if name == "" {
		name = def.DefaultAdapter
	}
	if name == "" {
		name = s.defaultAdapter
	}
	if name == "" {
		return nil, IllegalArgumentError{Reason: "no adapter configured for resource " + def.Name}
	}
	a, ok := s.adapters[name]
	if !ok {
		return nil, IllegalArgumentError{Reason: "unknown adapter " + name}
	}
	return a, nil
}

func (s *Store) emit(def ResourceDefinition, event string, payload Record) {
	s.mu.Lock()
	e := s.emitter
	s.mu.Unlock()
	if e != nil {
		e.Emit(def, event, payload)
	}
}

// injectLocked installs or merges attributes under id and returns the live
// stored record. Existing records are merged in place so previously handed
// out references stay canonical. Callers hold s.mu.
func (s *Store) injectLocked(rs *resourceState, id string, attrs Record) Record {
	now := s.nowFn()
	meta := rs.metaFor(id)
	if existing, ok := rs.items[id]; ok {
		before := existing.DeepCopy()
		for field, next := range attrs {
			prev, had := existing[field]
			existing[field] = next
			if !had || !equalValue(prev, next) {
				for _, observe := range meta.observers {
					observe(id, field, prev, next)
				}
			}
		}
		meta.changes = append(meta.changes, Change{Action: ActionMerge, Before: before, After: existing.DeepCopy(), At: now})
		meta.modified = true
		return existing
	}
	stored := attrs.DeepCopy()
	rs.items[id] = stored
	meta.changes = append(meta.changes, Change{Action: ActionInject, After: stored.DeepCopy(), At: now})
	meta.modified = true
	return stored
}

// equalValue compares field values for observer notification. Uncomparable
// values (maps, slices) always report a change.
func equalValue(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// Inject installs attributes into the identity index outside any pipeline.
// The attributes must carry a primary-key value.
func (s *Store) Inject(resource string, attrs Record) (Record, error) {
	if attrs == nil {
		return nil, IllegalArgumentError{Reason: "attrs cannot be nil"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.resources[resource]
	if !ok {
		return nil, NonexistentResourceError{Resource: resource}
	}
	id, ok := attrs.ID(rs.def.PrimaryKey())
	if !ok {
		return nil, IllegalArgumentError{Reason: "attrs missing primary key " + rs.def.PrimaryKey()}
	}
	return s.injectLocked(rs, id, attrs), nil
}

// Eject removes the identity from the index and broadcasts an eject event.
func (s *Store) Eject(resource, id string) (Record, error) {
	return s.eject(resource, id, false)
}

func (s *Store) eject(resource, id string, silent bool) (Record, error) {
	s.mu.Lock()
	rs, ok := s.resources[resource]
	if !ok {
		s.mu.Unlock()
		return nil, NonexistentResourceError{Resource: resource}
	}
	rec, ok := rs.items[id]
	if !ok {
		s.mu.Unlock()
		return nil, RecordNotFoundError{Resource: resource, ID: id}
	}
	delete(rs.items, id)
	delete(rs.meta, id)
	def := rs.def
	s.mu.Unlock()
	if !silent {
		s.emit(def, EventEject, rec.Copy())
	}
	return rec, nil
}

// Get returns the live record stored under id. The returned map is owned by
// the store; it is the same reference handed back by Create and Inject.
func (s *Store) Get(resource, id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.resources[resource]
	if !ok {
		return nil, false
	}
	rec, ok := rs.items[id]
	return rec, ok
}

// GetAll returns the live records of a resource, ordered by identity.
func (s *Store) GetAll(resource string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.resources[resource]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(rs.items))
	for id := range rs.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, rs.items[id])
	}
	return out
}

// Previous returns a copy of the attributes snapshotted at the identity's
// last successful commit.
func (s *Store) Previous(resource, id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.lookupMeta(resource, id)
	if !ok || meta.previous == nil {
		return nil, false
	}
	return meta.previous.DeepCopy(), true
}

// ChangeHistory returns a copy of the ordered mutation log for an identity.
func (s *Store) ChangeHistory(resource, id string) []Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.lookupMeta(resource, id)
	if !ok {
		return nil
	}
	out := make([]Change, len(meta.changes))
	copy(out, meta.changes)
	return out
}

// IsModified reports the identity's dirty bit: true when the record has been
// mutated since its last successful commit.
func (s *Store) IsModified(resource, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.lookupMeta(resource, id)
	return ok && meta.modified
}

// LastSaved returns the timestamp of the identity's last successful
// persistence, zero if it was never saved.
func (s *Store) LastSaved(resource, id string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.lookupMeta(resource, id)
	if !ok {
		return time.Time{}
	}
	return meta.saved
}

// HasCompletedQuery reports whether the identity was fully fetched or
// created at least once.
func (s *Store) HasCompletedQuery(resource, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.lookupMeta(resource, id)
	return ok && !meta.completedQuery.IsZero()
}

// Observe registers a field-change observer for an identity and returns a
// token for Unobserve.
func (s *Store) Observe(resource, id string, fn ObserverFunc) (int, error) {
	if fn == nil {
		return 0, IllegalArgumentError{Reason: "observer cannot be nil"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rs, ok := s.resources[resource]
	if !ok {
		return 0, NonexistentResourceError{Resource: resource}
	}
	s.observerSeq++
	token := s.observerSeq
	rs.metaFor(id).observers[token] = fn
	return token, nil
}

// Unobserve removes a previously registered observer.
func (s *Store) Unobserve(resource, id string, token int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if meta, ok := s.lookupMeta(resource, id); ok {
		delete(meta.observers, token)
	}
}

func (s *Store) lookupMeta(resource, id string) (*recordMeta, bool) {
	rs, ok := s.resources[resource]
	if !ok {
		return nil, false
	}
	meta, ok := rs.meta[id]
	return meta, ok
}

// Snapshot exports every registered resource's committed records, ordered by
// identity, suitable for archival.
type Snapshot struct {
	Resources map[string][]Record `json:"resources"`
}

// Snapshot returns a deep copy of all stored records.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{Resources: make(map[string][]Record, len(s.resources))}
	for name, rs := range s.resources {
		ids := make([]string, 0, len(rs.items))
		for id := range rs.items {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		records := make([]Record, 0, len(ids))
		for _, id := range ids {
			records = append(records, rs.items[id].DeepCopy())
		}
		snap.Resources[name] = records
	}
	return snap
}

// ImportSnapshot injects the snapshot's records into their resources. Every
// resource in the snapshot must already be registered. Imported records read
// as clean and fully fetched.
func (s *Store) ImportSnapshot(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range snap.Resources {
		if _, ok := s.resources[name]; !ok {
			return NonexistentResourceError{Resource: name}
		}
	}
	for name, records := range snap.Resources {
		rs := s.resources[name]
		pk := rs.def.PrimaryKey()
		for _, rec := range records {
			id, ok := rec.ID(pk)
			if !ok {
				return IllegalArgumentError{Reason: "snapshot record for " + name + " missing primary key"}
			}
			stored := s.injectLocked(rs, id, rec)
			meta := rs.metaFor(id)
			meta.previous = stored.DeepCopy()
			meta.modified = false
			meta.completedQuery = s.nowFn()
		}
	}
	return nil
}

// Package domain defines the shared vocabulary of the record store: the
// attribute map type, resource definitions, lifecycle hooks, per-call
// options, backend adapter and event emitter contracts, and the typed
// errors raised by store operations.
package domain

import "fmt"

// Record is an attribute map with reference semantics. The store hands out
// live references to the records it owns; mutating a record mutates the
// stored state.
type Record map[string]any

// Copy returns a shallow copy. Nested maps and slices stay shared.
func (r Record) Copy() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// DeepCopy returns a recursive copy. Nested maps and slices are detached.
func (r Record) DeepCopy() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case Record:
		return val.DeepCopy()
	case map[string]any:
		return Record(val).DeepCopy()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}

// Merge writes every attribute of other into r, overwriting existing keys.
func (r Record) Merge(other Record) {
	for k, v := range other {
		r[k] = v
	}
}

// ID extracts the identity stored under idAttribute. It reports false when
// the attribute is absent, nil, or an empty string. Non-string values are
// rendered with fmt.Sprint.
func (r Record) ID(idAttribute string) (string, bool) {
	v, ok := r[idAttribute]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return "", false
		}
		return s, true
	}
	return fmt.Sprint(v), true
}

package domain

// Lifecycle events broadcast by the store. Payloads are shallow copies of the
// in-flight attributes; handlers must not assume reference identity with the
// stored record.
const (
	EventBeforeCreate = "beforeCreate"
	EventAfterCreate  = "afterCreate"
	EventBeforeUpdate = "beforeUpdate"
	EventAfterUpdate  = "afterUpdate"
	EventEject        = "eject"
)

// Emitter receives lifecycle events.
type Emitter interface {
	Emit(def ResourceDefinition, event string, payload Record)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(def ResourceDefinition, event string, payload Record)

// Emit implements Emitter.
func (f EmitterFunc) Emit(def ResourceDefinition, event string, payload Record) {
	f(def, event, payload)
}

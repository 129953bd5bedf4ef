package domain

import "context"

// HookStage names a lifecycle position at which a hook may run.
type HookStage string

// Lifecycle stages, in pipeline order.
const (
	StageBeforeValidate HookStage = "beforeValidate"
	StageValidate       HookStage = "validate"
	StageAfterValidate  HookStage = "afterValidate"
	StageBeforeCreate   HookStage = "beforeCreate"
	StageAfterCreate    HookStage = "afterCreate"
	StageBeforeUpdate   HookStage = "beforeUpdate"
	StageAfterUpdate    HookStage = "afterUpdate"
)

// Hook transforms the in-flight attributes at one lifecycle stage. Returning
// a nil Record leaves the attributes unchanged; returning an error aborts the
// pipeline.
type Hook func(ctx context.Context, resource string, attrs Record) (Record, error)

// SerializeFunc converts attributes into the backend wire representation
// before adapter dispatch.
type SerializeFunc func(resource string, attrs Record) (Record, error)

// DeserializeFunc converts a raw backend response back into attributes.
type DeserializeFunc func(resource string, raw Record) (Record, error)

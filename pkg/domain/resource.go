package domain

// DefaultIDAttribute is the primary-key attribute assumed when a resource
// definition names none.
const DefaultIDAttribute = "id"

// ResourceDefinition declares one resource type: its identity attribute,
// preferred backend adapter, default lifecycle hooks, and pipeline flags.
// Definitions are immutable once registered with a store.
type ResourceDefinition struct {
	Name           string
	IDAttribute    string
	DefaultAdapter string

	BeforeValidate Hook
	Validate       Hook
	AfterValidate  Hook
	BeforeCreate   Hook
	AfterCreate    Hook
	BeforeUpdate   Hook
	AfterUpdate    Hook

	// EagerInject makes creates visible under a temporary identity while
	// the backend call is in flight.
	EagerInject bool
	// Notify enables lifecycle event emission for this resource.
	Notify bool

	Serialize   SerializeFunc
	Deserialize DeserializeFunc

	// Wrap post-processes detached results (cacheResponse disabled) before
	// they are returned to the caller.
	Wrap func(Record) Record
}

// PrimaryKey returns the identity attribute, falling back to
// DefaultIDAttribute.
func (d ResourceDefinition) PrimaryKey() string {
	if d.IDAttribute != "" {
		return d.IDAttribute
	}
	return DefaultIDAttribute
}

// Hook returns the definition's default hook for a stage, nil if unset.
func (d ResourceDefinition) Hook(stage HookStage) Hook {
	switch stage {
	case StageBeforeValidate:
		return d.BeforeValidate
	case StageValidate:
		return d.Validate
	case StageAfterValidate:
		return d.AfterValidate
	case StageBeforeCreate:
		return d.BeforeCreate
	case StageAfterCreate:
		return d.AfterCreate
	case StageBeforeUpdate:
		return d.BeforeUpdate
	case StageAfterUpdate:
		return d.AfterUpdate
	default:
		return nil
	}
}

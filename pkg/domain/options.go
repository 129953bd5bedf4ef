package domain

// Options carries the per-call knobs shared by the create and update
// pipelines. Unset pointers fall back to their documented defaults or, for
// eager injection and notification, to the resource definition. A create
// redirected through upsert reuses the same Options value.
type Options struct {
	// CacheResponse controls committing the backend response into the
	// identity index. Defaults to true.
	CacheResponse *bool
	// Upsert redirects create calls to Update when the attributes already
	// carry a primary-key value. Defaults to true.
	Upsert *bool
	// EagerInject overrides the resource-level eager injection flag.
	EagerInject *bool
	// Notify overrides the resource-level notification flag.
	Notify *bool

	BeforeValidate Hook
	Validate       Hook
	AfterValidate  Hook
	BeforeCreate   Hook
	AfterCreate    Hook
	BeforeUpdate   Hook
	AfterUpdate    Hook

	Serialize   SerializeFunc
	Deserialize DeserializeFunc

	// Adapter selects a backend adapter by name for this call only.
	Adapter string
}

// Bool returns a pointer to v, for populating Options flags inline.
func Bool(v bool) *bool { return &v }

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

// CacheResponseEnabled reports whether the backend response is committed
// into the identity index.
func (o Options) CacheResponseEnabled() bool { return boolOr(o.CacheResponse, true) }

// UpsertEnabled reports whether creates with a primary key redirect to
// Update.
func (o Options) UpsertEnabled() bool { return boolOr(o.Upsert, true) }

// EagerInjectEnabled resolves the eager injection flag against the resource
// definition.
func (o Options) EagerInjectEnabled(def ResourceDefinition) bool {
	return boolOr(o.EagerInject, def.EagerInject)
}

// NotifyEnabled resolves the notification flag against the resource
// definition.
func (o Options) NotifyEnabled(def ResourceDefinition) bool {
	return boolOr(o.Notify, def.Notify)
}

// Hook returns the call-scoped hook override for a stage, nil if unset.
func (o Options) Hook(stage HookStage) Hook {
	switch stage {
	case StageBeforeValidate:
		return o.BeforeValidate
	case StageValidate:
		return o.Validate
	case StageAfterValidate:
		return o.AfterValidate
	case StageBeforeCreate:
		return o.BeforeCreate
	case StageAfterCreate:
		return o.AfterCreate
	case StageBeforeUpdate:
		return o.BeforeUpdate
	case StageAfterUpdate:
		return o.AfterUpdate
	default:
		return nil
	}
}

package core

import "context"

// resolveHook picks the effective function for a lifecycle stage: the
// call-scoped override when supplied, else the resource definition's default.
// Each stage resolves independently. A nil result means pass-through.
func resolveHook(stage HookStage, opts Options, def ResourceDefinition) Hook {
	if h := opts.Hook(stage); h != nil {
		return h
	}
	return def.Hook(stage)
}

// applyHook runs a resolved hook against the in-flight attributes. A nil hook
// or a nil hook result leaves the attributes unchanged; a hook error aborts
// the pipeline.
func applyHook(ctx context.Context, h Hook, resource string, attrs Record) (Record, error) {
	if h == nil {
		return attrs, nil
	}
	out, err := h(ctx, resource, attrs)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return attrs, nil
	}
	return out, nil
}

func resolveSerialize(opts Options, def ResourceDefinition) SerializeFunc {
	if opts.Serialize != nil {
		return opts.Serialize
	}
	if def.Serialize != nil {
		return def.Serialize
	}
	return func(_ string, attrs Record) (Record, error) { return attrs, nil }
}

func resolveDeserialize(opts Options, def ResourceDefinition) DeserializeFunc {
	if opts.Deserialize != nil {
		return opts.Deserialize
	}
	if def.Deserialize != nil {
		return def.Deserialize
	}
	return func(_ string, raw Record) (Record, error) { return raw, nil }
}

package domain

import "context"

// Adapter is the backend persistence contract. Adapters receive serialized
// attributes and return the authoritative stored representation, including
// the server-assigned identity when the incoming one was temporary.
type Adapter interface {
	Name() string
	Create(ctx context.Context, def ResourceDefinition, attrs Record, opts Options) (Record, error)
	Update(ctx context.Context, def ResourceDefinition, id string, attrs Record, opts Options) (Record, error)
	Find(ctx context.Context, def ResourceDefinition, id string) (Record, error)
	Destroy(ctx context.Context, def ResourceDefinition, id string) error
}

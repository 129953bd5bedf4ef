package domain

import "fmt"

// NonexistentResourceError reports an operation against a resource that was
// never registered.
type NonexistentResourceError struct {
	Resource string
}

func (e NonexistentResourceError) Error() string {
	return fmt.Sprintf("resource %q is not defined", e.Resource)
}

// IllegalArgumentError reports a precondition violation on a store call.
type IllegalArgumentError struct {
	Reason string
}

func (e IllegalArgumentError) Error() string {
	return e.Reason
}

// RecordNotFoundError reports a lookup for an identity that is not present.
type RecordNotFoundError struct {
	Resource string
	ID       string
}

func (e RecordNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

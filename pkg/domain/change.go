package domain

import "time"

// Action classifies one entry in an identity's change history.
type Action string

// Change actions.
const (
	ActionInject Action = "inject"
	ActionMerge  Action = "merge"
	ActionEject  Action = "eject"
)

// Change records one mutation of a stored identity.
type Change struct {
	Action Action    `json:"action"`
	Before Record    `json:"before,omitempty"`
	After  Record    `json:"after,omitempty"`
	At     time.Time `json:"at"`
}

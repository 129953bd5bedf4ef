package domain

import (
	"strings"

	"github.com/google/uuid"
)

const temporaryIDPrefix = "tmp-"

// TemporaryID generates a placeholder identity for eager injection. Backend
// adapters recognize the prefix and substitute an authoritative identity.
func TemporaryID() string {
	return temporaryIDPrefix + uuid.NewString()
}

// IsTemporaryID reports whether id is a placeholder generated by
// TemporaryID.
func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, temporaryIDPrefix)
}

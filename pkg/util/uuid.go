package util

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Namespace scopes the name-based UUIDs produced by HashUUID.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/jpfielding/dither.go"))

// HashUUID returns a stable UUID for the JSON form of value, so the same input
// file processed with the same settings always gets the same id. It returns
// "" if value cannot be marshalled.
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return uuid.NewSHA1(Namespace, raw).String()
}

// NewRunID returns a random id for one invocation.
func NewRunID() string {
	return uuid.NewString()
}

package util

import (
	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string using a monotonic, crypto-seeded entropy source.
func NewULID() string {
	return ulid.Make().String()
}

// IsValidULID reports whether s parses as a ULID.
func IsValidULID(s string) bool {
	if len(s) != ulid.EncodedSize {
		return false
	}
	_, err := ulid.ParseStrict(s)
	return err == nil
}

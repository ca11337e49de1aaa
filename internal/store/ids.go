package store

import "github.com/google/uuid"

// IDGenerator creates run ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator creates time-sortable run ids.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7. It panics if the random
// source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

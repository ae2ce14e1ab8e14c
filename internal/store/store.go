// Package store defines snapshot persistence for the ledger state.
// The whole LedgerState is saved and loaded as one atomic snapshot under a
// fixed key — there is no incremental write path. Implementations include
// Redis, PostgreSQL (single-row slot), and in-memory (for testing).
package store

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned by Load when no snapshot has been saved yet.
// Callers treat it as "start from defaults", not as a failure.
var ErrNoSnapshot = errors.New("store: no snapshot found")

// DefaultKey is the storage slot the ledger snapshot lives under.
const DefaultKey = "bacbo:ledger"

// Store persists the serialized ledger snapshot. Save overwrites the whole
// slot; Load returns the raw snapshot bytes for decoding.
type Store interface {
	// Save writes the full snapshot, replacing any previous one.
	Save(ctx context.Context, snapshot []byte) error

	// Load reads the last saved snapshot. Returns ErrNoSnapshot when the
	// slot is empty.
	Load(ctx context.Context) ([]byte, error)
}

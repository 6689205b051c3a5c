package store

import (
	"context"
	"time"

	"workledger/internal/registry/models"
)

// Error Contract:
// All store methods follow this pattern:
// - Return sentinel.ErrNotFound when the requested record does not exist
// - Return sentinel.ErrAlreadyVerified when a verification was already applied
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
//
// Services translate sentinels into domain errors exactly once.

// Store owns the id-to-record mapping and the identifier counter. Allocation
// is atomic: ids are issued in increasing order from zero with no gaps, and
// the counter doubles as the count of records ever created.
type Store interface {
	// Add assigns the next id to the record, stores it, and returns the id.
	Add(ctx context.Context, record *models.WorkRecord) (uint64, error)

	// Get returns the record stored under id.
	Get(ctx context.Context, id uint64) (*models.WorkRecord, error)

	// Verify applies the one-way Unverified -> Verified transition as a
	// single atomic compare-and-set and returns the updated record. Under
	// concurrent calls for one id, exactly one succeeds.
	Verify(ctx context.Context, id uint64, verifier string, at time.Time) (*models.WorkRecord, error)

	// Total returns the number of records ever created.
	Total(ctx context.Context) (uint64, error)
}

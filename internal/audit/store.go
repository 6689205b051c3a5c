package audit

import (
	"context"

	pkgerrors "workledger/pkg/domain-errors"
)

var (
	// ErrNotFound keeps storage-specific 404s consistent across implementations.
	ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "audit event not found")
)

type Store interface {
	Append(ctx context.Context, event Event) error
	ListByRecord(ctx context.Context, recordID uint64) ([]Event, error)
}

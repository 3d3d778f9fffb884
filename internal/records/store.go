package records

import (
	"context"

	id "datatrail/pkg/domain"
)

// Store is the append-only record log. There is deliberately no update,
// delete or truncate operation; Redact flips the one soft-state flag.
//
// Append assigns and returns the record's sequence index. Redact and Get
// return sentinel.ErrOutOfRange for indices beyond the current length.
type Store interface {
	Append(ctx context.Context, record DataRecord) (int, error)
	Redact(ctx context.Context, subject id.Principal, index int) error
	Count(ctx context.Context, subject id.Principal) (int, error)
	Get(ctx context.Context, subject id.Principal, index int) (DataRecord, error)
}

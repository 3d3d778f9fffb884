package consent

import (
	"context"

	id "datatrail/pkg/domain"
)

// Store keys consent entries by (subject, category). Put overwrites
// unconditionally; Get returns sentinel.ErrNotFound when no entry exists.
type Store interface {
	Put(ctx context.Context, consent Consent) error
	Get(ctx context.Context, subject id.Principal, category id.DataCategory) (Consent, error)
}

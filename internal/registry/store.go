package registry

import (
	"context"

	id "datatrail/pkg/domain"
)

// VerificationStore tracks which organizations are platform-verified.
// Absence from the store is equivalent to unverified.
type VerificationStore interface {
	SetVerified(ctx context.Context, org id.Principal, verified bool) error
	IsVerified(ctx context.Context, org id.Principal) (bool, error)
}

package approval

import (
	"context"

	id "datatrail/pkg/domain"
)

// Store holds both approval relations, keyed by (kind, subject, grantee).
// Absence is equivalent to not approved.
type Store interface {
	Set(ctx context.Context, kind id.ApprovalKind, subject, grantee id.Principal, approved bool) error
	Get(ctx context.Context, kind id.ApprovalKind, subject, grantee id.Principal) (bool, error)
}

package access

import (
	"context"

	id "datatrail/pkg/domain"
)

// VerificationReader reports platform verification of an organization.
type VerificationReader interface {
	IsVerified(ctx context.Context, org id.Principal) (bool, error)
}

// ApprovalReader reports subject-granted read approval.
type ApprovalReader interface {
	IsInsurerApproved(ctx context.Context, subject, organization id.Principal) (bool, error)
}

// Evaluator composes the verification and approval relations into the single
// read-authorization decision. The goal is to keep the rule centralized and
// testable; the evaluator has no stores of its own and no side effects.
type Evaluator struct {
	verifications VerificationReader
	approvals     ApprovalReader
}

func NewEvaluator(verifications VerificationReader, approvals ApprovalReader) *Evaluator {
	return &Evaluator{verifications: verifications, approvals: approvals}
}

// CanAccess returns true iff the caller is the subject itself, or the subject
// approved the caller as an insurer AND the caller is platform-verified.
// Both conjuncts are required; neither alone grants access. A subject's
// access to its own records is unconditional and independent of all tables.
func (e *Evaluator) CanAccess(ctx context.Context, subject, caller id.Principal) (bool, error) {
	if caller == subject {
		return true, nil
	}

	approved, err := e.approvals.IsInsurerApproved(ctx, subject, caller)
	if err != nil {
		return false, err
	}
	if !approved {
		return false, nil
	}

	verified, err := e.verifications.IsVerified(ctx, caller)
	if err != nil {
		return false, err
	}
	return verified, nil
}

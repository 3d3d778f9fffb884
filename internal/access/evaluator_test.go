package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "datatrail/pkg/domain"
)

type fakeVerifications map[id.Principal]bool

func (f fakeVerifications) IsVerified(_ context.Context, org id.Principal) (bool, error) {
	return f[org], nil
}

type fakeApprovals map[[2]id.Principal]bool

func (f fakeApprovals) IsInsurerApproved(_ context.Context, subject, organization id.Principal) (bool, error) {
	return f[[2]id.Principal{subject, organization}], nil
}

func TestCanAccess(t *testing.T) {
	subject := id.Principal("user-1")
	insurer := id.Principal("insurer-1")

	tests := []struct {
		name     string
		approved bool
		verified bool
		caller   id.Principal
		want     bool
	}{
		{name: "self access always allowed", caller: subject, want: true},
		{name: "approved and verified", approved: true, verified: true, caller: insurer, want: true},
		{name: "approved but unverified", approved: true, verified: false, caller: insurer, want: false},
		{name: "verified but unapproved", approved: false, verified: true, caller: insurer, want: false},
		{name: "neither", approved: false, verified: false, caller: insurer, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifications := fakeVerifications{}
			if tt.verified {
				verifications[insurer] = true
			}
			approvals := fakeApprovals{}
			if tt.approved {
				approvals[[2]id.Principal{subject, insurer}] = true
			}

			evaluator := NewEvaluator(verifications, approvals)
			got, err := evaluator.CanAccess(context.Background(), subject, tt.caller)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Access flips with the underlying relations and restores without residue;
// nothing about a past grant or withdrawal is sticky.
func TestCanAccessFollowsRelationChanges(t *testing.T) {
	subject := id.Principal("user-2")
	insurer := id.Principal("insurer-2")
	key := [2]id.Principal{subject, insurer}

	verifications := fakeVerifications{insurer: true}
	approvals := fakeApprovals{key: true}
	evaluator := NewEvaluator(verifications, approvals)
	ctx := context.Background()

	got, err := evaluator.CanAccess(ctx, subject, insurer)
	require.NoError(t, err)
	assert.True(t, got)

	verifications[insurer] = false
	got, err = evaluator.CanAccess(ctx, subject, insurer)
	require.NoError(t, err)
	assert.False(t, got)

	verifications[insurer] = true
	got, err = evaluator.CanAccess(ctx, subject, insurer)
	require.NoError(t, err)
	assert.True(t, got)

	// Self access survives any combination of relation state.
	got, err = evaluator.CanAccess(ctx, subject, subject)
	require.NoError(t, err)
	assert.True(t, got)
}

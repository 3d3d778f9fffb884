//go:build integration

package approval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "datatrail/pkg/domain"
	"datatrail/pkg/testutil/containers"
)

func TestPostgresStoreApprovals(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	store := NewPostgresStore(pc.DB)
	ctx := context.Background()
	subject := id.Principal("user-pg-1")
	grantee := id.Principal("insurer-pg-1")

	approved, err := store.Get(ctx, id.ApprovalKindInsurer, subject, grantee)
	require.NoError(t, err)
	assert.False(t, approved)

	require.NoError(t, store.Set(ctx, id.ApprovalKindInsurer, subject, grantee, true))
	approved, err = store.Get(ctx, id.ApprovalKindInsurer, subject, grantee)
	require.NoError(t, err)
	assert.True(t, approved)

	// Same pair under the other kind stays untouched.
	approved, err = store.Get(ctx, id.ApprovalKindAgent, subject, grantee)
	require.NoError(t, err)
	assert.False(t, approved)

	require.NoError(t, store.Set(ctx, id.ApprovalKindInsurer, subject, grantee, false))
	approved, err = store.Get(ctx, id.ApprovalKindInsurer, subject, grantee)
	require.NoError(t, err)
	assert.False(t, approved)
}

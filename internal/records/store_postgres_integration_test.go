//go:build integration

package records

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "datatrail/pkg/domain"
	"datatrail/pkg/platform/sentinel"
	"datatrail/pkg/testutil/containers"
)

func newPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	pc := containers.NewPostgresContainer(t)

	pool, err := pgxpool.New(context.Background(), pc.DSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewPostgresStore(pool)
}

func TestPostgresStoreRoundtrip(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	subject := id.Principal("user-pg-1")

	record := DataRecord{
		Subject:           subject,
		Category:          id.DataCategoryHealth,
		DataFingerprint:   id.Hash{0xaa, 0xbb},
		LocationURI:       "ipfs://bafy...",
		EncryptionKeyHint: id.Hash{0x01},
		CollectedAt:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		StoredAt:          time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC),
	}

	index, err := store.Append(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, 0, index)

	got, err := store.Get(ctx, subject, 0)
	require.NoError(t, err)
	assert.Equal(t, record.DataFingerprint, got.DataFingerprint)
	assert.Equal(t, record.LocationURI, got.LocationURI)
	assert.Equal(t, record.EncryptionKeyHint, got.EncryptionKeyHint)
	assert.True(t, record.CollectedAt.Equal(got.CollectedAt))
	assert.True(t, record.StoredAt.Equal(got.StoredAt))
	assert.False(t, got.Redacted)

	_, err = store.Get(ctx, subject, 1)
	assert.ErrorIs(t, err, sentinel.ErrOutOfRange)
}

func TestPostgresStoreRedact(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	subject := id.Principal("user-pg-2")

	_, err := store.Append(ctx, DataRecord{Subject: subject, Category: id.DataCategoryDriving, StoredAt: time.Now().UTC()})
	require.NoError(t, err)

	require.NoError(t, store.Redact(ctx, subject, 0))
	require.NoError(t, store.Redact(ctx, subject, 0))

	got, err := store.Get(ctx, subject, 0)
	require.NoError(t, err)
	assert.True(t, got.Redacted)

	assert.ErrorIs(t, store.Redact(ctx, subject, 3), sentinel.ErrOutOfRange)
	assert.ErrorIs(t, store.Redact(ctx, id.Principal("nobody"), 0), sentinel.ErrOutOfRange)
}

// Concurrent appends for one subject must serialize on the advisory lock and
// come out with dense, distinct indices.
func TestPostgresStoreConcurrentAppends(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	subject := id.Principal("user-pg-3")

	const writers = 8
	indices := make([]int, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			index, err := store.Append(ctx, DataRecord{Subject: subject, Category: id.DataCategoryOther, StoredAt: time.Now().UTC()})
			assert.NoError(t, err)
			indices[slot] = index
		}(i)
	}
	wg.Wait()

	count, err := store.Count(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, writers, count)

	seen := make(map[int]bool, writers)
	for _, index := range indices {
		assert.False(t, seen[index], "index %d assigned twice", index)
		assert.GreaterOrEqual(t, index, 0)
		assert.Less(t, index, writers)
		seen[index] = true
	}
}

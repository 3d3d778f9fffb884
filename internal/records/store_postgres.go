package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	id "datatrail/pkg/domain"
	"datatrail/pkg/platform/sentinel"
)

// PostgresStore persists record logs in PostgreSQL via pgx. Index assignment
// happens inside a transaction under a per-subject advisory lock so
// concurrent appends for one subject serialize and indices stay dense.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, record DataRecord) (int, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin append: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, record.Subject.String()); err != nil {
		return 0, fmt.Errorf("lock subject log: %w", err)
	}

	var index int
	err = tx.QueryRow(ctx, `SELECT count(*) FROM records WHERE subject = $1`, record.Subject.String()).Scan(&index)
	if err != nil {
		return 0, fmt.Errorf("next index: %w", err)
	}

	var collected *time.Time
	if !record.CollectedAt.IsZero() {
		collected = &record.CollectedAt
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO records (subject, idx, category, data_fingerprint, location_uri, encryption_key_hint, collected_at, stored_at, redacted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false)
	`, record.Subject.String(), index, record.Category.String(),
		record.DataFingerprint[:], record.LocationURI, record.EncryptionKeyHint[:],
		collected, record.StoredAt)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit append: %w", err)
	}
	return index, nil
}

func (s *PostgresStore) Redact(ctx context.Context, subject id.Principal, index int) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE records SET redacted = true WHERE subject = $1 AND idx = $2
	`, subject.String(), index)
	if err != nil {
		return fmt.Errorf("redact record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrOutOfRange
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context, subject id.Principal) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM records WHERE subject = $1`, subject.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) Get(ctx context.Context, subject id.Principal, index int) (DataRecord, error) {
	var (
		r         DataRecord
		fp, hint  []byte
		collected *time.Time
	)
	err := s.pool.QueryRow(ctx, `
		SELECT category, data_fingerprint, location_uri, encryption_key_hint, collected_at, stored_at, redacted
		FROM records WHERE subject = $1 AND idx = $2
	`, subject.String(), index).Scan(&r.Category, &fp, &r.LocationURI, &hint, &collected, &r.StoredAt, &r.Redacted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DataRecord{}, sentinel.ErrOutOfRange
		}
		return DataRecord{}, fmt.Errorf("get record: %w", err)
	}

	r.Subject = subject
	r.Index = index
	copy(r.DataFingerprint[:], fp)
	copy(r.EncryptionKeyHint[:], hint)
	if collected != nil {
		r.CollectedAt = collected.UTC()
	}
	r.StoredAt = r.StoredAt.UTC()
	return r, nil
}

package approval

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "datatrail/pkg/domain"
)

// PostgresStore persists approval relations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Set(ctx context.Context, kind id.ApprovalKind, subject, grantee id.Principal, approved bool) error {
	query := `
		INSERT INTO approvals (kind, subject, grantee, approved, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (kind, subject, grantee)
		DO UPDATE SET approved = EXCLUDED.approved, updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query, kind.String(), subject.String(), grantee.String(), approved); err != nil {
		return fmt.Errorf("set approval: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, kind id.ApprovalKind, subject, grantee id.Principal) (bool, error) {
	var approved bool
	query := `SELECT approved FROM approvals WHERE kind = $1 AND subject = $2 AND grantee = $3`
	err := s.db.QueryRowContext(ctx, query, kind.String(), subject.String(), grantee.String()).Scan(&approved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get approval: %w", err)
	}
	return approved, nil
}

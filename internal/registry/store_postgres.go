package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "datatrail/pkg/domain"
)

// PostgresStore persists organization verification in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SetVerified(ctx context.Context, org id.Principal, verified bool) error {
	query := `
		INSERT INTO verified_organizations (organization, verified, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (organization)
		DO UPDATE SET verified = EXCLUDED.verified, updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query, org.String(), verified); err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsVerified(ctx context.Context, org id.Principal) (bool, error) {
	var verified bool
	query := `SELECT verified FROM verified_organizations WHERE organization = $1`
	err := s.db.QueryRowContext(ctx, query, org.String()).Scan(&verified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("is verified: %w", err)
	}
	return verified, nil
}

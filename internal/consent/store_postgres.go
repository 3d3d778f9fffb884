package consent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	id "datatrail/pkg/domain"
	"datatrail/pkg/platform/sentinel"
)

// PostgresStore persists consent entries in PostgreSQL. Expiry is stored as
// a nullable timestamp; NULL maps to the never-expires zero time.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Put(ctx context.Context, consent Consent) error {
	var expires sql.NullTime
	if !consent.ExpiresAt.IsZero() {
		expires = sql.NullTime{Time: consent.ExpiresAt, Valid: true}
	}
	query := `
		INSERT INTO consents (subject, category, active, expires_at, terms_uri, terms_hash, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (subject, category)
		DO UPDATE SET active = EXCLUDED.active,
		              expires_at = EXCLUDED.expires_at,
		              terms_uri = EXCLUDED.terms_uri,
		              terms_hash = EXCLUDED.terms_hash,
		              updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query,
		consent.Subject.String(), consent.Category.String(), consent.Active,
		expires, consent.TermsURI, consent.TermsHash[:],
	); err != nil {
		return fmt.Errorf("put consent: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, subject id.Principal, category id.DataCategory) (Consent, error) {
	query := `
		SELECT active, expires_at, terms_uri, terms_hash
		FROM consents WHERE subject = $1 AND category = $2
	`
	var (
		c       Consent
		expires sql.NullTime
		hash    []byte
	)
	err := s.db.QueryRowContext(ctx, query, subject.String(), category.String()).
		Scan(&c.Active, &expires, &c.TermsURI, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Consent{}, sentinel.ErrNotFound
		}
		return Consent{}, fmt.Errorf("get consent: %w", err)
	}

	c.Subject = subject
	c.Category = category
	if expires.Valid {
		c.ExpiresAt = expires.Time.UTC()
	} else {
		c.ExpiresAt = time.Time{}
	}
	copy(c.TermsHash[:], hash)
	return c, nil
}

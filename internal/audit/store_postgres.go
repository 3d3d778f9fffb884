package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	id "datatrail/pkg/domain"
)

// PostgresStore persists the notification stream in an append-only outbox
// table. The bigserial seq column is the transaction order; a relay worker
// can forward rows to Kafka for off-chain indexers.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed notification store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	query := `
		INSERT INTO notifications (id, kind, subject, actor, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := s.db.ExecContext(ctx, query,
		event.ID, string(event.Kind), event.Subject.String(), event.Actor.String(),
		payload, event.Timestamp,
	); err != nil {
		return fmt.Errorf("append notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subject id.Principal) ([]Event, error) {
	query := `
		SELECT seq, payload FROM notifications
		WHERE subject = $1
		ORDER BY seq ASC
	`
	rows, err := s.db.QueryContext(ctx, query, subject.String())
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var seq uint64
		var payload []byte
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		var e Event
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		e.Seq = seq
		out = append(out, e)
	}
	return out, rows.Err()
}

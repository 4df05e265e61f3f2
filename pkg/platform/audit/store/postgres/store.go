// Package postgres persists the audit trail in the audit_events table so the
// admin read endpoint survives restarts. Appends join the caller's
// transaction when one is carried in the context.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "clubdir/pkg/domain"
	"clubdir/pkg/platform/audit"
	txcontext "clubdir/pkg/platform/tx"
)

// Store implements audit.Store over Postgres.
type Store struct {
	db *sql.DB
}

// New creates a Postgres audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append inserts one decision event. The write joins an in-flight
// transaction when the context carries one.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, category, timestamp, principal_id, action,
			resource_type, resource_id, decision, clause, reason,
			request_id, client_ip, client_summary
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.New(),
		string(event.Category),
		timestamp,
		uuid.UUID(event.Principal),
		event.Action,
		event.ResourceType,
		event.ResourceID,
		event.Decision,
		event.Clause,
		event.Reason,
		event.RequestID,
		event.ClientIP,
		event.ClientSummary,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByPrincipal returns a principal's decision history, newest first.
func (s *Store) ListByPrincipal(ctx context.Context, principal id.PrincipalID) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, principal_id, action,
			   resource_type, resource_id, decision, clause, reason,
			   request_id, client_ip, client_summary
		FROM audit_events
		WHERE principal_id = $1
		ORDER BY timestamp DESC
	`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(principal))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent returns the N most recent events across all principals.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, principal_id, action,
			   resource_type, resource_id, decision, clause, reason,
			   request_id, client_ip, client_summary
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event

	for rows.Next() {
		var (
			category  string
			principal uuid.UUID
			event     audit.Event
		)

		err := rows.Scan(
			&category,
			&event.Timestamp,
			&principal,
			&event.Action,
			&event.ResourceType,
			&event.ResourceID,
			&event.Decision,
			&event.Clause,
			&event.Reason,
			&event.RequestID,
			&event.ClientIP,
			&event.ClientSummary,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		event.Category = audit.EventCategory(category)
		event.Principal = id.PrincipalID(principal)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}

	return events, nil
}

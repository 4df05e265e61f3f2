//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// directorySchema is the minimal DDL the directory store reads against.
// The host CRUD layer owns the production migrations; this mirrors them.
const directorySchema = `
CREATE TABLE IF NOT EXISTS countries (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS regions (
	id UUID PRIMARY KEY,
	country_id UUID NOT NULL REFERENCES countries(id),
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS clubs (
	id UUID PRIMARY KEY,
	region_id UUID NOT NULL REFERENCES regions(id),
	country_id UUID NOT NULL REFERENCES countries(id),
	missionary_id UUID,
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS admin_roles (
	id UUID PRIMARY KEY,
	principal_id UUID NOT NULL,
	scope TEXT NOT NULL,
	country_id UUID,
	region_id UUID
);

CREATE TABLE IF NOT EXISTS club_memberships (
	id UUID PRIMARY KEY,
	principal_id UUID NOT NULL,
	club_id UUID NOT NULL REFERENCES clubs(id),
	roles TEXT[] NOT NULL DEFAULT '{}',
	UNIQUE (principal_id, club_id)
);

CREATE TABLE IF NOT EXISTS programs (
	id UUID PRIMARY KEY,
	club_id UUID NOT NULL REFERENCES clubs(id)
);

CREATE TABLE IF NOT EXISTS club_years (
	id UUID PRIMARY KEY,
	club_id UUID NOT NULL REFERENCES clubs(id)
);

CREATE TABLE IF NOT EXISTS clubbers (
	id UUID PRIMARY KEY,
	club_id UUID NOT NULL REFERENCES clubs(id)
);

CREATE TABLE IF NOT EXISTS events (
	id UUID PRIMARY KEY,
	club_id UUID NOT NULL REFERENCES clubs(id)
);

CREATE TABLE IF NOT EXISTS audit_events (
	id UUID PRIMARY KEY,
	category TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL,
	principal_id UUID NOT NULL,
	action TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	resource_id TEXT NOT NULL DEFAULT '',
	decision TEXT NOT NULL,
	clause TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT '',
	client_ip TEXT NOT NULL DEFAULT '',
	client_summary TEXT NOT NULL DEFAULT ''
);
`

// PostgresContainer wraps a testcontainers Postgres instance with an open
// connection pool and the directory schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sql.DB
	URL       string
}

// NewPostgresContainer starts a Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("clubdir_test"),
		tcpostgres.WithUsername("clubdir"),
		tcpostgres.WithPassword("clubdir"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres pool: %v", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, directorySchema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	// Shared across suites via the Manager; Ryuk handles cleanup.
	return &PostgresContainer{Container: container, DB: db, URL: url}
}

// TruncateTables empties the given tables, cascading to dependents. Use
// between tests to ensure isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	stmt := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", "))
	if _, err := p.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

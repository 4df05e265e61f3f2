// Package postgres implements the directory read surface over PostgreSQL
// using database/sql with the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"clubdir/internal/directory/models"
	"clubdir/internal/platform/config"
	id "clubdir/pkg/domain"
	"clubdir/pkg/platform/sentinel"
	txcontext "clubdir/pkg/platform/tx"
)

// Postgres error codes for schema objects that do not exist yet. The delete
// guard treats both as "no dependents" so it stays idempotent against
// partially-migrated schemas.
const (
	pgUndefinedTable  = "42P01"
	pgUndefinedColumn = "42703"
)

// Store implements ports.Store over a PostgreSQL directory.
type Store struct {
	db *sql.DB
}

// New creates a store over an existing connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects a pool from config and returns a store over it.
func Open(cfg config.DatabaseConfig) (*Store, *sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(db), db, nil
}

type dbQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// querier prefers the transaction bound to the context so the delete guard's
// counts run inside the host's delete transaction.
func (s *Store) querier(ctx context.Context) dbQuerier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// ---------------------------------------------------------------------------
// ports.ScopeReader
// ---------------------------------------------------------------------------

func (s *Store) GetScopeChain(ctx context.Context, resourceType id.ResourceType, resourceID id.ResourceID) (models.ResourceRef, error) {
	ref := models.ResourceRef{Type: resourceType, ID: resourceID}
	raw := uuid.UUID(resourceID)
	q := s.querier(ctx)

	switch resourceType {
	case id.TypePrincipal:
		// Principals live in the identity provider; any well-formed id is a
		// valid self target.
		ref.Owner = id.PrincipalID(raw)
		return ref, nil

	case id.TypeCountry:
		var countryID uuid.UUID
		err := q.QueryRowContext(ctx, `SELECT id FROM countries WHERE id = $1`, raw).Scan(&countryID)
		if err != nil {
			return models.ResourceRef{}, mapRowErr(err, "country")
		}
		ref.Chain = id.ScopeChain{CountryID: id.CountryID(countryID)}
		return ref, nil

	case id.TypeRegion:
		var regionID, countryID uuid.UUID
		err := q.QueryRowContext(ctx,
			`SELECT id, country_id FROM regions WHERE id = $1`, raw,
		).Scan(&regionID, &countryID)
		if err != nil {
			return models.ResourceRef{}, mapRowErr(err, "region")
		}
		ref.Chain = id.ScopeChain{CountryID: id.CountryID(countryID), RegionID: id.RegionID(regionID)}
		return ref, nil

	case id.TypeClub:
		chain, err := s.clubChain(ctx, q, `SELECT id, region_id, country_id, missionary_id FROM clubs WHERE id = $1`, raw)
		if err != nil {
			return models.ResourceRef{}, err
		}
		ref.Chain = chain
		return ref, nil

	case id.TypeAdminRole:
		var (
			principal uuid.UUID
			countryID *uuid.UUID
			regionID  *uuid.UUID
		)
		err := q.QueryRowContext(ctx, `
			SELECT ar.principal_id, COALESCE(ar.country_id, r.country_id), ar.region_id
			FROM admin_roles ar
			LEFT JOIN regions r ON r.id = ar.region_id
			WHERE ar.id = $1`, raw,
		).Scan(&principal, &countryID, &regionID)
		if err != nil {
			return models.ResourceRef{}, mapRowErr(err, "admin role")
		}
		ref.Owner = id.PrincipalID(principal)
		if countryID != nil {
			ref.Chain.CountryID = id.CountryID(*countryID)
		}
		if regionID != nil {
			ref.Chain.RegionID = id.RegionID(*regionID)
		}
		return ref, nil

	case id.TypeClubMembership:
		var principal, clubID uuid.UUID
		err := q.QueryRowContext(ctx,
			`SELECT principal_id, club_id FROM club_memberships WHERE id = $1`, raw,
		).Scan(&principal, &clubID)
		if err != nil {
			return models.ResourceRef{}, mapRowErr(err, "club membership")
		}
		chain, err := s.clubChain(ctx, q, `SELECT id, region_id, country_id, missionary_id FROM clubs WHERE id = $1`, clubID)
		if err != nil {
			return models.ResourceRef{}, err
		}
		ref.Owner = id.PrincipalID(principal)
		ref.Chain = chain
		return ref, nil

	default:
		table, ok := operationalTables[resourceType]
		if !ok {
			return models.ResourceRef{}, sentinel.ErrNotFound
		}
		// Operational rows carry a denormalized club_id; one join resolves
		// the full chain.
		query := fmt.Sprintf(`
			SELECT c.id, c.region_id, c.country_id, c.missionary_id
			FROM %s t
			JOIN clubs c ON c.id = t.club_id
			WHERE t.id = $1`, table)
		chain, err := s.clubChain(ctx, q, query, raw)
		if err != nil {
			return models.ResourceRef{}, err
		}
		ref.Chain = chain
		return ref, nil
	}
}

func (s *Store) clubChain(ctx context.Context, q dbQuerier, query string, arg uuid.UUID) (id.ScopeChain, error) {
	var (
		clubID, regionID, countryID uuid.UUID
		missionaryID                *uuid.UUID
	)
	err := q.QueryRowContext(ctx, query, arg).Scan(&clubID, &regionID, &countryID, &missionaryID)
	if err != nil {
		return id.ScopeChain{}, mapRowErr(err, "club")
	}
	chain := id.ScopeChain{
		CountryID: id.CountryID(countryID),
		RegionID:  id.RegionID(regionID),
		ClubID:    id.ClubID(clubID),
	}
	if missionaryID != nil {
		chain.ClubMissionaryID = id.PrincipalID(*missionaryID)
	}
	return chain, nil
}

// ---------------------------------------------------------------------------
// ports.RoleReader
// ---------------------------------------------------------------------------

func (s *Store) GetAdminRoles(ctx context.Context, principal id.PrincipalID) ([]id.AdminRole, error) {
	rows, err := s.querier(ctx).QueryContext(ctx, `
		SELECT id, principal_id, scope, country_id, region_id
		FROM admin_roles
		WHERE principal_id = $1`, uuid.UUID(principal),
	)
	if err != nil {
		return nil, fmt.Errorf("query admin roles: %w", err)
	}
	defer rows.Close()

	roles := make([]id.AdminRole, 0)
	for rows.Next() {
		var (
			roleID, principalID uuid.UUID
			scope               string
			countryID, regionID *uuid.UUID
		)
		if err := rows.Scan(&roleID, &principalID, &scope, &countryID, &regionID); err != nil {
			return nil, fmt.Errorf("scan admin role: %w", err)
		}
		role := id.AdminRole{
			ID:        id.GrantID(roleID),
			Principal: id.PrincipalID(principalID),
			Scope:     id.AdminScope(scope),
		}
		if countryID != nil {
			role.CountryID = id.CountryID(*countryID)
		}
		if regionID != nil {
			role.RegionID = id.RegionID(*regionID)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin roles: %w", err)
	}
	return roles, nil
}

func (s *Store) GetClubMemberships(ctx context.Context, principal id.PrincipalID) ([]id.ClubMembership, error) {
	rows, err := s.querier(ctx).QueryContext(ctx, `
		SELECT id, principal_id, club_id, roles
		FROM club_memberships
		WHERE principal_id = $1`, uuid.UUID(principal),
	)
	if err != nil {
		return nil, fmt.Errorf("query club memberships: %w", err)
	}
	defer rows.Close()

	memberships := make([]id.ClubMembership, 0)
	for rows.Next() {
		var (
			grantID, principalID, clubID uuid.UUID
			roles                        []string
		)
		if err := rows.Scan(&grantID, &principalID, &clubID, (*textArray)(&roles)); err != nil {
			return nil, fmt.Errorf("scan club membership: %w", err)
		}
		m := id.ClubMembership{
			ID:        id.GrantID(grantID),
			Principal: id.PrincipalID(principalID),
			ClubID:    id.ClubID(clubID),
			Roles:     make([]id.ClubRole, 0, len(roles)),
		}
		for _, r := range roles {
			m.Roles = append(m.Roles, id.ClubRole(r))
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate club memberships: %w", err)
	}
	return memberships, nil
}

func (s *Store) GetMissionaryClubs(ctx context.Context, principal id.PrincipalID) ([]id.ClubID, error) {
	rows, err := s.querier(ctx).QueryContext(ctx,
		`SELECT id FROM clubs WHERE missionary_id = $1`, uuid.UUID(principal),
	)
	if err != nil {
		return nil, fmt.Errorf("query missionary clubs: %w", err)
	}
	defer rows.Close()

	clubs := make([]id.ClubID, 0)
	for rows.Next() {
		var clubID uuid.UUID
		if err := rows.Scan(&clubID); err != nil {
			return nil, fmt.Errorf("scan missionary club: %w", err)
		}
		clubs = append(clubs, id.ClubID(clubID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate missionary clubs: %w", err)
	}
	return clubs, nil
}

// ---------------------------------------------------------------------------
// ports.DependentCounter
// ---------------------------------------------------------------------------

// collectionTables whitelists every countable collection; parentFields
// whitelists the referencing columns. Both gate the Sprintf below against
// injection, since identifiers cannot be bound as query parameters.
var collectionTables = map[id.ResourceType]string{
	id.TypeRegion:         "regions",
	id.TypeClub:           "clubs",
	id.TypeProgram:        "programs",
	id.TypeClubYear:       "club_years",
	id.TypeClubber:        "clubbers",
	id.TypeEvent:          "events",
	id.TypeAttendance:     "attendances",
	id.TypeRegistration:   "registrations",
	id.TypeAdminRole:      "admin_roles",
	id.TypeClubMembership: "club_memberships",
}

var operationalTables = map[id.ResourceType]string{
	id.TypeProgram:      "programs",
	id.TypeClubYear:     "club_years",
	id.TypeClubber:      "clubbers",
	id.TypeEvent:        "events",
	id.TypeAttendance:   "attendances",
	id.TypeRegistration: "registrations",
}

var parentFields = map[string]struct{}{
	"country_id": {},
	"region_id":  {},
	"club_id":    {},
}

func (s *Store) CountDependents(ctx context.Context, collection id.ResourceType, parentField string, parentID id.ResourceID) (int64, error) {
	table, ok := collectionTables[collection]
	if !ok {
		return 0, sentinel.ErrNoCollection
	}
	if _, ok := parentFields[parentField]; !ok {
		return 0, fmt.Errorf("unknown parent field %q", parentField)
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, table, parentField)
	var count int64
	err := s.querier(ctx).QueryRowContext(ctx, query, uuid.UUID(parentID)).Scan(&count)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == pgUndefinedTable || pgErr.Code == pgUndefinedColumn) {
			return 0, sentinel.ErrNoCollection
		}
		return 0, fmt.Errorf("count %s by %s: %w", table, parentField, err)
	}
	return count, nil
}

func mapRowErr(err error, noun string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	return fmt.Errorf("query %s: %w", noun, err)
}

// textArray scans a postgres text[] column without pulling in a driver
// specific array type. Values arrive as {a,b,c}.
type textArray []string

func (a *textArray) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case string:
		*a = parsePGTextArray(v)
		return nil
	case []byte:
		*a = parsePGTextArray(string(v))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into text array", src)
	}
}

func parsePGTextArray(raw string) []string {
	if len(raw) < 2 || raw == "{}" {
		return nil
	}
	inner := raw[1 : len(raw)-1]
	var (
		out      []string
		current  []byte
		inQuotes bool
	)
	for i := 0; i < len(inner); i++ {
		ch := inner[i]
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == '\\' && i+1 < len(inner):
			i++
			current = append(current, inner[i])
		case ch == ',' && !inQuotes:
			out = append(out, string(current))
			current = current[:0]
		default:
			current = append(current, ch)
		}
	}
	out = append(out, string(current))
	return out
}

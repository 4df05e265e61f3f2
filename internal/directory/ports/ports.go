// Package ports defines the read-only interfaces the authorization engine
// consumes from the record store. Stores are interface-driven so the engine
// can run against in-memory, postgres, or cached implementations without
// rewiring decision logic.
package ports

import (
	"context"

	"clubdir/internal/directory/models"
	id "clubdir/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

// ScopeReader resolves a resource instance to its ownership chain. Returns
// sentinel.ErrNotFound when the id does not exist.
type ScopeReader interface {
	GetScopeChain(ctx context.Context, resourceType id.ResourceType, resourceID id.ResourceID) (models.ResourceRef, error)
}

// RoleReader loads a principal's grant rows. Both calls return empty slices,
// never an error, for a principal with no rows.
type RoleReader interface {
	GetAdminRoles(ctx context.Context, principal id.PrincipalID) ([]id.AdminRole, error)
	GetClubMemberships(ctx context.Context, principal id.PrincipalID) ([]id.ClubMembership, error)
	// GetMissionaryClubs returns the clubs carrying the principal as their
	// denormalized missionary assignment.
	GetMissionaryClubs(ctx context.Context, principal id.PrincipalID) ([]id.ClubID, error)
}

// DependentCounter counts rows in a dependent collection referencing a
// parent, for the pre-delete guard. A collection that does not exist yet
// reports sentinel.ErrNoCollection; callers treat that as zero rows.
type DependentCounter interface {
	CountDependents(ctx context.Context, collection id.ResourceType, parentField string, parentID id.ResourceID) (int64, error)
}

// Store is the full read surface the engine needs.
type Store interface {
	ScopeReader
	RoleReader
	DependentCounter
}

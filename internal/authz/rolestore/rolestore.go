// Package rolestore loads a principal's grant rows as a per-decision
// snapshot. One batched read per evaluation; the snapshot lives for exactly
// one decision and is never shared across requests or principals.
package rolestore

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"clubdir/internal/directory/ports"
	id "clubdir/pkg/domain"
	dErrors "clubdir/pkg/domain-errors"
)

// Snapshot is a principal's complete grant state at one instant. Read-only
// after Load; the evaluator validates rows itself so malformed grants can be
// skipped without losing the rest.
type Snapshot struct {
	Principal   id.PrincipalID
	AdminRoles  []id.AdminRole
	Memberships []id.ClubMembership

	// MissionaryClubs are the clubs carrying this principal as their
	// denormalized missionary assignment. Not a grant row: it does not
	// count toward Empty.
	MissionaryClubs []id.ClubID
}

// Empty reports whether the principal holds no grant rows at all. The
// onboarding policy keys on this.
func (s Snapshot) Empty() bool {
	return len(s.AdminRoles) == 0 && len(s.Memberships) == 0
}

// Store loads snapshots from a role reader.
type Store struct {
	roles ports.RoleReader
}

// New builds a store over the given role reader.
func New(roles ports.RoleReader) *Store {
	return &Store{roles: roles}
}

// Load fetches admin roles and club memberships concurrently. A principal
// with no rows yields an empty snapshot, never an error; store failures and
// cancellation surface as Unavailable so the host fails the request rather
// than deciding on partial grants.
func (s *Store) Load(ctx context.Context, principal id.PrincipalID) (Snapshot, error) {
	snapshot := Snapshot{Principal: principal}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		roles, err := s.roles.GetAdminRoles(gctx, principal)
		if err != nil {
			return err
		}
		snapshot.AdminRoles = roles
		return nil
	})
	g.Go(func() error {
		memberships, err := s.roles.GetClubMemberships(gctx, principal)
		if err != nil {
			return err
		}
		snapshot.Memberships = memberships
		return nil
	})
	g.Go(func() error {
		clubs, err := s.roles.GetMissionaryClubs(gctx, principal)
		if err != nil {
			return err
		}
		snapshot.MissionaryClubs = clubs
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Snapshot{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "role load aborted")
		}
		return Snapshot{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "role load failed")
	}
	return snapshot, nil
}

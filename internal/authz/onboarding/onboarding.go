// Package onboarding implements the registration policy for principals with
// no grants at all. Such a principal cannot pass any evaluator clause, yet it
// must be able to request its first membership or admin role; this policy
// carves out exactly that bootstrap path and nothing more.
package onboarding

import (
	"fmt"
	"log/slog"

	"clubdir/internal/authz/decision"
	"clubdir/internal/authz/evaluator"
	"clubdir/internal/authz/rolestore"
	id "clubdir/pkg/domain"
)

// Policy decides Create actions for grant-less principals.
type Policy struct {
	logger *slog.Logger
}

// Option configures the Policy.
type Option func(*Policy)

// WithLogger sets the policy's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Policy) {
		p.logger = logger
	}
}

// NewPolicy builds the registration policy.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Applies reports whether the policy is in play: only a Create of a grant
// row by a principal holding no grants falls through to onboarding.
func (p *Policy) Applies(snapshot rolestore.Snapshot, action id.Action, resource evaluator.Resource) bool {
	return action == id.ActionCreate && resource.Type.IsGrantRow() && snapshot.Empty()
}

// Decide allows the bootstrap creations and nothing else:
//
//   - a ClubMembership for the principal itself with roles exactly
//     {Guardian} or {Pending}
//   - an AdminRole for the principal itself with scope Pending, with or
//     without a target country or region recorded on it
func (p *Policy) Decide(snapshot rolestore.Snapshot, resource evaluator.Resource) decision.Decision {
	if !resource.Owner.IsNil() && resource.Owner != snapshot.Principal {
		return decision.Denied("onboarding rows must belong to the registering principal")
	}

	switch resource.Type {
	case id.TypeClubMembership:
		if allowedFirstRoles(resource.ProposedRoles) {
			p.logger.Info("onboarding membership permitted",
				"principal", snapshot.Principal,
				"club_id", resource.Chain.ClubID,
				"roles", resource.ProposedRoles,
			)
			return decision.Allowed(decision.ClauseOnboarding)
		}
		return decision.Denied(fmt.Sprintf("a first membership may only be %s or %s", id.RoleGuardian, id.RolePending))

	case id.TypeAdminRole:
		if resource.ProposedScope == id.ScopePending {
			p.logger.Info("onboarding admin request permitted",
				"principal", snapshot.Principal,
			)
			return decision.Allowed(decision.ClauseOnboarding)
		}
		return decision.Denied("a first admin role must request the pending scope")
	}

	return decision.Denied(fmt.Sprintf("onboarding does not cover %s", resource.Type))
}

// allowedFirstRoles accepts exactly {Guardian} or {Pending}. Guardian is the
// self-service parent path; anything operational needs an approver.
func allowedFirstRoles(roles []id.ClubRole) bool {
	if len(roles) != 1 {
		return false
	}
	return roles[0] == id.RoleGuardian || roles[0] == id.RolePending
}

// Package evaluator implements the core decision function: an ordered table
// of independent grant clauses evaluated against a principal's role snapshot
// and the target's scope chain. Access is allowed iff any clause matches;
// every rule is additive, never subtractive. Evaluation short-circuits on
// the first match, but the outcome is identical regardless of clause order.
package evaluator

import (
	"fmt"
	"log/slog"

	"clubdir/internal/authz/decision"
	"clubdir/internal/authz/metrics"
	"clubdir/internal/authz/rolestore"
	"clubdir/internal/directory/models"
	id "clubdir/pkg/domain"
)

// Resource is the evaluator's view of one target: its type, its resolved
// ownership chain, the owning principal for grant rows, and, for Create of
// grant rows, the proposed row content the self clause inspects.
type Resource struct {
	Type  id.ResourceType
	ID    id.ResourceID
	Owner id.PrincipalID
	Chain id.ScopeChain

	// ProposedRoles carries the role set of a ClubMembership being created.
	ProposedRoles []id.ClubRole
	// ProposedScope carries the scope of an AdminRole being created.
	ProposedScope id.AdminScope
}

// FromRef adapts a resolved directory reference.
func FromRef(ref models.ResourceRef) Resource {
	return Resource{Type: ref.Type, ID: ref.ID, Owner: ref.Owner, Chain: ref.Chain}
}

// Policy holds the table entries that product owners can flip without code
// changes. MissionaryManagesAdminGrants controls whether the missionary
// scope, otherwise equivalent to global, may also mutate admin role rows.
type Policy struct {
	MissionaryManagesAdminGrants bool
}

// DefaultPolicy treats missionary as fully equivalent to global.
func DefaultPolicy() Policy {
	return Policy{MissionaryManagesAdminGrants: true}
}

// Evaluator decides actions against role snapshots. Stateless per call and
// safe for concurrent use.
type Evaluator struct {
	policy  Policy
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures the Evaluator.
type Option func(*Evaluator)

// WithLogger sets the anomaly logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithMetrics enables anomaly counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Evaluator) {
		e.metrics = m
	}
}

// New builds an evaluator with the given policy.
func New(policy Policy, opts ...Option) *Evaluator {
	e := &Evaluator{policy: policy, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate decides a View/Create/Update/Delete action. List actions compile
// to a predicate instead; see CompileList.
func (e *Evaluator) Evaluate(snapshot rolestore.Snapshot, action id.Action, resource Resource) decision.Decision {
	if action == id.ActionList {
		return e.CompileList(snapshot, resource.Type)
	}

	if e.selfClause(snapshot, action, resource) {
		return decision.Allowed(decision.ClauseSelf)
	}

	for _, role := range e.validAdminRoles(snapshot) {
		switch role.Scope {
		case id.ScopeGlobal, id.ScopeMissionary:
			if e.globalClause(role, action, resource) {
				return decision.Allowed(decision.ClauseGlobal)
			}
		case id.ScopeCountry:
			if !resource.Chain.CountryID.IsNil() && role.CountryID == resource.Chain.CountryID {
				return decision.Allowed(decision.ClauseCountry)
			}
		case id.ScopeRegion:
			if !resource.Chain.RegionID.IsNil() && role.RegionID == resource.Chain.RegionID {
				return decision.Allowed(decision.ClauseRegion)
			}
		}
		// Pending scope satisfies nothing here; self-view is clause 1.
	}

	if !resource.Chain.ClubMissionaryID.IsNil() && resource.Chain.ClubMissionaryID == snapshot.Principal {
		return decision.Allowed(decision.ClauseMissionary)
	}

	if e.membershipClause(snapshot, action, resource) {
		return decision.Allowed(decision.ClauseMembership)
	}

	return decision.Denied(fmt.Sprintf("no grant permits %s on %s", action, resource.Type))
}

// selfClause: the target is the principal's own record. Always grants View;
// grants Create only for pending-flavored rows the principal is issuing to
// itself. Never grants Update or Delete, even of the principal's own rows.
func (e *Evaluator) selfClause(snapshot rolestore.Snapshot, action id.Action, resource Resource) bool {
	if resource.Owner.IsNil() || resource.Owner != snapshot.Principal {
		return false
	}
	if resource.Type != id.TypePrincipal && !resource.Type.IsGrantRow() {
		return false
	}

	switch action {
	case id.ActionView:
		return true
	case id.ActionCreate:
		switch resource.Type {
		case id.TypeClubMembership:
			return pendingOnly(resource.ProposedRoles)
		case id.TypeAdminRole:
			return resource.ProposedScope == id.ScopePending
		}
	}
	return false
}

// globalClause: Global grants everything unconditionally. Missionary does
// too, unless the policy table withholds admin-grant management from it.
func (e *Evaluator) globalClause(role id.AdminRole, action id.Action, resource Resource) bool {
	if role.Scope == id.ScopeMissionary &&
		!e.policy.MissionaryManagesAdminGrants &&
		resource.Type == id.TypeAdminRole &&
		!action.IsRead() {
		return false
	}
	return true
}

// membershipClause: any non-pending member of the target's club may read
// the club and everything beneath it and mutate its operational data.
// Membership rows themselves may only be updated or deleted by a Director.
func (e *Evaluator) membershipClause(snapshot rolestore.Snapshot, action id.Action, resource Resource) bool {
	if resource.Chain.ClubID.IsNil() {
		return false
	}
	for _, m := range e.validMemberships(snapshot) {
		if m.ClubID != resource.Chain.ClubID || !m.Operational() {
			continue
		}
		if action.IsRead() {
			return true
		}
		if resource.Type.IsOperational() {
			return true
		}
		if resource.Type == id.TypeClubMembership &&
			(action == id.ActionUpdate || action == id.ActionDelete) &&
			m.HasRole(id.RoleDirector) {
			return true
		}
	}
	return false
}

// CompileList compiles the clauses that apply to a resource type into a
// disjunctive predicate over scope-chain columns for store push-down. An
// empty predicate is a deny-all list.
func (e *Evaluator) CompileList(snapshot rolestore.Snapshot, resourceType id.ResourceType) decision.Decision {
	var p decision.Predicate

	for _, role := range e.validAdminRoles(snapshot) {
		switch role.Scope {
		case id.ScopeGlobal, id.ScopeMissionary:
			p.Unrestricted = true
		case id.ScopeCountry:
			if typeHasCountry(resourceType) {
				p.CountryIDs = append(p.CountryIDs, role.CountryID)
			}
		case id.ScopeRegion:
			if typeHasRegion(resourceType) {
				p.RegionIDs = append(p.RegionIDs, role.RegionID)
			}
		}
	}

	if p.Unrestricted {
		return decision.ListResult(decision.Predicate{Unrestricted: true})
	}

	if typeHasClub(resourceType) {
		for _, m := range e.validMemberships(snapshot) {
			if m.Operational() {
				p.ClubIDs = append(p.ClubIDs, m.ClubID)
			}
		}
		// Missionary assignments reach the same rows as an operational
		// membership would, so they compile to plain club terms.
		p.ClubIDs = append(p.ClubIDs, snapshot.MissionaryClubs...)
	}

	// Own rows are always visible, pending ones included.
	if resourceType == id.TypePrincipal || resourceType.IsGrantRow() {
		p.SelfPrincipal = snapshot.Principal
	}

	return decision.ListResult(p)
}

// typeHasCountry reports whether rows of the type carry a country column.
func typeHasCountry(rt id.ResourceType) bool {
	return rt != id.TypePrincipal
}

// typeHasRegion reports whether rows of the type carry a region column.
func typeHasRegion(rt id.ResourceType) bool {
	return rt != id.TypePrincipal && rt != id.TypeCountry
}

// typeHasClub reports whether rows of the type resolve to a single club.
func typeHasClub(rt id.ResourceType) bool {
	return rt == id.TypeClub || rt == id.TypeClubMembership || rt.IsOperational()
}

// validAdminRoles filters out malformed rows. A bad row grants nothing and
// is counted as an anomaly, but never aborts the other clauses.
func (e *Evaluator) validAdminRoles(snapshot rolestore.Snapshot) []id.AdminRole {
	valid := snapshot.AdminRoles[:0:0]
	for _, role := range snapshot.AdminRoles {
		if err := role.Validate(); err != nil {
			e.recordAnomaly("admin_role", role.ID, err)
			continue
		}
		valid = append(valid, role)
	}
	return valid
}

func (e *Evaluator) validMemberships(snapshot rolestore.Snapshot) []id.ClubMembership {
	valid := snapshot.Memberships[:0:0]
	for _, m := range snapshot.Memberships {
		if err := m.Validate(); err != nil {
			e.recordAnomaly("club_membership", m.ID, err)
			continue
		}
		valid = append(valid, m)
	}
	return valid
}

func (e *Evaluator) recordAnomaly(kind string, grantID id.GrantID, err error) {
	e.logger.Warn("malformed grant row skipped",
		"kind", kind,
		"grant_id", grantID,
		"error", err,
	)
	if e.metrics != nil {
		e.metrics.RecordAnomaly(kind)
	}
}

func pendingOnly(roles []id.ClubRole) bool {
	if len(roles) == 0 {
		return false
	}
	for _, r := range roles {
		if r != id.RolePending {
			return false
		}
	}
	return true
}

package domain

import (
	dErrors "clubdir/pkg/domain-errors"
)

// AdminScope is the reach of an AdminRole grant.
type AdminScope string

const (
	ScopeGlobal     AdminScope = "global"
	ScopeMissionary AdminScope = "missionary"
	ScopeCountry    AdminScope = "country"
	ScopeRegion     AdminScope = "region"
	ScopePending    AdminScope = "pending"
)

var adminScopes = map[AdminScope]struct{}{
	ScopeGlobal:     {},
	ScopeMissionary: {},
	ScopeCountry:    {},
	ScopeRegion:     {},
	ScopePending:    {},
}

// ParseAdminScope validates an admin scope at trust boundaries.
func ParseAdminScope(s string) (AdminScope, error) {
	sc := AdminScope(s)
	if _, ok := adminScopes[sc]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown admin scope")
	}
	return sc, nil
}

func (s AdminScope) String() string { return string(s) }

// AdminRole is one administrative grant row. A principal may hold several,
// e.g. region admin for two regions.
type AdminRole struct {
	ID        GrantID
	Principal PrincipalID
	Scope     AdminScope
	CountryID CountryID // required iff Scope == ScopeCountry
	RegionID  RegionID  // required iff Scope == ScopeRegion
}

// Validate enforces the scope/binding invariant: country-scoped roles carry a
// country id, region-scoped roles a region id, and the unbound scopes carry
// neither. A row failing validation grants nothing; the evaluator skips it
// rather than aborting the decision.
func (r AdminRole) Validate() error {
	switch r.Scope {
	case ScopeCountry:
		if r.CountryID.IsNil() {
			return dErrors.New(dErrors.CodeInvariantViolation, "country-scoped admin role has no country")
		}
	case ScopeRegion:
		if r.RegionID.IsNil() {
			return dErrors.New(dErrors.CodeInvariantViolation, "region-scoped admin role has no region")
		}
	case ScopeGlobal, ScopeMissionary, ScopePending:
		if !r.CountryID.IsNil() && r.Scope != ScopePending {
			return dErrors.New(dErrors.CodeInvariantViolation, "unbound admin scope carries a country")
		}
		if !r.RegionID.IsNil() && r.Scope != ScopePending {
			return dErrors.New(dErrors.CodeInvariantViolation, "unbound admin scope carries a region")
		}
	default:
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown admin scope")
	}
	return nil
}

// ClubRole is one role within a club membership.
type ClubRole string

const (
	RoleDirector  ClubRole = "director"
	RoleSecretary ClubRole = "secretary"
	RoleTreasurer ClubRole = "treasurer"
	RoleLeader    ClubRole = "leader"
	RoleGuardian  ClubRole = "guardian"
	RolePending   ClubRole = "pending"
)

var clubRoles = map[ClubRole]struct{}{
	RoleDirector:  {},
	RoleSecretary: {},
	RoleTreasurer: {},
	RoleLeader:    {},
	RoleGuardian:  {},
	RolePending:   {},
}

// ParseClubRole validates a club role at trust boundaries.
func ParseClubRole(s string) (ClubRole, error) {
	r := ClubRole(s)
	if _, ok := clubRoles[r]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown club role")
	}
	return r, nil
}

func (r ClubRole) String() string { return string(r) }

// ClubMembership is a principal's membership row in one club. At most one row
// exists per (principal, club) pair; the row may carry several roles at once.
type ClubMembership struct {
	ID        GrantID
	Principal PrincipalID
	ClubID    ClubID
	Roles     []ClubRole
}

// HasRole reports whether the membership carries the given role.
func (m ClubMembership) HasRole(role ClubRole) bool {
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Operational reports whether the membership confers any access at all: a
// non-empty role set that is not pending-only. A pending membership grants
// visibility of itself and nothing else.
func (m ClubMembership) Operational() bool {
	active := false
	for _, r := range m.Roles {
		if r != RolePending {
			active = true
		}
	}
	return active
}

// Validate rejects malformed membership rows. Like admin roles, a bad row
// grants nothing but never aborts evaluation of the remaining grants.
func (m ClubMembership) Validate() error {
	if m.ClubID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "club membership has no club")
	}
	for _, r := range m.Roles {
		if _, ok := clubRoles[r]; !ok {
			return dErrors.New(dErrors.CodeInvariantViolation, "club membership carries an unknown role")
		}
	}
	return nil
}

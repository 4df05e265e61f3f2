// Package decision defines the result types the engine hands back to the
// host: allow/deny outcomes, the clause that granted access, and compiled
// list predicates for store push-down.
package decision

import (
	id "clubdir/pkg/domain"
)

// Clause names the independent grant rule that matched. Clauses are
// additive; the recorded clause is whichever matched first and exists for
// audit trails only, never for semantics.
type Clause string

const (
	ClauseNone       Clause = ""
	ClauseSelf       Clause = "self"
	ClauseGlobal     Clause = "global"
	ClauseCountry    Clause = "country"
	ClauseRegion     Clause = "region"
	ClauseMissionary Clause = "assigned_missionary"
	ClauseMembership Clause = "club_membership"
	ClauseOnboarding Clause = "onboarding"
)

// Predicate is a declarative filter over scope-chain columns, compiled from
// the grant clauses that apply to a resource type. The host pushes it into
// its query layer instead of authorizing rows one by one:
//
//	country_id IN CountryIDs
//	OR region_id IN RegionIDs
//	OR club_id IN ClubIDs
//	OR principal_id = SelfPrincipal         (grant rows only)
//
// Clubs reached through a missionary assignment are folded into ClubIDs.
// Unrestricted short-circuits everything. An empty predicate is a deny-all
// list: the host should return zero rows without querying.
type Predicate struct {
	Unrestricted  bool
	CountryIDs    []id.CountryID
	RegionIDs     []id.RegionID
	ClubIDs       []id.ClubID
	SelfPrincipal id.PrincipalID
}

// Empty reports whether the predicate matches nothing.
func (p Predicate) Empty() bool {
	return !p.Unrestricted &&
		len(p.CountryIDs) == 0 &&
		len(p.RegionIDs) == 0 &&
		len(p.ClubIDs) == 0 &&
		p.SelfPrincipal.IsNil()
}

// Decision is the engine's answer. Deny is a normal outcome, never an
// error. For list actions Predicate is set and Allow reports whether it can
// match anything at all.
type Decision struct {
	Allow  bool
	Clause Clause
	Reason string

	// BlockingCollection is set by the delete guard when dependents exist.
	BlockingCollection id.ResourceType

	// Predicate is set for list decisions.
	Predicate *Predicate
}

// Allowed builds an allow decision recording the matching clause.
func Allowed(clause Clause) Decision {
	return Decision{Allow: true, Clause: clause}
}

// Denied builds a deny decision with an operator-facing reason.
func Denied(reason string) Decision {
	return Decision{Allow: false, Reason: reason}
}

// Blocked builds the delete guard's deny, naming the dependent collection.
func Blocked(reason string, collection id.ResourceType) Decision {
	return Decision{Allow: false, Reason: reason, BlockingCollection: collection}
}

// ListResult wraps a compiled predicate. Allow is false when the predicate
// is deny-all.
func ListResult(p Predicate) Decision {
	return Decision{Allow: !p.Empty(), Predicate: &p}
}

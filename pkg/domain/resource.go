package domain

import (
	dErrors "clubdir/pkg/domain-errors"
)

// ResourceType enumerates every collection the engine authorizes access to.
type ResourceType string

const (
	TypePrincipal      ResourceType = "principal"
	TypeCountry        ResourceType = "country"
	TypeRegion         ResourceType = "region"
	TypeClub           ResourceType = "club"
	TypeProgram        ResourceType = "program"
	TypeClubYear       ResourceType = "club_year"
	TypeClubber        ResourceType = "clubber"
	TypeEvent          ResourceType = "event"
	TypeAttendance     ResourceType = "attendance"
	TypeRegistration   ResourceType = "registration"
	TypeAdminRole      ResourceType = "admin_role"
	TypeClubMembership ResourceType = "club_membership"
)

var resourceTypes = map[ResourceType]struct{}{
	TypePrincipal:      {},
	TypeCountry:        {},
	TypeRegion:         {},
	TypeClub:           {},
	TypeProgram:        {},
	TypeClubYear:       {},
	TypeClubber:        {},
	TypeEvent:          {},
	TypeAttendance:     {},
	TypeRegistration:   {},
	TypeAdminRole:      {},
	TypeClubMembership: {},
}

// ParseResourceType validates a resource type at trust boundaries.
func ParseResourceType(s string) (ResourceType, error) {
	rt := ResourceType(s)
	if _, ok := resourceTypes[rt]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown resource type")
	}
	return rt, nil
}

func (rt ResourceType) String() string { return string(rt) }

// IsOperational reports whether the type is club-scoped operational data:
// the records any non-pending club member may create, update, and delete.
func (rt ResourceType) IsOperational() bool {
	switch rt {
	case TypeProgram, TypeClubYear, TypeClubber, TypeEvent, TypeAttendance, TypeRegistration:
		return true
	}
	return false
}

// IsGrantRow reports whether rows of this type belong to a principal
// (the self clause applies to them).
func (rt ResourceType) IsGrantRow() bool {
	return rt == TypeAdminRole || rt == TypeClubMembership
}

// Action enumerates the operations the engine decides on.
type Action string

const (
	ActionList   Action = "list"
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

var actions = map[Action]struct{}{
	ActionList:   {},
	ActionView:   {},
	ActionCreate: {},
	ActionUpdate: {},
	ActionDelete: {},
}

// ParseAction validates an action at trust boundaries.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := actions[a]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown action")
	}
	return a, nil
}

func (a Action) String() string { return string(a) }

// IsRead reports whether the action only observes state.
func (a Action) IsRead() bool { return a == ActionList || a == ActionView }

// ScopeChain is the resolved (country, region, club) ancestry of a resource.
// Zero-value ids mean the level does not apply: a country's chain has only
// CountryID set, a clubber's chain has all three. ClubMissionaryID carries the
// club's denormalized missionary assignment so the assigned-missionary clause
// needs no second lookup.
type ScopeChain struct {
	CountryID        CountryID
	RegionID         RegionID
	ClubID           ClubID
	ClubMissionaryID PrincipalID
}

// IsZero reports whether no scope level is set (a root-level resource such as
// a principal record, or a global admin role).
func (c ScopeChain) IsZero() bool {
	return c.CountryID.IsNil() && c.RegionID.IsNil() && c.ClubID.IsNil()
}

// Package domain holds the primitive types shared across the directory:
// typed ids, resource types, actions, and the role/grant rows the
// authorization engine evaluates.
//
// IDs are distinct types over uuid.UUID so a ClubID can never be passed where
// a RegionID is expected. Parse functions enforce validity at trust
// boundaries: non-empty, well-formed, non-nil.
package domain

import (
	"github.com/google/uuid"

	dErrors "clubdir/pkg/domain-errors"
)

type (
	// PrincipalID identifies an authenticated user.
	PrincipalID uuid.UUID

	// CountryID identifies a country, the root of the hierarchy.
	CountryID uuid.UUID

	// RegionID identifies a region within a country.
	RegionID uuid.UUID

	// ClubID identifies a club within a region.
	ClubID uuid.UUID

	// GrantID identifies an AdminRole or ClubMembership row.
	GrantID uuid.UUID

	// ResourceID identifies any resource instance when the concrete type is
	// carried separately (scope resolution, delete guards).
	ResourceID uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}

func ParsePrincipalID(s string) (PrincipalID, error) {
	u, err := parseUUID(s)
	return PrincipalID(u), err
}

func ParseCountryID(s string) (CountryID, error) {
	u, err := parseUUID(s)
	return CountryID(u), err
}

func ParseRegionID(s string) (RegionID, error) {
	u, err := parseUUID(s)
	return RegionID(u), err
}

func ParseClubID(s string) (ClubID, error) {
	u, err := parseUUID(s)
	return ClubID(u), err
}

func ParseGrantID(s string) (GrantID, error) {
	u, err := parseUUID(s)
	return GrantID(u), err
}

func ParseResourceID(s string) (ResourceID, error) {
	u, err := parseUUID(s)
	return ResourceID(u), err
}

func (id PrincipalID) String() string { return uuid.UUID(id).String() }
func (id CountryID) String() string   { return uuid.UUID(id).String() }
func (id RegionID) String() string    { return uuid.UUID(id).String() }
func (id ClubID) String() string      { return uuid.UUID(id).String() }
func (id GrantID) String() string     { return uuid.UUID(id).String() }
func (id ResourceID) String() string  { return uuid.UUID(id).String() }

// Text marshalling keeps ids as canonical UUID strings in JSON payloads
// (cache entries, audit events, API responses).

func (id PrincipalID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id CountryID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id RegionID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id ClubID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id GrantID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id ResourceID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }

func (id *PrincipalID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	*id = PrincipalID(u)
	return err
}

func (id *CountryID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	*id = CountryID(u)
	return err
}

func (id *RegionID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	*id = RegionID(u)
	return err
}

func (id *ClubID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	*id = ClubID(u)
	return err
}

func (id *GrantID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	*id = GrantID(u)
	return err
}

func (id *ResourceID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	*id = ResourceID(u)
	return err
}

func (id PrincipalID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id CountryID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id RegionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ClubID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id GrantID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ResourceID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

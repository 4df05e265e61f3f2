// Package models holds the directory rows the engine reads: hierarchy nodes
// and the resolved references handed to the authorization layer. The engine
// never writes these rows; the host CRUD layer owns their lifecycle.
package models

import (
	"time"

	id "clubdir/pkg/domain"
)

// Country is the root of the hierarchy.
type Country struct {
	ID        id.CountryID `json:"id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"created_at"`
}

// Region belongs to exactly one country.
type Region struct {
	ID        id.RegionID  `json:"id"`
	CountryID id.CountryID `json:"country_id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"created_at"`
}

// Club belongs to exactly one region. CountryID is denormalized for fast
// scoping; MissionaryID is the single assigned principal that the
// assigned-missionary grant clause keys on, nil when unassigned.
type Club struct {
	ID           id.ClubID      `json:"id"`
	RegionID     id.RegionID    `json:"region_id"`
	CountryID    id.CountryID   `json:"country_id"`
	MissionaryID id.PrincipalID `json:"missionary_id"`
	Name         string         `json:"name"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ResourceRef is the resolved identity of one resource instance: its type,
// its scope chain walked up to the root, and, for admin role and membership
// rows, the principal that owns the row. Everything the self clause and the
// scoped clauses need in a single read.
type ResourceRef struct {
	Type  id.ResourceType
	ID    id.ResourceID
	Owner id.PrincipalID
	Chain id.ScopeChain
}

// Package memory backs unit tests and dev mode with a mutex-guarded
// in-memory directory. It intentionally favors clarity over performance.
package memory

import (
	"context"
	"sync"

	"clubdir/internal/directory/models"
	id "clubdir/pkg/domain"
	"clubdir/pkg/platform/sentinel"
)

type operationalRow struct {
	resourceType id.ResourceType
	clubID       id.ClubID
}

// Store implements ports.Store over in-process maps.
type Store struct {
	mu          sync.RWMutex
	countries   map[id.CountryID]models.Country
	regions     map[id.RegionID]models.Region
	clubs       map[id.ClubID]models.Club
	adminRoles  map[id.GrantID]id.AdminRole
	memberships map[id.GrantID]id.ClubMembership
	operational map[id.ResourceID]operationalRow

	// collections marked absent report ErrNoCollection from CountDependents,
	// mirroring a partially-migrated schema.
	missing map[id.ResourceType]struct{}
}

func New() *Store {
	return &Store{
		countries:   make(map[id.CountryID]models.Country),
		regions:     make(map[id.RegionID]models.Region),
		clubs:       make(map[id.ClubID]models.Club),
		adminRoles:  make(map[id.GrantID]id.AdminRole),
		memberships: make(map[id.GrantID]id.ClubMembership),
		operational: make(map[id.ResourceID]operationalRow),
		missing:     make(map[id.ResourceType]struct{}),
	}
}

// ---------------------------------------------------------------------------
// Seed helpers. Tests build a directory with these, then hand the store to
// the engine read-only.
// ---------------------------------------------------------------------------

func (s *Store) PutCountry(c models.Country) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countries[c.ID] = c
}

func (s *Store) PutRegion(r models.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions[r.ID] = r
}

func (s *Store) PutClub(c models.Club) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clubs[c.ID] = c
}

func (s *Store) PutAdminRole(r id.AdminRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminRoles[r.ID] = r
}

func (s *Store) PutClubMembership(m id.ClubMembership) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships[m.ID] = m
}

// PutOperational registers a club-scoped operational row (program, club
// year, clubber, event, attendance, registration) by its denormalized club.
func (s *Store) PutOperational(resourceType id.ResourceType, resourceID id.ResourceID, clubID id.ClubID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operational[resourceID] = operationalRow{resourceType: resourceType, clubID: clubID}
}

func (s *Store) DeleteRegion(regionID id.RegionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.regions, regionID)
}

func (s *Store) DeleteClub(clubID id.ClubID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clubs, clubID)
}

func (s *Store) DeleteAdminRole(grantID id.GrantID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.adminRoles, grantID)
}

func (s *Store) DeleteClubMembership(grantID id.GrantID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.memberships, grantID)
}

// MarkCollectionMissing makes CountDependents report ErrNoCollection for the
// given collection, for exercising the partially-migrated-schema path.
func (s *Store) MarkCollectionMissing(collection id.ResourceType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missing[collection] = struct{}{}
}

// ---------------------------------------------------------------------------
// ports.ScopeReader
// ---------------------------------------------------------------------------

func (s *Store) GetScopeChain(_ context.Context, resourceType id.ResourceType, resourceID id.ResourceID) (models.ResourceRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref := models.ResourceRef{Type: resourceType, ID: resourceID}
	raw := [16]byte(resourceID)

	switch resourceType {
	case id.TypePrincipal:
		// Principals live in the identity provider; the directory treats any
		// well-formed id as existing and the row as owned by itself.
		ref.Owner = id.PrincipalID(raw)
		return ref, nil

	case id.TypeCountry:
		c, ok := s.countries[id.CountryID(raw)]
		if !ok {
			return models.ResourceRef{}, sentinel.ErrNotFound
		}
		ref.Chain = id.ScopeChain{CountryID: c.ID}
		return ref, nil

	case id.TypeRegion:
		r, ok := s.regions[id.RegionID(raw)]
		if !ok {
			return models.ResourceRef{}, sentinel.ErrNotFound
		}
		ref.Chain = id.ScopeChain{CountryID: r.CountryID, RegionID: r.ID}
		return ref, nil

	case id.TypeClub:
		chain, err := s.clubChain(id.ClubID(raw))
		if err != nil {
			return models.ResourceRef{}, err
		}
		ref.Chain = chain
		return ref, nil

	case id.TypeAdminRole:
		role, ok := s.adminRoles[id.GrantID(raw)]
		if !ok {
			return models.ResourceRef{}, sentinel.ErrNotFound
		}
		ref.Owner = role.Principal
		ref.Chain = id.ScopeChain{CountryID: role.CountryID, RegionID: role.RegionID}
		if !role.RegionID.IsNil() {
			if region, ok := s.regions[role.RegionID]; ok {
				ref.Chain.CountryID = region.CountryID
			}
		}
		return ref, nil

	case id.TypeClubMembership:
		m, ok := s.memberships[id.GrantID(raw)]
		if !ok {
			return models.ResourceRef{}, sentinel.ErrNotFound
		}
		chain, err := s.clubChain(m.ClubID)
		if err != nil {
			return models.ResourceRef{}, err
		}
		ref.Owner = m.Principal
		ref.Chain = chain
		return ref, nil

	default:
		if !resourceType.IsOperational() {
			return models.ResourceRef{}, sentinel.ErrNotFound
		}
		row, ok := s.operational[resourceID]
		if !ok || row.resourceType != resourceType {
			return models.ResourceRef{}, sentinel.ErrNotFound
		}
		chain, err := s.clubChain(row.clubID)
		if err != nil {
			return models.ResourceRef{}, err
		}
		ref.Chain = chain
		return ref, nil
	}
}

// clubChain resolves a club's full ancestry. Callers hold at least the read
// lock.
func (s *Store) clubChain(clubID id.ClubID) (id.ScopeChain, error) {
	club, ok := s.clubs[clubID]
	if !ok {
		return id.ScopeChain{}, sentinel.ErrNotFound
	}
	return id.ScopeChain{
		CountryID:        club.CountryID,
		RegionID:         club.RegionID,
		ClubID:           club.ID,
		ClubMissionaryID: club.MissionaryID,
	}, nil
}

// ---------------------------------------------------------------------------
// ports.RoleReader
// ---------------------------------------------------------------------------

func (s *Store) GetAdminRoles(_ context.Context, principal id.PrincipalID) ([]id.AdminRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roles := make([]id.AdminRole, 0)
	for _, role := range s.adminRoles {
		if role.Principal == principal {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (s *Store) GetClubMemberships(_ context.Context, principal id.PrincipalID) ([]id.ClubMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	memberships := make([]id.ClubMembership, 0)
	for _, m := range s.memberships {
		if m.Principal == principal {
			memberships = append(memberships, m)
		}
	}
	return memberships, nil
}

func (s *Store) GetMissionaryClubs(_ context.Context, principal id.PrincipalID) ([]id.ClubID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clubs := make([]id.ClubID, 0)
	for _, c := range s.clubs {
		if c.MissionaryID == principal {
			clubs = append(clubs, c.ID)
		}
	}
	return clubs, nil
}

// ---------------------------------------------------------------------------
// ports.DependentCounter
// ---------------------------------------------------------------------------

func (s *Store) CountDependents(_ context.Context, collection id.ResourceType, parentField string, parentID id.ResourceID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, gone := s.missing[collection]; gone {
		return 0, sentinel.ErrNoCollection
	}

	raw := [16]byte(parentID)
	var count int64

	switch collection {
	case id.TypeRegion:
		for _, r := range s.regions {
			if parentField == "country_id" && r.CountryID == id.CountryID(raw) {
				count++
			}
		}
	case id.TypeClub:
		for _, c := range s.clubs {
			if parentField == "region_id" && c.RegionID == id.RegionID(raw) {
				count++
			}
		}
	case id.TypeAdminRole:
		for _, role := range s.adminRoles {
			switch parentField {
			case "country_id":
				if role.CountryID == id.CountryID(raw) {
					count++
				}
			case "region_id":
				if role.RegionID == id.RegionID(raw) {
					count++
				}
			}
		}
	case id.TypeClubMembership:
		for _, m := range s.memberships {
			if parentField == "club_id" && m.ClubID == id.ClubID(raw) {
				count++
			}
		}
	default:
		if !collection.IsOperational() {
			return 0, sentinel.ErrNoCollection
		}
		for _, row := range s.operational {
			if row.resourceType == collection && parentField == "club_id" && row.clubID == id.ClubID(raw) {
				count++
			}
		}
	}
	return count, nil
}

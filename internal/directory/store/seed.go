package store

import (
	"time"

	"github.com/google/uuid"

	"clubdir/internal/directory/models"
	"clubdir/internal/directory/store/memory"
	id "clubdir/pkg/domain"
)

// SeedDevDirectory populates a small two-region directory for local
// development: one country, two regions, a club in each, a global admin and
// a region admin over the first region. Returns the global admin principal
// so dev tooling can mint a token for it.
func SeedDevDirectory(s *memory.Store) id.PrincipalID {
	now := time.Now()

	country := models.Country{ID: id.CountryID(uuid.New()), Name: "Testland", CreatedAt: now}
	north := models.Region{ID: id.RegionID(uuid.New()), CountryID: country.ID, Name: "North", CreatedAt: now}
	south := models.Region{ID: id.RegionID(uuid.New()), CountryID: country.ID, Name: "South", CreatedAt: now}

	northClub := models.Club{
		ID: id.ClubID(uuid.New()), RegionID: north.ID, CountryID: country.ID,
		Name: "North Club", CreatedAt: now,
	}
	southClub := models.Club{
		ID: id.ClubID(uuid.New()), RegionID: south.ID, CountryID: country.ID,
		Name: "South Club", CreatedAt: now,
	}

	globalAdmin := id.PrincipalID(uuid.New())
	regionAdmin := id.PrincipalID(uuid.New())

	s.PutCountry(country)
	s.PutRegion(north)
	s.PutRegion(south)
	s.PutClub(northClub)
	s.PutClub(southClub)
	s.PutAdminRole(id.AdminRole{
		ID: id.GrantID(uuid.New()), Principal: globalAdmin, Scope: id.ScopeGlobal,
	})
	s.PutAdminRole(id.AdminRole{
		ID: id.GrantID(uuid.New()), Principal: regionAdmin, Scope: id.ScopeRegion, RegionID: north.ID,
	})

	return globalAdmin
}

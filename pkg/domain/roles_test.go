package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "clubdir/pkg/domain-errors"
)

func TestAdminRoleValidate(t *testing.T) {
	principal := PrincipalID(uuid.New())

	t.Run("country scope requires country id", func(t *testing.T) {
		role := AdminRole{ID: GrantID(uuid.New()), Principal: principal, Scope: ScopeCountry}
		err := role.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		role.CountryID = CountryID(uuid.New())
		assert.NoError(t, role.Validate())
	})

	t.Run("region scope requires region id", func(t *testing.T) {
		role := AdminRole{ID: GrantID(uuid.New()), Principal: principal, Scope: ScopeRegion}
		require.Error(t, role.Validate())

		role.RegionID = RegionID(uuid.New())
		assert.NoError(t, role.Validate())
	})

	t.Run("global scope must be unbound", func(t *testing.T) {
		role := AdminRole{
			ID:        GrantID(uuid.New()),
			Principal: principal,
			Scope:     ScopeGlobal,
			CountryID: CountryID(uuid.New()),
		}
		require.Error(t, role.Validate())
	})

	t.Run("pending scope may pre-target a country or region", func(t *testing.T) {
		role := AdminRole{
			ID:        GrantID(uuid.New()),
			Principal: principal,
			Scope:     ScopePending,
			RegionID:  RegionID(uuid.New()),
		}
		assert.NoError(t, role.Validate())
	})

	t.Run("unknown scope rejected", func(t *testing.T) {
		role := AdminRole{ID: GrantID(uuid.New()), Principal: principal, Scope: AdminScope("owner")}
		require.Error(t, role.Validate())
	})
}

func TestClubMembershipRoles(t *testing.T) {
	membership := ClubMembership{
		ID:        GrantID(uuid.New()),
		Principal: PrincipalID(uuid.New()),
		ClubID:    ClubID(uuid.New()),
		Roles:     []ClubRole{RoleDirector, RoleLeader},
	}

	t.Run("has role", func(t *testing.T) {
		assert.True(t, membership.HasRole(RoleDirector))
		assert.True(t, membership.HasRole(RoleLeader))
		assert.False(t, membership.HasRole(RoleGuardian))
	})

	t.Run("operational when any non-pending role present", func(t *testing.T) {
		assert.True(t, membership.Operational())

		pendingOnly := membership
		pendingOnly.Roles = []ClubRole{RolePending}
		assert.False(t, pendingOnly.Operational())

		empty := membership
		empty.Roles = nil
		assert.False(t, empty.Operational())

		// Pending alongside an active role does not mask it.
		mixed := membership
		mixed.Roles = []ClubRole{RolePending, RoleGuardian}
		assert.True(t, mixed.Operational())
	})

	t.Run("validate rejects missing club and unknown roles", func(t *testing.T) {
		noClub := membership
		noClub.ClubID = ClubID{}
		require.Error(t, noClub.Validate())

		badRole := membership
		badRole.Roles = []ClubRole{ClubRole("janitor")}
		require.Error(t, badRole.Validate())

		assert.NoError(t, membership.Validate())
	})
}

func TestParseEnums(t *testing.T) {
	t.Run("resource types", func(t *testing.T) {
		rt, err := ParseResourceType("club_year")
		require.NoError(t, err)
		assert.Equal(t, TypeClubYear, rt)

		_, err = ParseResourceType("workspace")
		require.Error(t, err)
	})

	t.Run("actions", func(t *testing.T) {
		a, err := ParseAction("delete")
		require.NoError(t, err)
		assert.Equal(t, ActionDelete, a)
		assert.False(t, a.IsRead())
		assert.True(t, ActionList.IsRead())

		_, err = ParseAction("purge")
		require.Error(t, err)
	})

	t.Run("admin scopes and club roles", func(t *testing.T) {
		_, err := ParseAdminScope("galactic")
		require.Error(t, err)
		sc, err := ParseAdminScope("missionary")
		require.NoError(t, err)
		assert.Equal(t, ScopeMissionary, sc)

		_, err = ParseClubRole("janitor")
		require.Error(t, err)
		r, err := ParseClubRole("guardian")
		require.NoError(t, err)
		assert.Equal(t, RoleGuardian, r)
	})
}

func TestOperationalTypes(t *testing.T) {
	operational := []ResourceType{TypeProgram, TypeClubYear, TypeClubber, TypeEvent, TypeAttendance, TypeRegistration}
	for _, rt := range operational {
		assert.True(t, rt.IsOperational(), string(rt))
	}
	for _, rt := range []ResourceType{TypeCountry, TypeRegion, TypeClub, TypeAdminRole, TypeClubMembership, TypePrincipal} {
		assert.False(t, rt.IsOperational(), string(rt))
	}
	assert.True(t, TypeAdminRole.IsGrantRow())
	assert.True(t, TypeClubMembership.IsGrantRow())
	assert.False(t, TypeClub.IsGrantRow())
}

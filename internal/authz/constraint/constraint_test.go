package constraint

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"clubdir/internal/authz/decision"
	"clubdir/internal/directory/models"
	"clubdir/internal/directory/ports/mocks"
	"clubdir/internal/directory/store/memory"
	id "clubdir/pkg/domain"
	dErrors "clubdir/pkg/domain-errors"
)

func TestCanDelete_UnguardedType_AlwaysAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	counter := mocks.NewMockDependentCounter(ctrl)
	// No counting at all for types outside the guard table.
	checker := NewChecker(counter)

	for _, rt := range []id.ResourceType{id.TypeClubber, id.TypeEvent, id.TypeAdminRole, id.TypePrincipal} {
		d, err := checker.CanDelete(context.Background(), rt, id.ResourceID(uuid.New()))
		require.NoError(t, err, rt)
		assert.True(t, d.Allow, rt)
	}
}

func TestCanDelete_RegionWithClubs_Blocked(t *testing.T) {
	dir := memory.New()
	region := id.RegionID(uuid.New())
	dir.PutRegion(models.Region{ID: region, CountryID: id.CountryID(uuid.New())})
	dir.PutClub(models.Club{ID: id.ClubID(uuid.New()), RegionID: region})

	checker := NewChecker(dir)
	d, err := checker.CanDelete(context.Background(), id.TypeRegion, id.ResourceID(region))
	require.NoError(t, err)
	assert.False(t, d.Allow)
	assert.Equal(t, id.TypeClub, d.BlockingCollection)
	assert.Contains(t, d.Reason, "club")
}

func TestCanDelete_BlockedThenClearedByRemoval(t *testing.T) {
	dir := memory.New()
	club := id.ClubID(uuid.New())
	dir.PutClub(models.Club{ID: club, RegionID: id.RegionID(uuid.New())})
	grant := id.GrantID(uuid.New())
	dir.PutClubMembership(id.ClubMembership{
		ID: grant, Principal: id.PrincipalID(uuid.New()),
		ClubID: club, Roles: []id.ClubRole{id.RoleDirector},
	})

	checker := NewChecker(dir)
	d, err := checker.CanDelete(context.Background(), id.TypeClub, id.ResourceID(club))
	require.NoError(t, err)
	require.False(t, d.Allow)
	assert.Equal(t, id.TypeClubMembership, d.BlockingCollection)

	dir.DeleteClubMembership(grant)
	d, err = checker.CanDelete(context.Background(), id.TypeClub, id.ResourceID(club))
	require.NoError(t, err)
	assert.True(t, d.Allow)
	assert.Empty(t, d.BlockingCollection)
}

func TestCanDelete_ReportsFirstBlockingCollection(t *testing.T) {
	dir := memory.New()
	club := id.ClubID(uuid.New())
	dir.PutClub(models.Club{ID: club, RegionID: id.RegionID(uuid.New())})
	dir.PutClubMembership(id.ClubMembership{
		ID: id.GrantID(uuid.New()), Principal: id.PrincipalID(uuid.New()),
		ClubID: club, Roles: []id.ClubRole{id.RoleLeader},
	})
	dir.PutOperational(id.TypeClubber, id.ResourceID(uuid.New()), club)

	d, err := NewChecker(dir).CanDelete(context.Background(), id.TypeClub, id.ResourceID(club))
	require.NoError(t, err)
	require.False(t, d.Allow)
	assert.Equal(t, id.TypeClubMembership, d.BlockingCollection)
}

func TestCanDelete_MissingCollection_CountsAsEmpty(t *testing.T) {
	dir := memory.New()
	country := id.CountryID(uuid.New())
	dir.PutCountry(models.Country{ID: country})
	dir.MarkCollectionMissing(id.TypeRegion)

	d, err := NewChecker(dir).CanDelete(context.Background(), id.TypeCountry, id.ResourceID(country))
	require.NoError(t, err)
	assert.True(t, d.Allow)
}

func TestCanDelete_CountryWithLingeringRole_Blocked(t *testing.T) {
	dir := memory.New()
	country := id.CountryID(uuid.New())
	dir.PutCountry(models.Country{ID: country})
	dir.PutAdminRole(id.AdminRole{
		ID: id.GrantID(uuid.New()), Principal: id.PrincipalID(uuid.New()),
		Scope: id.ScopeCountry, CountryID: country,
	})

	d, err := NewChecker(dir).CanDelete(context.Background(), id.TypeCountry, id.ResourceID(country))
	require.NoError(t, err)
	require.False(t, d.Allow)
	assert.Equal(t, id.TypeAdminRole, d.BlockingCollection)
}

func TestCanDelete_StoreFailure_Unavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	counter := mocks.NewMockDependentCounter(ctrl)
	counter.EXPECT().
		CountDependents(gomock.Any(), id.TypeRegion, "country_id", gomock.Any()).
		Return(int64(0), errors.New("connection refused"))

	_, err := NewChecker(counter).CanDelete(context.Background(), id.TypeCountry, id.ResourceID(uuid.New()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestCanDelete_Cancellation_Unavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	counter := mocks.NewMockDependentCounter(ctrl)
	counter.EXPECT().
		CountDependents(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ id.ResourceType, _ string, _ id.ResourceID) (int64, error) {
			return 0, ctx.Err()
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewChecker(counter).CanDelete(ctx, id.TypeCountry, id.ResourceID(uuid.New()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestCanDelete_EmptyGuardedResource_Allowed(t *testing.T) {
	dir := memory.New()
	region := id.RegionID(uuid.New())
	dir.PutRegion(models.Region{ID: region, CountryID: id.CountryID(uuid.New())})

	d, err := NewChecker(dir).CanDelete(context.Background(), id.TypeRegion, id.ResourceID(region))
	require.NoError(t, err)
	assert.True(t, d.Allow)
	assert.Equal(t, decision.ClauseNone, d.Clause)
}

func TestGuarded(t *testing.T) {
	assert.True(t, Guarded(id.TypeCountry))
	assert.True(t, Guarded(id.TypeRegion))
	assert.True(t, Guarded(id.TypeClub))
	assert.False(t, Guarded(id.TypeClubber))
	assert.False(t, Guarded(id.TypeClubMembership))
}

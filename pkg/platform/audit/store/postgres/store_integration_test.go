//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "clubdir/pkg/domain"
	"clubdir/pkg/platform/audit"
	"clubdir/pkg/platform/audit/store/postgres"
	txcontext "clubdir/pkg/platform/tx"
	"clubdir/pkg/testutil/containers"
)

type AuditStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *AuditStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_events"))
}

func event(principal id.PrincipalID, decision string, at time.Time) audit.Event {
	return audit.Event{
		Category:     audit.CategoryOperations,
		Timestamp:    at,
		Principal:    principal,
		Action:       "view",
		ResourceType: "club",
		ResourceID:   uuid.NewString(),
		Decision:     decision,
		Clause:       "region",
	}
}

func (s *AuditStoreSuite) TestAppendAndListByPrincipal() {
	ctx := context.Background()
	principal := id.PrincipalID(uuid.New())
	other := id.PrincipalID(uuid.New())
	base := time.Now().UTC().Truncate(time.Millisecond)

	s.Require().NoError(s.store.Append(ctx, event(principal, "access_allowed", base)))
	s.Require().NoError(s.store.Append(ctx, event(principal, "access_denied", base.Add(time.Second))))
	s.Require().NoError(s.store.Append(ctx, event(other, "access_allowed", base)))

	events, err := s.store.ListByPrincipal(ctx, principal)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	// Newest first.
	s.Equal("access_denied", events[0].Decision)
	s.Equal("access_allowed", events[1].Decision)
	s.Equal(principal, events[0].Principal)
}

func (s *AuditStoreSuite) TestAppend_DefaultsTimestamp() {
	ctx := context.Background()
	principal := id.PrincipalID(uuid.New())

	e := event(principal, "access_allowed", time.Time{})
	s.Require().NoError(s.store.Append(ctx, e))

	events, err := s.store.ListByPrincipal(ctx, principal)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.False(events[0].Timestamp.IsZero())
}

func (s *AuditStoreSuite) TestAppend_JoinsContextTransaction() {
	ctx := context.Background()
	principal := id.PrincipalID(uuid.New())

	tx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	txCtx := txcontext.WithTx(ctx, tx)

	s.Require().NoError(s.store.Append(txCtx, event(principal, "access_allowed", time.Now())))
	s.Require().NoError(tx.Rollback())

	// Rolled back with the transaction it joined.
	events, err := s.store.ListByPrincipal(ctx, principal)
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *AuditStoreSuite) TestListRecent_Limits() {
	ctx := context.Background()
	principal := id.PrincipalID(uuid.New())
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		s.Require().NoError(s.store.Append(ctx, event(principal, "access_allowed", base.Add(time.Duration(i)*time.Second))))
	}

	events, err := s.store.ListRecent(ctx, 3)
	s.Require().NoError(err)
	s.Len(events, 3)
}

package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"clubdir/internal/authz/service"
	"clubdir/internal/directory/models"
	"clubdir/internal/directory/store/memory"
	"clubdir/internal/platform/metrics"
	id "clubdir/pkg/domain"
	dErrors "clubdir/pkg/domain-errors"
	"clubdir/pkg/platform/audit/publisher"
	auditmem "clubdir/pkg/platform/audit/store/memory"
)

const testAdminToken = "test-admin-token"

type HandlerSuite struct {
	suite.Suite

	dir       *memory.Store
	router    chi.Router
	principal id.PrincipalID

	country models.Country
	region  models.Region
	club    models.Club
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.dir = memory.New()
	s.principal = id.PrincipalID(uuid.New())

	s.country = models.Country{ID: id.CountryID(uuid.New()), Name: "Testland"}
	s.region = models.Region{ID: id.RegionID(uuid.New()), CountryID: s.country.ID, Name: "North"}
	s.club = models.Club{
		ID: id.ClubID(uuid.New()), RegionID: s.region.ID, CountryID: s.country.ID, Name: "North Club",
	}
	s.dir.PutCountry(s.country)
	s.dir.PutRegion(s.region)
	s.dir.PutClub(s.club)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sink := auditmem.NewInMemoryStore()
	pub := publisher.NewPublisher(sink)
	engine := service.New(s.dir,
		service.WithLogger(logger),
		service.WithAuditPublisher(pub),
	)

	// The token itself is the principal id; real wiring uses JWTs.
	validate := func(token string) (id.PrincipalID, error) {
		principal, err := id.ParsePrincipalID(token)
		if err != nil {
			return id.PrincipalID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
		}
		return principal, nil
	}

	h := New(engine, pub, logger, metrics.NewWithRegistry(prometheus.NewRegistry()), validate, testAdminToken)
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *HandlerSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) decode(w *httptest.ResponseRecorder) DecisionResponse {
	var resp DecisionResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerSuite) TestAuthorize_RegionAdminViewsClub() {
	s.dir.PutAdminRole(id.AdminRole{
		ID: id.GrantID(uuid.New()), Principal: s.principal,
		Scope: id.ScopeRegion, RegionID: s.region.ID,
	})

	w := s.do(http.MethodPost, "/v1/authorize", s.principal.String(), AuthorizeRequest{
		Action:       "view",
		ResourceType: "club",
		ResourceID:   s.club.ID.String(),
	})

	s.Equal(http.StatusOK, w.Code)
	resp := s.decode(w)
	s.True(resp.Allow)
	s.Equal("region", resp.Clause)
}

func (s *HandlerSuite) TestAuthorize_DenyIsOKWithReason() {
	w := s.do(http.MethodPost, "/v1/authorize", s.principal.String(), AuthorizeRequest{
		Action:       "delete",
		ResourceType: "club",
		ResourceID:   s.club.ID.String(),
	})

	s.Equal(http.StatusOK, w.Code)
	resp := s.decode(w)
	s.False(resp.Allow)
	s.NotEmpty(resp.Reason)
}

func (s *HandlerSuite) TestAuthorize_MissingToken() {
	w := s.do(http.MethodPost, "/v1/authorize", "", AuthorizeRequest{
		Action: "view", ResourceType: "club", ResourceID: s.club.ID.String(),
	})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerSuite) TestAuthorize_MalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/v1/authorize", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+s.principal.String())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestAuthorize_InstanceActionNeedsResourceID() {
	w := s.do(http.MethodPost, "/v1/authorize", s.principal.String(), AuthorizeRequest{
		Action: "view", ResourceType: "club",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestAuthorize_UnknownResourceIs404() {
	s.dir.PutAdminRole(id.AdminRole{
		ID: id.GrantID(uuid.New()), Principal: s.principal, Scope: id.ScopeGlobal,
	})

	w := s.do(http.MethodPost, "/v1/authorize", s.principal.String(), AuthorizeRequest{
		Action: "view", ResourceType: "club", ResourceID: uuid.NewString(),
	})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerSuite) TestAuthorize_ListReturnsPredicate() {
	s.dir.PutAdminRole(id.AdminRole{
		ID: id.GrantID(uuid.New()), Principal: s.principal,
		Scope: id.ScopeRegion, RegionID: s.region.ID,
	})

	w := s.do(http.MethodPost, "/v1/authorize", s.principal.String(), AuthorizeRequest{
		Action: "list", ResourceType: "club",
	})

	s.Equal(http.StatusOK, w.Code)
	resp := s.decode(w)
	s.True(resp.Allow)
	s.Require().NotNil(resp.Predicate)
	s.Equal([]string{s.region.ID.String()}, resp.Predicate.RegionIDs)
}

func (s *HandlerSuite) TestAuthorize_OnboardingCreate() {
	w := s.do(http.MethodPost, "/v1/authorize", s.principal.String(), AuthorizeRequest{
		Action:       "create",
		ResourceType: "club_membership",
		OwnerID:      s.principal.String(),
		Scope: &ScopeRequest{
			CountryID: s.country.ID.String(),
			RegionID:  s.region.ID.String(),
			ClubID:    s.club.ID.String(),
		},
		ProposedRoles: []string{"pending"},
	})

	s.Equal(http.StatusOK, w.Code)
	resp := s.decode(w)
	s.True(resp.Allow)
	s.Equal("onboarding", resp.Clause)
}

func (s *HandlerSuite) TestDeletable_BlockedNamesCollection() {
	s.dir.PutAdminRole(id.AdminRole{
		ID: id.GrantID(uuid.New()), Principal: s.principal, Scope: id.ScopeGlobal,
	})
	s.dir.PutClubMembership(id.ClubMembership{
		ID: id.GrantID(uuid.New()), Principal: id.PrincipalID(uuid.New()),
		ClubID: s.club.ID, Roles: []id.ClubRole{id.RoleLeader},
	})

	w := s.do(http.MethodPost, "/v1/deletable", s.principal.String(), DeletableRequest{
		ResourceType: "club",
		ResourceID:   s.club.ID.String(),
	})

	s.Equal(http.StatusOK, w.Code)
	resp := s.decode(w)
	s.False(resp.Allow)
	s.Equal("club_membership", resp.BlockingCollection)
}

func (s *HandlerSuite) TestDeletable_Cleared() {
	s.dir.PutAdminRole(id.AdminRole{
		ID: id.GrantID(uuid.New()), Principal: s.principal, Scope: id.ScopeGlobal,
	})

	w := s.do(http.MethodPost, "/v1/deletable", s.principal.String(), DeletableRequest{
		ResourceType: "club",
		ResourceID:   s.club.ID.String(),
	})

	s.Equal(http.StatusOK, w.Code)
	s.True(s.decode(w).Allow)
}

func (s *HandlerSuite) TestIntrospect_RequiresAdminToken() {
	body := IntrospectRequest{
		PrincipalID: s.principal.String(),
		AuthorizeRequest: AuthorizeRequest{
			Action: "view", ResourceType: "club", ResourceID: s.club.ID.String(),
		},
	}

	w := s.do(http.MethodPost, "/v1/admin/introspect", "", body)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerSuite) TestIntrospect_DecidesForNamedPrincipal() {
	other := id.PrincipalID(uuid.New())
	s.dir.PutAdminRole(id.AdminRole{
		ID: id.GrantID(uuid.New()), Principal: other, Scope: id.ScopeGlobal,
	})

	var buf bytes.Buffer
	s.Require().NoError(json.NewEncoder(&buf).Encode(IntrospectRequest{
		PrincipalID: other.String(),
		AuthorizeRequest: AuthorizeRequest{
			Action: "delete", ResourceType: "club", ResourceID: s.club.ID.String(),
		},
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/introspect", &buf)
	req.Header.Set("X-Admin-Token", testAdminToken)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.True(s.decode(w).Allow)
}

func (s *HandlerSuite) TestAuditTrail_ReturnsDecisions() {
	s.dir.PutAdminRole(id.AdminRole{
		ID: id.GrantID(uuid.New()), Principal: s.principal, Scope: id.ScopeGlobal,
	})
	s.do(http.MethodPost, "/v1/authorize", s.principal.String(), AuthorizeRequest{
		Action: "view", ResourceType: "club", ResourceID: s.club.ID.String(),
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/audit/"+s.principal.String(), nil)
	req.Header.Set("X-Admin-Token", testAdminToken)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	var resp struct {
		Events []map[string]any `json:"events"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Events, 1)
	s.Equal("access_allowed", resp.Events[0]["Decision"])
}

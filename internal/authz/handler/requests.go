package handler

import (
	"strings"

	"clubdir/internal/authz/service"
	id "clubdir/pkg/domain"
	dErrors "clubdir/pkg/domain-errors"
	pstrings "clubdir/pkg/platform/strings"
)

// AuthorizeRequest is the HTTP request body for POST /v1/authorize.
//
// resource_id names an existing row; the engine resolves its chain. For
// create decisions resource_id is omitted and scope carries the parent
// chain the host already holds on the parent row.
type AuthorizeRequest struct {
	Action       string        `json:"action"`
	ResourceType string        `json:"resource_type"`
	ResourceID   string        `json:"resource_id,omitempty"`
	OwnerID      string        `json:"owner_id,omitempty"`
	Scope        *ScopeRequest `json:"scope,omitempty"`

	// ProposedRoles and ProposedScope describe the grant row being created.
	ProposedRoles []string `json:"proposed_roles,omitempty"`
	ProposedScope string   `json:"proposed_scope,omitempty"`

	parsedAction id.Action
	parsedTarget service.Target
}

// ScopeRequest is the caller-supplied parent chain for create decisions.
type ScopeRequest struct {
	CountryID string `json:"country_id,omitempty"`
	RegionID  string `json:"region_id,omitempty"`
	ClubID    string `json:"club_id,omitempty"`
}

// Prepare validates and parses the request for httputil.DecodeAndPrepare.
func (r *AuthorizeRequest) Prepare() error {
	action, err := id.ParseAction(strings.TrimSpace(r.Action))
	if err != nil {
		return err
	}
	r.parsedAction = action

	resourceType, err := id.ParseResourceType(strings.TrimSpace(r.ResourceType))
	if err != nil {
		return err
	}
	target := service.Target{Type: resourceType}

	if r.ResourceID != "" {
		rid, err := id.ParseResourceID(r.ResourceID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "resource_id")
		}
		target.ID = rid
	}
	if r.OwnerID != "" {
		owner, err := id.ParsePrincipalID(r.OwnerID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "owner_id")
		}
		target.Owner = owner
	}
	if r.Scope != nil {
		chain, err := r.Scope.parse()
		if err != nil {
			return err
		}
		target.Chain = chain
	}

	for _, raw := range pstrings.DedupeAndTrimLower(r.ProposedRoles) {
		role, err := id.ParseClubRole(raw)
		if err != nil {
			return err
		}
		target.ProposedRoles = append(target.ProposedRoles, role)
	}
	if r.ProposedScope != "" {
		scope, err := id.ParseAdminScope(strings.TrimSpace(r.ProposedScope))
		if err != nil {
			return err
		}
		target.ProposedScope = scope
	}

	switch action {
	case id.ActionView, id.ActionUpdate, id.ActionDelete:
		if target.ID.IsNil() {
			return dErrors.New(dErrors.CodeValidation, "resource_id is required for instance actions")
		}
	case id.ActionCreate:
		if !target.ID.IsNil() {
			return dErrors.New(dErrors.CodeValidation, "resource_id must be omitted for create")
		}
	}

	r.parsedTarget = target
	return nil
}

// ParsedAction returns the validated action.
func (r *AuthorizeRequest) ParsedAction() id.Action {
	return r.parsedAction
}

// ParsedTarget returns the validated target.
func (r *AuthorizeRequest) ParsedTarget() service.Target {
	return r.parsedTarget
}

func (s *ScopeRequest) parse() (id.ScopeChain, error) {
	var chain id.ScopeChain
	if s.CountryID != "" {
		countryID, err := id.ParseCountryID(s.CountryID)
		if err != nil {
			return chain, dErrors.Wrap(err, dErrors.CodeValidation, "scope.country_id")
		}
		chain.CountryID = countryID
	}
	if s.RegionID != "" {
		regionID, err := id.ParseRegionID(s.RegionID)
		if err != nil {
			return chain, dErrors.Wrap(err, dErrors.CodeValidation, "scope.region_id")
		}
		chain.RegionID = regionID
	}
	if s.ClubID != "" {
		clubID, err := id.ParseClubID(s.ClubID)
		if err != nil {
			return chain, dErrors.Wrap(err, dErrors.CodeValidation, "scope.club_id")
		}
		chain.ClubID = clubID
	}
	return chain, nil
}

// DeletableRequest is the HTTP request body for POST /v1/deletable.
type DeletableRequest struct {
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`

	parsedTarget service.Target
}

// Prepare validates and parses the request.
func (r *DeletableRequest) Prepare() error {
	resourceType, err := id.ParseResourceType(strings.TrimSpace(r.ResourceType))
	if err != nil {
		return err
	}
	rid, err := id.ParseResourceID(r.ResourceID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "resource_id")
	}
	r.parsedTarget = service.Target{Type: resourceType, ID: rid}
	return nil
}

// ParsedTarget returns the validated target.
func (r *DeletableRequest) ParsedTarget() service.Target {
	return r.parsedTarget
}

// IntrospectRequest is the admin-only HTTP request body for POST
// /v1/admin/introspect: an AuthorizeRequest decided on behalf of an
// arbitrary principal.
type IntrospectRequest struct {
	PrincipalID string `json:"principal_id"`
	AuthorizeRequest

	parsedPrincipal id.PrincipalID
}

// Prepare validates and parses the request.
func (r *IntrospectRequest) Prepare() error {
	principal, err := id.ParsePrincipalID(r.PrincipalID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "principal_id")
	}
	r.parsedPrincipal = principal
	return r.AuthorizeRequest.Prepare()
}

// ParsedPrincipal returns the validated principal.
func (r *IntrospectRequest) ParsedPrincipal() id.PrincipalID {
	return r.parsedPrincipal
}

package handler

import (
	"clubdir/internal/authz/decision"
)

// DecisionResponse is the HTTP response for authorize and deletable calls.
type DecisionResponse struct {
	Allow              bool               `json:"allow"`
	Clause             string             `json:"clause,omitempty"`
	Reason             string             `json:"reason,omitempty"`
	BlockingCollection string             `json:"blocking_collection,omitempty"`
	Predicate          *PredicateResponse `json:"predicate,omitempty"`
}

// PredicateResponse is the compiled list filter. IDs marshal as canonical
// UUID strings.
type PredicateResponse struct {
	Unrestricted  bool     `json:"unrestricted,omitempty"`
	CountryIDs    []string `json:"country_ids,omitempty"`
	RegionIDs     []string `json:"region_ids,omitempty"`
	ClubIDs       []string `json:"club_ids,omitempty"`
	SelfPrincipal string   `json:"self_principal,omitempty"`
}

// FromDecision converts an engine decision to its HTTP shape.
func FromDecision(d decision.Decision) *DecisionResponse {
	resp := &DecisionResponse{
		Allow:              d.Allow,
		Clause:             string(d.Clause),
		Reason:             d.Reason,
		BlockingCollection: d.BlockingCollection.String(),
	}
	if d.Predicate != nil {
		p := &PredicateResponse{Unrestricted: d.Predicate.Unrestricted}
		for _, c := range d.Predicate.CountryIDs {
			p.CountryIDs = append(p.CountryIDs, c.String())
		}
		for _, r := range d.Predicate.RegionIDs {
			p.RegionIDs = append(p.RegionIDs, r.String())
		}
		for _, c := range d.Predicate.ClubIDs {
			p.ClubIDs = append(p.ClubIDs, c.String())
		}
		if !d.Predicate.SelfPrincipal.IsNil() {
			p.SelfPrincipal = d.Predicate.SelfPrincipal.String()
		}
		resp.Predicate = p
	}
	return resp
}

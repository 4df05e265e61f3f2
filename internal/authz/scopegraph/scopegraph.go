// Package scopegraph describes how resource types nest and resolves any
// resource instance to its ownership chain. The nesting metadata is static;
// only instance resolution touches the store.
package scopegraph

import (
	"context"
	"errors"
	"log/slog"

	"clubdir/internal/directory/models"
	"clubdir/internal/directory/ports"
	id "clubdir/pkg/domain"
	dErrors "clubdir/pkg/domain-errors"
	"clubdir/pkg/platform/sentinel"
)

// parents is the static containment graph:
// Country → Region → Club → {Program, ClubYear, Clubber, Event} →
// {Attendance, Registration}. Grant rows hang off the node they bind to.
var parents = map[id.ResourceType]id.ResourceType{
	id.TypeRegion:         id.TypeCountry,
	id.TypeClub:           id.TypeRegion,
	id.TypeProgram:        id.TypeClub,
	id.TypeClubYear:       id.TypeClub,
	id.TypeClubber:        id.TypeClub,
	id.TypeEvent:          id.TypeClub,
	id.TypeAttendance:     id.TypeEvent,
	id.TypeRegistration:   id.TypeProgram,
	id.TypeClubMembership: id.TypeClub,
}

// ParentType returns the containing type, or false for roots (Country,
// Principal, AdminRole).
func ParentType(resourceType id.ResourceType) (id.ResourceType, bool) {
	parent, ok := parents[resourceType]
	return parent, ok
}

// Resolver resolves instances against the directory store.
type Resolver struct {
	scopes ports.ScopeReader
	logger *slog.Logger
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithLogger sets a logger for resolution anomalies.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver builds a resolver over the given scope reader.
func NewResolver(scopes ports.ScopeReader, opts ...Option) *Resolver {
	r := &Resolver{scopes: scopes, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveScope walks a resource up to its root and returns the reference
// with its full chain. NotFound when the id does not exist, Invalid when the
// stored chain is inconsistent with the type, Unavailable on store timeout
// or cancellation.
func (r *Resolver) ResolveScope(ctx context.Context, resourceType id.ResourceType, resourceID id.ResourceID) (models.ResourceRef, error) {
	ref, err := r.scopes.GetScopeChain(ctx, resourceType, resourceID)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return models.ResourceRef{}, dErrors.New(dErrors.CodeNotFound, "resource not found")
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return models.ResourceRef{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "scope resolution aborted")
		default:
			return models.ResourceRef{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "scope resolution failed")
		}
	}

	if err := validateChain(ref); err != nil {
		r.logger.WarnContext(ctx, "inconsistent scope chain",
			"resource_type", resourceType,
			"resource_id", resourceID,
			"error", err,
		)
		return models.ResourceRef{}, err
	}
	return ref, nil
}

// validateChain checks that every level the type requires is present.
// A club-scoped row without a club, or a region without a country, means
// the directory violated its own relational invariants.
func validateChain(ref models.ResourceRef) error {
	chain := ref.Chain
	switch ref.Type {
	case id.TypeCountry:
		if chain.CountryID.IsNil() {
			return dErrors.New(dErrors.CodeInvalidInput, "country resolved without a country id")
		}
	case id.TypeRegion:
		if chain.RegionID.IsNil() || chain.CountryID.IsNil() {
			return dErrors.New(dErrors.CodeInvalidInput, "region resolved with an incomplete chain")
		}
	case id.TypeClub, id.TypeClubMembership:
		if chain.ClubID.IsNil() || chain.RegionID.IsNil() || chain.CountryID.IsNil() {
			return dErrors.New(dErrors.CodeInvalidInput, "club resolved with an incomplete chain")
		}
	default:
		if ref.Type.IsOperational() {
			if chain.ClubID.IsNil() || chain.RegionID.IsNil() || chain.CountryID.IsNil() {
				return dErrors.New(dErrors.CodeInvalidInput, "operational row resolved with an incomplete chain")
			}
		}
	}
	return nil
}

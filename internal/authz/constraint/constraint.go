// Package constraint implements the pre-delete referential guard: a resource
// may be deleted only when no rows in its guarded dependent collections still
// reference it. The guard reads through the caller's transaction when one is
// in the context, so the count and the delete see the same snapshot.
package constraint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clubdir/internal/authz/decision"
	"clubdir/internal/authz/metrics"
	"clubdir/internal/directory/ports"
	id "clubdir/pkg/domain"
	dErrors "clubdir/pkg/domain-errors"
	"clubdir/pkg/platform/sentinel"
)

// dependent names one guarded collection and the column in it that points
// back at the parent.
type dependent struct {
	collection  id.ResourceType
	parentField string
}

// guarded lists, per deletable type, the collections whose rows block the
// delete. Order is the order the blocking collection is reported in; checks
// stop at the first non-empty collection.
var guarded = map[id.ResourceType][]dependent{
	id.TypeCountry: {
		{id.TypeRegion, "country_id"},
		{id.TypeAdminRole, "country_id"},
	},
	id.TypeRegion: {
		{id.TypeClub, "region_id"},
		{id.TypeAdminRole, "region_id"},
	},
	id.TypeClub: {
		{id.TypeClubMembership, "club_id"},
		{id.TypeProgram, "club_id"},
		{id.TypeClubYear, "club_id"},
		{id.TypeClubber, "club_id"},
		{id.TypeEvent, "club_id"},
		{id.TypeAdminRole, "club_id"},
	},
}

// Guarded reports whether deletes of the type are subject to the guard.
func Guarded(resourceType id.ResourceType) bool {
	_, ok := guarded[resourceType]
	return ok
}

// Checker runs the guard against a dependent counter.
type Checker struct {
	counts  ports.DependentCounter
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures the Checker.
type Option func(*Checker)

// WithLogger sets the guard's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithMetrics enables the denial counter.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Checker) {
		c.metrics = m
	}
}

// NewChecker builds a guard over the given counter.
func NewChecker(counts ports.DependentCounter, opts ...Option) *Checker {
	c := &Checker{counts: counts, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CanDelete decides whether the resource may be deleted. Types with no
// guarded dependents are always deletable. A dependent collection that does
// not exist in the store counts as empty. Deny names the first blocking
// collection so the caller can surface it.
func (c *Checker) CanDelete(ctx context.Context, resourceType id.ResourceType, resourceID id.ResourceID) (decision.Decision, error) {
	deps, ok := guarded[resourceType]
	if !ok {
		return decision.Allowed(decision.ClauseNone), nil
	}

	for _, dep := range deps {
		n, err := c.counts.CountDependents(ctx, dep.collection, dep.parentField, resourceID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNoCollection) {
				continue
			}
			if ctx.Err() != nil {
				return decision.Decision{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "delete guard cancelled")
			}
			return decision.Decision{}, dErrors.Wrap(err, dErrors.CodeUnavailable,
				fmt.Sprintf("counting %s dependents", dep.collection))
		}
		if n > 0 {
			c.logger.Info("delete blocked by dependents",
				"resource_type", resourceType,
				"resource_id", resourceID,
				"blocking_collection", dep.collection,
				"count", n,
			)
			if c.metrics != nil {
				c.metrics.DeleteGuardDenials.Inc()
			}
			return decision.Blocked(
				fmt.Sprintf("%d dependent %s row(s) reference this %s", n, dep.collection, resourceType),
				dep.collection,
			), nil
		}
	}

	return decision.Allowed(decision.ClauseNone), nil
}

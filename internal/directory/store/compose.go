package store

import (
	"context"

	"clubdir/internal/directory/models"
	"clubdir/internal/directory/ports"
	id "clubdir/pkg/domain"
)

type cachedStore struct {
	ports.Store
	scopes ports.ScopeReader
}

// WithScopeCache returns the store with chain resolution routed through the
// given reader (typically the redis scope cache). Role reads and dependent
// counts always hit the backing store.
func WithScopeCache(backing ports.Store, scopes ports.ScopeReader) ports.Store {
	return &cachedStore{Store: backing, scopes: scopes}
}

func (s *cachedStore) GetScopeChain(ctx context.Context, resourceType id.ResourceType, resourceID id.ResourceID) (models.ResourceRef, error) {
	return s.scopes.GetScopeChain(ctx, resourceType, resourceID)
}

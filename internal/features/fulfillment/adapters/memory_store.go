package adapter

import (
	"context"
	"fmt"
	"sync"

	"fulfillment-hub/internal/features/fulfillment/domain"
	"fulfillment-hub/internal/features/fulfillment/ports"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of the catalog and order
// persistence collaborator ports. It backs the composition root and tests;
// durable persistence lives outside the orchestration layer.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[string]domain.CatalogItem
	orders map[string]domain.OrderResult
	owners map[string]ports.OwnerContext
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:  make(map[string]domain.CatalogItem),
		orders: make(map[string]domain.OrderResult),
		owners: make(map[string]ports.OwnerContext),
	}
}

// SaveImportedItem persists an imported catalog item and returns its
// internal id. A re-import of the same (provider, external id) pair
// supersedes the previous copy under a fresh id.
func (s *MemoryStore) SaveImportedItem(ctx context.Context, item domain.CatalogItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.items[id] = item
	return id, nil
}

// RecordOrderResult persists the normalized result of an order operation,
// keyed by internal id. Later records supersede earlier ones.
func (s *MemoryStore) RecordOrderResult(ctx context.Context, result domain.OrderResult) error {
	if result.InternalID == "" {
		return fmt.Errorf("order result has no internal id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[result.InternalID] = result
	return nil
}

// FindOrderOwner resolves the tenant/customer context for an internal order.
func (s *MemoryStore) FindOrderOwner(ctx context.Context, internalOrderID string) (*ports.OwnerContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if owner, ok := s.owners[internalOrderID]; ok {
		return &owner, nil
	}
	return nil, fmt.Errorf("no owner recorded for order %s", internalOrderID)
}

// SetOrderOwner associates an owner context with an internal order id.
func (s *MemoryStore) SetOrderOwner(internalOrderID string, owner ports.OwnerContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.owners[internalOrderID] = owner
}

// ItemCount reports how many imported items are held. Test helper.
func (s *MemoryStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// OrderResult returns a recorded order result by internal id. Test helper.
func (s *MemoryStore) OrderResult(internalOrderID string) (domain.OrderResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.orders[internalOrderID]
	return result, ok
}

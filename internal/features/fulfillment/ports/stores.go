package ports

import (
	"context"

	"fulfillment-hub/internal/features/fulfillment/domain"
)

// OwnerContext identifies the tenant and customer an internal order belongs
// to. Resolved from the persistence collaborator, never computed here.
type OwnerContext struct {
	// TenantID is the owning tenant/store.
	TenantID string
	// CustomerEmail is the ordering customer's contact email.
	CustomerEmail string
}

// CatalogStore is the boundary to the catalog persistence collaborator. The
// orchestration layer performs no storage I/O beyond these calls.
type CatalogStore interface {
	// SaveImportedItem persists an imported catalog item and returns the
	// internal id assigned to it.
	SaveImportedItem(ctx context.Context, item domain.CatalogItem) (string, error)
}

// OrderStore is the boundary to the order persistence collaborator.
type OrderStore interface {
	// RecordOrderResult persists the normalized result of an order operation.
	RecordOrderResult(ctx context.Context, result domain.OrderResult) error

	// FindOrderOwner resolves the tenant/customer context for an internal
	// order id.
	FindOrderOwner(ctx context.Context, internalOrderID string) (*OwnerContext, error)
}

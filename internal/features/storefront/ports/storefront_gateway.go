package ports

import (
	"context"

	"fulfillment-hub/internal/features/fulfillment/domain"
)

// StorefrontGateway is the boundary to the merchant's storefront. Items flow
// out (imported supplier products published for sale) and orders flow in
// (storefront orders translated into the supplier-agnostic shape).
type StorefrontGateway interface {
	// SyncItemOut publishes an imported catalog item as a storefront product
	// and returns the storefront-assigned product id.
	SyncItemOut(ctx context.Context, item domain.CatalogItem) (string, error)

	// IngestOrder fetches a storefront order and translates it into an
	// OrderRequest ready for supplier routing.
	IngestOrder(ctx context.Context, storefrontOrderID string) (*domain.OrderRequest, error)

	// HealthCheck verifies the storefront API is reachable and the
	// credentials are valid.
	HealthCheck(ctx context.Context) error
}

package ports

import (
	"context"

	"fulfillment-hub/internal/features/fulfillment/domain"
)

// SupplierProvider is the uniform contract every external fulfillment
// supplier adapter implements. This is a Secondary Port (Driven Port).
//
// Every operation may fail independently and must never panic the caller.
// Adapter-specific errors are translated into the domain error taxonomy
// before they cross this boundary.
type SupplierProvider interface {
	// Name returns the stable identifier used as the registry key.
	Name() string

	// SettlementKind returns the supplier's payment-timing model.
	SettlementKind() domain.SettlementKind

	// Capabilities returns the operations this supplier actually supports.
	Capabilities() []domain.Capability

	// Enabled reports whether the adapter has the credentials it needs.
	// The value is fixed for the process lifetime.
	Enabled() bool

	// SearchCatalog searches the supplier catalog. Best-effort: an empty
	// slice means no matches and is not an error.
	SearchCatalog(ctx context.Context, query string) ([]domain.CatalogItem, error)

	// GetItem fetches one catalog item by its supplier-assigned id.
	GetItem(ctx context.Context, externalID string) (*domain.CatalogItem, error)

	// CreateOrder submits an order. The adapter does not deduplicate;
	// resubmitting the same logical order creates a second remote order.
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error)

	// GetOrderStatus refreshes the order's canonical status. Read-only.
	GetOrderStatus(ctx context.Context, externalOrderID string) (*domain.OrderResult, error)

	// CancelOrder attempts a best-effort cancellation. Suppliers without a
	// cancellation endpoint report false, they do not error out the caller.
	CancelOrder(ctx context.Context, externalOrderID string) (bool, error)

	// UpdateInventory applies quantity changes in one batched call and
	// reports the per-item outcome.
	UpdateInventory(ctx context.Context, updates []domain.InventoryUpdate) ([]domain.InventoryUpdateRecord, error)

	// QuoteShipping returns an advisory shipping estimate. Never binding.
	QuoteShipping(ctx context.Context, req domain.OrderRequest) (*domain.ShippingQuote, error)

	// CheckHealth probes the supplier API.
	CheckHealth(ctx context.Context) domain.HealthRecord
}

package service

import (
	"context"
	"sync/atomic"
	"time"

	"fulfillment-hub/internal/features/fulfillment/domain"
)

// mockProvider is a configurable SupplierProvider for service tests.
type mockProvider struct {
	name       string
	settlement domain.SettlementKind
	enabled    bool

	searchItems  []domain.CatalogItem
	searchErr    error
	item         *domain.CatalogItem
	itemErr      error
	orderResult  *domain.OrderResult
	orderErr     error
	statusResult *domain.OrderResult
	statusErr    error
	cancelOK     bool
	cancelErr    error
	invRecords   []domain.InventoryUpdateRecord
	invErr       error
	quote        *domain.ShippingQuote
	quoteErr     error
	health       domain.HealthRecord
	healthDelay  time.Duration

	calls atomic.Int64
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) SettlementKind() domain.SettlementKind { return m.settlement }

func (m *mockProvider) Enabled() bool { return m.enabled }

func (m *mockProvider) Capabilities() []domain.Capability {
	return []domain.Capability{domain.CapabilitySearch, domain.CapabilityOrderCreate}
}

func (m *mockProvider) SearchCatalog(ctx context.Context, query string) ([]domain.CatalogItem, error) {
	m.calls.Add(1)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchItems, nil
}

func (m *mockProvider) GetItem(ctx context.Context, externalID string) (*domain.CatalogItem, error) {
	m.calls.Add(1)
	if m.itemErr != nil {
		return nil, m.itemErr
	}
	return m.item, nil
}

func (m *mockProvider) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	m.calls.Add(1)
	if m.orderErr != nil {
		return nil, m.orderErr
	}
	result := *m.orderResult
	return &result, nil
}

func (m *mockProvider) GetOrderStatus(ctx context.Context, externalOrderID string) (*domain.OrderResult, error) {
	m.calls.Add(1)
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	result := *m.statusResult
	return &result, nil
}

func (m *mockProvider) CancelOrder(ctx context.Context, externalOrderID string) (bool, error) {
	m.calls.Add(1)
	return m.cancelOK, m.cancelErr
}

func (m *mockProvider) UpdateInventory(ctx context.Context, updates []domain.InventoryUpdate) ([]domain.InventoryUpdateRecord, error) {
	m.calls.Add(1)
	if m.invErr != nil {
		return nil, m.invErr
	}
	if m.invRecords != nil {
		return m.invRecords, nil
	}
	records := make([]domain.InventoryUpdateRecord, len(updates))
	for i, u := range updates {
		records[i] = domain.InventoryUpdateRecord{
			ExternalVariantID: u.ExternalVariantID,
			Provider:          m.name,
			Quantity:          u.Quantity,
			Outcome:           domain.InventoryApplied,
		}
	}
	return records, nil
}

func (m *mockProvider) QuoteShipping(ctx context.Context, req domain.OrderRequest) (*domain.ShippingQuote, error) {
	m.calls.Add(1)
	if m.quoteErr != nil {
		return nil, m.quoteErr
	}
	return m.quote, nil
}

func (m *mockProvider) CheckHealth(ctx context.Context) domain.HealthRecord {
	m.calls.Add(1)
	if m.healthDelay > 0 {
		select {
		case <-time.After(m.healthDelay):
		case <-ctx.Done():
			return domain.HealthRecord{
				Provider:  m.name,
				Status:    domain.HealthStatusUnavailable,
				Detail:    ctx.Err().Error(),
				CheckedAt: time.Now().UTC(),
			}
		}
	}
	record := m.health
	if record.Provider == "" {
		record.Provider = m.name
	}
	if record.CheckedAt.IsZero() {
		record.CheckedAt = time.Now().UTC()
	}
	return record
}

// callCount reports how many operations reached the provider.
func (m *mockProvider) callCount() int64 { return m.calls.Load() }

// validOrderRequest builds a request that passes Validate.
func validOrderRequest() domain.OrderRequest {
	return domain.OrderRequest{
		Items: []domain.LineItem{{ExternalVariantID: "var-1", Quantity: 2}},
		ShippingAddress: domain.ShippingAddress{
			Name:       "Ada Lovelace",
			Line1:      "12 Analytical Way",
			City:       "London",
			Region:     "LND",
			PostalCode: "EC1A 1BB",
			Country:    "GB",
		},
		Customer: domain.CustomerContact{
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
		},
	}
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"fulfillment-hub/internal/features/fulfillment/domain"
	"fulfillment-hub/internal/features/fulfillment/ports"
	"fulfillment-hub/internal/features/fulfillment/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSupplier is a configurable SupplierProvider for handler tests.
type mockSupplier struct {
	name        string
	settlement  domain.SettlementKind
	enabled     bool
	searchItems []domain.CatalogItem
	item        *domain.CatalogItem
	itemErr     error
	orderResult *domain.OrderResult
	orderErr    error
	cancelOK    bool
	health      domain.HealthRecord
}

func (m *mockSupplier) Name() string { return m.name }

func (m *mockSupplier) SettlementKind() domain.SettlementKind { return m.settlement }

func (m *mockSupplier) Enabled() bool { return m.enabled }

func (m *mockSupplier) Capabilities() []domain.Capability {
	return []domain.Capability{domain.CapabilitySearch, domain.CapabilityOrderCreate}
}

func (m *mockSupplier) SearchCatalog(ctx context.Context, query string) ([]domain.CatalogItem, error) {
	return m.searchItems, nil
}

func (m *mockSupplier) GetItem(ctx context.Context, externalID string) (*domain.CatalogItem, error) {
	if m.itemErr != nil {
		return nil, m.itemErr
	}
	return m.item, nil
}

func (m *mockSupplier) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	if m.orderErr != nil {
		return nil, m.orderErr
	}
	result := *m.orderResult
	return &result, nil
}

func (m *mockSupplier) GetOrderStatus(ctx context.Context, externalOrderID string) (*domain.OrderResult, error) {
	if m.orderErr != nil {
		return nil, m.orderErr
	}
	result := *m.orderResult
	return &result, nil
}

func (m *mockSupplier) CancelOrder(ctx context.Context, externalOrderID string) (bool, error) {
	return m.cancelOK, nil
}

func (m *mockSupplier) UpdateInventory(ctx context.Context, updates []domain.InventoryUpdate) ([]domain.InventoryUpdateRecord, error) {
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

func (m *mockSupplier) QuoteShipping(ctx context.Context, req domain.OrderRequest) (*domain.ShippingQuote, error) {
	return &domain.ShippingQuote{Provider: m.name, Cost: 9.9, Currency: "USD"}, nil
}

func (m *mockSupplier) CheckHealth(ctx context.Context) domain.HealthRecord {
	record := m.health
	record.Provider = m.name
	if record.CheckedAt.IsZero() {
		record.CheckedAt = time.Now().UTC()
	}
	return record
}

// mockCatalogStore assigns a fixed internal id.
type mockCatalogStore struct{}

func (mockCatalogStore) SaveImportedItem(ctx context.Context, item domain.CatalogItem) (string, error) {
	return "internal-1", nil
}

// mockOrderStore discards everything.
type mockOrderStore struct{}

func (mockOrderStore) RecordOrderResult(ctx context.Context, result domain.OrderResult) error {
	return nil
}

func (mockOrderStore) FindOrderOwner(ctx context.Context, internalOrderID string) (*ports.OwnerContext, error) {
	if internalOrderID != "int-1" {
		return nil, errors.New("no owner recorded for order " + internalOrderID)
	}
	return &ports.OwnerContext{TenantID: "tenant-a", CustomerEmail: "ada@example.com"}, nil
}

func newTestApp(suppliers ...*mockSupplier) *fiber.App {
	registry := service.NewRegistry()
	for _, s := range suppliers {
		registry.Register(s)
	}

	h := NewFulfillmentHandler(
		service.NewOrderRouter(registry, mockOrderStore{}, time.Second),
		service.NewCatalogSyncEngine(registry, mockCatalogStore{}, nil, time.Minute, 100, time.Second),
		service.NewInventorySyncEngine(registry, time.Second),
		service.NewHealthMonitor(registry, time.Second),
	)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	h.RegisterRoutes(app)
	return app
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func orderPayload(provider string) CreateOrderRequest {
	return CreateOrderRequest{
		Provider: provider,
		Order: domain.OrderRequest{
			Items: []domain.LineItem{{ExternalVariantID: "var-1", Quantity: 1}},
			ShippingAddress: domain.ShippingAddress{
				Name:       "Grace Hopper",
				Line1:      "1 Harbor St",
				City:       "Arlington",
				Region:     "VA",
				PostalCode: "22201",
				Country:    "US",
			},
			Customer: domain.CustomerContact{Name: "Grace Hopper", Email: "grace@example.com"},
		},
	}
}

// TestCreateOrder_Success verifies the created order comes back with payment
// timing applied.
func TestCreateOrder_Success(t *testing.T) {
	supplier := &mockSupplier{
		name:       "printforge",
		enabled:    true,
		settlement: domain.NetTerms(30),
		orderResult: &domain.OrderResult{
			ExternalOrderID: "PF-1",
			Provider:        "printforge",
			Status:          domain.OrderStatusCreated,
			OrderedAt:       time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	app := newTestApp(supplier)

	req := httptest.NewRequest("POST", "/orders", jsonBody(t, orderPayload("printforge")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result domain.OrderResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result.InternalID)
	require.NotNil(t, result.PaymentDue)
	assert.Equal(t, domain.PaymentDueByDate, result.PaymentDue.Type)
}

// TestCreateOrder_InvalidBody verifies malformed JSON is a 400.
func TestCreateOrder_InvalidBody(t *testing.T) {
	app := newTestApp(&mockSupplier{name: "printforge", enabled: true})

	req := httptest.NewRequest("POST", "/orders", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// TestCreateOrder_ValidationFailure verifies an empty order is a 400 with
// the ray id echoed back.
func TestCreateOrder_ValidationFailure(t *testing.T) {
	app := newTestApp(&mockSupplier{name: "printforge", enabled: true})

	req := httptest.NewRequest("POST", "/orders", jsonBody(t, CreateOrderRequest{Provider: "printforge"}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

// TestCreateOrder_DisabledProvider verifies a disabled supplier maps to 503.
func TestCreateOrder_DisabledProvider(t *testing.T) {
	app := newTestApp(&mockSupplier{name: "printforge", enabled: false})

	req := httptest.NewRequest("POST", "/orders", jsonBody(t, orderPayload("printforge")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

// TestCreateOrder_SupplierRejection verifies a supplier rejection maps to 422.
func TestCreateOrder_SupplierRejection(t *testing.T) {
	supplier := &mockSupplier{
		name:     "printforge",
		enabled:  true,
		orderErr: &domain.OrderCreationError{Provider: "printforge", Reason: "out of stock"},
	}
	app := newTestApp(supplier)

	req := httptest.NewRequest("POST", "/orders", jsonBody(t, orderPayload("printforge")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

// TestCreateOrder_RateLimited verifies supplier throttling maps to 429.
func TestCreateOrder_RateLimited(t *testing.T) {
	supplier := &mockSupplier{
		name:     "oceansource",
		enabled:  true,
		orderErr: &domain.RateLimitError{Provider: "oceansource", RetryAfter: 30 * time.Second},
	}
	app := newTestApp(supplier)

	req := httptest.NewRequest("POST", "/orders", jsonBody(t, orderPayload("oceansource")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

// TestGetOrderStatus verifies status polling.
func TestGetOrderStatus(t *testing.T) {
	supplier := &mockSupplier{
		name:    "printforge",
		enabled: true,
		orderResult: &domain.OrderResult{
			ExternalOrderID: "PF-9",
			Provider:        "printforge",
			Status:          domain.OrderStatusShipped,
			TrackingRef:     "TRK-1",
		},
	}
	app := newTestApp(supplier)

	req := httptest.NewRequest("GET", "/orders/PF-9?provider=printforge", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result domain.OrderResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, domain.OrderStatusShipped, result.Status)
	assert.Equal(t, "TRK-1", result.TrackingRef)
}

func TestGetOrderOwner(t *testing.T) {
	app := newTestApp(&mockSupplier{name: "printforge", enabled: true})

	req := httptest.NewRequest("GET", "/orders/int-1/owner", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var owner OrderOwnerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&owner))
	assert.Equal(t, "tenant-a", owner.TenantID)
	assert.Equal(t, "ada@example.com", owner.CustomerEmail)

	req = httptest.NewRequest("GET", "/orders/int-unknown/owner", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// TestCancelOrder_NotHonored verifies a declined cancel is 200 with
// cancelled=false.
func TestCancelOrder_NotHonored(t *testing.T) {
	app := newTestApp(&mockSupplier{name: "codexpress", enabled: true, cancelOK: false})

	req := httptest.NewRequest("DELETE", "/orders/CX-1?provider=codexpress", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result CancelOrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.False(t, result.Cancelled)
}

// TestQuoteShipping verifies the quote endpoint.
func TestQuoteShipping(t *testing.T) {
	app := newTestApp(&mockSupplier{name: "oceansource", enabled: true})

	req := httptest.NewRequest("POST", "/orders/quote", jsonBody(t, orderPayload("oceansource")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var quote domain.ShippingQuote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&quote))
	assert.Equal(t, 9.9, quote.Cost)
}

// TestSearchCatalog_MissingQuery verifies the q parameter is required.
func TestSearchCatalog_MissingQuery(t *testing.T) {
	app := newTestApp(&mockSupplier{name: "printforge", enabled: true})

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/search", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// TestSearchCatalog_AllProviders verifies the fan-out response shape.
func TestSearchCatalog_AllProviders(t *testing.T) {
	supplier := &mockSupplier{
		name:        "printforge",
		enabled:     true,
		searchItems: []domain.CatalogItem{{ExternalID: "pf-1", Provider: "printforge", Name: "Mug"}},
	}
	app := newTestApp(supplier)

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/search?q=mug", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result service.SearchAllResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Items, 1)
	assert.Equal(t, "pf-1", result.Items[0].ExternalID)
}

// TestImportItem_NotFound verifies an unknown product maps to 404.
func TestImportItem_NotFound(t *testing.T) {
	supplier := &mockSupplier{
		name:    "printforge",
		enabled: true,
		itemErr: &domain.ProductNotFoundError{Provider: "printforge", ExternalID: "ghost"},
	}
	app := newTestApp(supplier)

	req := httptest.NewRequest("POST", "/catalog/import", jsonBody(t, ImportItemRequest{Provider: "printforge", ExternalID: "ghost"}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// TestImportItem_Success verifies a successful import returns 201 with the
// internal id.
func TestImportItem_Success(t *testing.T) {
	supplier := &mockSupplier{
		name:    "printforge",
		enabled: true,
		item:    &domain.CatalogItem{ExternalID: "pf-1", Provider: "printforge", Name: "Mug"},
	}
	app := newTestApp(supplier)

	req := httptest.NewRequest("POST", "/catalog/import", jsonBody(t, ImportItemRequest{Provider: "printforge", ExternalID: "pf-1"}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result service.ImportResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "internal-1", result.InternalID)
}

// TestBulkImport verifies the derived counts in the response.
func TestBulkImport(t *testing.T) {
	supplier := &mockSupplier{
		name:    "printforge",
		enabled: true,
		searchItems: []domain.CatalogItem{
			{ExternalID: "pf-1", Provider: "printforge"},
			{ExternalID: "pf-2", Provider: "printforge"},
		},
		item: &domain.CatalogItem{ExternalID: "pf-1", Provider: "printforge"},
	}
	app := newTestApp(supplier)

	req := httptest.NewRequest("POST", "/catalog/bulk-import", jsonBody(t, BulkImportRequest{Provider: "printforge", Query: "mug"}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result BulkImportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Len(t, result.Results, 2)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
}

// TestSyncInventory verifies the records come back in input order.
func TestSyncInventory(t *testing.T) {
	app := newTestApp(&mockSupplier{name: "oceansource", enabled: true})

	payload := SyncInventoryRequest{Updates: []domain.InventoryUpdate{
		{ExternalVariantID: "v1", Provider: "oceansource", Quantity: 3},
		{ExternalVariantID: "v2", Provider: "ghost", Quantity: 1},
	}}
	req := httptest.NewRequest("POST", "/inventory/sync", jsonBody(t, payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result SyncInventoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Records, 2)
	assert.Equal(t, domain.InventoryApplied, result.Records[0].Outcome)
	assert.Equal(t, domain.InventoryProviderUnavailable, result.Records[1].Outcome)
}

// TestSyncInventory_EmptyBatch verifies an empty batch is a 400.
func TestSyncInventory_EmptyBatch(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/inventory/sync", jsonBody(t, SyncInventoryRequest{}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// TestProviderHealth verifies the per-provider health listing, including
// disabled providers reported as unavailable.
func TestProviderHealth(t *testing.T) {
	healthy := &mockSupplier{
		name:    "printforge",
		enabled: true,
		health:  domain.HealthRecord{Status: domain.HealthStatusHealthy},
	}
	disabled := &mockSupplier{name: "codexpress", enabled: false}
	app := newTestApp(healthy, disabled)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/providers", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var records []domain.HealthRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Len(t, records, 2)
	assert.Equal(t, domain.HealthStatusHealthy, records[0].Status)
	assert.Equal(t, domain.HealthStatusUnavailable, records[1].Status)
}

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fulfillment-hub/internal/core/config"
	"fulfillment-hub/internal/features/fulfillment/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNortrade(serverURL string) *NortradeAdapter {
	return NewNortradeAdapter(config.NortradeConfig{
		BaseURL:  serverURL,
		APIToken: "nt_token",
	}, 30, 5*time.Second)
}

func ntOrderRequest() domain.OrderRequest {
	return domain.OrderRequest{
		Items: []domain.LineItem{{ExternalVariantID: "nt-unit-4", Quantity: 12}},
		ShippingAddress: domain.ShippingAddress{
			Name:       "Fulfillment Hub Warehouse",
			Line1:      "Industrivej 8",
			City:       "Aarhus",
			Region:     "Midtjylland",
			PostalCode: "8000",
			Country:    "DK",
		},
		Customer: domain.CustomerContact{Name: "Niels Dahl", Email: "niels@example.com"},
	}
}

// TestNortradeAdapter_Settlement verifies the configured credit window flows
// into the settlement policy.
func TestNortradeAdapter_Settlement(t *testing.T) {
	a := newNortrade("https://b2b.nortrade.example")

	kind := a.SettlementKind()
	assert.Equal(t, domain.SettlementNetTerms, kind.Terms)
	assert.Equal(t, 30, kind.NetDays)
	assert.Equal(t, "nortrade", a.Name())
	assert.True(t, a.Enabled())
}

// TestNortradeAdapter_Disabled verifies a missing token disables the adapter.
func TestNortradeAdapter_Disabled(t *testing.T) {
	a := NewNortradeAdapter(config.NortradeConfig{BaseURL: "https://b2b.nortrade.example"}, 30, time.Second)

	assert.False(t, a.Enabled())
}

// TestNortradeAdapter_SearchCatalog verifies article mapping including unit
// surcharges.
func TestNortradeAdapter_SearchCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/b2b/v1/articles", r.URL.Path)
		require.Equal(t, "shelving", r.URL.Query().Get("search"))
		require.Equal(t, "Bearer nt_token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"articles": [{
			"article_no": "NT-340",
			"name": "Steel Shelving Unit",
			"description": "5-tier, 180cm",
			"list_price": 89.00,
			"image_urls": ["https://img.example.com/shelf.jpg"],
			"units": [{"unit_no": "NT-340-W", "attributes": {"width": "90cm"}, "surcharge": 10.0}]
		}]}`))
	}))
	defer server.Close()

	items, err := newNortrade(server.URL).SearchCatalog(context.Background(), "shelving")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "NT-340", items[0].ExternalID)
	assert.Equal(t, ProviderNortrade, items[0].Provider)
	require.Len(t, items[0].Variants, 1)
	assert.InDelta(t, 10.0, items[0].Variants[0].PriceDelta, 0.001)
}

// TestNortradeAdapter_CreateOrder verifies the positions payload and the
// credit-check phase mapping.
func TestNortradeAdapter_CreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/b2b/v1/orders", r.URL.Path)

		var payload struct {
			Positions []struct {
				UnitNo   string `json:"unit_no"`
				Quantity int    `json:"quantity"`
			} `json:"positions"`
			Delivery struct {
				Recipient string `json:"recipient"`
				Postal    string `json:"postal_code"`
			} `json:"delivery"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Positions, 1)
		assert.Equal(t, "nt-unit-4", payload.Positions[0].UnitNo)
		assert.Equal(t, 12, payload.Positions[0].Quantity)
		assert.Equal(t, "Fulfillment Hub Warehouse", payload.Delivery.Recipient)
		assert.Equal(t, "8000", payload.Delivery.Postal)

		w.Write([]byte(`{"order_id": "NT-ORD-77", "phase": "credit_check", "ordered_at": "2026-03-01T08:00:00Z"}`))
	}))
	defer server.Close()

	result, err := newNortrade(server.URL).CreateOrder(context.Background(), ntOrderRequest())
	require.NoError(t, err)
	assert.Equal(t, "NT-ORD-77", result.ExternalOrderID)
	assert.Equal(t, domain.OrderStatusPendingAcceptance, result.Status)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), result.OrderedAt.UTC())
}

// TestNortradeAdapter_CreateOrder_CreditRejected verifies a 4xx order
// rejection surfaces as an order creation error.
func TestNortradeAdapter_CreateOrder_CreditRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "credit limit exceeded"}`))
	}))
	defer server.Close()

	_, err := newNortrade(server.URL).CreateOrder(context.Background(), ntOrderRequest())

	var rejection *domain.OrderCreationError
	require.ErrorAs(t, err, &rejection)
	assert.Contains(t, rejection.Error(), "credit limit exceeded")
}

// TestNortradeAdapter_UpdateInventory verifies the rejected-list mapping; the
// response only names units that failed.
func TestNortradeAdapter_UpdateInventory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/b2b/v1/stock", r.URL.Path)
		w.Write([]byte(`{"rejected": [{"unit_no": "nt-2", "cause": "article delisted"}]}`))
	}))
	defer server.Close()

	records, err := newNortrade(server.URL).UpdateInventory(context.Background(), []domain.InventoryUpdate{
		{ExternalVariantID: "nt-1", Quantity: 40},
		{ExternalVariantID: "nt-2", Quantity: 15},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.InventoryApplied, records[0].Outcome)
	assert.Equal(t, domain.InventoryRejected, records[1].Outcome)
	assert.Equal(t, "article delisted", records[1].Detail)
}

// TestNortradeAdapter_QuoteShipping verifies the freight estimate mapping and
// the date parsing.
func TestNortradeAdapter_QuoteShipping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/b2b/v1/freight/estimate", r.URL.Path)
		var payload struct {
			Country string `json:"country"`
			Units   int    `json:"units"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "DK", payload.Country)
		assert.Equal(t, 12, payload.Units)
		w.Write([]byte(`{"freight": 45.00, "currency": "EUR", "estimated_date": "2026-03-09"}`))
	}))
	defer server.Close()

	quote, err := newNortrade(server.URL).QuoteShipping(context.Background(), ntOrderRequest())
	require.NoError(t, err)
	assert.InDelta(t, 45.00, quote.Cost, 0.001)
	assert.Equal(t, "EUR", quote.Currency)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), quote.EstimatedDelivery)
}

// TestNortradeAdapter_CheckHealth_CreditSuspended verifies a suspended credit
// facility reports degraded.
func TestNortradeAdapter_CheckHealth_CreditSuspended(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/b2b/v1/account/status", r.URL.Path)
		w.Write([]byte(`{"credit_active": false}`))
	}))
	defer server.Close()

	record := newNortrade(server.URL).CheckHealth(context.Background())
	assert.Equal(t, domain.HealthStatusDegraded, record.Status)
	assert.Equal(t, "credit facility suspended", record.Detail)
}

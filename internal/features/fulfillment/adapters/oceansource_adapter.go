package adapter

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"fulfillment-hub/internal/core/config"
	"fulfillment-hub/internal/core/httpclient"
	"fulfillment-hub/internal/core/logger"
	"fulfillment-hub/internal/features/fulfillment/domain"

	"go.uber.org/zap"
)

// ProviderOceansource is the registry key for the general dropship catalog.
const ProviderOceansource = "oceansource"

// OceansourceAdapter integrates the Oceansource dropship catalog API.
// Oceansource charges at order time (prepaid) and throttles aggressively,
// so all calls go through a rate-limited client.
type OceansourceAdapter struct {
	rest    *restClient
	enabled bool
	logger  *zap.Logger
}

var oceansourceStatusVocab = map[string]domain.OrderStatus{
	"submitted":  domain.OrderStatusCreated,
	"review":     domain.OrderStatusPendingAcceptance,
	"confirmed":  domain.OrderStatusAccepted,
	"declined":   domain.OrderStatusRejected,
	"processing": domain.OrderStatusInFulfillment,
	"dispatched": domain.OrderStatusShipped,
	"completed":  domain.OrderStatusDelivered,
	"void":       domain.OrderStatusCancelled,
}

// NewOceansourceAdapter creates an Oceansource adapter. Both the API key
// and secret are required; missing either leaves the adapter disabled.
func NewOceansourceAdapter(cfg config.OceansourceConfig, timeout time.Duration) *OceansourceAdapter {
	auth := base64.StdEncoding.EncodeToString([]byte(cfg.APIKey + ":" + cfg.APISecret))
	return &OceansourceAdapter{
		rest: &restClient{
			http:     httpclient.NewRateLimitedClient(timeout, cfg.RequestsPerMinute),
			baseURL:  cfg.BaseURL,
			provider: ProviderOceansource,
			authorize: func(req *http.Request) {
				req.Header.Set("Authorization", "Basic "+auth)
			},
		},
		enabled: cfg.APIKey != "" && cfg.APISecret != "",
		logger:  logger.Named(ProviderOceansource),
	}
}

// Name returns the registry key.
func (a *OceansourceAdapter) Name() string { return ProviderOceansource }

// SettlementKind returns prepaid.
func (a *OceansourceAdapter) SettlementKind() domain.SettlementKind { return domain.Prepaid() }

// Capabilities returns every operation Oceansource supports.
func (a *OceansourceAdapter) Capabilities() []domain.Capability {
	return []domain.Capability{
		domain.CapabilitySearch,
		domain.CapabilityImport,
		domain.CapabilityOrderCreate,
		domain.CapabilityOrderStatus,
		domain.CapabilityOrderCancel,
		domain.CapabilityInventoryUpdate,
		domain.CapabilityShippingQuote,
	}
}

// Enabled reports whether credentials were configured.
func (a *OceansourceAdapter) Enabled() bool { return a.enabled }

// wire shapes

type osItem struct {
	SKU     string  `json:"sku"`
	Title   string  `json:"title"`
	Details string  `json:"details"`
	Price   float64 `json:"price"`
	Gallery []struct {
		URL string `json:"url"`
	} `json:"gallery"`
	Variations []struct {
		SKU        string            `json:"sku"`
		Options    map[string]string `json:"options"`
		PriceDelta float64           `json:"price_delta"`
	} `json:"variations"`
}

type osSearchResponse struct {
	Data struct {
		Items []osItem `json:"items"`
	} `json:"data"`
}

type osOrderResponse struct {
	OrderNo  string `json:"order_no"`
	State    string `json:"state"`
	Tracking string `json:"tracking_no"`
	PlacedAt int64  `json:"placed_at"`
}

type osStockResult struct {
	SKU    string `json:"sku"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

// SearchCatalog searches the Oceansource catalog.
func (a *OceansourceAdapter) SearchCatalog(ctx context.Context, query string) ([]domain.CatalogItem, error) {
	var resp osSearchResponse
	path := "/api/v2/catalog/search?q=" + url.QueryEscape(query)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, classify(ProviderOceansource, err, nil, false)
	}

	items := make([]domain.CatalogItem, 0, len(resp.Data.Items))
	for _, it := range resp.Data.Items {
		items = append(items, a.mapItem(it))
	}
	return items, nil
}

// GetItem fetches one catalog entry by SKU.
func (a *OceansourceAdapter) GetItem(ctx context.Context, externalID string) (*domain.CatalogItem, error) {
	var resp struct {
		Data osItem `json:"data"`
	}
	path := "/api/v2/catalog/items/" + url.PathEscape(externalID)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		notFound := &domain.ProductNotFoundError{Provider: ProviderOceansource, ExternalID: externalID}
		return nil, classify(ProviderOceansource, err, notFound, false)
	}

	item := a.mapItem(resp.Data)
	return &item, nil
}

// CreateOrder submits an order to Oceansource.
func (a *OceansourceAdapter) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	type osLine struct {
		SKU string `json:"sku"`
		Qty int    `json:"qty"`
	}
	payload := struct {
		Lines    []osLine `json:"lines"`
		Receiver struct {
			Name    string `json:"name"`
			Street  string `json:"street"`
			Street2 string `json:"street2,omitempty"`
			City    string `json:"city"`
			Region  string `json:"region"`
			Postal  string `json:"postal"`
			Country string `json:"country"`
			Email   string `json:"email"`
			Phone   string `json:"phone,omitempty"`
		} `json:"receiver"`
		Remark string `json:"remark,omitempty"`
	}{Remark: req.Notes}

	for _, item := range req.Items {
		payload.Lines = append(payload.Lines, osLine{SKU: item.ExternalVariantID, Qty: item.Quantity})
	}
	payload.Receiver.Name = req.ShippingAddress.Name
	payload.Receiver.Street = req.ShippingAddress.Line1
	payload.Receiver.Street2 = req.ShippingAddress.Line2
	payload.Receiver.City = req.ShippingAddress.City
	payload.Receiver.Region = req.ShippingAddress.Region
	payload.Receiver.Postal = req.ShippingAddress.PostalCode
	payload.Receiver.Country = req.ShippingAddress.Country
	payload.Receiver.Email = req.Customer.Email
	payload.Receiver.Phone = req.Customer.Phone

	var resp osOrderResponse
	if err := a.rest.doJSON(ctx, http.MethodPost, "/api/v2/orders", payload, &resp); err != nil {
		return nil, classify(ProviderOceansource, err, nil, true)
	}
	return a.mapOrder(resp), nil
}

// GetOrderStatus refreshes an order's canonical status.
func (a *OceansourceAdapter) GetOrderStatus(ctx context.Context, externalOrderID string) (*domain.OrderResult, error) {
	var resp osOrderResponse
	path := "/api/v2/orders/" + url.PathEscape(externalOrderID)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		notFound := &domain.ProductNotFoundError{Provider: ProviderOceansource, ExternalID: externalOrderID}
		return nil, classify(ProviderOceansource, err, notFound, false)
	}
	return a.mapOrder(resp), nil
}

// CancelOrder voids an order that has not been dispatched.
func (a *OceansourceAdapter) CancelOrder(ctx context.Context, externalOrderID string) (bool, error) {
	path := "/api/v2/orders/" + url.PathEscape(externalOrderID) + "/void"
	if err := a.rest.doJSON(ctx, http.MethodPost, path, nil, nil); err != nil {
		if apiErr, ok := err.(*apiError); ok && apiErr.Status < http.StatusInternalServerError {
			a.logger.Warn("Void refused", zap.String("order_no", externalOrderID), zap.String("reason", apiErr.Message))
			return false, nil
		}
		return false, classify(ProviderOceansource, err, nil, false)
	}
	return true, nil
}

// UpdateInventory pushes stock levels in one batch call.
func (a *OceansourceAdapter) UpdateInventory(ctx context.Context, updates []domain.InventoryUpdate) ([]domain.InventoryUpdateRecord, error) {
	type stockEntry struct {
		SKU string `json:"sku"`
		Qty int    `json:"qty"`
	}
	payload := struct {
		Stock []stockEntry `json:"stock"`
	}{}
	for _, u := range updates {
		payload.Stock = append(payload.Stock, stockEntry{SKU: u.ExternalVariantID, Qty: u.Quantity})
	}

	var resp struct {
		Results []osStockResult `json:"results"`
	}
	if err := a.rest.doJSON(ctx, http.MethodPost, "/api/v2/stock/batch", payload, &resp); err != nil {
		return nil, classify(ProviderOceansource, err, nil, false)
	}

	bySKU := make(map[string]osStockResult, len(resp.Results))
	for _, r := range resp.Results {
		bySKU[r.SKU] = r
	}

	records := make([]domain.InventoryUpdateRecord, 0, len(updates))
	for _, u := range updates {
		record := domain.InventoryUpdateRecord{
			ExternalVariantID: u.ExternalVariantID,
			Provider:          ProviderOceansource,
			Quantity:          u.Quantity,
			Outcome:           domain.InventoryApplied,
		}
		if r, ok := bySKU[u.ExternalVariantID]; ok && !r.OK {
			record.Outcome = domain.InventoryRejected
			record.Detail = r.Reason
		}
		records = append(records, record)
	}
	return records, nil
}

// QuoteShipping asks Oceansource's rate endpoint for an estimate.
func (a *OceansourceAdapter) QuoteShipping(ctx context.Context, req domain.OrderRequest) (*domain.ShippingQuote, error) {
	units := 0
	for _, item := range req.Items {
		units += item.Quantity
	}
	path := fmt.Sprintf("/api/v2/shipping/rates?country=%s&units=%d", url.QueryEscape(req.ShippingAddress.Country), units)

	var resp struct {
		Cost     float64 `json:"cost"`
		Currency string  `json:"currency"`
		Days     int     `json:"transit_days"`
	}
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, classify(ProviderOceansource, err, nil, false)
	}

	return &domain.ShippingQuote{
		Provider:          ProviderOceansource,
		Cost:              resp.Cost,
		Currency:          resp.Currency,
		EstimatedDelivery: time.Now().AddDate(0, 0, resp.Days),
	}, nil
}

// CheckHealth probes the Oceansource API.
func (a *OceansourceAdapter) CheckHealth(ctx context.Context) domain.HealthRecord {
	record := domain.HealthRecord{Provider: ProviderOceansource, CheckedAt: time.Now()}

	var resp struct {
		Status string `json:"status"`
	}
	if err := a.rest.doJSON(ctx, http.MethodGet, "/api/v2/status", nil, &resp); err != nil {
		record.Status = domain.HealthStatusUnavailable
		record.Detail = (&domain.HealthCheckFailure{Provider: ProviderOceansource, Err: err}).Error()
		return record
	}
	if resp.Status != "ok" {
		record.Status = domain.HealthStatusDegraded
		record.Detail = "supplier status: " + resp.Status
		return record
	}
	record.Status = domain.HealthStatusHealthy
	return record
}

func (a *OceansourceAdapter) mapItem(it osItem) domain.CatalogItem {
	item := domain.CatalogItem{
		ExternalID:  it.SKU,
		Name:        it.Title,
		Description: it.Details,
		UnitPrice:   it.Price,
		Provider:    ProviderOceansource,
	}
	for _, g := range it.Gallery {
		item.Images = append(item.Images, g.URL)
	}
	for _, v := range it.Variations {
		item.Variants = append(item.Variants, domain.Variant{
			ExternalVariantID: v.SKU,
			Attributes:        v.Options,
			PriceDelta:        v.PriceDelta,
		})
	}
	return item
}

func (a *OceansourceAdapter) mapOrder(resp osOrderResponse) *domain.OrderResult {
	status, raw := domain.NormalizeStatus(oceansourceStatusVocab, resp.State)
	if _, known := oceansourceStatusVocab[resp.State]; !known {
		a.logger.Warn("Unknown Oceansource order state", zap.String("state", resp.State))
	}

	orderedAt := time.Now()
	if resp.PlacedAt > 0 {
		orderedAt = time.Unix(resp.PlacedAt, 0)
	}

	return &domain.OrderResult{
		ExternalOrderID: resp.OrderNo,
		Provider:        ProviderOceansource,
		Status:          status,
		RawStatus:       raw,
		TrackingRef:     resp.Tracking,
		OrderedAt:       orderedAt,
	}
}

package adapter

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"fulfillment-hub/internal/core/config"
	"fulfillment-hub/internal/core/httpclient"
	"fulfillment-hub/internal/core/logger"
	"fulfillment-hub/internal/features/fulfillment/domain"

	"go.uber.org/zap"
)

// ProviderPrintforge is the registry key for the print-on-demand supplier.
const ProviderPrintforge = "printforge"

// PrintforgeAdapter integrates the Printforge print-on-demand API.
// Printforge charges at order-create time, so its settlement kind is prepaid.
type PrintforgeAdapter struct {
	rest    *restClient
	enabled bool
	logger  *zap.Logger
}

// printforge raw order statuses, mapped to the canonical lifecycle.
var printforgeStatusVocab = map[string]domain.OrderStatus{
	"draft":     domain.OrderStatusCreated,
	"pending":   domain.OrderStatusPendingAcceptance,
	"onhold":    domain.OrderStatusPendingAcceptance,
	"confirmed": domain.OrderStatusAccepted,
	"failed":    domain.OrderStatusRejected,
	"inprocess": domain.OrderStatusInFulfillment,
	"fulfilled": domain.OrderStatusShipped,
	"delivered": domain.OrderStatusDelivered,
	"canceled":  domain.OrderStatusCancelled,
}

// NewPrintforgeAdapter creates a Printforge adapter. An empty API token
// leaves the adapter registered but disabled.
func NewPrintforgeAdapter(cfg config.PrintforgeConfig, timeout time.Duration) *PrintforgeAdapter {
	return &PrintforgeAdapter{
		rest: &restClient{
			http:      httpclient.NewClient(timeout),
			baseURL:   cfg.BaseURL,
			provider:  ProviderPrintforge,
			authorize: bearerAuth(cfg.APIToken),
		},
		enabled: cfg.APIToken != "",
		logger:  logger.Named(ProviderPrintforge),
	}
}

// Name returns the registry key.
func (a *PrintforgeAdapter) Name() string { return ProviderPrintforge }

// SettlementKind returns prepaid: funds are captured at order creation.
func (a *PrintforgeAdapter) SettlementKind() domain.SettlementKind { return domain.Prepaid() }

// Capabilities returns every operation Printforge supports.
func (a *PrintforgeAdapter) Capabilities() []domain.Capability {
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
func (a *PrintforgeAdapter) Enabled() bool { return a.enabled }

// wire shapes

type pfProduct struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	BasePrice   float64     `json:"base_price"`
	Thumbnails  []string    `json:"thumbnail_urls"`
	Variants    []pfVariant `json:"variants"`
}

type pfVariant struct {
	ID    string            `json:"id"`
	Attrs map[string]string `json:"options"`
	Price float64           `json:"price"`
}

type pfSearchResponse struct {
	Result []pfProduct `json:"result"`
}

type pfOrderResponse struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	TrackingURL string `json:"tracking_number"`
	CreatedAt   string `json:"created_at"`
}

type pfRecipient struct {
	Name     string `json:"name"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	Region   string `json:"state_code"`
	Zip      string `json:"zip"`
	Country  string `json:"country_code"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

type pfOrderItem struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type pfCreateOrderRequest struct {
	Recipient pfRecipient   `json:"recipient"`
	Items     []pfOrderItem `json:"items"`
	Notes     string        `json:"packing_slip_note,omitempty"`
}

type pfRatesResponse struct {
	Rate         float64 `json:"rate"`
	Currency     string  `json:"currency"`
	DeliveryDays int     `json:"estimated_delivery_days"`
}

type pfSyncResult struct {
	VariantID string `json:"variant_id"`
	Synced    bool   `json:"synced"`
	Reason    string `json:"reason"`
}

type pfSyncResponse struct {
	Results []pfSyncResult `json:"results"`
}

// SearchCatalog searches the Printforge product catalog.
func (a *PrintforgeAdapter) SearchCatalog(ctx context.Context, query string) ([]domain.CatalogItem, error) {
	var resp pfSearchResponse
	path := "/v1/products?search=" + url.QueryEscape(query)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, classify(ProviderPrintforge, err, nil, false)
	}

	items := make([]domain.CatalogItem, 0, len(resp.Result))
	for _, p := range resp.Result {
		items = append(items, a.mapProduct(p))
	}
	return items, nil
}

// GetItem fetches one product by Printforge id.
func (a *PrintforgeAdapter) GetItem(ctx context.Context, externalID string) (*domain.CatalogItem, error) {
	var p pfProduct
	path := "/v1/products/" + url.PathEscape(externalID)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &p); err != nil {
		notFound := &domain.ProductNotFoundError{Provider: ProviderPrintforge, ExternalID: externalID}
		return nil, classify(ProviderPrintforge, err, notFound, false)
	}

	item := a.mapProduct(p)
	return &item, nil
}

// CreateOrder submits an order to Printforge.
func (a *PrintforgeAdapter) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	payload := pfCreateOrderRequest{
		Recipient: pfRecipient{
			Name:     req.ShippingAddress.Name,
			Address1: req.ShippingAddress.Line1,
			Address2: req.ShippingAddress.Line2,
			City:     req.ShippingAddress.City,
			Region:   req.ShippingAddress.Region,
			Zip:      req.ShippingAddress.PostalCode,
			Country:  req.ShippingAddress.Country,
			Email:    req.Customer.Email,
			Phone:    req.Customer.Phone,
		},
		Notes: req.Notes,
	}
	for _, item := range req.Items {
		payload.Items = append(payload.Items, pfOrderItem{VariantID: item.ExternalVariantID, Quantity: item.Quantity})
	}

	var resp pfOrderResponse
	if err := a.rest.doJSON(ctx, http.MethodPost, "/v1/orders", payload, &resp); err != nil {
		return nil, classify(ProviderPrintforge, err, nil, true)
	}
	return a.mapOrder(resp), nil
}

// GetOrderStatus refreshes an order's canonical status.
func (a *PrintforgeAdapter) GetOrderStatus(ctx context.Context, externalOrderID string) (*domain.OrderResult, error) {
	var resp pfOrderResponse
	path := "/v1/orders/" + url.PathEscape(externalOrderID)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		notFound := &domain.ProductNotFoundError{Provider: ProviderPrintforge, ExternalID: externalOrderID}
		return nil, classify(ProviderPrintforge, err, notFound, false)
	}
	return a.mapOrder(resp), nil
}

// CancelOrder cancels an unshipped order. Best-effort.
func (a *PrintforgeAdapter) CancelOrder(ctx context.Context, externalOrderID string) (bool, error) {
	path := "/v1/orders/" + url.PathEscape(externalOrderID)
	if err := a.rest.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		if apiErr, ok := err.(*apiError); ok && apiErr.Status < http.StatusInternalServerError {
			a.logger.Warn("Cancellation refused", zap.String("order_id", externalOrderID), zap.String("reason", apiErr.Message))
			return false, nil
		}
		return false, classify(ProviderPrintforge, err, nil, false)
	}
	return true, nil
}

// UpdateInventory pushes variant quantities in one batched sync call.
func (a *PrintforgeAdapter) UpdateInventory(ctx context.Context, updates []domain.InventoryUpdate) ([]domain.InventoryUpdateRecord, error) {
	type syncEntry struct {
		VariantID string `json:"variant_id"`
		Quantity  int    `json:"quantity"`
	}
	payload := struct {
		Variants []syncEntry `json:"variants"`
	}{}
	for _, u := range updates {
		payload.Variants = append(payload.Variants, syncEntry{VariantID: u.ExternalVariantID, Quantity: u.Quantity})
	}

	var resp pfSyncResponse
	if err := a.rest.doJSON(ctx, http.MethodPut, "/v1/sync/variants", payload, &resp); err != nil {
		return nil, classify(ProviderPrintforge, err, nil, false)
	}

	outcomes := make(map[string]pfSyncResult, len(resp.Results))
	for _, r := range resp.Results {
		outcomes[r.VariantID] = r
	}

	records := make([]domain.InventoryUpdateRecord, 0, len(updates))
	for _, u := range updates {
		record := domain.InventoryUpdateRecord{
			ExternalVariantID: u.ExternalVariantID,
			Provider:          ProviderPrintforge,
			Quantity:          u.Quantity,
			Outcome:           domain.InventoryApplied,
		}
		if r, ok := outcomes[u.ExternalVariantID]; ok && !r.Synced {
			record.Outcome = domain.InventoryRejected
			record.Detail = r.Reason
		}
		records = append(records, record)
	}
	return records, nil
}

// QuoteShipping asks Printforge's live rate API for an estimate.
func (a *PrintforgeAdapter) QuoteShipping(ctx context.Context, req domain.OrderRequest) (*domain.ShippingQuote, error) {
	payload := struct {
		Country string        `json:"country_code"`
		Zip     string        `json:"zip"`
		Items   []pfOrderItem `json:"items"`
	}{
		Country: req.ShippingAddress.Country,
		Zip:     req.ShippingAddress.PostalCode,
	}
	for _, item := range req.Items {
		payload.Items = append(payload.Items, pfOrderItem{VariantID: item.ExternalVariantID, Quantity: item.Quantity})
	}

	var resp pfRatesResponse
	if err := a.rest.doJSON(ctx, http.MethodPost, "/v1/shipping/rates", payload, &resp); err != nil {
		return nil, classify(ProviderPrintforge, err, nil, false)
	}

	return &domain.ShippingQuote{
		Provider:          ProviderPrintforge,
		Cost:              resp.Rate,
		Currency:          resp.Currency,
		EstimatedDelivery: time.Now().AddDate(0, 0, resp.DeliveryDays),
	}, nil
}

// CheckHealth probes the Printforge API.
func (a *PrintforgeAdapter) CheckHealth(ctx context.Context) domain.HealthRecord {
	record := domain.HealthRecord{Provider: ProviderPrintforge, CheckedAt: time.Now()}

	var status struct {
		Maintenance bool `json:"maintenance"`
	}
	if err := a.rest.doJSON(ctx, http.MethodGet, "/v1/ping", nil, &status); err != nil {
		record.Status = domain.HealthStatusUnavailable
		record.Detail = (&domain.HealthCheckFailure{Provider: ProviderPrintforge, Err: err}).Error()
		return record
	}
	if status.Maintenance {
		record.Status = domain.HealthStatusDegraded
		record.Detail = "supplier reports maintenance window"
		return record
	}
	record.Status = domain.HealthStatusHealthy
	return record
}

func (a *PrintforgeAdapter) mapProduct(p pfProduct) domain.CatalogItem {
	item := domain.CatalogItem{
		ExternalID:  p.ID,
		Name:        p.Title,
		Description: p.Description,
		UnitPrice:   p.BasePrice,
		Images:      p.Thumbnails,
		Provider:    ProviderPrintforge,
	}
	for _, v := range p.Variants {
		item.Variants = append(item.Variants, domain.Variant{
			ExternalVariantID: v.ID,
			Attributes:        v.Attrs,
			PriceDelta:        v.Price - p.BasePrice,
		})
	}
	return item
}

func (a *PrintforgeAdapter) mapOrder(resp pfOrderResponse) *domain.OrderResult {
	status, raw := domain.NormalizeStatus(printforgeStatusVocab, resp.Status)
	if _, known := printforgeStatusVocab[resp.Status]; !known {
		a.logger.Warn("Unknown Printforge order status", zap.String("status", resp.Status))
	}

	orderedAt, err := time.Parse(time.RFC3339, resp.CreatedAt)
	if err != nil {
		orderedAt = time.Now()
	}

	return &domain.OrderResult{
		ExternalOrderID: resp.ID,
		Provider:        ProviderPrintforge,
		Status:          status,
		RawStatus:       raw,
		TrackingRef:     resp.TrackingURL,
		OrderedAt:       orderedAt,
	}
}

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

// ProviderCodexpress is the registry key for the cash-on-delivery supplier.
const ProviderCodexpress = "codexpress"

// codexpressFlatRate is the static shipping estimate returned when quoting.
// Codexpress has no live rate API; callers must not treat this as binding.
const codexpressFlatRate = 4.90

// CodexpressAdapter integrates the Codexpress regional COD supplier.
// Orders are accepted without charge; payment is collected at delivery.
// Codexpress exposes no cancellation endpoint, so CancelOrder always
// reports failure without calling the network.
type CodexpressAdapter struct {
	rest    *restClient
	enabled bool
	logger  *zap.Logger
}

var codexpressStatusVocab = map[string]domain.OrderStatus{
	"RECEIVED":         domain.OrderStatusPendingAcceptance,
	"CONFIRMED":        domain.OrderStatusAccepted,
	"REFUSED":          domain.OrderStatusRejected,
	"PACKED":           domain.OrderStatusInFulfillment,
	"OUT_FOR_DELIVERY": domain.OrderStatusShipped,
	"DELIVERED":        domain.OrderStatusDelivered,
	"ANNULLED":         domain.OrderStatusCancelled,
}

// NewCodexpressAdapter creates a Codexpress adapter. An empty API token
// leaves the adapter registered but disabled.
func NewCodexpressAdapter(cfg config.CodexpressConfig, timeout time.Duration) *CodexpressAdapter {
	return &CodexpressAdapter{
		rest: &restClient{
			http:      httpclient.NewClient(timeout),
			baseURL:   cfg.BaseURL,
			provider:  ProviderCodexpress,
			authorize: bearerAuth(cfg.APIToken),
		},
		enabled: cfg.APIToken != "",
		logger:  logger.Named(ProviderCodexpress),
	}
}

// Name returns the registry key.
func (a *CodexpressAdapter) Name() string { return ProviderCodexpress }

// SettlementKind returns cash-on-delivery: payment is due at physical delivery.
func (a *CodexpressAdapter) SettlementKind() domain.SettlementKind {
	return domain.CashOnDelivery()
}

// Capabilities excludes order cancellation and shipping quotes are static.
func (a *CodexpressAdapter) Capabilities() []domain.Capability {
	return []domain.Capability{
		domain.CapabilitySearch,
		domain.CapabilityImport,
		domain.CapabilityOrderCreate,
		domain.CapabilityOrderStatus,
		domain.CapabilityInventoryUpdate,
		domain.CapabilityShippingQuote,
	}
}

// Enabled reports whether credentials were configured.
func (a *CodexpressAdapter) Enabled() bool { return a.enabled }

// wire shapes

type cxProduct struct {
	Code     string   `json:"code"`
	Label    string   `json:"label"`
	Summary  string   `json:"summary"`
	Cost     float64  `json:"cost"`
	Photos   []string `json:"photos"`
	Versions []struct {
		Code  string            `json:"code"`
		Specs map[string]string `json:"specs"`
		Extra float64           `json:"extra_cost"`
	} `json:"versions"`
}

type cxOrder struct {
	Reference string `json:"reference"`
	Stage     string `json:"stage"`
	WaybillNo string `json:"waybill_no"`
	IssuedAt  string `json:"issued_at"`
}

// SearchCatalog searches the Codexpress product list.
func (a *CodexpressAdapter) SearchCatalog(ctx context.Context, query string) ([]domain.CatalogItem, error) {
	var resp struct {
		Products []cxProduct `json:"products"`
	}
	path := "/catalog?query=" + url.QueryEscape(query)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, classify(ProviderCodexpress, err, nil, false)
	}

	items := make([]domain.CatalogItem, 0, len(resp.Products))
	for _, p := range resp.Products {
		items = append(items, a.mapProduct(p))
	}
	return items, nil
}

// GetItem fetches one product by code.
func (a *CodexpressAdapter) GetItem(ctx context.Context, externalID string) (*domain.CatalogItem, error) {
	var p cxProduct
	path := "/catalog/" + url.PathEscape(externalID)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &p); err != nil {
		notFound := &domain.ProductNotFoundError{Provider: ProviderCodexpress, ExternalID: externalID}
		return nil, classify(ProviderCodexpress, err, notFound, false)
	}

	item := a.mapProduct(p)
	return &item, nil
}

// CreateOrder submits a COD order. No charge happens at this point;
// acceptance only reserves the goods.
func (a *CodexpressAdapter) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	type cxLine struct {
		Code string `json:"code"`
		Qty  int    `json:"qty"`
	}
	payload := struct {
		Lines     []cxLine `json:"lines"`
		Consignee struct {
			FullName string `json:"full_name"`
			Street   string `json:"street"`
			Extra    string `json:"extra,omitempty"`
			City     string `json:"city"`
			Province string `json:"province"`
			ZipCode  string `json:"zip_code"`
			Country  string `json:"country"`
			Phone    string `json:"phone,omitempty"`
			Email    string `json:"email"`
		} `json:"consignee"`
		Comment string `json:"comment,omitempty"`
	}{Comment: req.Notes}

	for _, item := range req.Items {
		payload.Lines = append(payload.Lines, cxLine{Code: item.ExternalVariantID, Qty: item.Quantity})
	}
	payload.Consignee.FullName = req.ShippingAddress.Name
	payload.Consignee.Street = req.ShippingAddress.Line1
	payload.Consignee.Extra = req.ShippingAddress.Line2
	payload.Consignee.City = req.ShippingAddress.City
	payload.Consignee.Province = req.ShippingAddress.Region
	payload.Consignee.ZipCode = req.ShippingAddress.PostalCode
	payload.Consignee.Country = req.ShippingAddress.Country
	payload.Consignee.Phone = req.Customer.Phone
	payload.Consignee.Email = req.Customer.Email

	var resp cxOrder
	if err := a.rest.doJSON(ctx, http.MethodPost, "/orders", payload, &resp); err != nil {
		return nil, classify(ProviderCodexpress, err, nil, true)
	}
	return a.mapOrder(resp), nil
}

// GetOrderStatus refreshes an order's canonical status.
func (a *CodexpressAdapter) GetOrderStatus(ctx context.Context, externalOrderID string) (*domain.OrderResult, error) {
	var resp cxOrder
	path := "/orders/" + url.PathEscape(externalOrderID)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		notFound := &domain.ProductNotFoundError{Provider: ProviderCodexpress, ExternalID: externalOrderID}
		return nil, classify(ProviderCodexpress, err, notFound, false)
	}
	return a.mapOrder(resp), nil
}

// CancelOrder reports failure: Codexpress has no cancellation endpoint.
func (a *CodexpressAdapter) CancelOrder(ctx context.Context, externalOrderID string) (bool, error) {
	a.logger.Warn("Cancellation not supported by supplier", zap.String("reference", externalOrderID))
	return false, nil
}

// UpdateInventory pushes stock levels in one batch call.
func (a *CodexpressAdapter) UpdateInventory(ctx context.Context, updates []domain.InventoryUpdate) ([]domain.InventoryUpdateRecord, error) {
	type stockEntry struct {
		Code string `json:"code"`
		Qty  int    `json:"qty"`
	}
	payload := struct {
		Items []stockEntry `json:"items"`
	}{}
	for _, u := range updates {
		payload.Items = append(payload.Items, stockEntry{Code: u.ExternalVariantID, Qty: u.Quantity})
	}

	var resp struct {
		Failed []struct {
			Code   string `json:"code"`
			Reason string `json:"reason"`
		} `json:"failed"`
	}
	if err := a.rest.doJSON(ctx, http.MethodPost, "/stock", payload, &resp); err != nil {
		return nil, classify(ProviderCodexpress, err, nil, false)
	}

	failures := make(map[string]string, len(resp.Failed))
	for _, f := range resp.Failed {
		failures[f.Code] = f.Reason
	}

	records := make([]domain.InventoryUpdateRecord, 0, len(updates))
	for _, u := range updates {
		record := domain.InventoryUpdateRecord{
			ExternalVariantID: u.ExternalVariantID,
			Provider:          ProviderCodexpress,
			Quantity:          u.Quantity,
			Outcome:           domain.InventoryApplied,
		}
		if reason, failed := failures[u.ExternalVariantID]; failed {
			record.Outcome = domain.InventoryRejected
			record.Detail = reason
		}
		records = append(records, record)
	}
	return records, nil
}

// QuoteShipping returns a static flat-rate estimate; Codexpress has no
// live rate API.
func (a *CodexpressAdapter) QuoteShipping(ctx context.Context, req domain.OrderRequest) (*domain.ShippingQuote, error) {
	return &domain.ShippingQuote{
		Provider:          ProviderCodexpress,
		Cost:              codexpressFlatRate,
		Currency:          "USD",
		EstimatedDelivery: time.Now().AddDate(0, 0, 7),
	}, nil
}

// CheckHealth probes the Codexpress API.
func (a *CodexpressAdapter) CheckHealth(ctx context.Context) domain.HealthRecord {
	record := domain.HealthRecord{Provider: ProviderCodexpress, CheckedAt: time.Now()}

	if err := a.rest.doJSON(ctx, http.MethodGet, "/health", nil, nil); err != nil {
		record.Status = domain.HealthStatusUnavailable
		record.Detail = (&domain.HealthCheckFailure{Provider: ProviderCodexpress, Err: err}).Error()
		return record
	}
	record.Status = domain.HealthStatusHealthy
	return record
}

func (a *CodexpressAdapter) mapProduct(p cxProduct) domain.CatalogItem {
	item := domain.CatalogItem{
		ExternalID:  p.Code,
		Name:        p.Label,
		Description: p.Summary,
		UnitPrice:   p.Cost,
		Images:      p.Photos,
		Provider:    ProviderCodexpress,
	}
	for _, v := range p.Versions {
		item.Variants = append(item.Variants, domain.Variant{
			ExternalVariantID: v.Code,
			Attributes:        v.Specs,
			PriceDelta:        v.Extra,
		})
	}
	return item
}

func (a *CodexpressAdapter) mapOrder(resp cxOrder) *domain.OrderResult {
	status, raw := domain.NormalizeStatus(codexpressStatusVocab, resp.Stage)
	if _, known := codexpressStatusVocab[resp.Stage]; !known {
		a.logger.Warn("Unknown Codexpress order stage", zap.String("stage", resp.Stage))
	}

	// Layout: "2026-01-31 12:51:00"
	const dateLayout = "2006-01-02 15:04:05"
	orderedAt, err := time.Parse(dateLayout, resp.IssuedAt)
	if err != nil {
		orderedAt = time.Now()
	}

	return &domain.OrderResult{
		ExternalOrderID: resp.Reference,
		Provider:        ProviderCodexpress,
		Status:          status,
		RawStatus:       raw,
		TrackingRef:     resp.WaybillNo,
		OrderedAt:       orderedAt,
	}
}

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

// ProviderNortrade is the registry key for the B2B net-terms supplier.
const ProviderNortrade = "nortrade"

// NortradeAdapter integrates the Nortrade B2B wholesale API. Orders are
// accepted against a standing credit line; payment falls due a configurable
// number of days after the order date.
type NortradeAdapter struct {
	rest    *restClient
	enabled bool
	netDays int
	logger  *zap.Logger
}

var nortradeStatusVocab = map[string]domain.OrderStatus{
	"order_received":  domain.OrderStatusCreated,
	"credit_check":    domain.OrderStatusPendingAcceptance,
	"credit_approved": domain.OrderStatusAccepted,
	"credit_rejected": domain.OrderStatusRejected,
	"warehouse":       domain.OrderStatusInFulfillment,
	"dispatched":      domain.OrderStatusShipped,
	"delivered":       domain.OrderStatusDelivered,
	"cancelled":       domain.OrderStatusCancelled,
}

// NewNortradeAdapter creates a Nortrade adapter. netDays is the credit
// window applied by the settlement policy. An empty API token leaves the
// adapter registered but disabled.
func NewNortradeAdapter(cfg config.NortradeConfig, netDays int, timeout time.Duration) *NortradeAdapter {
	return &NortradeAdapter{
		rest: &restClient{
			http:      httpclient.NewClient(timeout),
			baseURL:   cfg.BaseURL,
			provider:  ProviderNortrade,
			authorize: bearerAuth(cfg.APIToken),
		},
		enabled: cfg.APIToken != "",
		netDays: netDays,
		logger:  logger.Named(ProviderNortrade),
	}
}

// Name returns the registry key.
func (a *NortradeAdapter) Name() string { return ProviderNortrade }

// SettlementKind returns net-terms with the configured credit window.
func (a *NortradeAdapter) SettlementKind() domain.SettlementKind {
	return domain.NetTerms(a.netDays)
}

// Capabilities returns every operation Nortrade supports.
func (a *NortradeAdapter) Capabilities() []domain.Capability {
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
func (a *NortradeAdapter) Enabled() bool { return a.enabled }

// wire shapes

type ntArticle struct {
	ArticleNo   string   `json:"article_no"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ListPrice   float64  `json:"list_price"`
	ImageURLs   []string `json:"image_urls"`
	Units       []struct {
		UnitNo     string            `json:"unit_no"`
		Attributes map[string]string `json:"attributes"`
		Surcharge  float64           `json:"surcharge"`
	} `json:"units"`
}

type ntOrder struct {
	OrderID     string `json:"order_id"`
	Phase       string `json:"phase"`
	Consignment string `json:"consignment_no"`
	OrderedAt   string `json:"ordered_at"`
}

// SearchCatalog searches the Nortrade wholesale catalog.
func (a *NortradeAdapter) SearchCatalog(ctx context.Context, query string) ([]domain.CatalogItem, error) {
	var resp struct {
		Articles []ntArticle `json:"articles"`
	}
	path := "/b2b/v1/articles?search=" + url.QueryEscape(query)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, classify(ProviderNortrade, err, nil, false)
	}

	items := make([]domain.CatalogItem, 0, len(resp.Articles))
	for _, art := range resp.Articles {
		items = append(items, a.mapArticle(art))
	}
	return items, nil
}

// GetItem fetches one article by its number.
func (a *NortradeAdapter) GetItem(ctx context.Context, externalID string) (*domain.CatalogItem, error) {
	var art ntArticle
	path := "/b2b/v1/articles/" + url.PathEscape(externalID)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &art); err != nil {
		notFound := &domain.ProductNotFoundError{Provider: ProviderNortrade, ExternalID: externalID}
		return nil, classify(ProviderNortrade, err, notFound, false)
	}

	item := a.mapArticle(art)
	return &item, nil
}

// CreateOrder places an order against the standing credit line.
func (a *NortradeAdapter) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	type ntPosition struct {
		UnitNo   string `json:"unit_no"`
		Quantity int    `json:"quantity"`
	}
	payload := struct {
		Positions []ntPosition `json:"positions"`
		Delivery  struct {
			Recipient string `json:"recipient"`
			Street    string `json:"street"`
			Street2   string `json:"street2,omitempty"`
			City      string `json:"city"`
			State     string `json:"state"`
			Postal    string `json:"postal_code"`
			Country   string `json:"country"`
		} `json:"delivery"`
		Contact struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Phone string `json:"phone,omitempty"`
		} `json:"contact"`
		Reference string `json:"reference,omitempty"`
	}{Reference: req.Notes}

	for _, item := range req.Items {
		payload.Positions = append(payload.Positions, ntPosition{UnitNo: item.ExternalVariantID, Quantity: item.Quantity})
	}
	payload.Delivery.Recipient = req.ShippingAddress.Name
	payload.Delivery.Street = req.ShippingAddress.Line1
	payload.Delivery.Street2 = req.ShippingAddress.Line2
	payload.Delivery.City = req.ShippingAddress.City
	payload.Delivery.State = req.ShippingAddress.Region
	payload.Delivery.Postal = req.ShippingAddress.PostalCode
	payload.Delivery.Country = req.ShippingAddress.Country
	payload.Contact.Name = req.Customer.Name
	payload.Contact.Email = req.Customer.Email
	payload.Contact.Phone = req.Customer.Phone

	var resp ntOrder
	if err := a.rest.doJSON(ctx, http.MethodPost, "/b2b/v1/orders", payload, &resp); err != nil {
		return nil, classify(ProviderNortrade, err, nil, true)
	}
	return a.mapOrder(resp), nil
}

// GetOrderStatus refreshes an order's canonical status.
func (a *NortradeAdapter) GetOrderStatus(ctx context.Context, externalOrderID string) (*domain.OrderResult, error) {
	var resp ntOrder
	path := "/b2b/v1/orders/" + url.PathEscape(externalOrderID)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		notFound := &domain.ProductNotFoundError{Provider: ProviderNortrade, ExternalID: externalOrderID}
		return nil, classify(ProviderNortrade, err, notFound, false)
	}
	return a.mapOrder(resp), nil
}

// CancelOrder cancels an order still in credit check or warehouse phase.
func (a *NortradeAdapter) CancelOrder(ctx context.Context, externalOrderID string) (bool, error) {
	path := "/b2b/v1/orders/" + url.PathEscape(externalOrderID) + "/cancel"
	if err := a.rest.doJSON(ctx, http.MethodPost, path, nil, nil); err != nil {
		if apiErr, ok := err.(*apiError); ok && apiErr.Status < http.StatusInternalServerError {
			a.logger.Warn("Cancellation refused", zap.String("order_id", externalOrderID), zap.String("reason", apiErr.Message))
			return false, nil
		}
		return false, classify(ProviderNortrade, err, nil, false)
	}
	return true, nil
}

// UpdateInventory pushes unit quantities in one batch call.
func (a *NortradeAdapter) UpdateInventory(ctx context.Context, updates []domain.InventoryUpdate) ([]domain.InventoryUpdateRecord, error) {
	type unitEntry struct {
		UnitNo   string `json:"unit_no"`
		Quantity int    `json:"quantity"`
	}
	payload := struct {
		Units []unitEntry `json:"units"`
	}{}
	for _, u := range updates {
		payload.Units = append(payload.Units, unitEntry{UnitNo: u.ExternalVariantID, Quantity: u.Quantity})
	}

	var resp struct {
		Rejected []struct {
			UnitNo string `json:"unit_no"`
			Cause  string `json:"cause"`
		} `json:"rejected"`
	}
	if err := a.rest.doJSON(ctx, http.MethodPut, "/b2b/v1/stock", payload, &resp); err != nil {
		return nil, classify(ProviderNortrade, err, nil, false)
	}

	rejected := make(map[string]string, len(resp.Rejected))
	for _, r := range resp.Rejected {
		rejected[r.UnitNo] = r.Cause
	}

	records := make([]domain.InventoryUpdateRecord, 0, len(updates))
	for _, u := range updates {
		record := domain.InventoryUpdateRecord{
			ExternalVariantID: u.ExternalVariantID,
			Provider:          ProviderNortrade,
			Quantity:          u.Quantity,
			Outcome:           domain.InventoryApplied,
		}
		if cause, isRejected := rejected[u.ExternalVariantID]; isRejected {
			record.Outcome = domain.InventoryRejected
			record.Detail = cause
		}
		records = append(records, record)
	}
	return records, nil
}

// QuoteShipping asks Nortrade's freight estimate endpoint.
func (a *NortradeAdapter) QuoteShipping(ctx context.Context, req domain.OrderRequest) (*domain.ShippingQuote, error) {
	units := 0
	for _, item := range req.Items {
		units += item.Quantity
	}
	payload := struct {
		Country string `json:"country"`
		Postal  string `json:"postal_code"`
		Units   int    `json:"units"`
	}{
		Country: req.ShippingAddress.Country,
		Postal:  req.ShippingAddress.PostalCode,
		Units:   units,
	}

	var resp struct {
		Freight  float64 `json:"freight"`
		Currency string  `json:"currency"`
		Date     string  `json:"estimated_date"`
	}
	if err := a.rest.doJSON(ctx, http.MethodPost, "/b2b/v1/freight/estimate", payload, &resp); err != nil {
		return nil, classify(ProviderNortrade, err, nil, false)
	}

	estimated, err := time.Parse("2006-01-02", resp.Date)
	if err != nil {
		estimated = time.Now().AddDate(0, 0, 5)
	}

	return &domain.ShippingQuote{
		Provider:          ProviderNortrade,
		Cost:              resp.Freight,
		Currency:          resp.Currency,
		EstimatedDelivery: estimated,
	}, nil
}

// CheckHealth probes the Nortrade API and reports degraded when the
// credit facility is suspended.
func (a *NortradeAdapter) CheckHealth(ctx context.Context) domain.HealthRecord {
	record := domain.HealthRecord{Provider: ProviderNortrade, CheckedAt: time.Now()}

	var resp struct {
		CreditActive bool `json:"credit_active"`
	}
	if err := a.rest.doJSON(ctx, http.MethodGet, "/b2b/v1/account/status", nil, &resp); err != nil {
		record.Status = domain.HealthStatusUnavailable
		record.Detail = (&domain.HealthCheckFailure{Provider: ProviderNortrade, Err: err}).Error()
		return record
	}
	if !resp.CreditActive {
		record.Status = domain.HealthStatusDegraded
		record.Detail = "credit facility suspended"
		return record
	}
	record.Status = domain.HealthStatusHealthy
	return record
}

func (a *NortradeAdapter) mapArticle(art ntArticle) domain.CatalogItem {
	item := domain.CatalogItem{
		ExternalID:  art.ArticleNo,
		Name:        art.Name,
		Description: art.Description,
		UnitPrice:   art.ListPrice,
		Images:      art.ImageURLs,
		Provider:    ProviderNortrade,
	}
	for _, u := range art.Units {
		item.Variants = append(item.Variants, domain.Variant{
			ExternalVariantID: u.UnitNo,
			Attributes:        u.Attributes,
			PriceDelta:        u.Surcharge,
		})
	}
	return item
}

func (a *NortradeAdapter) mapOrder(resp ntOrder) *domain.OrderResult {
	status, raw := domain.NormalizeStatus(nortradeStatusVocab, resp.Phase)
	if _, known := nortradeStatusVocab[resp.Phase]; !known {
		a.logger.Warn("Unknown Nortrade order phase", zap.String("phase", resp.Phase))
	}

	orderedAt, err := time.Parse(time.RFC3339, resp.OrderedAt)
	if err != nil {
		orderedAt = time.Now()
	}

	return &domain.OrderResult{
		ExternalOrderID: resp.OrderID,
		Provider:        ProviderNortrade,
		Status:          status,
		RawStatus:       raw,
		TrackingRef:     resp.Consignment,
		OrderedAt:       orderedAt,
	}
}

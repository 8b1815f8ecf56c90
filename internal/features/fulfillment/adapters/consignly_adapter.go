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

// ProviderConsignly is the registry key for the consignment partner.
const ProviderConsignly = "consignly"

// ConsignlyAdapter integrates the Consignly consignment partner API.
// Goods ship without charge; payment falls due only after confirmed resale
// to an end customer, settled by an external event outside this layer.
type ConsignlyAdapter struct {
	rest    *restClient
	enabled bool
	logger  *zap.Logger
}

var consignlyStatusVocab = map[string]domain.OrderStatus{
	"LODGED":     domain.OrderStatusCreated,
	"REVIEWING":  domain.OrderStatusPendingAcceptance,
	"ACCEPTED":   domain.OrderStatusAccepted,
	"DECLINED":   domain.OrderStatusRejected,
	"PICKING":    domain.OrderStatusInFulfillment,
	"IN_TRANSIT": domain.OrderStatusShipped,
	"RECEIVED":   domain.OrderStatusDelivered,
	"WITHDRAWN":  domain.OrderStatusCancelled,
}

// NewConsignlyAdapter creates a Consignly adapter. An empty API token
// leaves the adapter registered but disabled.
func NewConsignlyAdapter(cfg config.ConsignlyConfig, timeout time.Duration) *ConsignlyAdapter {
	return &ConsignlyAdapter{
		rest: &restClient{
			http:      httpclient.NewClient(timeout),
			baseURL:   cfg.BaseURL,
			provider:  ProviderConsignly,
			authorize: bearerAuth(cfg.APIToken),
		},
		enabled: cfg.APIToken != "",
		logger:  logger.Named(ProviderConsignly),
	}
}

// Name returns the registry key.
func (a *ConsignlyAdapter) Name() string { return ProviderConsignly }

// SettlementKind returns consignment: payment due only after resale.
func (a *ConsignlyAdapter) SettlementKind() domain.SettlementKind {
	return domain.Consignment()
}

// Capabilities returns every operation Consignly supports.
func (a *ConsignlyAdapter) Capabilities() []domain.Capability {
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
func (a *ConsignlyAdapter) Enabled() bool { return a.enabled }

// wire shapes

type cgListing struct {
	ListingID string   `json:"listing_id"`
	Title     string   `json:"title"`
	Blurb     string   `json:"blurb"`
	Price     float64  `json:"price"`
	Media     []string `json:"media"`
	Editions  []struct {
		EditionID string            `json:"edition_id"`
		Traits    map[string]string `json:"traits"`
		Uplift    float64           `json:"uplift"`
	} `json:"editions"`
}

type cgConsignment struct {
	ConsignmentID string `json:"consignment_id"`
	State         string `json:"state"`
	ShipmentRef   string `json:"shipment_ref"`
	LodgedAt      string `json:"lodged_at"`
}

// SearchCatalog searches the partner's listings.
func (a *ConsignlyAdapter) SearchCatalog(ctx context.Context, query string) ([]domain.CatalogItem, error) {
	var resp struct {
		Listings []cgListing `json:"listings"`
	}
	path := "/v1/listings?q=" + url.QueryEscape(query)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, classify(ProviderConsignly, err, nil, false)
	}

	items := make([]domain.CatalogItem, 0, len(resp.Listings))
	for _, l := range resp.Listings {
		items = append(items, a.mapListing(l))
	}
	return items, nil
}

// GetItem fetches one listing by id.
func (a *ConsignlyAdapter) GetItem(ctx context.Context, externalID string) (*domain.CatalogItem, error) {
	var l cgListing
	path := "/v1/listings/" + url.PathEscape(externalID)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &l); err != nil {
		notFound := &domain.ProductNotFoundError{Provider: ProviderConsignly, ExternalID: externalID}
		return nil, classify(ProviderConsignly, err, notFound, false)
	}

	item := a.mapListing(l)
	return &item, nil
}

// CreateOrder lodges a consignment request. No charge occurs; acceptance
// means goods will ship on consignment.
func (a *ConsignlyAdapter) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	type cgLine struct {
		EditionID string `json:"edition_id"`
		Units     int    `json:"units"`
	}
	payload := struct {
		Lines       []cgLine `json:"lines"`
		Destination struct {
			Attn    string `json:"attn"`
			Street  string `json:"street"`
			Street2 string `json:"street2,omitempty"`
			City    string `json:"city"`
			Region  string `json:"region"`
			Postal  string `json:"postal"`
			Country string `json:"country"`
		} `json:"destination"`
		ContactEmail string `json:"contact_email"`
		ContactPhone string `json:"contact_phone,omitempty"`
		Memo         string `json:"memo,omitempty"`
	}{Memo: req.Notes}

	for _, item := range req.Items {
		payload.Lines = append(payload.Lines, cgLine{EditionID: item.ExternalVariantID, Units: item.Quantity})
	}
	payload.Destination.Attn = req.ShippingAddress.Name
	payload.Destination.Street = req.ShippingAddress.Line1
	payload.Destination.Street2 = req.ShippingAddress.Line2
	payload.Destination.City = req.ShippingAddress.City
	payload.Destination.Region = req.ShippingAddress.Region
	payload.Destination.Postal = req.ShippingAddress.PostalCode
	payload.Destination.Country = req.ShippingAddress.Country
	payload.ContactEmail = req.Customer.Email
	payload.ContactPhone = req.Customer.Phone

	var resp cgConsignment
	if err := a.rest.doJSON(ctx, http.MethodPost, "/v1/consignments", payload, &resp); err != nil {
		return nil, classify(ProviderConsignly, err, nil, true)
	}
	return a.mapConsignment(resp), nil
}

// GetOrderStatus refreshes a consignment's canonical status.
func (a *ConsignlyAdapter) GetOrderStatus(ctx context.Context, externalOrderID string) (*domain.OrderResult, error) {
	var resp cgConsignment
	path := "/v1/consignments/" + url.PathEscape(externalOrderID)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		notFound := &domain.ProductNotFoundError{Provider: ProviderConsignly, ExternalID: externalOrderID}
		return nil, classify(ProviderConsignly, err, notFound, false)
	}
	return a.mapConsignment(resp), nil
}

// CancelOrder withdraws a consignment that has not shipped.
func (a *ConsignlyAdapter) CancelOrder(ctx context.Context, externalOrderID string) (bool, error) {
	path := "/v1/consignments/" + url.PathEscape(externalOrderID) + "/withdraw"
	if err := a.rest.doJSON(ctx, http.MethodPost, path, nil, nil); err != nil {
		if apiErr, ok := err.(*apiError); ok && apiErr.Status < http.StatusInternalServerError {
			a.logger.Warn("Withdrawal refused", zap.String("consignment_id", externalOrderID), zap.String("reason", apiErr.Message))
			return false, nil
		}
		return false, classify(ProviderConsignly, err, nil, false)
	}
	return true, nil
}

// UpdateInventory pushes edition quantities. Consignly has no bulk stock
// endpoint, so updates go item by item in the order supplied; a failure on
// one item is recorded and the loop continues.
func (a *ConsignlyAdapter) UpdateInventory(ctx context.Context, updates []domain.InventoryUpdate) ([]domain.InventoryUpdateRecord, error) {
	records := make([]domain.InventoryUpdateRecord, 0, len(updates))

	for _, u := range updates {
		record := domain.InventoryUpdateRecord{
			ExternalVariantID: u.ExternalVariantID,
			Provider:          ProviderConsignly,
			Quantity:          u.Quantity,
			Outcome:           domain.InventoryApplied,
		}

		payload := struct {
			Units int `json:"units"`
		}{Units: u.Quantity}
		path := "/v1/editions/" + url.PathEscape(u.ExternalVariantID) + "/stock"

		if err := a.rest.doJSON(ctx, http.MethodPut, path, payload, nil); err != nil {
			if apiErr, ok := err.(*apiError); ok && apiErr.Status < http.StatusInternalServerError {
				record.Outcome = domain.InventoryRejected
				record.Detail = apiErr.Message
			} else {
				record.Outcome = domain.InventoryProviderUnavailable
				record.Detail = err.Error()
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// QuoteShipping returns the partner's standard consignment freight estimate.
func (a *ConsignlyAdapter) QuoteShipping(ctx context.Context, req domain.OrderRequest) (*domain.ShippingQuote, error) {
	var resp struct {
		Freight  float64 `json:"freight"`
		Currency string  `json:"currency"`
		Days     int     `json:"transit_days"`
	}
	path := "/v1/freight?country=" + url.QueryEscape(req.ShippingAddress.Country)
	if err := a.rest.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, classify(ProviderConsignly, err, nil, false)
	}

	return &domain.ShippingQuote{
		Provider:          ProviderConsignly,
		Cost:              resp.Freight,
		Currency:          resp.Currency,
		EstimatedDelivery: time.Now().AddDate(0, 0, resp.Days),
	}, nil
}

// CheckHealth probes the Consignly API.
func (a *ConsignlyAdapter) CheckHealth(ctx context.Context) domain.HealthRecord {
	record := domain.HealthRecord{Provider: ProviderConsignly, CheckedAt: time.Now()}

	if err := a.rest.doJSON(ctx, http.MethodGet, "/v1/ping", nil, nil); err != nil {
		record.Status = domain.HealthStatusUnavailable
		record.Detail = (&domain.HealthCheckFailure{Provider: ProviderConsignly, Err: err}).Error()
		return record
	}
	record.Status = domain.HealthStatusHealthy
	return record
}

func (a *ConsignlyAdapter) mapListing(l cgListing) domain.CatalogItem {
	item := domain.CatalogItem{
		ExternalID:  l.ListingID,
		Name:        l.Title,
		Description: l.Blurb,
		UnitPrice:   l.Price,
		Images:      l.Media,
		Provider:    ProviderConsignly,
	}
	for _, e := range l.Editions {
		item.Variants = append(item.Variants, domain.Variant{
			ExternalVariantID: e.EditionID,
			Attributes:        e.Traits,
			PriceDelta:        e.Uplift,
		})
	}
	return item
}

func (a *ConsignlyAdapter) mapConsignment(resp cgConsignment) *domain.OrderResult {
	status, raw := domain.NormalizeStatus(consignlyStatusVocab, resp.State)
	if _, known := consignlyStatusVocab[resp.State]; !known {
		a.logger.Warn("Unknown Consignly consignment state", zap.String("state", resp.State))
	}

	orderedAt, err := time.Parse(time.RFC3339, resp.LodgedAt)
	if err != nil {
		orderedAt = time.Now()
	}

	return &domain.OrderResult{
		ExternalOrderID: resp.ConsignmentID,
		Provider:        ProviderConsignly,
		Status:          status,
		RawStatus:       raw,
		TrackingRef:     resp.ShipmentRef,
		OrderedAt:       orderedAt,
	}
}

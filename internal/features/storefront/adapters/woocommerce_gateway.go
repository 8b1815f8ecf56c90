package adapter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fulfillment-hub/internal/core/config"
	"fulfillment-hub/internal/core/httpclient"
	"fulfillment-hub/internal/core/logger"
	"fulfillment-hub/internal/features/fulfillment/domain"

	"go.uber.org/zap"
)

// WooCommerceGateway implements the StorefrontGateway interface using the
// WooCommerce REST API.
type WooCommerceGateway struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// config holds the WooCommerce connection details.
	config config.StorefrontConfig
}

// NewWooCommerceGateway creates a new instance of WooCommerceGateway.
func NewWooCommerceGateway(cfg config.StorefrontConfig, timeout time.Duration) *WooCommerceGateway {
	return &WooCommerceGateway{
		client: httpclient.NewClient(timeout),
		config: cfg,
	}
}

func (g *WooCommerceGateway) authorize(req *http.Request) {
	authVal := make([]byte, 0, len(g.config.ConsumerKey)+len(g.config.ConsumerSecret)+1)
	authVal = fmt.Appendf(authVal, "%s:%s", g.config.ConsumerKey, g.config.ConsumerSecret)
	req.Header.Add("Authorization", "Basic "+base64.StdEncoding.EncodeToString(authVal))
}

// SyncItemOut publishes the item as a WooCommerce product and returns the
// storefront product id.
func (g *WooCommerceGateway) SyncItemOut(ctx context.Context, item domain.CatalogItem) (string, error) {
	payload := wcProductCreate{
		Name:         item.Name,
		Type:         "simple",
		Description:  item.Description,
		RegularPrice: strconv.FormatFloat(item.UnitPrice, 'f', 2, 64),
		SKU:          fmt.Sprintf("%s-%s", item.Provider, item.ExternalID),
	}
	for _, src := range item.Images {
		payload.Images = append(payload.Images, wcProductImage{Src: src})
	}
	if len(item.Variants) > 0 {
		payload.Type = "variable"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode product: %w", err)
	}

	url := fmt.Sprintf("%s/wp-json/wc/v3/products", g.config.URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	g.authorize(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("woocommerce API returned status: %d", resp.StatusCode)
	}

	var created wcProduct
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	logger.Get().Info("Item published to storefront",
		zap.String("provider", item.Provider),
		zap.String("external_id", item.ExternalID),
		zap.Int("storefront_id", created.ID),
	)
	return strconv.Itoa(created.ID), nil
}

// IngestOrder fetches a storefront order and maps it to the supplier-agnostic
// order shape.
func (g *WooCommerceGateway) IngestOrder(ctx context.Context, storefrontOrderID string) (*domain.OrderRequest, error) {
	url := fmt.Sprintf("%s/wp-json/wc/v3/orders/%s", g.config.URL, storefrontOrderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	g.authorize(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("storefront order not found: %s", storefrontOrderID)
		}
		return nil, fmt.Errorf("woocommerce API returned status: %d", resp.StatusCode)
	}

	var wcOrder wcOrder
	if err := json.NewDecoder(resp.Body).Decode(&wcOrder); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return mapToOrderRequest(wcOrder), nil
}

// HealthCheck verifies that the WooCommerce API is reachable and credentials are valid.
func (g *WooCommerceGateway) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/wp-json/wc/v3/orders?per_page=1", g.config.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("health check failed to create request: %w", err)
	}
	g.authorize(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// mapToOrderRequest converts a raw WooCommerce order into an OrderRequest.
// Line items carry the supplier variant id in the SKU field; items without a
// SKU are skipped because no supplier can fulfill them.
func mapToOrderRequest(o wcOrder) *domain.OrderRequest {
	req := &domain.OrderRequest{
		ShippingAddress: domain.ShippingAddress{
			Name:       strings.TrimSpace(o.Shipping.FirstName + " " + o.Shipping.LastName),
			Line1:      o.Shipping.Address1,
			Line2:      o.Shipping.Address2,
			City:       o.Shipping.City,
			Region:     o.Shipping.State,
			PostalCode: o.Shipping.Postcode,
			Country:    o.Shipping.Country,
		},
		Customer: domain.CustomerContact{
			Name:  strings.TrimSpace(o.Billing.FirstName + " " + o.Billing.LastName),
			Email: o.Billing.Email,
			Phone: o.Billing.Phone,
		},
		Notes: o.CustomerNote,
	}

	if req.ShippingAddress.Name == "" {
		req.ShippingAddress.Name = req.Customer.Name
	}

	for _, item := range o.LineItems {
		if item.Sku == "" {
			logger.Get().Warn("Storefront line item without SKU skipped",
				zap.Int("order_id", o.ID),
				zap.String("name", item.Name),
			)
			continue
		}
		req.Items = append(req.Items, domain.LineItem{
			ExternalVariantID: item.Sku,
			Quantity:          item.Quantity,
		})
	}

	return req
}

// internal structs for mapping

// wcProductCreate is the product creation payload sent to WooCommerce.
type wcProductCreate struct {
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	Description  string           `json:"description,omitempty"`
	RegularPrice string           `json:"regular_price"`
	SKU          string           `json:"sku"`
	Images       []wcProductImage `json:"images,omitempty"`
}

// wcProductImage holds one product image URL.
type wcProductImage struct {
	Src string `json:"src"`
}

// wcProduct represents the JSON structure of a product from WooCommerce API.
type wcProduct struct {
	// ID is the storefront-assigned product id.
	ID int `json:"id"`
}

// wcOrder represents the JSON structure of an order from WooCommerce API.
type wcOrder struct {
	// ID is the unique order ID.
	ID int `json:"id"`
	// Status is the order status (e.g., pending, processing, completed).
	Status string `json:"status"`
	// CustomerNote is the free-text note left by the customer.
	CustomerNote string `json:"customer_note"`
	// Billing holds the billing contact details.
	Billing wcBilling `json:"billing"`
	// Shipping holds the shipping address details.
	Shipping wcShippingAddress `json:"shipping"`
	// LineItems contains the products ordered.
	LineItems []wcLineItem `json:"line_items"`
}

// wcBilling holds billing contact information.
type wcBilling struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// wcShippingAddress holds the full shipping address.
type wcShippingAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
}

// wcLineItem represents a product in the WooCommerce order.
type wcLineItem struct {
	// Name is the product name.
	Name string `json:"name"`
	// Sku carries the supplier variant id assigned at publish time.
	Sku string `json:"sku"`
	// Quantity is the number of units ordered.
	Quantity int `json:"quantity"`
}

package domain

// Variant represents a single purchasable variation of a catalog item.
type Variant struct {
	// ExternalVariantID is the supplier-assigned identifier for this variant.
	ExternalVariantID string `json:"external_variant_id"`
	// Attributes holds the variant's distinguishing attributes (e.g., size, color).
	Attributes map[string]string `json:"attributes,omitempty"`
	// PriceDelta is the price difference relative to the item's base unit price.
	PriceDelta float64 `json:"price_delta"`
}

// CatalogItem represents a product offered by an external fulfillment supplier.
// Items are immutable once created; a re-import supersedes the previous copy.
type CatalogItem struct {
	// ExternalID is the supplier-assigned product identifier, unique per provider.
	ExternalID string `json:"external_id"`
	// Name is the product display name.
	Name string `json:"name"`
	// Description is the product description text.
	Description string `json:"description,omitempty"`
	// UnitPrice is the base price per unit. Never negative.
	UnitPrice float64 `json:"unit_price"`
	// Images holds URLs to product images.
	Images []string `json:"images,omitempty"`
	// Variants contains the purchasable variations of this item.
	Variants []Variant `json:"variants,omitempty"`
	// Provider is the name of the supplier this item was sourced from.
	Provider string `json:"provider"`
}

// Capability identifies one operation a supplier adapter supports.
type Capability string

const (
	// CapabilitySearch indicates the supplier supports catalog search.
	CapabilitySearch Capability = "search"
	// CapabilityImport indicates the supplier supports single-item fetch for import.
	CapabilityImport Capability = "import"
	// CapabilityOrderCreate indicates the supplier accepts order creation.
	CapabilityOrderCreate Capability = "order_create"
	// CapabilityOrderStatus indicates the supplier supports order status polling.
	CapabilityOrderStatus Capability = "order_status"
	// CapabilityOrderCancel indicates the supplier supports order cancellation.
	CapabilityOrderCancel Capability = "order_cancel"
	// CapabilityInventoryUpdate indicates the supplier accepts inventory updates.
	CapabilityInventoryUpdate Capability = "inventory_update"
	// CapabilityShippingQuote indicates the supplier can quote shipping costs.
	CapabilityShippingQuote Capability = "shipping_quote"
)

package domain

// InventoryUpdate is one requested quantity change for an imported variant.
type InventoryUpdate struct {
	// InternalProductID is this system's identifier for the imported product.
	InternalProductID string `json:"internal_product_id"`
	// ExternalVariantID is the supplier variant whose quantity changes.
	ExternalVariantID string `json:"external_variant_id"`
	// Provider is the supplier the variant was originally imported from.
	Provider string `json:"provider"`
	// Quantity is the new absolute quantity.
	Quantity int `json:"quantity"`
}

// InventoryOutcome classifies the result of one inventory update.
type InventoryOutcome string

const (
	// InventoryApplied means the supplier accepted the new quantity.
	InventoryApplied InventoryOutcome = "applied"
	// InventoryRejected means the supplier refused the update for this item.
	InventoryRejected InventoryOutcome = "rejected"
	// InventoryProviderUnavailable means the supplier could not be reached or
	// resolved, so the item's update was never attempted or acknowledged.
	InventoryProviderUnavailable InventoryOutcome = "provider_unavailable"
)

// InventoryUpdateRecord is the per-item outcome of an inventory sync run.
// Records are consumed immediately by the caller and not persisted.
type InventoryUpdateRecord struct {
	// ExternalVariantID is the variant the update targeted.
	ExternalVariantID string `json:"external_variant_id"`
	// Provider is the supplier that produced (or failed to produce) this outcome.
	Provider string `json:"provider"`
	// Quantity is the quantity that was requested.
	Quantity int `json:"quantity"`
	// Outcome classifies what happened to this item's update.
	Outcome InventoryOutcome `json:"outcome"`
	// Detail carries the supplier's reason for a rejection, if any.
	Detail string `json:"detail,omitempty"`
}

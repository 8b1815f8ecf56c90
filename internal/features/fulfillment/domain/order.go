package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// OrderStatus is the canonical order lifecycle state, normalized across all
// suppliers regardless of each supplier's raw status vocabulary.
type OrderStatus string

const (
	// OrderStatusCreated indicates the order was submitted to the supplier.
	OrderStatusCreated OrderStatus = "created"
	// OrderStatusPendingAcceptance indicates the supplier has not yet accepted or rejected the order.
	OrderStatusPendingAcceptance OrderStatus = "pending_acceptance"
	// OrderStatusAccepted indicates the supplier accepted the order.
	OrderStatusAccepted OrderStatus = "accepted"
	// OrderStatusRejected indicates the supplier rejected the order.
	OrderStatusRejected OrderStatus = "rejected"
	// OrderStatusInFulfillment indicates the supplier is producing or picking the order.
	OrderStatusInFulfillment OrderStatus = "in_fulfillment"
	// OrderStatusShipped indicates the order was handed to a carrier.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered indicates the order reached the end customer.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled indicates the order was cancelled after acceptance.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// LineItem is one ordered product variant with its quantity.
type LineItem struct {
	// ExternalVariantID identifies the supplier variant being ordered.
	ExternalVariantID string `json:"external_variant_id"`
	// Quantity is the number of units ordered. Must be at least 1.
	Quantity int `json:"quantity"`
}

// ShippingAddress is the structured destination address for an order.
type ShippingAddress struct {
	// Name is the recipient's full name.
	Name string `json:"name"`
	// Line1 is the primary street address.
	Line1 string `json:"line1"`
	// Line2 is the secondary address line. Optional.
	Line2 string `json:"line2,omitempty"`
	// City is the destination city.
	City string `json:"city"`
	// Region is the state or province.
	Region string `json:"region"`
	// PostalCode is the postal or ZIP code.
	PostalCode string `json:"postal_code"`
	// Country is the ISO country code or name.
	Country string `json:"country"`
}

// CustomerContact holds the ordering customer's contact details.
type CustomerContact struct {
	// Name is the customer's full name.
	Name string `json:"name"`
	// Email is the customer's contact email.
	Email string `json:"email"`
	// Phone is the customer's phone number. Optional.
	Phone string `json:"phone,omitempty"`
}

// OrderRequest is the common order shape submitted to any supplier.
type OrderRequest struct {
	// Items is the ordered list of line items.
	Items []LineItem `json:"items"`
	// ShippingAddress is the delivery destination.
	ShippingAddress ShippingAddress `json:"shipping_address"`
	// Customer is the ordering customer's contact information.
	Customer CustomerContact `json:"customer"`
	// Notes is free-text information forwarded to the supplier. Optional.
	Notes string `json:"notes,omitempty"`
}

// ErrInvalidOrderRequest is returned when an order request fails validation.
var ErrInvalidOrderRequest = errors.New("invalid order request")

// Validate checks the request against the common order constraints before
// any supplier call is attempted.
func (r OrderRequest) Validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrInvalidOrderRequest)
	}
	for i, item := range r.Items {
		if strings.TrimSpace(item.ExternalVariantID) == "" {
			return fmt.Errorf("%w: item %d is missing a variant id", ErrInvalidOrderRequest, i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item %d has quantity %d, must be at least 1", ErrInvalidOrderRequest, i, item.Quantity)
		}
	}

	addr := r.ShippingAddress
	required := map[string]string{
		"name":        addr.Name,
		"line1":       addr.Line1,
		"city":        addr.City,
		"region":      addr.Region,
		"postal_code": addr.PostalCode,
		"country":     addr.Country,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: shipping address field %q is required", ErrInvalidOrderRequest, field)
		}
	}

	if strings.TrimSpace(r.Customer.Name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidOrderRequest)
	}
	if strings.TrimSpace(r.Customer.Email) == "" {
		return fmt.Errorf("%w: customer email is required", ErrInvalidOrderRequest)
	}

	return nil
}

// OrderResult is the normalized outcome of an order operation.
type OrderResult struct {
	// InternalID is the identifier assigned by this system. Empty on pure
	// status refreshes where no internal record is involved.
	InternalID string `json:"internal_id,omitempty"`
	// ExternalOrderID is the supplier-assigned order identifier.
	ExternalOrderID string `json:"external_order_id"`
	// Provider is the name of the supplier that produced this result.
	Provider string `json:"provider"`
	// Status is the canonical lifecycle status.
	Status OrderStatus `json:"status"`
	// RawStatus preserves the supplier's raw status string for diagnostics.
	RawStatus string `json:"raw_status,omitempty"`
	// TrackingRef is the carrier tracking reference, if known.
	TrackingRef string `json:"tracking_ref,omitempty"`
	// PaymentDue describes when payment is owed to the supplier, if at all.
	PaymentDue *PaymentDue `json:"payment_due,omitempty"`
	// OrderedAt is the timestamp the order was created at the supplier.
	OrderedAt time.Time `json:"ordered_at"`
}

// ShippingQuote is an advisory shipping estimate. Callers must not treat the
// value as binding; adapters without live rate APIs return static estimates.
type ShippingQuote struct {
	// Provider is the supplier that produced the quote.
	Provider string `json:"provider"`
	// Cost is the estimated shipping cost.
	Cost float64 `json:"cost"`
	// Currency is the quote currency code.
	Currency string `json:"currency"`
	// EstimatedDelivery is the estimated delivery date.
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}

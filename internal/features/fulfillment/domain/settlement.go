package domain

import "time"

// SettlementTerms identifies a supplier's payment-timing model.
type SettlementTerms string

const (
	// SettlementPrepaid means funds are captured at order-create time.
	SettlementPrepaid SettlementTerms = "prepaid"
	// SettlementCashOnDelivery means payment is due at physical delivery.
	SettlementCashOnDelivery SettlementTerms = "cash_on_delivery"
	// SettlementNetTerms means payment is due N days after the order date,
	// against a standing credit line.
	SettlementNetTerms SettlementTerms = "net_terms"
	// SettlementConsignment means payment is due only after confirmed resale
	// to the end customer.
	SettlementConsignment SettlementTerms = "consignment"
)

// SettlementKind is the closed settlement descriptor a supplier declares.
// NetDays is meaningful only when Terms is SettlementNetTerms.
type SettlementKind struct {
	Terms   SettlementTerms `json:"terms"`
	NetDays int             `json:"net_days,omitempty"`
}

// Prepaid returns the settlement kind for suppliers charging at order time.
func Prepaid() SettlementKind {
	return SettlementKind{Terms: SettlementPrepaid}
}

// CashOnDelivery returns the settlement kind for due-on-delivery suppliers.
func CashOnDelivery() SettlementKind {
	return SettlementKind{Terms: SettlementCashOnDelivery}
}

// NetTerms returns the settlement kind for credit-line suppliers with
// payment due the given number of days after the order date.
func NetTerms(days int) SettlementKind {
	return SettlementKind{Terms: SettlementNetTerms, NetDays: days}
}

// Consignment returns the settlement kind for due-after-resale partners.
func Consignment() SettlementKind {
	return SettlementKind{Terms: SettlementConsignment}
}

// PaymentDueType classifies when payment to the supplier is owed.
type PaymentDueType string

const (
	// PaymentDueNone means the order is already settled (prepaid).
	PaymentDueNone PaymentDueType = "none"
	// PaymentDueAtDelivery means payment is owed when the shipment is delivered.
	PaymentDueAtDelivery PaymentDueType = "at_delivery"
	// PaymentDueByDate means payment is owed by a concrete calendar date.
	PaymentDueByDate PaymentDueType = "by_date"
	// PaymentDueAfterResale means payment is owed only once the goods are
	// resold to an end customer, resolved by an external settlement event.
	PaymentDueAfterResale PaymentDueType = "after_resale"
)

// PaymentDue describes when payment is owed to the supplier for an order.
type PaymentDue struct {
	// Type classifies the payment timing.
	Type PaymentDueType `json:"type"`
	// DueDate is set only when Type is PaymentDueByDate.
	DueDate time.Time `json:"due_date,omitempty"`
}

// PaymentDueFor is the settlement policy: a pure mapping from a supplier's
// settlement kind and the order-creation time to the normalized payment-due
// descriptor. It performs no I/O.
func PaymentDueFor(kind SettlementKind, orderedAt time.Time) PaymentDue {
	switch kind.Terms {
	case SettlementCashOnDelivery:
		return PaymentDue{Type: PaymentDueAtDelivery}
	case SettlementNetTerms:
		return PaymentDue{Type: PaymentDueByDate, DueDate: orderedAt.AddDate(0, 0, kind.NetDays)}
	case SettlementConsignment:
		return PaymentDue{Type: PaymentDueAfterResale}
	default:
		return PaymentDue{Type: PaymentDueNone}
	}
}

// NormalizeStatus maps a supplier's raw status string into the canonical
// lifecycle set using the adapter's vocabulary table. Unrecognized raw
// statuses map to pending_acceptance; the raw string is always returned so
// callers can preserve it as diagnostic detail.
func NormalizeStatus(vocabulary map[string]OrderStatus, raw string) (OrderStatus, string) {
	if status, ok := vocabulary[raw]; ok {
		return status, raw
	}
	return OrderStatusPendingAcceptance, raw
}

package domain

import (
	"fmt"
	"time"
)

// ProviderUnavailableError reports an unknown or disabled provider. This is a
// caller error; no network call was attempted and retrying will not help.
type ProviderUnavailableError struct {
	// Provider is the requested provider name. Empty when no default could
	// be resolved at all.
	Provider string
	// Reason explains why resolution failed.
	Reason string
}

func (e *ProviderUnavailableError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("no provider available: %s", e.Reason)
	}
	return fmt.Sprintf("provider %q unavailable: %s", e.Provider, e.Reason)
}

// RateLimitError reports supplier-side throttling. Callers should back off
// before retrying.
type RateLimitError struct {
	Provider string
	// RetryAfter is the supplier-suggested wait, zero when not advertised.
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider %q rate limited, retry after %s", e.Provider, e.RetryAfter)
	}
	return fmt.Sprintf("provider %q rate limited", e.Provider)
}

// ProductNotFoundError reports that the supplier has no catalog entry for
// the requested external id.
type ProductNotFoundError struct {
	Provider   string
	ExternalID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("provider %q has no product %q", e.Provider, e.ExternalID)
}

// OrderCreationError reports that the supplier rejected the order. Reason
// carries the supplier-supplied rejection text when available.
type OrderCreationError struct {
	Provider string
	Reason   string
}

func (e *OrderCreationError) Error() string {
	return fmt.Sprintf("supplier %s rejected: %s", e.Provider, e.Reason)
}

// TransportError reports a network or timeout failure. The supplier-side
// outcome is unknown: the operation may or may not have taken effect, so it
// is not safe to assume either failure or success.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure talking to provider %q: %v", e.Provider, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *TransportError) Unwrap() error { return e.Err }

// HealthCheckFailure reports a failed health probe. It is surfaced only
// inside the health monitor's result set, never to order or catalog callers.
type HealthCheckFailure struct {
	Provider string
	Err      error
}

func (e *HealthCheckFailure) Error() string {
	return fmt.Sprintf("health probe for provider %q failed: %v", e.Provider, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *HealthCheckFailure) Unwrap() error { return e.Err }

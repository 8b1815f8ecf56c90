package service

import (
	"context"
	"time"

	"fulfillment-hub/internal/core/logger"
	"fulfillment-hub/internal/features/fulfillment/domain"
	"fulfillment-hub/internal/features/fulfillment/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderRouter is the public entry point for order creation, status polling,
// cancellation and shipping quotes. It resolves the target adapter through
// the registry, bounds every call with the configured timeout, applies the
// settlement policy to successful creations and records results through the
// order store.
//
// The router never retries: a transport failure leaves the supplier-side
// outcome unknown and re-driving it could create a duplicate remote order.
// Callers that retry after a timeout do so at their own risk; there is no
// idempotency key in the supplier contracts.
type OrderRouter struct {
	registry *Registry
	orders   ports.OrderStore
	timeout  time.Duration
	logger   *zap.Logger
}

// NewOrderRouter creates an OrderRouter. timeout bounds each supplier call.
func NewOrderRouter(registry *Registry, orders ports.OrderStore, timeout time.Duration) *OrderRouter {
	return &OrderRouter{
		registry: registry,
		orders:   orders,
		timeout:  timeout,
		logger:   logger.Named("order_router"),
	}
}

// resolve picks the target provider: the named one when name is non-empty,
// otherwise the registry default. Unknown names and disabled providers fail
// with ProviderUnavailableError before any network call.
func (r *OrderRouter) resolve(name string) (ports.SupplierProvider, error) {
	if name == "" {
		p, ok := r.registry.Default()
		if !ok {
			return nil, &domain.ProviderUnavailableError{Reason: "no enabled provider is registered"}
		}
		return p, nil
	}

	p, ok := r.registry.Get(name)
	if !ok {
		return nil, &domain.ProviderUnavailableError{Provider: name, Reason: "not registered"}
	}
	if !p.Enabled() {
		return nil, &domain.ProviderUnavailableError{Provider: name, Reason: "disabled, credentials missing"}
	}
	return p, nil
}

// CreateOrder validates the request, dispatches it to the resolved provider,
// applies the settlement policy and records the result.
func (r *OrderRouter) CreateOrder(ctx context.Context, req domain.OrderRequest, providerName string) (*domain.OrderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	provider, err := r.resolve(providerName)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := provider.CreateOrder(callCtx, req)
	if err != nil {
		r.logger.Warn("Order creation failed",
			zap.String("provider", provider.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	result.InternalID = uuid.NewString()
	due := domain.PaymentDueFor(provider.SettlementKind(), result.OrderedAt)
	result.PaymentDue = &due

	if err := r.orders.RecordOrderResult(ctx, *result); err != nil {
		// The remote order exists; losing the local record must not fail
		// the call. Surface it in logs for reconciliation.
		r.logger.Error("Failed to record order result",
			zap.String("internal_id", result.InternalID),
			zap.String("external_order_id", result.ExternalOrderID),
			zap.Error(err),
		)
	}

	r.logger.Info("Order created",
		zap.String("provider", provider.Name()),
		zap.String("internal_id", result.InternalID),
		zap.String("external_order_id", result.ExternalOrderID),
		zap.String("status", string(result.Status)),
	)
	return result, nil
}

// GetOrderStatus re-fetches an order's canonical status from its provider.
func (r *OrderRouter) GetOrderStatus(ctx context.Context, externalOrderID, providerName string) (*domain.OrderResult, error) {
	provider, err := r.resolve(providerName)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return provider.GetOrderStatus(callCtx, externalOrderID)
}

// CancelOrder requests a best-effort cancellation from the provider.
func (r *OrderRouter) CancelOrder(ctx context.Context, externalOrderID, providerName string) (bool, error) {
	provider, err := r.resolve(providerName)
	if err != nil {
		return false, err
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cancelled, err := provider.CancelOrder(callCtx, externalOrderID)
	if err != nil {
		return false, err
	}
	if !cancelled {
		r.logger.Info("Cancellation not honored by provider",
			zap.String("provider", provider.Name()),
			zap.String("external_order_id", externalOrderID),
		)
	}
	return cancelled, nil
}

// OrderOwner resolves the tenant/customer context an internal order belongs
// to. The lookup is purely local; no supplier call is made.
func (r *OrderRouter) OrderOwner(ctx context.Context, internalOrderID string) (*ports.OwnerContext, error) {
	return r.orders.FindOrderOwner(ctx, internalOrderID)
}

// QuoteShipping returns the provider's advisory shipping estimate.
func (r *OrderRouter) QuoteShipping(ctx context.Context, req domain.OrderRequest, providerName string) (*domain.ShippingQuote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	provider, err := r.resolve(providerName)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return provider.QuoteShipping(callCtx, req)
}

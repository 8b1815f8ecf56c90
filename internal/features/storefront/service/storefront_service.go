package service

import (
	"context"
	"fmt"

	"fulfillment-hub/internal/core/logger"
	"fulfillment-hub/internal/features/fulfillment/domain"
	fulfillment "fulfillment-hub/internal/features/fulfillment/service"
	"fulfillment-hub/internal/features/storefront/ports"

	"go.uber.org/zap"
)

// StorefrontService bridges the storefront and the supplier side: imported
// items are published out for sale, and storefront orders are pulled in and
// routed to a supplier.
type StorefrontService struct {
	gateway ports.StorefrontGateway
	router  *fulfillment.OrderRouter
	logger  *zap.Logger
}

// NewStorefrontService creates a StorefrontService.
func NewStorefrontService(gateway ports.StorefrontGateway, router *fulfillment.OrderRouter) *StorefrontService {
	return &StorefrontService{
		gateway: gateway,
		router:  router,
		logger:  logger.Named("storefront"),
	}
}

// PublishItem pushes an imported catalog item to the storefront and returns
// the storefront product id.
func (s *StorefrontService) PublishItem(ctx context.Context, item domain.CatalogItem) (string, error) {
	storefrontID, err := s.gateway.SyncItemOut(ctx, item)
	if err != nil {
		return "", fmt.Errorf("failed to publish item to storefront: %w", err)
	}
	return storefrontID, nil
}

// ForwardOrder pulls a storefront order and submits it to the named supplier
// (or the default one when providerName is empty).
func (s *StorefrontService) ForwardOrder(ctx context.Context, storefrontOrderID, providerName string) (*domain.OrderResult, error) {
	req, err := s.gateway.IngestOrder(ctx, storefrontOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to ingest storefront order: %w", err)
	}

	result, err := s.router.CreateOrder(ctx, *req, providerName)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Storefront order forwarded",
		zap.String("storefront_order_id", storefrontOrderID),
		zap.String("provider", result.Provider),
		zap.String("external_order_id", result.ExternalOrderID),
	)
	return result, nil
}

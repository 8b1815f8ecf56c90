package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fulfillment-hub/internal/core/cache"
	"fulfillment-hub/internal/core/logger"
	"fulfillment-hub/internal/features/fulfillment/domain"
	"fulfillment-hub/internal/features/fulfillment/ports"

	"go.uber.org/zap"
)

// SearchFailure records a provider that errored during a fan-out search.
// It is a soft failure: the other providers' results still come back.
type SearchFailure struct {
	// Provider is the supplier that failed.
	Provider string `json:"provider"`
	// Reason is the translated error text.
	Reason string `json:"reason"`
}

// SearchAllResult is the outcome of a cross-provider catalog search.
type SearchAllResult struct {
	// Items are the merged results, capped at the configured total.
	Items []domain.CatalogItem `json:"items"`
	// Failures lists providers that contributed zero results due to errors.
	Failures []SearchFailure `json:"failures,omitempty"`
}

// ImportResult is the per-item outcome of an import operation.
type ImportResult struct {
	// ExternalID is the supplier product id that was imported.
	ExternalID string `json:"external_id"`
	// Provider is the supplier the item came from.
	Provider string `json:"provider"`
	// InternalID is the persisted id on success.
	InternalID string `json:"internal_id,omitempty"`
	// Err is the translated failure, nil on success.
	Err error `json:"-"`
	// Reason is the failure text for serialization, empty on success.
	Reason string `json:"reason,omitempty"`
}

// Succeeded reports whether the item was imported.
func (r ImportResult) Succeeded() bool { return r.Err == nil }

// ImportSummary derives success/failure counts from a result list.
// Counts are computed, never tracked as separate state.
func ImportSummary(results []ImportResult) (succeeded, failed int) {
	for _, r := range results {
		if r.Succeeded() {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

// CatalogSyncEngine drives product search, single-item import and bulk
// import across supplier adapters. Search results are cached per
// (provider, query) pair; cache failures are soft and fall through to the
// live supplier call.
type CatalogSyncEngine struct {
	registry  *Registry
	catalog   ports.CatalogStore
	cache     cache.Cache
	cacheTTL  time.Duration
	resultCap int
	timeout   time.Duration
	logger    *zap.Logger
}

// NewCatalogSyncEngine creates a CatalogSyncEngine. searchCache may be nil
// to disable caching. resultCap bounds SearchAll's merged item count.
func NewCatalogSyncEngine(registry *Registry, catalog ports.CatalogStore, searchCache cache.Cache, cacheTTL time.Duration, resultCap int, timeout time.Duration) *CatalogSyncEngine {
	return &CatalogSyncEngine{
		registry:  registry,
		catalog:   catalog,
		cache:     searchCache,
		cacheTTL:  cacheTTL,
		resultCap: resultCap,
		timeout:   timeout,
		logger:    logger.Named("catalog_sync"),
	}
}

// Search delegates a catalog search to one named provider.
func (e *CatalogSyncEngine) Search(ctx context.Context, providerName, query string) ([]domain.CatalogItem, error) {
	provider, ok := e.registry.Get(providerName)
	if !ok {
		return nil, &domain.ProviderUnavailableError{Provider: providerName, Reason: "not registered"}
	}
	if !provider.Enabled() {
		return nil, &domain.ProviderUnavailableError{Provider: providerName, Reason: "disabled, credentials missing"}
	}

	if items, ok := e.cachedSearch(ctx, providerName, query); ok {
		return items, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	items, err := provider.SearchCatalog(callCtx, query)
	if err != nil {
		return nil, err
	}

	e.storeSearch(ctx, providerName, query, items)
	return items, nil
}

// SearchAll fans a search out to every enabled provider. A provider that
// errors contributes zero results and a recorded soft failure; the call as
// a whole fails only when no provider is enabled at all.
func (e *CatalogSyncEngine) SearchAll(ctx context.Context, query string) (*SearchAllResult, error) {
	providers := e.registry.ListEnabled()
	if len(providers) == 0 {
		return nil, &domain.ProviderUnavailableError{Reason: "no enabled provider is registered"}
	}

	result := &SearchAllResult{}
	for _, provider := range providers {
		if len(result.Items) >= e.resultCap {
			break
		}

		items, err := e.Search(ctx, provider.Name(), query)
		if err != nil {
			e.logger.Warn("Provider search failed",
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, SearchFailure{
				Provider: provider.Name(),
				Reason:   err.Error(),
			})
			continue
		}

		remaining := e.resultCap - len(result.Items)
		if len(items) > remaining {
			items = items[:remaining]
		}
		result.Items = append(result.Items, items...)
	}
	return result, nil
}

// ImportOne fetches a single item from the provider and persists it through
// the catalog store.
func (e *CatalogSyncEngine) ImportOne(ctx context.Context, providerName, externalID string) (*ImportResult, error) {
	provider, ok := e.registry.Get(providerName)
	if !ok {
		return nil, &domain.ProviderUnavailableError{Provider: providerName, Reason: "not registered"}
	}
	if !provider.Enabled() {
		return nil, &domain.ProviderUnavailableError{Provider: providerName, Reason: "disabled, credentials missing"}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	item, err := provider.GetItem(callCtx, externalID)
	if err != nil {
		return nil, err
	}

	internalID, err := e.catalog.SaveImportedItem(ctx, *item)
	if err != nil {
		return nil, fmt.Errorf("failed to persist imported item: %w", err)
	}

	e.logger.Info("Item imported",
		zap.String("provider", providerName),
		zap.String("external_id", externalID),
		zap.String("internal_id", internalID),
	)
	return &ImportResult{ExternalID: externalID, Provider: providerName, InternalID: internalID}, nil
}

// BulkImport searches the provider and imports up to maxItems of the
// results sequentially. Every item's outcome is retained; a single item's
// failure never aborts the batch.
func (e *CatalogSyncEngine) BulkImport(ctx context.Context, query, providerName string, maxItems int) ([]ImportResult, error) {
	items, err := e.Search(ctx, providerName, query)
	if err != nil {
		return nil, err
	}

	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}

	results := make([]ImportResult, 0, len(items))
	for _, item := range items {
		imported, err := e.ImportOne(ctx, providerName, item.ExternalID)
		if err != nil {
			results = append(results, ImportResult{
				ExternalID: item.ExternalID,
				Provider:   providerName,
				Err:        err,
				Reason:     err.Error(),
			})
			continue
		}
		results = append(results, *imported)
	}

	succeeded, failed := ImportSummary(results)
	e.logger.Info("Bulk import finished",
		zap.String("provider", providerName),
		zap.String("query", query),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
	)
	return results, nil
}

func searchCacheKey(providerName, query string) string {
	return fmt.Sprintf("catalog:search:%s:%s", providerName, query)
}

// cachedSearch returns cached items for the (provider, query) pair. Any
// cache problem reads as a miss.
func (e *CatalogSyncEngine) cachedSearch(ctx context.Context, providerName, query string) ([]domain.CatalogItem, bool) {
	if e.cache == nil {
		return nil, false
	}

	data, err := e.cache.Get(ctx, searchCacheKey(providerName, query))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			e.logger.Warn("Search cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var items []domain.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		e.logger.Warn("Search cache entry corrupt, ignoring", zap.Error(err))
		return nil, false
	}
	return items, true
}

// storeSearch caches search results. Failures are logged, never fatal.
func (e *CatalogSyncEngine) storeSearch(ctx context.Context, providerName, query string, items []domain.CatalogItem) {
	if e.cache == nil {
		return
	}

	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, searchCacheKey(providerName, query), data, e.cacheTTL); err != nil {
		e.logger.Warn("Search cache write failed", zap.Error(err))
	}
}

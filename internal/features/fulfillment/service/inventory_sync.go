package service

import (
	"context"
	"sync"
	"time"

	"fulfillment-hub/internal/core/logger"
	"fulfillment-hub/internal/features/fulfillment/domain"

	"go.uber.org/zap"
)

// InventorySyncEngine pushes stock level updates out to supplier adapters.
// A batch may span several providers; each provider's slice is dispatched
// concurrently while the caller gets results back in the original input
// order.
type InventorySyncEngine struct {
	registry *Registry
	timeout  time.Duration
	logger   *zap.Logger
}

// NewInventorySyncEngine creates an InventorySyncEngine.
func NewInventorySyncEngine(registry *Registry, timeout time.Duration) *InventorySyncEngine {
	return &InventorySyncEngine{
		registry: registry,
		timeout:  timeout,
		logger:   logger.Named("inventory_sync"),
	}
}

type indexedUpdate struct {
	index  int
	update domain.InventoryUpdate
}

// SyncBatch applies a batch of inventory updates. Updates are grouped by
// provider, each group runs in its own goroutine, and one provider being
// down never blocks the others. The returned records line up with the
// input slice.
func (e *InventorySyncEngine) SyncBatch(ctx context.Context, updates []domain.InventoryUpdate) []domain.InventoryUpdateRecord {
	if len(updates) == 0 {
		return nil
	}

	groups := make(map[string][]indexedUpdate)
	providerOrder := make([]string, 0)
	for i, u := range updates {
		if _, seen := groups[u.Provider]; !seen {
			providerOrder = append(providerOrder, u.Provider)
		}
		groups[u.Provider] = append(groups[u.Provider], indexedUpdate{index: i, update: u})
	}

	records := make([]domain.InventoryUpdateRecord, len(updates))

	var wg sync.WaitGroup
	for _, providerName := range providerOrder {
		wg.Add(1)
		go func(providerName string, group []indexedUpdate) {
			defer wg.Done()
			e.syncProvider(ctx, providerName, group, records)
		}(providerName, groups[providerName])
	}
	wg.Wait()

	return records
}

// syncProvider dispatches one provider's slice of the batch and writes the
// outcomes into records at their original indexes. Each goroutine owns a
// disjoint set of indexes, so no locking is needed.
func (e *InventorySyncEngine) syncProvider(ctx context.Context, providerName string, group []indexedUpdate, records []domain.InventoryUpdateRecord) {
	batch := make([]domain.InventoryUpdate, len(group))
	for i, iu := range group {
		batch[i] = iu.update
	}

	provider, ok := e.registry.Get(providerName)
	if !ok || !provider.Enabled() {
		e.logger.Warn("Inventory batch targets unavailable provider",
			zap.String("provider", providerName),
			zap.Int("updates", len(group)),
		)
		e.failGroup(group, records)
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	results, err := provider.UpdateInventory(callCtx, batch)
	if err != nil || len(results) != len(group) {
		if err != nil {
			e.logger.Error("Inventory batch failed",
				zap.String("provider", providerName),
				zap.Error(err),
			)
		} else {
			e.logger.Error("Inventory batch returned mismatched result count",
				zap.String("provider", providerName),
				zap.Int("sent", len(group)),
				zap.Int("received", len(results)),
			)
		}
		e.failGroup(group, records)
		return
	}

	for i, iu := range group {
		records[iu.index] = results[i]
	}
}

// failGroup marks every update in the group as provider_unavailable.
func (e *InventorySyncEngine) failGroup(group []indexedUpdate, records []domain.InventoryUpdateRecord) {
	for _, iu := range group {
		records[iu.index] = domain.InventoryUpdateRecord{
			ExternalVariantID: iu.update.ExternalVariantID,
			Provider:          iu.update.Provider,
			Quantity:          iu.update.Quantity,
			Outcome:           domain.InventoryProviderUnavailable,
			Detail:            "provider unreachable or not registered",
		}
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulfillment-hub/internal/features/fulfillment/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryFixture(providers ...*mockProvider) *InventorySyncEngine {
	registry := NewRegistry()
	for _, p := range providers {
		registry.Register(p)
	}
	return NewInventorySyncEngine(registry, time.Second)
}

// TestInventorySync_AllApplied verifies a single-provider batch where every
// update succeeds.
func TestInventorySync_AllApplied(t *testing.T) {
	provider := &mockProvider{name: "oceansource", enabled: true}
	engine := newInventoryFixture(provider)

	updates := []domain.InventoryUpdate{
		{InternalProductID: "p1", ExternalVariantID: "v1", Provider: "oceansource", Quantity: 5},
		{InternalProductID: "p2", ExternalVariantID: "v2", Provider: "oceansource", Quantity: 0},
	}
	records := engine.SyncBatch(context.Background(), updates)

	require.Len(t, records, 2)
	assert.Equal(t, domain.InventoryApplied, records[0].Outcome)
	assert.Equal(t, domain.InventoryApplied, records[1].Outcome)
	assert.Equal(t, "v1", records[0].ExternalVariantID)
	assert.Equal(t, "v2", records[1].ExternalVariantID)
}

// TestInventorySync_MixedProviders verifies that one provider being down
// marks only its own items unavailable, in the original input order.
func TestInventorySync_MixedProviders(t *testing.T) {
	healthy := &mockProvider{name: "oceansource", enabled: true}
	broken := &mockProvider{
		name:    "consignly",
		enabled: true,
		invErr:  &domain.TransportError{Provider: "consignly", Err: errors.New("timeout")},
	}
	engine := newInventoryFixture(healthy, broken)

	updates := []domain.InventoryUpdate{
		{ExternalVariantID: "v1", Provider: "oceansource", Quantity: 3},
		{ExternalVariantID: "v2", Provider: "consignly", Quantity: 7},
		{ExternalVariantID: "v3", Provider: "oceansource", Quantity: 1},
	}
	records := engine.SyncBatch(context.Background(), updates)

	require.Len(t, records, 3)
	assert.Equal(t, domain.InventoryApplied, records[0].Outcome)
	assert.Equal(t, domain.InventoryProviderUnavailable, records[1].Outcome)
	assert.Equal(t, domain.InventoryApplied, records[2].Outcome)
	assert.Equal(t, "v2", records[1].ExternalVariantID)
}

// TestInventorySync_UnknownProvider verifies updates naming an unregistered
// provider come back provider_unavailable without aborting the batch.
func TestInventorySync_UnknownProvider(t *testing.T) {
	provider := &mockProvider{name: "oceansource", enabled: true}
	engine := newInventoryFixture(provider)

	updates := []domain.InventoryUpdate{
		{ExternalVariantID: "v1", Provider: "ghost", Quantity: 2},
		{ExternalVariantID: "v2", Provider: "oceansource", Quantity: 4},
	}
	records := engine.SyncBatch(context.Background(), updates)

	require.Len(t, records, 2)
	assert.Equal(t, domain.InventoryProviderUnavailable, records[0].Outcome)
	assert.Equal(t, domain.InventoryApplied, records[1].Outcome)
}

// TestInventorySync_DisabledProvider verifies disabled providers are never
// called.
func TestInventorySync_DisabledProvider(t *testing.T) {
	provider := &mockProvider{name: "printforge", enabled: false}
	engine := newInventoryFixture(provider)

	records := engine.SyncBatch(context.Background(), []domain.InventoryUpdate{
		{ExternalVariantID: "v1", Provider: "printforge", Quantity: 1},
	})

	require.Len(t, records, 1)
	assert.Equal(t, domain.InventoryProviderUnavailable, records[0].Outcome)
	assert.Zero(t, provider.callCount())
}

// TestInventorySync_RejectionsKeptPerItem verifies supplier-side rejections
// surface on the right item.
func TestInventorySync_RejectionsKeptPerItem(t *testing.T) {
	provider := &mockProvider{
		name:    "nortrade",
		enabled: true,
		invRecords: []domain.InventoryUpdateRecord{
			{ExternalVariantID: "v1", Provider: "nortrade", Quantity: 2, Outcome: domain.InventoryApplied},
			{ExternalVariantID: "v2", Provider: "nortrade", Quantity: 9, Outcome: domain.InventoryRejected, Detail: "variant discontinued"},
		},
	}
	engine := newInventoryFixture(provider)

	records := engine.SyncBatch(context.Background(), []domain.InventoryUpdate{
		{ExternalVariantID: "v1", Provider: "nortrade", Quantity: 2},
		{ExternalVariantID: "v2", Provider: "nortrade", Quantity: 9},
	})

	require.Len(t, records, 2)
	assert.Equal(t, domain.InventoryApplied, records[0].Outcome)
	assert.Equal(t, domain.InventoryRejected, records[1].Outcome)
	assert.Equal(t, "variant discontinued", records[1].Detail)
}

// TestInventorySync_EmptyBatch verifies an empty batch is a no-op.
func TestInventorySync_EmptyBatch(t *testing.T) {
	engine := newInventoryFixture()

	assert.Nil(t, engine.SyncBatch(context.Background(), nil))
}

package adapter

import (
	"context"
	"testing"

	"fulfillment-hub/internal/features/fulfillment/domain"
	"fulfillment-hub/internal/features/fulfillment/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveImportedItem(t *testing.T) {
	store := NewMemoryStore()

	id, err := store.SaveImportedItem(context.Background(), domain.CatalogItem{
		ExternalID: "pf-10",
		Name:       "Classic Mug",
		Provider:   "printforge",
	})
	require.NoError(t, err)
	require.NoError(t, uuid.Validate(id))

	second, err := store.SaveImportedItem(context.Background(), domain.CatalogItem{
		ExternalID: "pf-10",
		Name:       "Classic Mug",
		Provider:   "printforge",
	})
	require.NoError(t, err)
	assert.NotEqual(t, id, second)
	assert.Equal(t, 2, store.ItemCount())
}

func TestMemoryStore_RecordOrderResult(t *testing.T) {
	store := NewMemoryStore()

	err := store.RecordOrderResult(context.Background(), domain.OrderResult{
		InternalID:      "int-1",
		ExternalOrderID: "PF-1001",
		Provider:        "printforge",
		Status:          domain.OrderStatusCreated,
	})
	require.NoError(t, err)

	// A later status refresh supersedes the earlier record.
	err = store.RecordOrderResult(context.Background(), domain.OrderResult{
		InternalID:      "int-1",
		ExternalOrderID: "PF-1001",
		Provider:        "printforge",
		Status:          domain.OrderStatusShipped,
	})
	require.NoError(t, err)

	result, ok := store.OrderResult("int-1")
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusShipped, result.Status)
}

func TestMemoryStore_RecordOrderResult_MissingInternalID(t *testing.T) {
	store := NewMemoryStore()

	err := store.RecordOrderResult(context.Background(), domain.OrderResult{ExternalOrderID: "PF-1001"})
	assert.Error(t, err)
}

func TestMemoryStore_FindOrderOwner(t *testing.T) {
	store := NewMemoryStore()
	store.SetOrderOwner("int-9", ports.OwnerContext{TenantID: "tenant-a", CustomerEmail: "ada@example.com"})

	owner, err := store.FindOrderOwner(context.Background(), "int-9")
	require.NoError(t, err)
	assert.Equal(t, "tenant-a", owner.TenantID)
	assert.Equal(t, "ada@example.com", owner.CustomerEmail)

	_, err = store.FindOrderOwner(context.Background(), "int-unknown")
	assert.Error(t, err)
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistry_RegisterAndGet verifies lookup of a registered provider.
func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&mockProvider{name: "printforge", enabled: true})

	provider, ok := registry.Get("printforge")

	require.True(t, ok)
	assert.Equal(t, "printforge", provider.Name())
}

// TestRegistry_GetUnknown verifies lookup of an unregistered name.
func TestRegistry_GetUnknown(t *testing.T) {
	registry := NewRegistry()

	provider, ok := registry.Get("nope")

	assert.False(t, ok)
	assert.Nil(t, provider)
}

// TestRegistry_ReRegisterReplacesWithoutReordering verifies last-write-wins
// registration keeps the original position.
func TestRegistry_ReRegisterReplacesWithoutReordering(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&mockProvider{name: "printforge", enabled: true})
	registry.Register(&mockProvider{name: "oceansource", enabled: true})

	replacement := &mockProvider{name: "printforge", enabled: false}
	registry.Register(replacement)

	all := registry.ListAll()
	require.Len(t, all, 2)
	assert.Equal(t, "printforge", all[0].Name())
	assert.Equal(t, "oceansource", all[1].Name())
	assert.False(t, all[0].Enabled())
}

// TestRegistry_ListEnabled verifies disabled providers are filtered out but
// still listed by ListAll.
func TestRegistry_ListEnabled(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&mockProvider{name: "printforge", enabled: false})
	registry.Register(&mockProvider{name: "oceansource", enabled: true})
	registry.Register(&mockProvider{name: "codexpress", enabled: true})

	enabled := registry.ListEnabled()

	require.Len(t, enabled, 2)
	assert.Equal(t, "oceansource", enabled[0].Name())
	assert.Equal(t, "codexpress", enabled[1].Name())
	assert.Len(t, registry.ListAll(), 3)
}

// TestRegistry_DefaultSkipsDisabled verifies the default is the first
// enabled provider in registration order.
func TestRegistry_DefaultSkipsDisabled(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&mockProvider{name: "printforge", enabled: false})
	registry.Register(&mockProvider{name: "oceansource", enabled: true})

	provider, ok := registry.Default()

	require.True(t, ok)
	assert.Equal(t, "oceansource", provider.Name())
}

// TestRegistry_DefaultEmpty verifies no default exists when nothing is enabled.
func TestRegistry_DefaultEmpty(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&mockProvider{name: "printforge", enabled: false})

	_, ok := registry.Default()

	assert.False(t, ok)
}

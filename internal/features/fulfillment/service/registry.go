package service

import (
	"sync/atomic"

	"fulfillment-hub/internal/core/logger"
	"fulfillment-hub/internal/features/fulfillment/ports"

	"go.uber.org/zap"
)

// Registry holds the named supplier adapters. Registration happens at
// process initialization (or explicit, externally-synchronized reload);
// request-serving reads are lock-free against an immutable snapshot that
// Register swaps atomically.
type Registry struct {
	snapshot atomic.Pointer[registrySnapshot]
}

// registrySnapshot is one immutable view of the registered providers.
// order preserves registration order for default-provider resolution.
type registrySnapshot struct {
	providers map[string]ports.SupplierProvider
	order     []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.snapshot.Store(&registrySnapshot{providers: map[string]ports.SupplierProvider{}})
	return r
}

// Register adds a provider under its name. Re-registering an existing name
// replaces the adapter (last write wins) without disturbing registration
// order. Not safe for concurrent calls with each other; confine to
// initialization or an externally-synchronized reload.
func (r *Registry) Register(provider ports.SupplierProvider) {
	old := r.snapshot.Load()

	next := &registrySnapshot{
		providers: make(map[string]ports.SupplierProvider, len(old.providers)+1),
		order:     old.order,
	}
	for name, p := range old.providers {
		next.providers[name] = p
	}

	name := provider.Name()
	if _, replacing := next.providers[name]; !replacing {
		next.order = append(append([]string(nil), old.order...), name)
	}
	next.providers[name] = provider

	r.snapshot.Store(next)

	logger.Named("registry").Info("Provider registered",
		zap.String("provider", name),
		zap.Bool("enabled", provider.Enabled()),
	)
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (ports.SupplierProvider, bool) {
	snap := r.snapshot.Load()
	p, ok := snap.providers[name]
	return p, ok
}

// ListAll returns every registered provider in registration order,
// enabled or not.
func (r *Registry) ListAll() []ports.SupplierProvider {
	snap := r.snapshot.Load()
	out := make([]ports.SupplierProvider, 0, len(snap.order))
	for _, name := range snap.order {
		out = append(out, snap.providers[name])
	}
	return out
}

// ListEnabled returns the enabled providers in registration order.
func (r *Registry) ListEnabled() []ports.SupplierProvider {
	snap := r.snapshot.Load()
	out := make([]ports.SupplierProvider, 0, len(snap.order))
	for _, name := range snap.order {
		if p := snap.providers[name]; p.Enabled() {
			out = append(out, p)
		}
	}
	return out
}

// Default returns the first enabled provider in registration order.
func (r *Registry) Default() (ports.SupplierProvider, bool) {
	snap := r.snapshot.Load()
	for _, name := range snap.order {
		if p := snap.providers[name]; p.Enabled() {
			return p, true
		}
	}
	return nil, false
}

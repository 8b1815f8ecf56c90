package service

import (
	"context"
	"sync"
	"time"

	"fulfillment-hub/internal/core/logger"
	"fulfillment-hub/internal/features/fulfillment/domain"
	"fulfillment-hub/internal/features/fulfillment/ports"

	"go.uber.org/zap"
)

const maxConcurrentProbes = 4

// HealthMonitor probes registered suppliers and reports their availability.
// Disabled providers are reported as unavailable without a network call.
type HealthMonitor struct {
	registry     *Registry
	probeTimeout time.Duration
	logger       *zap.Logger
}

// NewHealthMonitor creates a HealthMonitor. probeTimeout bounds each
// individual provider probe.
func NewHealthMonitor(registry *Registry, probeTimeout time.Duration) *HealthMonitor {
	return &HealthMonitor{
		registry:     registry,
		probeTimeout: probeTimeout,
		logger:       logger.Named("health_monitor"),
	}
}

// CheckAll probes every registered provider with bounded parallelism and
// returns one record per provider in registration order.
func (m *HealthMonitor) CheckAll(ctx context.Context) []domain.HealthRecord {
	providers := m.registry.ListAll()
	records := make([]domain.HealthRecord, len(providers))

	sem := make(chan struct{}, maxConcurrentProbes)
	var wg sync.WaitGroup
	for i, provider := range providers {
		wg.Add(1)
		go func(i int, provider ports.SupplierProvider) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			records[i] = m.checkOne(ctx, provider)
		}(i, provider)
	}
	wg.Wait()

	return records
}

// CheckOne probes a single named provider.
func (m *HealthMonitor) CheckOne(ctx context.Context, providerName string) (domain.HealthRecord, error) {
	provider, ok := m.registry.Get(providerName)
	if !ok {
		return domain.HealthRecord{}, &domain.ProviderUnavailableError{Provider: providerName, Reason: "not registered"}
	}
	return m.checkOne(ctx, provider), nil
}

func (m *HealthMonitor) checkOne(ctx context.Context, provider ports.SupplierProvider) domain.HealthRecord {
	if !provider.Enabled() {
		return domain.HealthRecord{
			Provider:  provider.Name(),
			Status:    domain.HealthStatusUnavailable,
			Detail:    "disabled, credentials missing",
			CheckedAt: time.Now().UTC(),
		}
	}

	probeCtx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()

	record := provider.CheckHealth(probeCtx)
	if record.Status != domain.HealthStatusHealthy {
		m.logger.Warn("Provider health probe not healthy",
			zap.String("provider", provider.Name()),
			zap.String("status", string(record.Status)),
			zap.String("detail", record.Detail),
		)
	}
	return record
}

package service

import (
	"context"
	"testing"
	"time"

	"fulfillment-hub/internal/features/fulfillment/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthFixture(probeTimeout time.Duration, providers ...*mockProvider) *HealthMonitor {
	registry := NewRegistry()
	for _, p := range providers {
		registry.Register(p)
	}
	return NewHealthMonitor(registry, probeTimeout)
}

// TestHealthMonitor_CheckAll verifies one record per provider in
// registration order.
func TestHealthMonitor_CheckAll(t *testing.T) {
	healthy := &mockProvider{
		name:    "printforge",
		enabled: true,
		health:  domain.HealthRecord{Status: domain.HealthStatusHealthy},
	}
	degraded := &mockProvider{
		name:    "oceansource",
		enabled: true,
		health:  domain.HealthRecord{Status: domain.HealthStatusDegraded, Detail: "queue backlog"},
	}
	monitor := newHealthFixture(time.Second, healthy, degraded)

	records := monitor.CheckAll(context.Background())

	require.Len(t, records, 2)
	assert.Equal(t, "printforge", records[0].Provider)
	assert.Equal(t, domain.HealthStatusHealthy, records[0].Status)
	assert.Equal(t, "oceansource", records[1].Provider)
	assert.Equal(t, domain.HealthStatusDegraded, records[1].Status)
	assert.Equal(t, "queue backlog", records[1].Detail)
}

// TestHealthMonitor_DisabledReportedWithoutProbe verifies disabled providers
// are reported unavailable with zero adapter calls.
func TestHealthMonitor_DisabledReportedWithoutProbe(t *testing.T) {
	disabled := &mockProvider{name: "codexpress", enabled: false}
	monitor := newHealthFixture(time.Second, disabled)

	records := monitor.CheckAll(context.Background())

	require.Len(t, records, 1)
	assert.Equal(t, domain.HealthStatusUnavailable, records[0].Status)
	assert.Zero(t, disabled.callCount())
}

// TestHealthMonitor_ProbeTimeout verifies a slow probe is cut off and
// reported unavailable.
func TestHealthMonitor_ProbeTimeout(t *testing.T) {
	slow := &mockProvider{
		name:        "nortrade",
		enabled:     true,
		healthDelay: 500 * time.Millisecond,
		health:      domain.HealthRecord{Status: domain.HealthStatusHealthy},
	}
	monitor := newHealthFixture(20*time.Millisecond, slow)

	records := monitor.CheckAll(context.Background())

	require.Len(t, records, 1)
	assert.Equal(t, domain.HealthStatusUnavailable, records[0].Status)
}

// TestHealthMonitor_CheckOne verifies single-provider probing and the
// unknown-name error.
func TestHealthMonitor_CheckOne(t *testing.T) {
	provider := &mockProvider{
		name:    "printforge",
		enabled: true,
		health:  domain.HealthRecord{Status: domain.HealthStatusHealthy},
	}
	monitor := newHealthFixture(time.Second, provider)

	record, err := monitor.CheckOne(context.Background(), "printforge")
	require.NoError(t, err)
	assert.Equal(t, domain.HealthStatusHealthy, record.Status)

	_, err = monitor.CheckOne(context.Background(), "ghost")
	var unavailable *domain.ProviderUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

// TestHealthMonitor_RecordsRecomputedEachRun verifies snapshots are not
// carried over between runs.
func TestHealthMonitor_RecordsRecomputedEachRun(t *testing.T) {
	provider := &mockProvider{
		name:    "printforge",
		enabled: true,
		health:  domain.HealthRecord{Status: domain.HealthStatusHealthy},
	}
	monitor := newHealthFixture(time.Second, provider)

	first := monitor.CheckAll(context.Background())
	provider.health = domain.HealthRecord{Status: domain.HealthStatusUnavailable, Detail: "maintenance"}
	second := monitor.CheckAll(context.Background())

	assert.Equal(t, domain.HealthStatusHealthy, first[0].Status)
	assert.Equal(t, domain.HealthStatusUnavailable, second[0].Status)
	assert.Equal(t, int64(2), provider.callCount())
}

package domain

import "time"

// HealthStatus classifies a supplier's availability at probe time.
type HealthStatus string

const (
	// HealthStatusHealthy means the supplier responded normally.
	HealthStatusHealthy HealthStatus = "healthy"
	// HealthStatusDegraded means the supplier responded but reported problems.
	HealthStatusDegraded HealthStatus = "degraded"
	// HealthStatusUnavailable means the probe failed or timed out.
	HealthStatusUnavailable HealthStatus = "unavailable"
)

// HealthRecord is a point-in-time availability snapshot for one supplier.
// Records are recomputed on every check and never persisted across runs.
type HealthRecord struct {
	// Provider is the supplier this record describes.
	Provider string `json:"provider"`
	// Status is the supplier's availability classification.
	Status HealthStatus `json:"status"`
	// Detail carries diagnostic information for non-healthy statuses.
	Detail string `json:"detail,omitempty"`
	// CheckedAt is when the probe ran.
	CheckedAt time.Time `json:"checked_at"`
}

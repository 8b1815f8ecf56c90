package jobs

import (
	"context"

	"fulfillment-hub/internal/core/logger"
	"fulfillment-hub/internal/features/fulfillment/domain"
	"fulfillment-hub/internal/features/fulfillment/service"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// HealthPollJob periodically probes every registered supplier and logs the
// ones that are not healthy. Records are not persisted; the job exists so
// supplier outages show up in the logs before an order hits them.
type HealthPollJob struct {
	monitor  *service.HealthMonitor
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewHealthPollJob creates a new supplier health polling job. The schedule
// uses the six-field cron format with seconds.
func NewHealthPollJob(monitor *service.HealthMonitor, schedule string) *HealthPollJob {
	return &HealthPollJob{
		monitor:  monitor,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.Named("health_poll_job"),
	}
}

// Start schedules the health poll.
func (j *HealthPollJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Supplier health poll started", zap.String("schedule", j.schedule))
	return nil
}

// Stop stops the health poll.
func (j *HealthPollJob) Stop() {
	j.cron.Stop()
	j.logger.Info("Supplier health poll stopped")
}

func (j *HealthPollJob) run() {
	records := j.monitor.CheckAll(context.Background())

	healthy := 0
	for _, record := range records {
		if record.Status == domain.HealthStatusHealthy {
			healthy++
			continue
		}
		j.logger.Warn("Supplier not healthy",
			zap.String("provider", record.Provider),
			zap.String("status", string(record.Status)),
			zap.String("detail", record.Detail),
		)
	}

	j.logger.Info("Supplier health poll finished",
		zap.Int("healthy", healthy),
		zap.Int("total", len(records)),
	)
}

package jobs

import (
	"fmt"
	"time"

	"truckbot/internal/core/application/usecases/commands"

	"go.uber.org/zap"
)

// Config holds the job schedules.
type Config struct {
	SweepInterval time.Duration
	RetryInterval time.Duration
	RetryBatch    int
	MaxAttempts   int
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	reservationSweeperJob *ReservationSweeperJob
	notificationRetryJob  *NotificationRetryJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	expirer ReservationExpirer,
	deliverHandler commands.DeliverNotificationsCommandHandler,
	cfg Config,
	logger *zap.Logger,
) *JobManager {
	return &JobManager{
		reservationSweeperJob: NewReservationSweeperJob(expirer, cfg.SweepInterval, logger),
		notificationRetryJob: NewNotificationRetryJob(
			deliverHandler, cfg.RetryInterval, cfg.RetryBatch, cfg.MaxAttempts, nil, logger,
		),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.reservationSweeperJob.Start(); err != nil {
		return fmt.Errorf("failed to start reservation sweeper job: %w", err)
	}

	if err := jm.notificationRetryJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.reservationSweeperJob.Stop()
		return fmt.Errorf("failed to start notification retry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.notificationRetryJob.Stop()
	jm.reservationSweeperJob.Stop()
}

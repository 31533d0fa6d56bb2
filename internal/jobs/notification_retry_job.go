package jobs

import (
	"context"
	"time"

	"truckbot/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// NotificationRetryJob drains the notification outbox on a schedule.
type NotificationRetryJob struct {
	handler     commands.DeliverNotificationsCommandHandler
	clock       commands.Clock
	interval    time.Duration
	batchSize   int
	maxAttempts int
	cron        *cron.Cron
	logger      *zap.Logger
}

func NewNotificationRetryJob(
	handler commands.DeliverNotificationsCommandHandler,
	interval time.Duration,
	batchSize, maxAttempts int,
	clock commands.Clock,
	logger *zap.Logger,
) *NotificationRetryJob {
	if clock == nil {
		clock = commands.UTCNow
	}
	logger = logger.With(zap.String("component", "notification_retry_job"))
	return &NotificationRetryJob{
		handler:     handler,
		clock:       clock,
		interval:    interval,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		cron:        newCron(logger),
		logger:      logger,
	}
}

// Run performs one delivery pass.
func (j *NotificationRetryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	cmd, err := commands.NewDeliverNotificationsCommand(j.clock(), j.batchSize, j.maxAttempts)
	if err != nil {
		j.logger.Error("Invalid notification retry settings", zap.Error(err))
		return
	}

	report, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("Notification retry failed", zap.Error(err))
	}
	if report.Delivered > 0 || report.Failed > 0 {
		j.logger.Info("Notification retry pass",
			zap.Int("delivered", report.Delivered),
			zap.Int("failed", report.Failed),
		)
	}
}

// Start schedules the retry pass.
func (j *NotificationRetryJob) Start() error {
	if _, err := j.cron.AddJob(every(j.interval), j); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Notification retry job started", zap.Duration("interval", j.interval))
	return nil
}

// Stop unschedules the retry pass and waits for a running one to finish.
func (j *NotificationRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Notification retry job stopped")
}

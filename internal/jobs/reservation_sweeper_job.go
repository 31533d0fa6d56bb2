package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReservationExpirer releases overdue reservations and notifies the parties.
// dispatch.Facade implements it.
type ReservationExpirer interface {
	ExpireReservations(ctx context.Context) (int, error)
}

// ReservationSweeperJob periodically returns orders whose reservation
// deadline has passed to the open pool.
type ReservationSweeperJob struct {
	expirer  ReservationExpirer
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewReservationSweeperJob creates a job that releases expired reservations
// every interval. It does nothing until Start.
func NewReservationSweeperJob(expirer ReservationExpirer, interval time.Duration, logger *zap.Logger) *ReservationSweeperJob {
	logger = logger.With(zap.String("component", "reservation_sweeper_job"))
	return &ReservationSweeperJob{
		expirer:  expirer,
		interval: interval,
		cron:     newCron(logger),
		logger:   logger,
	}
}

// Run performs one sweep. It is bounded by the job interval.
func (j *ReservationSweeperJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	released, err := j.expirer.ExpireReservations(ctx)
	if err != nil {
		j.logger.Error("Reservation sweep failed", zap.Int("released", released), zap.Error(err))
		return
	}
	if released > 0 {
		j.logger.Info("Expired reservations released", zap.Int("released", released))
	}
}

// Start schedules the sweep.
func (j *ReservationSweeperJob) Start() error {
	if _, err := j.cron.AddJob(every(j.interval), j); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Reservation sweeper job started", zap.Duration("interval", j.interval))
	return nil
}

// Stop unschedules the sweep and waits for a running one to finish.
func (j *ReservationSweeperJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Reservation sweeper job stopped")
}

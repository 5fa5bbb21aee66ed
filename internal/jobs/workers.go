package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/gatelog/server/internal/domain/access"
	"github.com/gatelog/server/internal/email"
	"github.com/gatelog/server/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
)

// UnauthorizedAlertArgs describes one unauthorized scan to notify about.
type UnauthorizedAlertArgs struct {
	UID        string    `json:"uid"`
	Direction  string    `json:"direction"`
	DeviceName string    `json:"device_name"`
	ObservedAt time.Time `json:"observed_at"`
}

func (UnauthorizedAlertArgs) Kind() string { return JobKindUnauthorizedAlert }

func (UnauthorizedAlertArgs) InsertOpts() river.InsertOpts {
	return InsertOptsForKind(JobKindUnauthorizedAlert)
}

// UnauthorizedAlertWorker delivers the alert email for one unauthorized scan.
type UnauthorizedAlertWorker struct {
	river.WorkerDefaults[UnauthorizedAlertArgs]
	Email *email.Service
}

func (UnauthorizedAlertWorker) Kind() string { return JobKindUnauthorizedAlert }

func (w UnauthorizedAlertWorker) Work(ctx context.Context, job *river.Job[UnauthorizedAlertArgs]) error {
	if w.Email == nil {
		return fmt.Errorf("email service not configured")
	}
	if job == nil {
		return fmt.Errorf("unauthorized alert job missing")
	}

	args := job.Args
	if err := w.Email.SendUnauthorizedScanAlert(ctx, args.UID, args.Direction, args.DeviceName, args.ObservedAt); err != nil {
		return fmt.Errorf("send unauthorized-scan alert: %w", err)
	}
	return nil
}

func NewWorkers(emailService *email.Service) *river.Workers {
	workers := river.NewWorkers()
	river.AddWorker[UnauthorizedAlertArgs](workers, UnauthorizedAlertWorker{Email: emailService})
	return workers
}

// AlertEnqueuer queues an alert job for each unauthorized scan. It satisfies
// the ingest path's notifier interface; enqueueing is cheap enough to run
// inline and the actual email delivery happens on the worker.
type AlertEnqueuer struct {
	client *river.Client[pgx.Tx]
}

func NewAlertEnqueuer(client *river.Client[pgx.Tx]) *AlertEnqueuer {
	return &AlertEnqueuer{client: client}
}

func (e *AlertEnqueuer) UnauthorizedScan(ctx context.Context, input access.EventInput) error {
	if e.client == nil {
		return fmt.Errorf("river client not configured")
	}

	_, err := e.client.Insert(ctx, UnauthorizedAlertArgs{
		UID:        input.UID,
		Direction:  input.Direction,
		DeviceName: input.DeviceName,
		ObservedAt: time.Now().UTC(),
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueue unauthorized alert: %w", err)
	}

	metrics.UnauthorizedAlertsEnqueued.Inc()
	return nil
}

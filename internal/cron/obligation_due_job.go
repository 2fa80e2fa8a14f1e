package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/lucasvieira/alugueja-backend/internal/notifications"
	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	"github.com/lucasvieira/alugueja-backend/pkg/enums"
	"github.com/lucasvieira/alugueja-backend/pkg/logger"
	"github.com/lucasvieira/alugueja-backend/pkg/metrics"
)

const defaultDueSoonDays = 3

// ObligationDueJobParams configures the obligation due-date sweep.
type ObligationDueJobParams struct {
	Logger      *logger.Logger
	Ledger      obligationLister
	Notifier    obligationNotifier
	Metrics     *metrics.CronJobMetrics
	DueSoonDays int
}

type obligationLister interface {
	ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]models.PaymentObligation, error)
	ListPendingDueBetween(ctx context.Context, from, to time.Time) ([]models.PaymentObligation, error)
}

type obligationNotifier interface {
	NotifyObligation(ctx context.Context, input notifications.ObligationAlertInput) (bool, error)
}

// NewObligationDueJob constructs the sweep that raises due-soon and overdue
// alerts for pending payment obligations.
func NewObligationDueJob(params ObligationDueJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	days := params.DueSoonDays
	if days <= 0 {
		days = defaultDueSoonDays
	}
	return &obligationDueJob{
		logg:        params.Logger,
		ledger:      params.Ledger,
		notifier:    params.Notifier,
		metrics:     params.Metrics,
		dueSoonDays: days,
		now:         time.Now,
	}, nil
}

type obligationDueJob struct {
	logg        *logger.Logger
	ledger      obligationLister
	notifier    obligationNotifier
	metrics     *metrics.CronJobMetrics
	dueSoonDays int
	now         func() time.Time
}

func (j *obligationDueJob) Name() string { return "obligation-due" }

func (j *obligationDueJob) Run(ctx context.Context) error {
	var errs []error
	if err := j.sweepDueSoon(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := j.sweepOverdue(ctx); err != nil {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}

func (j *obligationDueJob) sweepDueSoon(ctx context.Context) error {
	now := j.now().UTC()
	to := now.Add(time.Duration(j.dueSoonDays) * 24 * time.Hour)
	obligations, err := j.ledger.ListPendingDueBetween(ctx, now, to)
	if err != nil {
		return fmt.Errorf("query due-soon obligations: %w", err)
	}
	count := j.notifyAll(ctx, obligations, enums.NotificationKindPaymentDueSoon)
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count})
	j.logg.Info(logCtx, "due-soon sweep complete")
	return nil
}

func (j *obligationDueJob) sweepOverdue(ctx context.Context) error {
	now := j.now().UTC()
	obligations, err := j.ledger.ListPendingDueBefore(ctx, now)
	if err != nil {
		return fmt.Errorf("query overdue obligations: %w", err)
	}
	count := j.notifyAll(ctx, obligations, enums.NotificationKindPaymentOverdue)
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count})
	j.logg.Info(logCtx, "overdue sweep complete")
	return nil
}

// notifyAll raises one alert per obligation. A failed insert is logged and
// skipped so one bad row cannot stall the rest of the sweep.
func (j *obligationDueJob) notifyAll(ctx context.Context, obligations []models.PaymentObligation, kind enums.NotificationKind) int {
	count := 0
	for _, obligation := range obligations {
		created, err := j.notifier.NotifyObligation(ctx, alertFor(obligation, kind))
		if err != nil {
			logCtx := j.logg.WithField(ctx, "obligation_id", obligation.ID.String())
			j.logg.Error(logCtx, "failed to raise obligation alert", err)
			continue
		}
		if created {
			count++
		}
	}
	if j.metrics != nil {
		j.metrics.AddRowsProcessed(j.Name(), count)
	}
	return count
}

func alertFor(obligation models.PaymentObligation, kind enums.NotificationKind) notifications.ObligationAlertInput {
	dueDate := obligation.DueAt.Format("02/01/2006")
	amount := obligation.Amount.StringFixed(2)

	input := notifications.ObligationAlertInput{
		Kind:         kind,
		RentalID:     obligation.RentalID,
		ObligationID: obligation.ID,
	}
	switch kind {
	case enums.NotificationKindPaymentOverdue:
		input.Title = "Recebimento em atraso"
		input.Message = fmt.Sprintf("Recebimento de R$ %s venceu em %s.", amount, dueDate)
	default:
		input.Title = "Recebimento proximo do vencimento"
		input.Message = fmt.Sprintf("Recebimento de R$ %s vence em %s.", amount, dueDate)
	}
	return input
}

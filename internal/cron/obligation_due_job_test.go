package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasvieira/alugueja-backend/internal/notifications"
	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	"github.com/lucasvieira/alugueja-backend/pkg/enums"
	"github.com/lucasvieira/alugueja-backend/pkg/logger"
)

type fakeObligationLister struct {
	dueSoon []models.PaymentObligation
	overdue []models.PaymentObligation

	betweenFrom time.Time
	betweenTo   time.Time
	beforeAt    time.Time
}

func (f *fakeObligationLister) ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]models.PaymentObligation, error) {
	f.beforeAt = cutoff
	return f.overdue, nil
}

func (f *fakeObligationLister) ListPendingDueBetween(ctx context.Context, from, to time.Time) ([]models.PaymentObligation, error) {
	f.betweenFrom = from
	f.betweenTo = to
	return f.dueSoon, nil
}

type fakeNotifier struct {
	alerts   []notifications.ObligationAlertInput
	dupes    map[uuid.UUID]struct{}
	failOnce bool
}

func (f *fakeNotifier) NotifyObligation(ctx context.Context, input notifications.ObligationAlertInput) (bool, error) {
	if f.failOnce {
		f.failOnce = false
		return false, errors.New("insert failed")
	}
	if _, dup := f.dupes[input.ObligationID]; dup {
		return false, nil
	}
	f.alerts = append(f.alerts, input)
	return true, nil
}

type obligationJobHelper struct {
	job      *obligationDueJob
	ledger   *fakeObligationLister
	notifier *fakeNotifier
}

func createObligationJobTest(t *testing.T) *obligationJobHelper {
	t.Helper()
	ledger := &fakeObligationLister{}
	notifier := &fakeNotifier{dupes: make(map[uuid.UUID]struct{})}
	jobIface, err := NewObligationDueJob(ObligationDueJobParams{
		Logger:      logger.New(logger.Options{ServiceName: "test"}),
		Ledger:      ledger,
		Notifier:    notifier,
		DueSoonDays: 3,
	})
	if err != nil {
		t.Fatalf("NewObligationDueJob: %v", err)
	}
	job, ok := jobIface.(*obligationDueJob)
	if !ok {
		t.Fatalf("expected obligationDueJob, got %T", jobIface)
	}
	return &obligationJobHelper{job: job, ledger: ledger, notifier: notifier}
}

func pendingObligation(dueAt time.Time) models.PaymentObligation {
	return models.PaymentObligation{
		ID:       uuid.New(),
		RentalID: uuid.New(),
		ClientID: uuid.New(),
		Amount:   decimal.RequireFromString("250.00"),
		DueAt:    dueAt,
		Status:   enums.ObligationStatusPending,
	}
}

func TestObligationDueJob_sweepDueSoon(t *testing.T) {
	helper := createObligationJobTest(t)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	helper.job.now = func() time.Time { return now }
	helper.ledger.dueSoon = []models.PaymentObligation{
		pendingObligation(now.Add(24 * time.Hour)),
		pendingObligation(now.Add(48 * time.Hour)),
	}

	if err := helper.job.sweepDueSoon(context.Background()); err != nil {
		t.Fatalf("sweepDueSoon: %v", err)
	}
	if !helper.ledger.betweenFrom.Equal(now) {
		t.Fatalf("window should start now, got %v", helper.ledger.betweenFrom)
	}
	if !helper.ledger.betweenTo.Equal(now.Add(3 * 24 * time.Hour)) {
		t.Fatalf("window should end in 3 days, got %v", helper.ledger.betweenTo)
	}
	if len(helper.notifier.alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(helper.notifier.alerts))
	}
	for _, alert := range helper.notifier.alerts {
		if alert.Kind != enums.NotificationKindPaymentDueSoon {
			t.Fatalf("unexpected kind %s", alert.Kind)
		}
	}
}

func TestObligationDueJob_sweepOverdue(t *testing.T) {
	helper := createObligationJobTest(t)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	helper.job.now = func() time.Time { return now }
	helper.ledger.overdue = []models.PaymentObligation{
		pendingObligation(now.Add(-24 * time.Hour)),
	}

	if err := helper.job.sweepOverdue(context.Background()); err != nil {
		t.Fatalf("sweepOverdue: %v", err)
	}
	if !helper.ledger.beforeAt.Equal(now) {
		t.Fatalf("cutoff should be now, got %v", helper.ledger.beforeAt)
	}
	if len(helper.notifier.alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(helper.notifier.alerts))
	}
	alert := helper.notifier.alerts[0]
	if alert.Kind != enums.NotificationKindPaymentOverdue {
		t.Fatalf("unexpected kind %s", alert.Kind)
	}
	if alert.Title != "Recebimento em atraso" {
		t.Fatalf("unexpected title %q", alert.Title)
	}
}

func TestObligationDueJob_RunContinuesPastFailedInsert(t *testing.T) {
	helper := createObligationJobTest(t)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	helper.job.now = func() time.Time { return now }
	helper.ledger.overdue = []models.PaymentObligation{
		pendingObligation(now.Add(-48 * time.Hour)),
		pendingObligation(now.Add(-24 * time.Hour)),
	}
	helper.notifier.failOnce = true

	if err := helper.job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(helper.notifier.alerts) != 1 {
		t.Fatalf("expected the second alert to land, got %d", len(helper.notifier.alerts))
	}
}

func TestObligationDueJob_AlreadyAlertedIsNotCountedAgain(t *testing.T) {
	helper := createObligationJobTest(t)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	helper.job.now = func() time.Time { return now }
	obligation := pendingObligation(now.Add(-24 * time.Hour))
	helper.ledger.overdue = []models.PaymentObligation{obligation}
	helper.notifier.dupes[obligation.ID] = struct{}{}

	if err := helper.job.sweepOverdue(context.Background()); err != nil {
		t.Fatalf("sweepOverdue: %v", err)
	}
	if len(helper.notifier.alerts) != 0 {
		t.Fatalf("expected no new alerts, got %d", len(helper.notifier.alerts))
	}
}

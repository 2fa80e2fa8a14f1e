package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lucasvieira/alugueja-backend/pkg/db/models"
	"github.com/lucasvieira/alugueja-backend/pkg/enums"
	pkgerrors "github.com/lucasvieira/alugueja-backend/pkg/errors"
	"github.com/lucasvieira/alugueja-backend/pkg/pagination"
)

// Service defines notification write/list/read operations.
type Service interface {
	NotifyObligation(ctx context.Context, input ObligationAlertInput) (bool, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	CountUnread(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context) (int64, error)
}

type service struct {
	repo Repository
}

// ObligationAlertInput describes a due-soon or overdue alert for one
// payment obligation.
type ObligationAlertInput struct {
	Kind         enums.NotificationKind
	RentalID     uuid.UUID
	ObligationID uuid.UUID
	Title        string
	Message      string
}

// ListParams configures pagination for notifications.
type ListParams struct {
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

// NotifyObligation inserts an alert row, deduplicated per obligation and
// kind. Returns false when an identical alert already exists.
func (s *service) NotifyObligation(ctx context.Context, input ObligationAlertInput) (bool, error) {
	if !input.Kind.IsValid() {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "invalid notification kind")
	}
	if input.ObligationID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "obligation id required")
	}
	if input.Title == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "notification title required")
	}

	notification := &models.Notification{
		Kind:         input.Kind,
		ObligationID: &input.ObligationID,
		Title:        input.Title,
		Message:      input.Message,
	}
	if input.RentalID != uuid.Nil {
		notification.RentalID = &input.RentalID
	}

	created, err := s.repo.Create(ctx, notification)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listNotificationsParams{
		Limit:      params.Limit,
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  rows,
		Cursor: cursor,
	}, nil
}

func (s *service) CountUnread(ctx context.Context) (int64, error) {
	count, err := s.repo.CountUnread(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}
	return count, nil
}

func (s *service) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context) (int64, error) {
	count, err := s.repo.MarkAllRead(ctx, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

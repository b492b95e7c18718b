package notification

import (
	"context"

	notificationerrors "go-hrms/internal/notification/errors"

	"github.com/google/uuid"
)

const defaultInboxLimit = 50

type Service interface {
	Inbox(ctx context.Context, employeeID string, q ListQuery) (InboxResponse, error)
	MarkRead(ctx context.Context, employeeID, id string) error
	MarkAllRead(ctx context.Context, employeeID string) (MarkAllReadResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Inbox(ctx context.Context, employeeID string, q ListQuery) (InboxResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultInboxLimit
	}
	rows, err := s.repo.List(ctx, ListFilter{EmployeeID: employeeID, UnreadOnly: q.Unread, Limit: limit})
	if err != nil {
		return InboxResponse{}, err
	}
	unread, err := s.repo.CountUnread(ctx, employeeID)
	if err != nil {
		return InboxResponse{}, err
	}

	items := make([]NotificationResponse, 0, len(rows))
	for _, n := range rows {
		items = append(items, mapToResponse(n))
	}
	return InboxResponse{Unread: unread, Items: items}, nil
}

func (s *service) MarkRead(ctx context.Context, employeeID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notificationerrors.ErrInvalidNotificationID
	}
	ok, err := s.repo.MarkRead(ctx, employeeID, id)
	if err != nil {
		return err
	}
	if !ok {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, employeeID string) (MarkAllReadResponse, error) {
	n, err := s.repo.MarkAllRead(ctx, employeeID)
	if err != nil {
		return MarkAllReadResponse{}, err
	}
	return MarkAllReadResponse{Updated: n}, nil
}

package notification_test

import (
	"context"
	"testing"
	"time"

	"go-hrms/internal/notification"
	notificationerrors "go-hrms/internal/notification/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestService_Inbox(t *testing.T) {
	ctx := context.Background()
	first := uuid.New()

	var gotFilter notification.ListFilter
	repo := &fakeNotificationRepository{
		listFn: func(_ context.Context, f notification.ListFilter) ([]notification.Notification, error) {
			gotFilter = f
			return []notification.Notification{
				{ID: first, EmployeeID: "emp-1", Message: "approved", CreatedAt: time.Now()},
			}, nil
		},
		countUnreadFn: func(context.Context, string) (int64, error) { return 3, nil },
	}

	resp, err := notification.NewService(repo).Inbox(ctx, "emp-1", notification.ListQuery{Unread: true})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), resp.Unread)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, first.String(), resp.Items[0].ID)
	assert.Equal(t, "emp-1", gotFilter.EmployeeID)
	assert.True(t, gotFilter.UnreadOnly)
	assert.Equal(t, 50, gotFilter.Limit)
}

func TestService_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		err := notification.NewService(&fakeNotificationRepository{}).MarkRead(ctx, "emp-1", "nope")
		assert.ErrorIs(t, err, notificationerrors.ErrInvalidNotificationID)
	})

	t.Run("someone else's notification", func(t *testing.T) {
		repo := &fakeNotificationRepository{markReadFn: func(context.Context, string, string) (bool, error) {
			return false, nil
		}}
		err := notification.NewService(repo).MarkRead(ctx, "emp-1", uuid.NewString())
		assert.ErrorIs(t, err, notificationerrors.ErrNotificationNotFound)
	})

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		repo := &fakeNotificationRepository{markReadFn: func(_ context.Context, emp, got string) (bool, error) {
			assert.Equal(t, "emp-1", emp)
			assert.Equal(t, id, got)
			return true, nil
		}}
		assert.NoError(t, notification.NewService(repo).MarkRead(ctx, "emp-1", id))
	})
}

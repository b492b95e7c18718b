package notification_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeOutbox struct {
	createFn func(ctx context.Context, e kafka.OutboxEvent) error
	created  []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(*sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, e kafka.OutboxEvent) error {
	f.created = append(f.created, e)
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeOutbox) ListPending(context.Context, int) ([]kafka.OutboxEvent, error) { return nil, nil }
func (f *fakeOutbox) MarkSent(context.Context, string) error                        { return nil }
func (f *fakeOutbox) MarkFailed(context.Context, string, string) error              { return nil }

func TestNotifier_Notify(t *testing.T) {
	ctx := context.Background()
	fixedID := uuid.MustParse("6f1c2b8e-8d3a-4f3e-9a55-0c4d2f1e7b10")
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	t.Run("queues a pending event on the configured topic", func(t *testing.T) {
		outbox := &fakeOutbox{}
		n := notification.NewNotifier(outbox,
			notification.WithTopic("hrms.notification.test"),
			notification.WithIDFunc(func() uuid.UUID { return fixedID }),
			notification.WithNotifierClock(func() time.Time { return now }),
		)

		n.Notify(ctx, "emp-1", "Your Leave request was Approved at the hod stage")

		assert.Len(t, outbox.created, 1)
		e := outbox.created[0]
		assert.Equal(t, fixedID.String(), e.ID)
		assert.Equal(t, "hrms.notification.test", e.Topic)
		assert.Equal(t, "emp-1", e.AggregateID)
		assert.Equal(t, kafka.OutboxStatusPending, e.Status)
		assert.NoError(t, kafka.ValidateOutboxEvent(e))

		var payload events.NotificationRequestedEvent
		assert.NoError(t, json.Unmarshal(e.Payload, &payload))
		assert.Equal(t, fixedID.String(), payload.NotificationID)
		assert.Equal(t, "emp-1", payload.EmployeeID)
		assert.True(t, now.Equal(payload.OccurredAt))
	})

	t.Run("defaults to the notification topic", func(t *testing.T) {
		outbox := &fakeOutbox{}
		notification.NewNotifier(outbox, notification.WithTopic("")).Notify(ctx, "emp-1", "hello")

		assert.Len(t, outbox.created, 1)
		assert.Equal(t, events.NotificationRequestedTopic, outbox.created[0].Topic)
	})

	t.Run("outbox failure is swallowed", func(t *testing.T) {
		outbox := &fakeOutbox{createFn: func(context.Context, kafka.OutboxEvent) error {
			return errors.New("connection refused")
		}}

		assert.NotPanics(t, func() {
			notification.NewNotifier(outbox).Notify(ctx, "emp-1", "hello")
		})
		assert.Len(t, outbox.created, 1)
	})

	t.Run("empty recipient is skipped", func(t *testing.T) {
		outbox := &fakeOutbox{}
		notification.NewNotifier(outbox).Notify(ctx, "", "hello")
		assert.Empty(t, outbox.created)
	})
}

package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka/consumer"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NewInboxHandler persists notification.requested events as inbox rows. Redelivered events
// keep their notification id, so storing them twice is harmless.
func NewInboxHandler(repo Repository, logger ...*zap.Logger) consumer.Handler {
	log := zap.L().Named("notification.consumer")
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0].Named("notification.consumer")
	}

	return func(ctx context.Context, msg kafkago.Message) error {
		if t := consumer.Header(msg, "event_type"); t != "" && t != events.NotificationRequestedType {
			log.Debug("ignoring foreign event type", zap.String("event_type", t))
			return nil
		}

		var event events.NotificationRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("%w: decode notification event: %v", consumer.ErrPoison, err)
		}
		id, err := uuid.Parse(event.NotificationID)
		if err != nil || event.EmployeeID == "" || event.Message == "" {
			return fmt.Errorf("%w: incomplete notification event %q", consumer.ErrPoison, event.NotificationID)
		}

		createdAt := event.OccurredAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if err := repo.Create(ctx, &Notification{
			ID:         id,
			EmployeeID: event.EmployeeID,
			Message:    event.Message,
			CreatedAt:  createdAt,
		}); err != nil {
			return err
		}

		log.Debug("notification stored",
			zap.String("notification_id", event.NotificationID),
			zap.String("employee_id", event.EmployeeID),
		)
		return nil
	}
}

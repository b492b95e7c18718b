package notification

import (
	"context"
	"encoding/json"
	"time"

	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier queues a message for an employee on the outbox. Delivery is best effort:
// a failed enqueue is logged and never reaches the caller.
type Notifier struct {
	outbox kafka.OutboxRepository
	topic  string
	now    func() time.Time
	newID  func() uuid.UUID
	logger *zap.Logger
}

type NotifierOption func(*Notifier)

func WithTopic(topic string) NotifierOption {
	return func(n *Notifier) {
		if topic != "" {
			n.topic = topic
		}
	}
}

func WithNotifierClock(now func() time.Time) NotifierOption {
	return func(n *Notifier) { n.now = now }
}

func WithIDFunc(fn func() uuid.UUID) NotifierOption {
	return func(n *Notifier) { n.newID = fn }
}

func WithNotifierLogger(l *zap.Logger) NotifierOption {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l.Named("notification.notifier")
		}
	}
}

func NewNotifier(outbox kafka.OutboxRepository, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		outbox: outbox,
		topic:  events.NotificationRequestedTopic,
		now:    time.Now,
		newID:  uuid.New,
		logger: zap.L().Named("notification.notifier"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notifier) Notify(ctx context.Context, employeeID, message string) {
	log := contextutil.GetLogger(ctx, n.logger)
	if employeeID == "" || message == "" {
		log.Warn("notification skipped, empty recipient or message", zap.String("employee_id", employeeID))
		return
	}

	id := n.newID().String()
	payload, err := json.Marshal(events.NotificationRequestedEvent{
		EventType:      events.NotificationRequestedType,
		NotificationID: id,
		EmployeeID:     employeeID,
		Message:        message,
		OccurredAt:     n.now().UTC(),
	})
	if err != nil {
		log.Warn("encode notification event failed", zap.String("employee_id", employeeID), zap.Error(err))
		return
	}

	err = n.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            id,
		AggregateType: "employee",
		AggregateID:   employeeID,
		EventType:     events.NotificationRequestedType,
		Topic:         n.topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		log.Warn("enqueue notification failed",
			zap.String("employee_id", employeeID),
			zap.String("notification_id", id),
			zap.Error(err),
		)
	}
}

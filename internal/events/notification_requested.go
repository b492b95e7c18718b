package events

import "time"

const (
	NotificationRequestedTopic = "hrms.notification.v1"
	NotificationRequestedType  = "notification.requested"
)

type NotificationRequestedEvent struct {
	EventType      string    `json:"event_type"`
	NotificationID string    `json:"notification_id"`
	EmployeeID     string    `json:"employee_id"`
	Message        string    `json:"message"`
	OccurredAt     time.Time `json:"occurred_at"`
}

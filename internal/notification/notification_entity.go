package notification

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID string    `gorm:"type:varchar(64);not null;index:idx_notifications_employee_created,priority:1"`
	Message    string    `gorm:"type:text;not null"`
	Read       bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"not null;index:idx_notifications_employee_created,priority:2,sort:desc"`
}

func (Notification) TableName() string {
	return "notifications"
}

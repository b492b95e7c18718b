package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Log struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Action      string         `gorm:"type:varchar(60);not null;index"`
	TargetID    string         `gorm:"type:varchar(64);not null;index"`
	PerformedBy string         `gorm:"type:varchar(64);not null"`
	Details     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time
}

func (Log) TableName() string {
	return "audit_logs"
}

type Entry struct {
	Action      string
	TargetID    string
	PerformedBy string
	Details     map[string]any
}

// SystemActor is the performer recorded for scheduled jobs.
const SystemActor = "system"

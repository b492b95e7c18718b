package app

import (
	"go-hrms/internal/attendance"
	"go-hrms/internal/audit"
	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/notification"
	"go-hrms/internal/od"
	"go-hrms/internal/overtime"
	"go-hrms/internal/punch"
	"go-hrms/internal/rbac"

	"gorm.io/gorm"
)

const outboxDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id             UUID PRIMARY KEY,
	aggregate_type VARCHAR(64)  NOT NULL,
	aggregate_id   VARCHAR(64)  NOT NULL,
	event_type     VARCHAR(128) NOT NULL,
	topic          VARCHAR(255) NOT NULL,
	payload        JSONB        NOT NULL,
	status         VARCHAR(16)  NOT NULL DEFAULT 'pending',
	retry_count    INT          NOT NULL DEFAULT 0,
	error_message  TEXT,
	next_retry_at  TIMESTAMPTZ,
	processed_at   TIMESTAMPTZ,
	created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_outbox_events_pending ON outbox_events (status, created_at);
`

// Migrate creates or updates every table the binaries use.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&punch.RawPunchEvent{},
		&punch.SyncWatermark{},
		&attendance.Record{},
		&employee.Employee{},
		&leave.Request{},
		&od.Request{},
		&overtime.Claim{},
		&audit.Log{},
		&notification.Notification{},
		&rbac.PolicyRow{},
	); err != nil {
		return err
	}
	return db.Exec(outboxDDL).Error
}

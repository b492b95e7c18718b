package punch

import (
	"time"

	"github.com/google/uuid"
)

const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// RawPunchEvent is one normalized time-clock row waiting to be folded into an attendance record.
type RawPunchEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExternalID string    `gorm:"column:external_id;uniqueIndex:ux_raw_punch_key"`
	Date       time.Time `gorm:"type:date;uniqueIndex:ux_raw_punch_key"`
	Time       string    `gorm:"type:varchar(8);uniqueIndex:ux_raw_punch_key"`
	Direction  string
	Processed  bool `gorm:"index"`
	CreatedAt  time.Time
}

func (RawPunchEvent) TableName() string {
	return "raw_punch_events"
}

func (e RawPunchEvent) key() string {
	return e.ExternalID + "|" + e.Date.Format("2006-01-02") + "|" + e.Time
}

type SyncWatermark struct {
	JobName      string `gorm:"primaryKey"`
	LastSyncedAt time.Time
	UpdatedAt    time.Time
}

func (SyncWatermark) TableName() string {
	return "sync_watermarks"
}

// SourceRow is a row as returned by the time-clock database. LogTime arrives as seconds since
// midnight, a clock string or a timestamp depending on the device firmware.
type SourceRow struct {
	UserID    string
	LogDate   time.Time
	LogTime   any
	Direction string
}

type SyncResult struct {
	Fetched   int       `json:"fetched"`
	Dropped   int       `json:"dropped"`
	Stored    int64     `json:"stored"`
	Watermark time.Time `json:"watermark"`
}

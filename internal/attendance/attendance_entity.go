package attendance

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusHalfDay Status = "HalfDay"
)

type HalfDayPart string

const (
	PartFirst  HalfDayPart = "First"
	PartSecond HalfDayPart = "Second"
)

// Record is the single attendance row of an employee for a calendar day.
type Record struct {
	ID              uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID      string       `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:ux_attendance_employee_date"`
	Date            time.Time    `gorm:"column:date;type:date;not null;uniqueIndex:ux_attendance_employee_date"`
	TimeIn          *string      `gorm:"column:time_in;type:varchar(8)"`
	TimeOut         *string      `gorm:"column:time_out;type:varchar(8)"`
	Status          Status       `gorm:"column:status;type:varchar(10);not null"`
	HalfDayPart     *HalfDayPart `gorm:"column:half_day_part;type:varchar(10)"`
	OvertimeMinutes int          `gorm:"column:overtime_minutes;not null"`
	CreatedAt       time.Time    `gorm:"column:created_at"`
	UpdatedAt       time.Time    `gorm:"column:updated_at"`
}

func (Record) TableName() string {
	return "attendance_records"
}

// Finalized reports whether the day has been closed with a time out.
func (r Record) Finalized() bool {
	return r.TimeOut != nil
}

func (r Record) OvertimeHours() float64 {
	return float64(r.OvertimeMinutes) / 60
}

func (r *Record) apply(o Outcome) {
	r.TimeIn = o.TimeIn
	r.TimeOut = o.TimeOut
	r.Status = o.Status
	r.HalfDayPart = o.HalfDayPart
	r.OvertimeMinutes = o.OvertimeMinutes
}

// Member is an employee as seen by the reconciler: the internal id and the time-clock user id.
type Member struct {
	EmployeeID string
	ExternalID string
}

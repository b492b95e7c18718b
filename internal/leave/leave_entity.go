package leave

import (
	"time"

	"go-hrms/internal/approval"
	"go-hrms/internal/attendance"
	"go-hrms/internal/domain"

	"github.com/google/uuid"
)

type Type string

const (
	TypeCasual            Type = "Casual"
	TypeMedical           Type = "Medical"
	TypeMaternity         Type = "Maternity"
	TypePaternity         Type = "Paternity"
	TypeRestrictedHoliday Type = "Restricted Holidays"
	TypeCompensatory      Type = "Compensatory"
	TypeWithoutPay        Type = "Leave Without Pay"
)

var knownTypes = []Type{
	TypeCasual, TypeMedical, TypeMaternity, TypePaternity,
	TypeRestrictedHoliday, TypeCompensatory, TypeWithoutPay,
}

type Category string

const (
	CategoryPaid   Category = "Paid"
	CategoryUnpaid Category = "Unpaid"
)

func (t Type) Category() Category {
	if t == TypeWithoutPay {
		return CategoryUnpaid
	}
	return CategoryPaid
}

type SpanKind string

const (
	SpanFullDay SpanKind = "FullDay"
	SpanHalfDay SpanKind = "HalfDay"
)

// Request is a leave application. A half-day request has StartDate == EndDate and a Session,
// a full-day request has no Session.
type Request struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID string    `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	Department string    `gorm:"type:varchar(100);not null"`

	LeaveType Type                `gorm:"type:varchar(30);not null;index"`
	Category  Category            `gorm:"type:varchar(10);not null"`
	Span      SpanKind            `gorm:"type:varchar(10);not null;check:chk_leave_requests_span,(span = 'HalfDay' AND session IS NOT NULL AND start_date = end_date) OR (span = 'FullDay' AND session IS NULL)"`
	StartDate time.Time           `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate   time.Time           `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	Session   *attendance.Session `gorm:"type:varchar(10)"`
	Reason    string              `gorm:"type:text"`

	CompensatoryEntryID *string `gorm:"type:varchar(64)"`
	ProjectDetails      *string `gorm:"type:text"`
	RestrictedHoliday   *string `gorm:"type:varchar(100)"`

	Status        approval.Status `gorm:"embedded;embeddedPrefix:status_"`
	CreatedByRole domain.Role     `gorm:"type:varchar(10);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Request) TableName() string {
	return "leave_requests"
}

// Days is the ledger amount of the request: half a day, or the inclusive date span.
func (r Request) Days() float64 {
	if r.Span == SpanHalfDay {
		return 0.5
	}
	return spanDays(r.StartDate, r.EndDate)
}

func spanDays(from, to time.Time) float64 {
	return float64(int(to.Sub(from).Hours()/24) + 1)
}

func (r Request) summary() string {
	if r.Span == SpanHalfDay {
		return string(r.LeaveType) + " " + r.StartDate.Format("2006-01-02") + " " + string(*r.Session)
	}
	return string(r.LeaveType) + " " + r.StartDate.Format("2006-01-02") + " to " + r.EndDate.Format("2006-01-02")
}

func (r Request) subject() approval.Subject {
	return approval.Subject{
		ID:         r.ID.String(),
		Kind:       approval.KindLeave,
		EmployeeID: r.EmployeeID,
		Department: r.Department,
		Status:     r.Status,
		Summary:    r.summary(),
	}
}

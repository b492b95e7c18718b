package od

import (
	"time"

	"go-hrms/internal/approval"
	"go-hrms/internal/domain"

	"github.com/google/uuid"
)

// Request is an off-duty application for time spent away from the workplace on company business.
type Request struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID string    `gorm:"type:uuid;not null;index:idx_od_requests_employee_date"`
	Department string    `gorm:"type:varchar(100);not null"`

	DateOut        time.Time `gorm:"type:date;not null;index:idx_od_requests_employee_date"`
	TimeOut        string    `gorm:"type:varchar(8);not null"`
	DateIn         time.Time `gorm:"type:date;not null"`
	TimeIn         *string   `gorm:"type:varchar(8)"`
	Purpose        string    `gorm:"type:text;not null"`
	PlaceUnitVisit string    `gorm:"type:varchar(200);not null"`

	Status        approval.Status `gorm:"embedded;embeddedPrefix:status_"`
	CreatedByRole domain.Role     `gorm:"type:varchar(10);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Request) TableName() string {
	return "od_requests"
}

func (r Request) subject() approval.Subject {
	return approval.Subject{
		ID:         r.ID.String(),
		Kind:       approval.KindOD,
		EmployeeID: r.EmployeeID,
		Department: r.Department,
		Status:     r.Status,
		Summary:    r.PlaceUnitVisit + " on " + r.DateOut.Format("2006-01-02"),
	}
}

package overtime

import (
	"time"

	"go-hrms/internal/approval"
	"go-hrms/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ClaimType string

const (
	ClaimFull    ClaimType = "Full"
	ClaimPartial ClaimType = "Partial"
)

// Claim is an overtime claim against the attendance record of one work date.
type Claim struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID string    `gorm:"type:uuid;not null;uniqueIndex:uq_ot_claims_employee_date"`
	Department string    `gorm:"type:varchar(100);not null"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:uq_ot_claims_employee_date"`

	Hours              decimal.Decimal  `gorm:"type:numeric(5,2);not null"`
	ClaimType          *ClaimType       `gorm:"type:varchar(10)"`
	CompensatoryHours  int              `gorm:"not null;default:0"`
	PaymentAmount      *decimal.Decimal `gorm:"type:numeric(12,2)"`
	ProjectName        string           `gorm:"type:varchar(200);not null"`
	Description        string           `gorm:"type:text"`
	AttendanceRecordID *uuid.UUID       `gorm:"type:uuid"`

	Status        approval.Status `gorm:"embedded;embeddedPrefix:status_"`
	CreatedByRole domain.Role     `gorm:"type:varchar(10);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Claim) TableName() string {
	return "ot_claims"
}

func (c Claim) subject() approval.Subject {
	return approval.Subject{
		ID:         c.ID.String(),
		Kind:       approval.KindOT,
		EmployeeID: c.EmployeeID,
		Department: c.Department,
		Status:     c.Status,
		Summary:    c.Hours.String() + "h on " + c.Date.Format("2006-01-02"),
	}
}

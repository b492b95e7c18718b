package employee

import (
	"time"

	"go-hrms/internal/balance"
	"go-hrms/internal/domain"

	"github.com/google/uuid"
)

type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExternalID string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_employees_external_id"`
	Email      string    `gorm:"type:varchar(200);not null;uniqueIndex:uq_employees_email"`

	FullName     string        `gorm:"type:varchar(200);not null"`
	MobileNumber string        `gorm:"type:varchar(20)"`
	Gender       domain.Gender `gorm:"type:varchar(10);not null"`

	Role          domain.Role         `gorm:"type:varchar(10);not null;index:idx_employees_role_department"`
	Department    string              `gorm:"type:varchar(100);not null;index:idx_employees_role_department"`
	Designation   string              `gorm:"type:varchar(100)"`
	EmployeeType  domain.EmployeeType `gorm:"type:varchar(20);not null"`
	DateOfJoining time.Time           `gorm:"type:date;not null"`

	PANNumber         string `gorm:"column:pan_number;type:varchar(20)"`
	UANNumber         string `gorm:"column:uan_number;type:varchar(20)"`
	PaymentType       string `gorm:"type:varchar(20)"`
	BankAccountNumber string `gorm:"type:varchar(30)"`
	ProfilePicture    string `gorm:"type:varchar(300)"`

	Active bool `gorm:"not null;default:true;index"`

	BasicInfoLocked bool `gorm:"not null;default:true"`
	PositionLocked  bool `gorm:"not null;default:true"`
	StatutoryLocked bool `gorm:"not null;default:true"`
	PaymentLocked   bool `gorm:"not null;default:true"`
	DocumentsLocked bool `gorm:"not null;default:true"`

	Account balance.Account `gorm:"embedded;embeddedPrefix:leave_"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string {
	return "employees"
}

func (e Employee) profile() balance.Profile {
	return balance.Profile{EmployeeType: e.EmployeeType, DateOfJoining: e.DateOfJoining}
}

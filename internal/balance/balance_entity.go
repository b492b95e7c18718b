package balance

import (
	"time"

	"gorm.io/datatypes"
)

type EntryStatus string

const (
	EntryAvailable EntryStatus = "Available"
	EntryClaimed   EntryStatus = "Claimed"
)

// CompensatoryEntry is a banked 4 or 8 hour credit earned from approved overtime.
type CompensatoryEntry struct {
	ID     string      `json:"id"`
	Date   time.Time   `json:"date"`
	Hours  int         `json:"hours"`
	Status EntryStatus `json:"status"`
}

// Account is embedded in the employee row with the "leave_" column prefix.
type Account struct {
	Paid               float64 `gorm:"type:numeric(5,1);not null;default:0"`
	Medical            float64 `gorm:"type:numeric(5,1);not null;default:0"`
	RestrictedHolidays int     `gorm:"not null;default:0"`
	MaternityClaims    int     `gorm:"not null;default:0"`
	PaternityClaims    int     `gorm:"not null;default:0"`
	UnpaidTaken        float64 `gorm:"type:numeric(6,1);not null;default:0"`

	Compensatory datatypes.JSONSlice[CompensatoryEntry] `gorm:"type:jsonb"`

	LastPaidReset    *time.Time
	LastMonthlyReset *time.Time
	LastMedicalReset *time.Time
	LastRHReset      *time.Time
	LastCompReset    *time.Time

	// calendar years in which the once-per-year leave types were last granted
	MedicalClaimYear int `gorm:"not null;default:0"`
	RHClaimYear      int `gorm:"not null;default:0"`
}

func (a Account) FindEntry(id string) (CompensatoryEntry, bool) {
	for _, e := range a.Compensatory {
		if e.ID == id {
			return e, true
		}
	}
	return CompensatoryEntry{}, false
}

func (a Account) AvailableCompensatoryHours() int {
	total := 0
	for _, e := range a.Compensatory {
		if e.Status == EntryAvailable {
			total += e.Hours
		}
	}
	return total
}

func (a Account) clone() Account {
	c := a
	c.Compensatory = append(datatypes.JSONSlice[CompensatoryEntry](nil), a.Compensatory...)
	return c
}

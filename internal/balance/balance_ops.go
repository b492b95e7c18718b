package balance

import (
	"math"
	"time"

	balanceerrors "go-hrms/internal/balance/errors"

	"github.com/google/uuid"
)

const (
	maxMaternityClaims = 2
	maxPaternityClaims = 2
)

type OpKind string

const (
	OpDeductPaid              OpKind = "DEDUCT_PAID"
	OpDeductMedical           OpKind = "DEDUCT_MEDICAL"
	OpDeductRestrictedHoliday OpKind = "DEDUCT_RESTRICTED_HOLIDAY"
	OpRecordMaternityClaim    OpKind = "RECORD_MATERNITY_CLAIM"
	OpRecordPaternityClaim    OpKind = "RECORD_PATERNITY_CLAIM"
	OpAddCompensatory         OpKind = "ADD_COMPENSATORY"
	OpDeductCompensatory      OpKind = "DEDUCT_COMPENSATORY"
	OpIncrementUnpaid         OpKind = "INCREMENT_UNPAID"
)

// Operation names one atomic mutation of an Account.
type Operation struct {
	Kind    OpKind
	Days    float64
	Date    time.Time
	Hours   int
	EntryID string
}

func DeductPaid(days float64) Operation {
	return Operation{Kind: OpDeductPaid, Days: days}
}

func DeductMedical(days float64) Operation {
	return Operation{Kind: OpDeductMedical, Days: days}
}

func DeductRestrictedHoliday() Operation {
	return Operation{Kind: OpDeductRestrictedHoliday, Days: 1}
}

func RecordMaternityClaim() Operation {
	return Operation{Kind: OpRecordMaternityClaim}
}

func RecordPaternityClaim() Operation {
	return Operation{Kind: OpRecordPaternityClaim}
}

func AddCompensatory(date time.Time, hours int) Operation {
	return Operation{Kind: OpAddCompensatory, Date: date, Hours: hours}
}

func DeductCompensatory(entryID string) Operation {
	return Operation{Kind: OpDeductCompensatory, EntryID: entryID}
}

func IncrementUnpaid(days float64) Operation {
	return Operation{Kind: OpIncrementUnpaid, Days: days}
}

// ApplyTo mutates a only when the whole operation succeeds.
func (op Operation) ApplyTo(a *Account, now time.Time) error {
	switch op.Kind {
	case OpDeductPaid:
		return a.DeductPaid(op.Days)
	case OpDeductMedical:
		return a.DeductMedical(op.Days, now)
	case OpDeductRestrictedHoliday:
		return a.DeductRestrictedHoliday(now)
	case OpRecordMaternityClaim:
		return a.RecordMaternityClaim()
	case OpRecordPaternityClaim:
		return a.RecordPaternityClaim()
	case OpAddCompensatory:
		_, err := a.AddCompensatory(op.Date, op.Hours)
		return err
	case OpDeductCompensatory:
		return a.DeductCompensatory(op.EntryID)
	case OpIncrementUnpaid:
		return a.IncrementUnpaid(op.Days)
	default:
		return balanceerrors.ErrUnknownOperation
	}
}

func validDays(days float64) bool {
	return days > 0 && math.Mod(days*2, 1) == 0
}

func (a *Account) DeductPaid(days float64) error {
	if !validDays(days) {
		return balanceerrors.ErrInvalidDays
	}
	if a.Paid-days < 0 {
		return balanceerrors.ErrInsufficientPaid
	}
	a.Paid -= days
	return nil
}

func (a *Account) DeductMedical(days float64, now time.Time) error {
	if !validDays(days) {
		return balanceerrors.ErrInvalidDays
	}
	if a.Medical-days < 0 {
		return balanceerrors.ErrInsufficientMedical
	}
	a.Medical -= days
	a.MedicalClaimYear = now.UTC().Year()
	return nil
}

func (a *Account) DeductRestrictedHoliday(now time.Time) error {
	if a.RestrictedHolidays < 1 {
		return balanceerrors.ErrInsufficientRestrictedHoliday
	}
	a.RestrictedHolidays--
	a.RHClaimYear = now.UTC().Year()
	return nil
}

func (a *Account) RecordMaternityClaim() error {
	if a.MaternityClaims >= maxMaternityClaims {
		return balanceerrors.ErrMaternityLimitReached
	}
	a.MaternityClaims++
	return nil
}

func (a *Account) RecordPaternityClaim() error {
	if a.PaternityClaims >= maxPaternityClaims {
		return balanceerrors.ErrPaternityLimitReached
	}
	a.PaternityClaims++
	return nil
}

func (a *Account) AddCompensatory(date time.Time, hours int) (CompensatoryEntry, error) {
	if hours != 4 && hours != 8 {
		return CompensatoryEntry{}, balanceerrors.ErrInvalidCompensatoryHours
	}
	entry := CompensatoryEntry{
		ID:     uuid.NewString(),
		Date:   date,
		Hours:  hours,
		Status: EntryAvailable,
	}
	a.Compensatory = append(a.Compensatory, entry)
	return entry, nil
}

// DeductCompensatory claims the entry and refunds half a paid day for 4 hours, a full day for 8.
func (a *Account) DeductCompensatory(entryID string) error {
	idx := -1
	for i, e := range a.Compensatory {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return balanceerrors.ErrCompensatoryEntryNotFound
	}
	entry := a.Compensatory[idx]
	if entry.Status != EntryAvailable {
		return balanceerrors.ErrCompensatoryEntryNotAvailable
	}

	refund := 0.5
	if entry.Hours == 8 {
		refund = 1
	}
	a.Compensatory[idx].Status = EntryClaimed
	a.Paid += refund
	return nil
}

func (a *Account) IncrementUnpaid(days float64) error {
	if !validDays(days) {
		return balanceerrors.ErrInvalidDays
	}
	a.UnpaidTaken += days
	return nil
}

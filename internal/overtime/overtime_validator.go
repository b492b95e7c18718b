package overtime

import (
	"strings"
	"time"

	"go-hrms/internal/attendance"
	overtimeerrors "go-hrms/internal/overtime/errors"

	"github.com/shopspring/decimal"
)

const (
	minTrackedMinutes = 60
	halfBlockHours    = 4
	fullBlockHours    = 8
)

var (
	maxClaimHours = decimal.NewFromInt(24)
	otMultiplier  = decimal.NewFromFloat(1.5)
)

// Policy holds the organisation-wide OT settings.
type Policy struct {
	EligibleDepartments []string
	BaseRate            decimal.Decimal
	Location            *time.Location
}

// Eligible reports whether the department tracks overtime on every working day.
func (p Policy) Eligible(department string) bool {
	for _, d := range p.EligibleDepartments {
		if strings.EqualFold(strings.TrimSpace(d), strings.TrimSpace(department)) {
			return true
		}
	}
	return false
}

// Draft is a parsed claim submission.
type Draft struct {
	Date      time.Time
	Hours     decimal.Decimal
	ClaimType *ClaimType
}

// Assessment is what a valid claim is worth.
type Assessment struct {
	ClaimType         *ClaimType
	CompensatoryHours int
	PaymentAmount     *decimal.Decimal
}

// Validate checks a claim against the employee's recorded overtime for the work date.
// record may be nil when no attendance exists for that date.
func (p Policy) Validate(d Draft, department string, record *attendance.Record, now time.Time) (Assessment, error) {
	if !d.Hours.IsPositive() || d.Hours.GreaterThan(maxClaimHours) {
		return Assessment{}, overtimeerrors.ErrInvalidHours
	}
	if now.After(attendance.ClaimDeadline(d.Date, p.Location)) {
		return Assessment{}, overtimeerrors.ErrClaimDeadlinePassed
	}
	if record == nil || record.OvertimeMinutes <= 0 {
		return Assessment{}, overtimeerrors.ErrNoRecordedOvertime
	}
	recorded := decimal.NewFromInt(int64(record.OvertimeMinutes)).Div(decimal.NewFromInt(60)).Round(2)
	if d.Hours.GreaterThan(recorded) {
		return Assessment{}, overtimeerrors.ErrHoursExceedRecorded
	}

	if p.Eligible(department) {
		return p.assessEligible(d, record.OvertimeMinutes, recorded)
	}
	return assessSundayOnly(d)
}

func (p Policy) assessEligible(d Draft, minutes int, recorded decimal.Decimal) (Assessment, error) {
	if minutes < minTrackedMinutes {
		return Assessment{}, overtimeerrors.ErrNoRecordedOvertime
	}
	overHalf := recorded.GreaterThan(decimal.NewFromInt(halfBlockHours))
	if overHalf && d.ClaimType == nil {
		return Assessment{}, overtimeerrors.ErrClaimTypeRequired
	}

	claimType := ClaimFull
	if d.ClaimType != nil {
		claimType = *d.ClaimType
	}
	a := Assessment{ClaimType: &claimType}

	switch claimType {
	case ClaimPartial:
		if !overHalf {
			return Assessment{}, overtimeerrors.ErrPartialNotAllowed
		}
		carve := halfBlockHours
		if recorded.GreaterThanOrEqual(decimal.NewFromInt(fullBlockHours)) {
			carve = fullBlockHours
		}
		if !d.Hours.Equal(recorded.Sub(decimal.NewFromInt(int64(carve)))) {
			return Assessment{}, overtimeerrors.ErrPartialHoursMismatch
		}
		a.CompensatoryHours = carve
	case ClaimFull:
	default:
		return Assessment{}, overtimeerrors.ErrInvalidClaimType
	}

	payment := d.Hours.Mul(p.BaseRate).Mul(otMultiplier).Round(2)
	a.PaymentAmount = &payment
	return a, nil
}

func assessSundayOnly(d Draft) (Assessment, error) {
	if d.Date.Weekday() != time.Sunday {
		return Assessment{}, overtimeerrors.ErrSundayOnly
	}
	if d.Hours.LessThan(decimal.NewFromInt(halfBlockHours)) {
		return Assessment{}, overtimeerrors.ErrMinimumHours
	}
	comp := halfBlockHours
	if d.Hours.GreaterThanOrEqual(decimal.NewFromInt(fullBlockHours)) {
		comp = fullBlockHours
	}
	return Assessment{CompensatoryHours: comp}, nil
}

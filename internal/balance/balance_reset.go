package balance

import (
	"time"

	balanceerrors "go-hrms/internal/balance/errors"
	"go-hrms/internal/domain"
)

const (
	yearlyPaidDays       = 12
	yearlyMedicalDays    = 7
	yearlyRestrictedDays = 1
	compensatoryLifetime = 6 // months
)

// Profile carries the employee attributes that drive accrual.
type Profile struct {
	EmployeeType  domain.EmployeeType
	DateOfJoining time.Time
}

func firstOfYear(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

func firstOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

// Initialize builds the opening account of a new employee.
// Confirmed staff get the remainder of the year, counting the joining month.
func Initialize(p Profile, now time.Time) (Account, error) {
	now = now.UTC()
	a := Account{
		Medical:            yearlyMedicalDays,
		RestrictedHolidays: yearlyRestrictedDays,
		LastMedicalReset:   ptr(firstOfYear(now)),
		LastRHReset:        ptr(firstOfYear(now)),
		LastCompReset:      ptr(firstOfMonth(now)),
	}

	switch {
	case p.EmployeeType == domain.EmployeeConfirmed:
		if p.DateOfJoining.IsZero() {
			return Account{}, balanceerrors.ErrInvalidDateOfJoining
		}
		a.Paid = float64(yearlyPaidDays - (int(p.DateOfJoining.UTC().Month()) - 1))
		a.LastPaidReset = ptr(firstOfYear(now))
	case p.EmployeeType.AccruesMonthly():
		a.Paid = 1
		a.LastMonthlyReset = ptr(firstOfMonth(now))
	}

	return a, nil
}

func newYear(last *time.Time, now time.Time) bool {
	return last == nil || last.UTC().Year() < now.Year()
}

func newMonth(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	l := last.UTC()
	return l.Year() < now.Year() || (l.Year() == now.Year() && l.Month() < now.Month())
}

// Reset applies every period boundary crossed since the stored checkpoints.
// Calling it again within the same period changes nothing.
func Reset(a *Account, p Profile, now time.Time) bool {
	now = now.UTC()
	changed := false

	if a.LastCompReset != nil && !now.Before(a.LastCompReset.UTC().AddDate(0, compensatoryLifetime, 0)) {
		kept := a.Compensatory[:0:0]
		for _, e := range a.Compensatory {
			if e.Status != EntryAvailable {
				kept = append(kept, e)
			}
		}
		a.Compensatory = kept
		a.LastCompReset = ptr(firstOfMonth(now))
		changed = true
	}

	switch {
	case p.EmployeeType == domain.EmployeeConfirmed:
		if newYear(a.LastPaidReset, now) {
			a.Paid = yearlyPaidDays
			a.LastPaidReset = ptr(firstOfYear(now))
			changed = true
		}
	case p.EmployeeType.AccruesMonthly():
		if newMonth(a.LastMonthlyReset, now) {
			a.Paid++
			a.LastMonthlyReset = ptr(firstOfMonth(now))
			changed = true
		}
	}

	if newYear(a.LastMedicalReset, now) {
		a.Medical = yearlyMedicalDays
		a.LastMedicalReset = ptr(firstOfYear(now))
		changed = true
	}

	if newYear(a.LastRHReset, now) {
		a.RestrictedHolidays = yearlyRestrictedDays
		a.LastRHReset = ptr(firstOfYear(now))
		changed = true
	}

	return changed
}

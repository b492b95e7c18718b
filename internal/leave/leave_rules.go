package leave

import (
	"strings"
	"time"

	"go-hrms/internal/attendance"
	"go-hrms/internal/balance"
	"go-hrms/internal/domain"
	leaveerrors "go-hrms/internal/leave/errors"
)

const (
	maxConsecutivePaidDays = 3
	maternityDays          = 90
	paternityDays          = 7
	maxParentalClaims      = 2
)

// Draft is a parsed and span-checked leave application.
type Draft struct {
	Type                Type
	Span                SpanKind
	Start               time.Time
	End                 time.Time
	Session             *attendance.Session
	CompensatoryEntryID string
	ProjectDetails      string
	RestrictedHoliday   string
}

func (d Draft) Days() float64 {
	if d.Span == SpanHalfDay {
		return 0.5
	}
	return spanDays(d.Start, d.End)
}

// Applicant is the employee a leave is requested for, with the account as of now.
type Applicant struct {
	EmployeeID    string
	Department    string
	Gender        domain.Gender
	EmployeeType  domain.EmployeeType
	DateOfJoining time.Time
	Account       balance.Account
}

// History holds what earlier requests of the applicant contribute to the rules.
type History struct {
	AdjacentPaidDays          float64
	MedicalApprovedThisYear   bool
	RestrictedHolidayThisYear bool
}

func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "Leave Without Pay(LWP)" || strings.EqualFold(s, "LWP") {
		return TypeWithoutPay, nil
	}
	for _, t := range knownTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", leaveerrors.ErrUnknownLeaveType
}

func parseSession(s string) (attendance.Session, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forenoon":
		return attendance.SessionForenoon, nil
	case "afternoon":
		return attendance.SessionAfternoon, nil
	}
	return "", leaveerrors.ErrInvalidSession
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// ParseDraft enforces that exactly one of half day and full day is given.
func ParseDraft(req CreateLeaveRequest) (Draft, error) {
	t, err := ParseType(req.LeaveType)
	if err != nil {
		return Draft{}, err
	}
	d := Draft{
		Type:                t,
		CompensatoryEntryID: strings.TrimSpace(req.CompensatoryEntryID),
		ProjectDetails:      strings.TrimSpace(req.ProjectDetails),
		RestrictedHoliday:   strings.TrimSpace(req.RestrictedHoliday),
	}

	switch {
	case req.HalfDay != nil && req.FullDay != nil:
		return Draft{}, leaveerrors.ErrSpanAmbiguous
	case req.HalfDay != nil:
		day, err := parseDate(req.HalfDay.Date)
		if err != nil {
			return Draft{}, err
		}
		session, err := parseSession(req.HalfDay.Session)
		if err != nil {
			return Draft{}, err
		}
		d.Span, d.Start, d.End, d.Session = SpanHalfDay, day, day, &session
	case req.FullDay != nil:
		from, err := parseDate(req.FullDay.From)
		if err != nil {
			return Draft{}, err
		}
		to, err := parseDate(req.FullDay.To)
		if err != nil {
			return Draft{}, err
		}
		if from.After(to) {
			return Draft{}, leaveerrors.ErrInvalidDateRange
		}
		d.Span, d.Start, d.End = SpanFullDay, from, to
	default:
		return Draft{}, leaveerrors.ErrSpanRequired
	}
	return d, nil
}

func completedYearOfService(joined, now time.Time) bool {
	return !joined.IsZero() && !joined.AddDate(1, 0, 0).After(now)
}

// Check applies the per-type eligibility rules. The account must already reflect period resets.
func Check(d Draft, a Applicant, h History, now time.Time) error {
	days := d.Days()
	year := now.UTC().Year()
	confirmed := a.EmployeeType == domain.EmployeeConfirmed
	acc := a.Account

	switch d.Type {
	case TypeCasual:
		if days+h.AdjacentPaidDays > maxConsecutivePaidDays {
			return leaveerrors.ErrConsecutivePaidLeave
		}
		if acc.Paid < days {
			return leaveerrors.ErrInsufficientCasual
		}

	case TypeMedical:
		if !confirmed {
			return leaveerrors.ErrConfirmedOnly
		}
		if days != 3 && days != 4 {
			return leaveerrors.ErrMedicalDuration
		}
		if acc.Medical < days || acc.MedicalClaimYear == year || h.MedicalApprovedThisYear {
			return leaveerrors.ErrMedicalUnavailable
		}

	case TypeMaternity, TypePaternity:
		want, gender, claims := float64(maternityDays), domain.GenderFemale, acc.MaternityClaims
		durationErr := leaveerrors.ErrMaternityDuration
		if d.Type == TypePaternity {
			want, gender, claims = paternityDays, domain.GenderMale, acc.PaternityClaims
			durationErr = leaveerrors.ErrPaternityDuration
		}
		if !confirmed {
			return leaveerrors.ErrConfirmedOnly
		}
		if a.Gender != gender {
			return leaveerrors.ErrGenderMismatch
		}
		if !completedYearOfService(a.DateOfJoining, now) {
			return leaveerrors.ErrServiceTooShort
		}
		if days != want {
			return durationErr
		}
		if claims >= maxParentalClaims {
			return leaveerrors.ErrClaimLimitReached
		}

	case TypeRestrictedHoliday:
		if d.Span != SpanFullDay || days != 1 {
			return leaveerrors.ErrRestrictedHolidayDuration
		}
		if acc.RestrictedHolidays < 1 || acc.RHClaimYear == year || h.RestrictedHolidayThisYear {
			return leaveerrors.ErrRestrictedHolidayUsed
		}
		if days+h.AdjacentPaidDays > maxConsecutivePaidDays {
			return leaveerrors.ErrConsecutivePaidLeave
		}
		if d.RestrictedHoliday == "" {
			return leaveerrors.ErrRestrictedHolidayRequired
		}

	case TypeCompensatory:
		if d.CompensatoryEntryID == "" || d.ProjectDetails == "" {
			return leaveerrors.ErrCompensatoryDetailsRequired
		}
		entry, ok := acc.FindEntry(d.CompensatoryEntryID)
		if !ok || entry.Status != balance.EntryAvailable {
			return leaveerrors.ErrCompensatoryEntryUnavailable
		}
		need := 8
		if d.Span == SpanHalfDay {
			need = 4
		}
		if days > 1 || entry.Hours != need {
			return leaveerrors.ErrCompensatoryHoursMismatch
		}

	case TypeWithoutPay:
	default:
		return leaveerrors.ErrUnknownLeaveType
	}
	return nil
}

// LedgerOperation is the balance mutation applied when the request is finally approved.
func LedgerOperation(r Request) (balance.Operation, error) {
	days := r.Days()
	switch r.LeaveType {
	case TypeCasual:
		return balance.DeductPaid(days), nil
	case TypeMedical:
		return balance.DeductMedical(days), nil
	case TypeRestrictedHoliday:
		return balance.DeductRestrictedHoliday(), nil
	case TypeMaternity:
		return balance.RecordMaternityClaim(), nil
	case TypePaternity:
		return balance.RecordPaternityClaim(), nil
	case TypeCompensatory:
		if r.CompensatoryEntryID == nil {
			return balance.Operation{}, leaveerrors.ErrCompensatoryDetailsRequired
		}
		return balance.DeductCompensatory(*r.CompensatoryEntryID), nil
	case TypeWithoutPay:
		return balance.IncrementUnpaid(days), nil
	}
	return balance.Operation{}, leaveerrors.ErrUnknownLeaveType
}

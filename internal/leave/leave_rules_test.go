package leave_test

import (
	"testing"
	"time"

	"go-hrms/internal/attendance"
	"go-hrms/internal/balance"
	"go-hrms/internal/domain"
	"go-hrms/internal/leave"
	leaveerrors "go-hrms/internal/leave/errors"

	"github.com/stretchr/testify/assert"
)

var rulesNow = time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func fullDay(t leave.Type, from, to string) leave.Draft {
	return leave.Draft{Type: t, Span: leave.SpanFullDay, Start: day(from), End: day(to)}
}

func halfDay(t leave.Type, date string, session attendance.Session) leave.Draft {
	return leave.Draft{Type: t, Span: leave.SpanHalfDay, Start: day(date), End: day(date), Session: &session}
}

func confirmedApplicant(gender domain.Gender) leave.Applicant {
	return leave.Applicant{
		EmployeeID:    "emp-1",
		Department:    "Engineering",
		Gender:        gender,
		EmployeeType:  domain.EmployeeConfirmed,
		DateOfJoining: day("2023-01-15"),
		Account: balance.Account{
			Paid:               5,
			Medical:            7,
			RestrictedHolidays: 1,
			Compensatory: []balance.CompensatoryEntry{
				{ID: "c4", Hours: 4, Status: balance.EntryAvailable},
				{ID: "c8", Hours: 8, Status: balance.EntryAvailable},
				{ID: "used", Hours: 8, Status: balance.EntryClaimed},
			},
		},
	}
}

func TestParseDraft(t *testing.T) {
	t.Run("half day", func(t *testing.T) {
		d, err := leave.ParseDraft(leave.CreateLeaveRequest{
			LeaveType: "casual",
			HalfDay:   &leave.HalfDaySpan{Date: "2026-06-12", Session: "forenoon"},
		})
		assert.NoError(t, err)
		assert.Equal(t, leave.TypeCasual, d.Type)
		assert.Equal(t, leave.SpanHalfDay, d.Span)
		assert.Equal(t, attendance.SessionForenoon, *d.Session)
		assert.Equal(t, 0.5, d.Days())
	})

	t.Run("full day counts inclusive", func(t *testing.T) {
		d, err := leave.ParseDraft(leave.CreateLeaveRequest{
			LeaveType: "Leave Without Pay(LWP)",
			FullDay:   &leave.FullDaySpan{From: "2026-06-12", To: "2026-06-14"},
		})
		assert.NoError(t, err)
		assert.Equal(t, leave.TypeWithoutPay, d.Type)
		assert.Equal(t, 3.0, d.Days())
		assert.Nil(t, d.Session)
	})

	t.Run("both spans rejected", func(t *testing.T) {
		_, err := leave.ParseDraft(leave.CreateLeaveRequest{
			LeaveType: "Casual",
			HalfDay:   &leave.HalfDaySpan{Date: "2026-06-12", Session: "Forenoon"},
			FullDay:   &leave.FullDaySpan{From: "2026-06-12", To: "2026-06-12"},
		})
		assert.ErrorIs(t, err, leaveerrors.ErrSpanAmbiguous)
	})

	t.Run("no span", func(t *testing.T) {
		_, err := leave.ParseDraft(leave.CreateLeaveRequest{LeaveType: "Casual"})
		assert.ErrorIs(t, err, leaveerrors.ErrSpanRequired)
	})

	t.Run("reversed range", func(t *testing.T) {
		_, err := leave.ParseDraft(leave.CreateLeaveRequest{
			LeaveType: "Casual",
			FullDay:   &leave.FullDaySpan{From: "2026-06-14", To: "2026-06-12"},
		})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := leave.ParseDraft(leave.CreateLeaveRequest{LeaveType: "Sabbatical"})
		assert.ErrorIs(t, err, leaveerrors.ErrUnknownLeaveType)
	})
}

func TestCheck(t *testing.T) {
	female := confirmedApplicant(domain.GenderFemale)
	male := confirmedApplicant(domain.GenderMale)

	intern := confirmedApplicant(domain.GenderMale)
	intern.EmployeeType = domain.EmployeeIntern

	junior := confirmedApplicant(domain.GenderFemale)
	junior.DateOfJoining = day("2025-09-01")

	lowPaid := confirmedApplicant(domain.GenderMale)
	lowPaid.Account.Paid = 1

	medicalTaken := confirmedApplicant(domain.GenderMale)
	medicalTaken.Account.MedicalClaimYear = 2026

	tests := []struct {
		name    string
		draft   leave.Draft
		who     leave.Applicant
		history leave.History
		wantErr error
	}{
		{"casual within balance", fullDay(leave.TypeCasual, "2026-06-15", "2026-06-16"), male, leave.History{}, nil},
		{"casual over three consecutive", fullDay(leave.TypeCasual, "2026-06-15", "2026-06-18"), male, leave.History{}, leaveerrors.ErrConsecutivePaidLeave},
		{"casual adjacent to earlier leave", fullDay(leave.TypeCasual, "2026-06-15", "2026-06-16"), male, leave.History{AdjacentPaidDays: 2}, leaveerrors.ErrConsecutivePaidLeave},
		{"casual insufficient", fullDay(leave.TypeCasual, "2026-06-15", "2026-06-16"), lowPaid, leave.History{}, leaveerrors.ErrInsufficientCasual},
		{"casual half day on low balance", halfDay(leave.TypeCasual, "2026-06-15", attendance.SessionAfternoon), lowPaid, leave.History{}, nil},

		{"medical three days", fullDay(leave.TypeMedical, "2026-06-15", "2026-06-17"), male, leave.History{}, nil},
		{"medical two days", fullDay(leave.TypeMedical, "2026-06-15", "2026-06-16"), male, leave.History{}, leaveerrors.ErrMedicalDuration},
		{"medical for intern", fullDay(leave.TypeMedical, "2026-06-15", "2026-06-17"), intern, leave.History{}, leaveerrors.ErrConfirmedOnly},
		{"medical already claimed", fullDay(leave.TypeMedical, "2026-06-15", "2026-06-17"), medicalTaken, leave.History{}, leaveerrors.ErrMedicalUnavailable},
		{"medical approved earlier", fullDay(leave.TypeMedical, "2026-06-15", "2026-06-18"), male, leave.History{MedicalApprovedThisYear: true}, leaveerrors.ErrMedicalUnavailable},

		{"maternity", fullDay(leave.TypeMaternity, "2026-07-01", "2026-09-28"), female, leave.History{}, nil},
		{"maternity for male", fullDay(leave.TypeMaternity, "2026-07-01", "2026-09-28"), male, leave.History{}, leaveerrors.ErrGenderMismatch},
		{"maternity before a year", fullDay(leave.TypeMaternity, "2026-07-01", "2026-09-28"), junior, leave.History{}, leaveerrors.ErrServiceTooShort},
		{"maternity wrong length", fullDay(leave.TypeMaternity, "2026-07-01", "2026-07-30"), female, leave.History{}, leaveerrors.ErrMaternityDuration},
		{"paternity", fullDay(leave.TypePaternity, "2026-07-01", "2026-07-07"), male, leave.History{}, nil},
		{"paternity wrong length", fullDay(leave.TypePaternity, "2026-07-01", "2026-07-03"), male, leave.History{}, leaveerrors.ErrPaternityDuration},

		{"restricted holiday", leave.Draft{Type: leave.TypeRestrictedHoliday, Span: leave.SpanFullDay, Start: day("2026-08-19"), End: day("2026-08-19"), RestrictedHoliday: "Raksha Bandhan"}, male, leave.History{}, nil},
		{"restricted holiday unnamed", fullDay(leave.TypeRestrictedHoliday, "2026-08-19", "2026-08-19"), male, leave.History{}, leaveerrors.ErrRestrictedHolidayRequired},
		{"restricted holiday two days", fullDay(leave.TypeRestrictedHoliday, "2026-08-19", "2026-08-20"), male, leave.History{}, leaveerrors.ErrRestrictedHolidayDuration},
		{"restricted holiday requested this year", fullDay(leave.TypeRestrictedHoliday, "2026-08-19", "2026-08-19"), male, leave.History{RestrictedHolidayThisYear: true}, leaveerrors.ErrRestrictedHolidayUsed},

		{"compensatory half day with 4h entry", leave.Draft{Type: leave.TypeCompensatory, Span: leave.SpanHalfDay, Start: day("2026-06-15"), End: day("2026-06-15"), CompensatoryEntryID: "c4", ProjectDetails: "release"}, male, leave.History{}, nil},
		{"compensatory full day with 4h entry", leave.Draft{Type: leave.TypeCompensatory, Span: leave.SpanFullDay, Start: day("2026-06-15"), End: day("2026-06-15"), CompensatoryEntryID: "c4", ProjectDetails: "release"}, male, leave.History{}, leaveerrors.ErrCompensatoryHoursMismatch},
		{"compensatory claimed entry", leave.Draft{Type: leave.TypeCompensatory, Span: leave.SpanFullDay, Start: day("2026-06-15"), End: day("2026-06-15"), CompensatoryEntryID: "used", ProjectDetails: "release"}, male, leave.History{}, leaveerrors.ErrCompensatoryEntryUnavailable},
		{"compensatory without project", leave.Draft{Type: leave.TypeCompensatory, Span: leave.SpanFullDay, Start: day("2026-06-15"), End: day("2026-06-15"), CompensatoryEntryID: "c8"}, male, leave.History{}, leaveerrors.ErrCompensatoryDetailsRequired},

		{"without pay always allowed", fullDay(leave.TypeWithoutPay, "2026-06-15", "2026-06-30"), intern, leave.History{}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := leave.Check(tc.draft, tc.who, tc.history, rulesNow)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestLedgerOperation(t *testing.T) {
	entry := "c8"
	session := attendance.SessionForenoon

	tests := []struct {
		name string
		req  leave.Request
		want balance.Operation
	}{
		{"casual", leave.Request{LeaveType: leave.TypeCasual, Span: leave.SpanFullDay, StartDate: day("2026-06-15"), EndDate: day("2026-06-16")}, balance.DeductPaid(2)},
		{"half day casual", leave.Request{LeaveType: leave.TypeCasual, Span: leave.SpanHalfDay, StartDate: day("2026-06-15"), EndDate: day("2026-06-15"), Session: &session}, balance.DeductPaid(0.5)},
		{"medical", leave.Request{LeaveType: leave.TypeMedical, Span: leave.SpanFullDay, StartDate: day("2026-06-15"), EndDate: day("2026-06-18")}, balance.DeductMedical(4)},
		{"restricted holiday", leave.Request{LeaveType: leave.TypeRestrictedHoliday, Span: leave.SpanFullDay, StartDate: day("2026-08-19"), EndDate: day("2026-08-19")}, balance.DeductRestrictedHoliday()},
		{"maternity", leave.Request{LeaveType: leave.TypeMaternity, Span: leave.SpanFullDay, StartDate: day("2026-07-01"), EndDate: day("2026-09-28")}, balance.RecordMaternityClaim()},
		{"paternity", leave.Request{LeaveType: leave.TypePaternity, Span: leave.SpanFullDay, StartDate: day("2026-07-01"), EndDate: day("2026-07-07")}, balance.RecordPaternityClaim()},
		{"compensatory", leave.Request{LeaveType: leave.TypeCompensatory, Span: leave.SpanFullDay, StartDate: day("2026-06-15"), EndDate: day("2026-06-15"), CompensatoryEntryID: &entry}, balance.DeductCompensatory("c8")},
		{"without pay", leave.Request{LeaveType: leave.TypeWithoutPay, Span: leave.SpanFullDay, StartDate: day("2026-06-15"), EndDate: day("2026-06-19")}, balance.IncrementUnpaid(5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			op, err := leave.LedgerOperation(tc.req)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, op)
		})
	}
}

package overtime_test

import (
	"testing"
	"time"

	"go-hrms/internal/attendance"
	"go-hrms/internal/overtime"
	overtimeerrors "go-hrms/internal/overtime/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	// 2026-06-14 is a Sunday.
	sunday   = time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
	monday   = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	policy   = overtime.Policy{EligibleDepartments: []string{"Production", "Testing", "AMETL", "Admin"}, BaseRate: decimal.NewFromInt(500), Location: time.UTC}
	nextNoon = monday.Add(36 * time.Hour)
)

func hours(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func claimType(t overtime.ClaimType) *overtime.ClaimType {
	return &t
}

func recorded(minutes int) *attendance.Record {
	return &attendance.Record{Status: attendance.StatusPresent, OvertimeMinutes: minutes}
}

func TestPolicy_Eligible(t *testing.T) {
	assert.True(t, policy.Eligible("production"))
	assert.True(t, policy.Eligible(" AMETL "))
	assert.False(t, policy.Eligible("Sales"))
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name       string
		draft      overtime.Draft
		department string
		record     *attendance.Record
		now        time.Time
		wantErr    error
		wantType   *overtime.ClaimType
		wantComp   int
		wantPay    string
	}{
		{
			name:       "partial claim over eight recorded hours",
			draft:      overtime.Draft{Date: monday, Hours: hours("1"), ClaimType: claimType(overtime.ClaimPartial)},
			department: "Production",
			record:     recorded(540),
			now:        nextNoon,
			wantType:   claimType(overtime.ClaimPartial),
			wantComp:   8,
			wantPay:    "750",
		},
		{
			name:       "partial claim between four and eight recorded hours carves four",
			draft:      overtime.Draft{Date: monday, Hours: hours("2"), ClaimType: claimType(overtime.ClaimPartial)},
			department: "Testing",
			record:     recorded(360),
			now:        nextNoon,
			wantType:   claimType(overtime.ClaimPartial),
			wantComp:   4,
			wantPay:    "1500",
		},
		{
			name:       "full claim pays every hour",
			draft:      overtime.Draft{Date: monday, Hours: hours("5"), ClaimType: claimType(overtime.ClaimFull)},
			department: "Production",
			record:     recorded(300),
			now:        nextNoon,
			wantType:   claimType(overtime.ClaimFull),
			wantPay:    "3750",
		},
		{
			name:       "short overtime defaults to full",
			draft:      overtime.Draft{Date: monday, Hours: hours("1.5")},
			department: "Admin",
			record:     recorded(120),
			now:        nextNoon,
			wantType:   claimType(overtime.ClaimFull),
			wantPay:    "1125",
		},
		{
			name:       "zero hours",
			draft:      overtime.Draft{Date: monday, Hours: hours("0")},
			department: "Production",
			record:     recorded(120),
			now:        nextNoon,
			wantErr:    overtimeerrors.ErrInvalidHours,
		},
		{
			name:       "more than a day",
			draft:      overtime.Draft{Date: monday, Hours: hours("24.5")},
			department: "Production",
			record:     recorded(120),
			now:        nextNoon,
			wantErr:    overtimeerrors.ErrInvalidHours,
		},
		{
			name:       "after the claim deadline",
			draft:      overtime.Draft{Date: monday, Hours: hours("1")},
			department: "Production",
			record:     recorded(120),
			now:        monday.AddDate(0, 0, 2),
			wantErr:    overtimeerrors.ErrClaimDeadlinePassed,
		},
		{
			name:       "no attendance",
			draft:      overtime.Draft{Date: monday, Hours: hours("1")},
			department: "Production",
			now:        nextNoon,
			wantErr:    overtimeerrors.ErrNoRecordedOvertime,
		},
		{
			name:       "under an hour recorded",
			draft:      overtime.Draft{Date: monday, Hours: hours("0.5")},
			department: "Production",
			record:     recorded(45),
			now:        nextNoon,
			wantErr:    overtimeerrors.ErrNoRecordedOvertime,
		},
		{
			name:       "more hours than recorded",
			draft:      overtime.Draft{Date: monday, Hours: hours("3")},
			department: "Production",
			record:     recorded(120),
			now:        nextNoon,
			wantErr:    overtimeerrors.ErrHoursExceedRecorded,
		},
		{
			name:       "claim type required over four hours",
			draft:      overtime.Draft{Date: monday, Hours: hours("5")},
			department: "Production",
			record:     recorded(300),
			now:        nextNoon,
			wantErr:    overtimeerrors.ErrClaimTypeRequired,
		},
		{
			name:       "partial needs more than four hours",
			draft:      overtime.Draft{Date: monday, Hours: hours("1"), ClaimType: claimType(overtime.ClaimPartial)},
			department: "Production",
			record:     recorded(180),
			now:        nextNoon,
			wantErr:    overtimeerrors.ErrPartialNotAllowed,
		},
		{
			name:       "partial hours must match the remainder",
			draft:      overtime.Draft{Date: monday, Hours: hours("2"), ClaimType: claimType(overtime.ClaimPartial)},
			department: "Production",
			record:     recorded(540),
			now:        nextNoon,
			wantErr:    overtimeerrors.ErrPartialHoursMismatch,
		},
		{
			name:       "other department on a sunday banks four hours",
			draft:      overtime.Draft{Date: sunday, Hours: hours("6")},
			department: "Sales",
			record:     recorded(400),
			now:        sunday.Add(12 * time.Hour),
			wantComp:   4,
		},
		{
			name:       "other department with a full sunday banks eight hours",
			draft:      overtime.Draft{Date: sunday, Hours: hours("8"), ClaimType: claimType(overtime.ClaimFull)},
			department: "Sales",
			record:     recorded(500),
			now:        sunday.Add(12 * time.Hour),
			wantComp:   8,
		},
		{
			name:       "other department on a weekday",
			draft:      overtime.Draft{Date: monday, Hours: hours("4")},
			department: "Sales",
			record:     recorded(300),
			now:        nextNoon,
			wantErr:    overtimeerrors.ErrSundayOnly,
		},
		{
			name:       "other department under four hours",
			draft:      overtime.Draft{Date: sunday, Hours: hours("3")},
			department: "Sales",
			record:     recorded(300),
			now:        sunday.Add(12 * time.Hour),
			wantErr:    overtimeerrors.ErrMinimumHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := policy.Validate(tt.draft, tt.department, tt.record, tt.now)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantType, got.ClaimType)
			assert.Equal(t, tt.wantComp, got.CompensatoryHours)
			if tt.wantPay == "" {
				assert.Nil(t, got.PaymentAmount)
				return
			}
			if assert.NotNil(t, got.PaymentAmount) {
				assert.True(t, hours(tt.wantPay).Equal(*got.PaymentAmount), "payment %s", got.PaymentAmount)
			}
		})
	}
}

func TestPolicy_ValidateDeadlineIsInclusive(t *testing.T) {
	last := time.Date(2026, 6, 16, 23, 59, 59, 0, time.UTC)

	_, err := policy.Validate(overtime.Draft{Date: monday, Hours: hours("1")}, "Production", recorded(120), last)

	assert.NoError(t, err)
}

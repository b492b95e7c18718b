package balance_test

import (
	"testing"
	"time"

	"go-hrms/internal/balance"
	balanceerrors "go-hrms/internal/balance/errors"

	"github.com/stretchr/testify/assert"
)

var opNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func TestAccount_DeductPaid(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		a := balance.Account{Paid: 3}

		err := balance.DeductPaid(1.5).ApplyTo(&a, opNow)

		assert.NoError(t, err)
		assert.Equal(t, 1.5, a.Paid)
	})

	t.Run("insufficient balance leaves account unchanged", func(t *testing.T) {
		a := balance.Account{Paid: 1}

		err := balance.DeductPaid(2).ApplyTo(&a, opNow)

		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientPaid)
		assert.Equal(t, 1.0, a.Paid)
	})

	t.Run("rejects non half-day amounts", func(t *testing.T) {
		a := balance.Account{Paid: 5}

		assert.ErrorIs(t, a.DeductPaid(0.3), balanceerrors.ErrInvalidDays)
		assert.ErrorIs(t, a.DeductPaid(0), balanceerrors.ErrInvalidDays)
		assert.Equal(t, 5.0, a.Paid)
	})
}

func TestAccount_DeductMedicalAndRestrictedHoliday(t *testing.T) {
	a := balance.Account{Medical: 7, RestrictedHolidays: 1}

	assert.NoError(t, a.DeductMedical(4, opNow))
	assert.Equal(t, 3.0, a.Medical)
	assert.Equal(t, 2026, a.MedicalClaimYear)

	assert.ErrorIs(t, a.DeductMedical(4, opNow), balanceerrors.ErrInsufficientMedical)
	assert.Equal(t, 3.0, a.Medical)

	assert.NoError(t, a.DeductRestrictedHoliday(opNow))
	assert.Equal(t, 0, a.RestrictedHolidays)
	assert.Equal(t, 2026, a.RHClaimYear)
	assert.ErrorIs(t, a.DeductRestrictedHoliday(opNow), balanceerrors.ErrInsufficientRestrictedHoliday)
	assert.Equal(t, 0, a.RestrictedHolidays)
}

func TestAccount_ParentalClaims(t *testing.T) {
	a := balance.Account{MaternityClaims: 1, PaternityClaims: 2}

	assert.NoError(t, balance.RecordMaternityClaim().ApplyTo(&a, opNow))
	assert.Equal(t, 2, a.MaternityClaims)
	assert.ErrorIs(t, balance.RecordMaternityClaim().ApplyTo(&a, opNow), balanceerrors.ErrMaternityLimitReached)
	assert.Equal(t, 2, a.MaternityClaims)

	assert.ErrorIs(t, balance.RecordPaternityClaim().ApplyTo(&a, opNow), balanceerrors.ErrPaternityLimitReached)
	assert.Equal(t, 2, a.PaternityClaims)
}

func TestAccount_Compensatory(t *testing.T) {
	workDate := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	t.Run("add only 4 or 8 hours", func(t *testing.T) {
		a := balance.Account{}

		_, err := a.AddCompensatory(workDate, 6)
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidCompensatoryHours)
		assert.Empty(t, a.Compensatory)

		entry, err := a.AddCompensatory(workDate, 8)
		assert.NoError(t, err)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, balance.EntryAvailable, entry.Status)
		assert.Equal(t, 8, a.AvailableCompensatoryHours())
	})

	t.Run("deduct claims the entry and refunds paid leave", func(t *testing.T) {
		a := balance.Account{Paid: 0}
		four, _ := a.AddCompensatory(workDate, 4)
		eight, _ := a.AddCompensatory(workDate, 8)

		assert.NoError(t, balance.DeductCompensatory(four.ID).ApplyTo(&a, opNow))
		assert.Equal(t, 0.5, a.Paid)
		assert.NoError(t, balance.DeductCompensatory(eight.ID).ApplyTo(&a, opNow))
		assert.Equal(t, 1.5, a.Paid)

		got, ok := a.FindEntry(four.ID)
		assert.True(t, ok)
		assert.Equal(t, balance.EntryClaimed, got.Status)
		assert.Equal(t, 0, a.AvailableCompensatoryHours())
	})

	t.Run("claimed entry cannot be used twice", func(t *testing.T) {
		a := balance.Account{}
		entry, _ := a.AddCompensatory(workDate, 4)
		assert.NoError(t, a.DeductCompensatory(entry.ID))

		err := a.DeductCompensatory(entry.ID)

		assert.ErrorIs(t, err, balanceerrors.ErrCompensatoryEntryNotAvailable)
		assert.Equal(t, 0.5, a.Paid)
	})

	t.Run("unknown entry", func(t *testing.T) {
		a := balance.Account{}
		assert.ErrorIs(t, a.DeductCompensatory("missing"), balanceerrors.ErrCompensatoryEntryNotFound)
	})
}

func TestAccount_IncrementUnpaid(t *testing.T) {
	a := balance.Account{}

	assert.NoError(t, balance.IncrementUnpaid(2).ApplyTo(&a, opNow))
	assert.NoError(t, balance.IncrementUnpaid(0.5).ApplyTo(&a, opNow))
	assert.Equal(t, 2.5, a.UnpaidTaken)
}

func TestOperation_Unknown(t *testing.T) {
	a := balance.Account{Paid: 1}
	err := balance.Operation{Kind: "TRANSFER"}.ApplyTo(&a, opNow)
	assert.ErrorIs(t, err, balanceerrors.ErrUnknownOperation)
}

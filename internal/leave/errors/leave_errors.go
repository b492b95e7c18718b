package leaveerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrUnknownLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type",
		http.StatusBadRequest,
	)
	ErrSpanRequired = apperror.New(
		apperror.CodeInvalidInput,
		"either half_day or full_day is required",
		http.StatusBadRequest,
	)
	ErrSpanAmbiguous = apperror.New(
		apperror.CodeInvalidInput,
		"half_day and full_day are mutually exclusive",
		http.StatusBadRequest,
	)
	ErrInvalidSession = apperror.New(
		apperror.CodeInvalidInput,
		"session must be Forenoon or Afternoon",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"leave start date cannot be after end date",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrConsecutivePaidLeave = apperror.New(
		apperror.CodeInvalidInput,
		"cannot take more than 3 consecutive paid leave days",
		http.StatusUnprocessableEntity,
	)
	ErrInsufficientCasual = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient casual leave balance",
		http.StatusUnprocessableEntity,
	)
	ErrConfirmedOnly = apperror.New(
		apperror.CodeInvalidInput,
		"this leave type is only for confirmed employees",
		http.StatusUnprocessableEntity,
	)
	ErrMedicalDuration = apperror.New(
		apperror.CodeInvalidInput,
		"medical leave must be either 3 or 4 days",
		http.StatusUnprocessableEntity,
	)
	ErrMedicalUnavailable = apperror.New(
		apperror.CodeInsufficientBalance,
		"medical leave already used or insufficient balance for this year",
		http.StatusUnprocessableEntity,
	)
	ErrGenderMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"this leave type does not apply to the employee",
		http.StatusUnprocessableEntity,
	)
	ErrServiceTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"must have completed one year of service",
		http.StatusUnprocessableEntity,
	)
	ErrMaternityDuration = apperror.New(
		apperror.CodeInvalidInput,
		"maternity leave must be 90 days",
		http.StatusUnprocessableEntity,
	)
	ErrPaternityDuration = apperror.New(
		apperror.CodeInvalidInput,
		"paternity leave must be 7 days",
		http.StatusUnprocessableEntity,
	)
	ErrClaimLimitReached = apperror.New(
		apperror.CodeInsufficientBalance,
		"this leave can only be availed twice during service",
		http.StatusUnprocessableEntity,
	)
	ErrRestrictedHolidayDuration = apperror.New(
		apperror.CodeInvalidInput,
		"restricted holiday must be 1 day",
		http.StatusUnprocessableEntity,
	)
	ErrRestrictedHolidayUsed = apperror.New(
		apperror.CodeInsufficientBalance,
		"restricted holiday already used or requested for this year",
		http.StatusUnprocessableEntity,
	)
	ErrRestrictedHolidayRequired = apperror.New(
		apperror.CodeInvalidInput,
		"restricted holiday must be selected",
		http.StatusBadRequest,
	)
	ErrCompensatoryDetailsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"compensatory entry id and project details are required",
		http.StatusBadRequest,
	)
	ErrCompensatoryEntryUnavailable = apperror.New(
		apperror.CodeInsufficientBalance,
		"invalid or unavailable compensatory leave entry",
		http.StatusUnprocessableEntity,
	)
	ErrCompensatoryHoursMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"selected compensatory entry does not match the leave duration",
		http.StatusUnprocessableEntity,
	)
)

package balanceerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"leave days must be a positive multiple of half a day",
		http.StatusBadRequest,
	)
	ErrInsufficientPaid = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient paid leave balance",
		http.StatusUnprocessableEntity,
	)
	ErrInsufficientMedical = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient medical leave balance",
		http.StatusUnprocessableEntity,
	)
	ErrInsufficientRestrictedHoliday = apperror.New(
		apperror.CodeInsufficientBalance,
		"no restricted holiday left this year",
		http.StatusUnprocessableEntity,
	)
	ErrMaternityLimitReached = apperror.New(
		apperror.CodeInsufficientBalance,
		"maternity leave can be claimed at most twice",
		http.StatusUnprocessableEntity,
	)
	ErrPaternityLimitReached = apperror.New(
		apperror.CodeInsufficientBalance,
		"paternity leave can be claimed at most twice",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidCompensatoryHours = apperror.New(
		apperror.CodeInvalidInput,
		"compensatory hours must be 4 or 8",
		http.StatusBadRequest,
	)
	ErrCompensatoryEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"compensatory entry not found",
		http.StatusNotFound,
	)
	ErrCompensatoryEntryNotAvailable = apperror.New(
		apperror.CodeInsufficientBalance,
		"compensatory entry is not available",
		http.StatusUnprocessableEntity,
	)
	ErrUnknownOperation = apperror.New(
		apperror.CodeInvalidInput,
		"unknown balance operation",
		http.StatusBadRequest,
	)
	ErrAccountNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee leave account not found",
		http.StatusNotFound,
	)
	ErrInvalidDateOfJoining = apperror.New(
		apperror.CodeInvalidInput,
		"date of joining is required for confirmed employees",
		http.StatusBadRequest,
	)
)

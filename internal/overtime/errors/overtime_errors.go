package overtimeerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)

	ErrInvalidHours = apperror.New(
		apperror.CodeInvalidInput,
		"hours must be greater than 0 and at most 24",
		http.StatusBadRequest,
	)

	ErrInvalidClaimType = apperror.New(
		apperror.CodeInvalidInput,
		"claim_type must be Full or Partial",
		http.StatusBadRequest,
	)

	ErrClaimDeadlinePassed = apperror.New(
		apperror.CodeDeadlineExceeded,
		"OT must be claimed by 23:59 of the day after the work date",
		http.StatusUnprocessableEntity,
	)

	ErrNoRecordedOvertime = apperror.New(
		apperror.CodeInvalidState,
		"No recorded overtime on this date",
		http.StatusUnprocessableEntity,
	)

	ErrHoursExceedRecorded = apperror.New(
		apperror.CodeInvalidInput,
		"Claimed hours exceed the recorded overtime",
		http.StatusUnprocessableEntity,
	)

	ErrClaimTypeRequired = apperror.New(
		apperror.CodeInvalidInput,
		"claim_type is required when recorded overtime exceeds 4 hours",
		http.StatusBadRequest,
	)

	ErrPartialNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"Partial claims require more than 4 hours of recorded overtime",
		http.StatusUnprocessableEntity,
	)

	ErrPartialHoursMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"Partial claim hours must equal recorded overtime minus the compensatory block",
		http.StatusUnprocessableEntity,
	)

	ErrSundayOnly = apperror.New(
		apperror.CodeInvalidInput,
		"Your department may only claim OT worked on a Sunday",
		http.StatusUnprocessableEntity,
	)

	ErrMinimumHours = apperror.New(
		apperror.CodeInvalidInput,
		"Your department must claim at least 4 hours",
		http.StatusUnprocessableEntity,
	)

	ErrClaimExists = apperror.New(
		apperror.CodeConflict,
		"An OT claim already exists for this date",
		http.StatusConflict,
	)

	ErrClaimNotFound = apperror.New(
		apperror.CodeNotFound,
		"OT claim not found",
		http.StatusNotFound,
	)
)

package oderrors

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
	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"date out must be before or equal to date in",
		http.StatusBadRequest,
	)
	ErrODNotFound = apperror.New(
		apperror.CodeNotFound,
		"od request not found",
		http.StatusNotFound,
	)
)

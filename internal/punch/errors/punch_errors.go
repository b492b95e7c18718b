package puncherrors

import (
	"go-hrms/internal/shared/apperror"
	"net/http"
)

var (
	ErrSourceUnavailable = apperror.ErrSourceUnavailable

	ErrStoreUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Punch store is unavailable",
		http.StatusServiceUnavailable,
	)
)

package approvalerrors

import (
	"go-hrms/internal/shared/apperror"
	"net/http"
)

var (
	ErrStageResolved = apperror.New(
		apperror.CodeInvalidState,
		"This stage has already been resolved",
		http.StatusConflict,
	)

	ErrRequestClosed = apperror.New(
		apperror.CodeInvalidState,
		"The request was rejected and is closed",
		http.StatusConflict,
	)

	ErrOutOfSequence = apperror.New(
		apperror.CodeInvalidState,
		"An earlier stage is still pending",
		http.StatusConflict,
	)

	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"The request was modified concurrently, reload and retry",
		http.StatusConflict,
	)

	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be Approved or Rejected",
		http.StatusBadRequest,
	)

	ErrUnknownStage = apperror.New(
		apperror.CodeInvalidInput,
		"stage must be one of hod, ceo, admin",
		http.StatusBadRequest,
	)

	ErrRoleMismatch = apperror.New(
		apperror.CodeForbidden,
		"Your role cannot resolve this stage",
		http.StatusForbidden,
	)

	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Request not found",
		http.StatusNotFound,
	)

	ErrUnknownKind = apperror.New(
		apperror.CodeInternalError,
		"No workflow registered for this request kind",
		http.StatusInternalServerError,
	)
)

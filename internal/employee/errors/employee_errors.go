package employeeerrors

import (
	"go-hrms/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrExternalIDAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Time-clock user id is already assigned to another employee",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidDateOfJoining = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date_of_joining format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"role must be one of Employee, HOD, Admin, CEO",
		http.StatusBadRequest,
	)
	ErrUnknownSection = apperror.New(
		apperror.CodeInvalidInput,
		"section must be one of basicInfo, position, statutory, payment, documents",
		http.StatusBadRequest,
	)
	ErrSectionLocked = apperror.New(
		apperror.CodeForbidden,
		"This section of the profile is locked",
		http.StatusForbidden,
	)
	ErrNothingToUpdate = apperror.New(
		apperror.CodeInvalidInput,
		"No fields to update",
		http.StatusBadRequest,
	)
)

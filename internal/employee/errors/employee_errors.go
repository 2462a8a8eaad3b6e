package employeeerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"an employee with this email already exists",
		http.StatusConflict,
	)
	ErrEmployeeNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"an employee with this number already exists",
		http.StatusConflict,
	)
	ErrDesignationNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"designation does not exist",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hire_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrRoleChangeForbidden = apperror.New(
		apperror.CodeForbidden,
		"only an administrator may assign roles",
		http.StatusForbidden,
	)
)

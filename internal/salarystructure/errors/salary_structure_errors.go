package salarystructureerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"salary amounts cannot be negative",
		http.StatusBadRequest,
	)
	ErrStructureNotFound = apperror.New(
		apperror.CodeNotFound,
		"no current salary structure for employee",
		http.StatusNotFound,
	)
)

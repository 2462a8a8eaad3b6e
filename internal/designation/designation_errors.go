package designation

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrDesignationNotFound = apperror.New(
		apperror.CodeNotFound,
		"designation not found",
		http.StatusNotFound,
	)
	ErrUnknownDepartment = apperror.New(
		apperror.CodeInvalidInput,
		"department does not exist",
		http.StatusBadRequest,
	)
)

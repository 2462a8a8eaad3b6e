package payrollerrors

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
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"period_start must be before or equal period_end",
		http.StatusBadRequest,
	)
	ErrNegativeBasicSalary = apperror.New(
		apperror.CodeInvalidInput,
		"basic salary cannot be negative",
		http.StatusBadRequest,
	)
	ErrItemNameRequired = apperror.New(
		apperror.CodeInvalidInput,
		"item name is required",
		http.StatusBadRequest,
	)
	ErrNegativeItemAmount = apperror.New(
		apperror.CodeInvalidInput,
		"item amount cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidItemType = apperror.New(
		apperror.CodeInvalidInput,
		"item type must be earning or deduction",
		http.StatusBadRequest,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrItemsOnlyDraft = apperror.New(
		apperror.CodeInvalidState,
		"items can only be added while the payroll is in draft",
		http.StatusConflict,
	)
	ErrApproveOnlyDraft = apperror.New(
		apperror.CodeInvalidState,
		"only a draft payroll can be approved",
		http.StatusConflict,
	)
	ErrPayOnlyApproved = apperror.New(
		apperror.CodeInvalidState,
		"only an approved payroll can be marked paid",
		http.StatusConflict,
	)
	ErrNotOwnPayroll = apperror.New(
		apperror.CodeForbidden,
		"you may only access your own payroll records",
		http.StatusForbidden,
	)
)

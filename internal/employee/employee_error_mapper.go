package employee

import (
	"errors"
	"strings"

	employeeerrors "go-payroll/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "employee_number") {
				return employeeerrors.ErrEmployeeNumberAlreadyExists
			}
			if strings.Contains(pgErr.ConstraintName, "email") {
				return employeeerrors.ErrEmailAlreadyExists
			}
		}
	}

	// Drivers that wrap rather than type the error.
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		if strings.Contains(errMsg, "employee_number") {
			return employeeerrors.ErrEmployeeNumberAlreadyExists
		}
		if strings.Contains(errMsg, "email") {
			return employeeerrors.ErrEmailAlreadyExists
		}
	}

	return err
}

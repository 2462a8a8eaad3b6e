package role

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

// Role is the fixed four-value privilege enumeration. Every authorization
// decision in the system goes through HasAccess so role comparisons cannot
// drift between handlers.
type Role string

const (
	Administrator Role = "administrator"
	HRManager     Role = "hr_manager"
	HRStaff       Role = "hr_staff"
	Employee      Role = "employee"
)

// ranks define the total order administrator > hr_manager > hr_staff > employee.
var ranks = map[Role]int{
	Administrator: 4,
	HRManager:     3,
	HRStaff:       2,
	Employee:      1,
}

var ErrUnknownRole = apperror.New(
	apperror.CodeInvalidInput,
	"unknown role",
	http.StatusBadRequest,
)

func Parse(s string) (Role, error) {
	r := Role(s)
	if _, ok := ranks[r]; !ok {
		return "", ErrUnknownRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := ranks[r]
	return ok
}

// HasAccess reports whether actual meets the required minimum privilege.
// An unknown required role is a caller bug and returns ErrUnknownRole;
// an unknown actual role simply never has access.
func HasAccess(actual, required Role) (bool, error) {
	requiredRank, ok := ranks[required]
	if !ok {
		return false, ErrUnknownRole
	}

	actualRank, ok := ranks[actual]
	if !ok {
		return false, nil
	}

	return actualRank >= requiredRank, nil
}

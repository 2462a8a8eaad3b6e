package role

// Actor is the authenticated identity every service operation runs as.
// EmployeeID is the actor's own employee record, used for record-level
// ownership checks when the role is Employee.
type Actor struct {
	EmployeeID string
	Role       Role
}

func (a Actor) Authenticated() bool {
	return a.EmployeeID != "" && a.Role.Valid()
}

// Owns reports whether the actor's identity matches the given employee id.
// This is an equality check, not a hierarchy check.
func (a Actor) Owns(employeeID string) bool {
	return a.EmployeeID != "" && a.EmployeeID == employeeID
}

package salarystructure

import (
	"time"

	"github.com/google/uuid"
)

// SalaryStructure is one versioned salary configuration for an employee.
// Amounts are stored in minor units (cents) to keep arithmetic exact.
// Rows are never deleted; superseding closes the previous row's validity
// window instead.
type SalaryStructure struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID          uuid.UUID `gorm:"type:uuid;not null;index:idx_employee_active"`
	BasicSalary         int64     `gorm:"type:bigint;not null"`
	HouseRentAllowance  int64     `gorm:"type:bigint;not null;default:0"`
	ConveyanceAllowance int64     `gorm:"type:bigint;not null;default:0"`
	MedicalAllowance    int64     `gorm:"type:bigint;not null;default:0"`
	SpecialAllowance    int64     `gorm:"type:bigint;not null;default:0"`
	EffectiveFrom       time.Time `gorm:"type:date;not null"`
	EffectiveTo         *time.Time `gorm:"type:date"`
	Active              bool      `gorm:"not null;default:true;index:idx_employee_active"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

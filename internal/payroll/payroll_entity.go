package payroll

import (
	"time"

	"github.com/google/uuid"
)

// Lifecycle states. Transitions only move forward:
// draft -> approved -> paid.
const (
	StatusDraft    = "draft"
	StatusApproved = "approved"
	StatusPaid     = "paid"
)

const (
	ItemTypeEarning   = "earning"
	ItemTypeDeduction = "deduction"
)

// Payroll is one pay-period record for one employee. Monetary fields are
// minor units (cents). BasicSalary is a snapshot taken at creation, not a
// live reference to the salary structure. TotalEarnings, TotalDeductions
// and NetSalary are always derived from the item set; they are never
// written independently.
type Payroll struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_employee_period"`

	PeriodStart time.Time `gorm:"type:date;not null;index:idx_employee_period"`
	PeriodEnd   time.Time `gorm:"type:date;not null"`
	ProcessDate time.Time `gorm:"not null"`

	BasicSalary     int64 `gorm:"type:bigint;not null"`
	TotalEarnings   int64 `gorm:"type:bigint;not null;default:0"`
	TotalDeductions int64 `gorm:"type:bigint;not null;default:0"`
	NetSalary       int64 `gorm:"type:bigint;not null;default:0"`

	Status     string     `gorm:"type:varchar(20);not null;default:'draft';index"`
	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time
	PaidAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []PayrollItem `gorm:"foreignKey:PayrollID"`
}

// PayrollItem is one earning or deduction line. Items are immutable once
// created and may only be added while the owning payroll is in draft.
type PayrollItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayrollID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemType    string    `gorm:"type:varchar(20);not null;index"`
	Name        string    `gorm:"type:varchar(120);not null"`
	Amount      int64     `gorm:"type:bigint;not null"`
	Description *string   `gorm:"type:text"`
	CreatedAt   time.Time
}

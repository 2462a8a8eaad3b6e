package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FullName         string     `gorm:"size:150;not null"`
	Email            string     `gorm:"size:150;uniqueIndex;not null"`
	Phone            string     `gorm:"size:30"`
	EmployeeNumber   string     `gorm:"size:20;uniqueIndex"`
	DepartmentID     *uuid.UUID `gorm:"type:uuid"`
	DesignationID    *uuid.UUID `gorm:"type:uuid"`
	Role             string     `gorm:"size:20;not null;default:employee"`
	HireDate         time.Time  `gorm:"type:date"`
	EmploymentStatus string     `gorm:"size:20;not null;default:active"`
	CreatedAt        time.Time  `gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime"`

	Department  *EmployeeDepartment  `gorm:"foreignKey:DepartmentID;references:ID"`
	Designation *EmployeeDesignation `gorm:"foreignKey:DesignationID;references:ID"`
}

type EmployeeDepartment struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (EmployeeDepartment) TableName() string {
	return "departments"
}

type EmployeeDesignation struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (EmployeeDesignation) TableName() string {
	return "designations"
}

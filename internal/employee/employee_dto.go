package employee

import (
	"github.com/google/uuid"
)

type CreateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	EmployeeNumber   string `json:"employee_number"`
	DesignationID    string `json:"designation_id" binding:"required,uuid"`
	Role             string `json:"role" binding:"omitempty,oneof=administrator hr_manager hr_staff employee"`
	HireDate         string `json:"hire_date" binding:"required"`
	EmploymentStatus string `json:"employment_status" binding:"omitempty,oneof=active inactive"`
}

type UpdateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	DesignationID    string `json:"designation_id" binding:"required,uuid"`
	Role             string `json:"role" binding:"omitempty,oneof=administrator hr_manager hr_staff employee"`
	HireDate         string `json:"hire_date" binding:"required"`
	EmploymentStatus string `json:"employment_status" binding:"omitempty,oneof=active inactive"`
}

type EmployeeResponse struct {
	ID               string                       `json:"id"`
	FullName         string                       `json:"full_name"`
	Email            string                       `json:"email"`
	Phone            string                       `json:"phone,omitempty"`
	EmployeeNumber   string                       `json:"employee_number"`
	DepartmentID     string                       `json:"department_id,omitempty"`
	DesignationID    string                       `json:"designation_id,omitempty"`
	Role             string                       `json:"role"`
	HireDate         string                       `json:"hire_date"`
	EmploymentStatus string                       `json:"employment_status"`
	Department       *EmployeeDepartmentResponse  `json:"department,omitempty"`
	Designation      *EmployeeDesignationResponse `json:"designation,omitempty"`
}

type EmployeeDepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EmployeeDesignationResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:               empl.ID.String(),
		FullName:         empl.FullName,
		Email:            empl.Email,
		Phone:            empl.Phone,
		EmployeeNumber:   empl.EmployeeNumber,
		DepartmentID:     uuidToString(empl.DepartmentID),
		DesignationID:    uuidToString(empl.DesignationID),
		Role:             empl.Role,
		HireDate:         empl.HireDate.Format("2006-01-02"),
		EmploymentStatus: empl.EmploymentStatus,
	}
	if empl.Department != nil {
		resp.Department = &EmployeeDepartmentResponse{
			ID:   empl.Department.ID.String(),
			Name: empl.Department.Name,
		}
	}
	if empl.Designation != nil {
		resp.Designation = &EmployeeDesignationResponse{
			ID:   empl.Designation.ID.String(),
			Name: empl.Designation.Name,
		}
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		res[i] = mapToResponse(e)
	}
	return res
}

func uuidPtr(v string) *uuid.UUID {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}

func uuidToString(v *uuid.UUID) string {
	if v == nil {
		return ""
	}
	return v.String()
}

package designation

import "time"

type CreateDesignationRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
}

type UpdateDesignationRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
}

type DesignationResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	DepartmentID string  `json:"department_id"`
	Department   *string `json:"department,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func mapToResponse(d Designation) DesignationResponse {
	resp := DesignationResponse{
		ID:           d.ID.String(),
		Name:         d.Name,
		Description:  d.Description,
		DepartmentID: d.DepartmentID.String(),
		CreatedAt:    d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    d.UpdatedAt.Format(time.RFC3339),
	}
	if d.Department != nil {
		name := d.Department.Name
		resp.Department = &name
	}
	return resp
}

func mapToListResponse(designations []Designation) []DesignationResponse {
	res := make([]DesignationResponse, len(designations))
	for i, d := range designations {
		res[i] = mapToResponse(d)
	}
	return res
}

package salarystructure

import "time"

type CreateSalaryStructureRequest struct {
	EmployeeID          string `json:"employee_id" binding:"required,uuid"`
	BasicSalary         int64  `json:"basic_salary" binding:"required,gte=0"`
	HouseRentAllowance  int64  `json:"house_rent_allowance" binding:"gte=0"`
	ConveyanceAllowance int64  `json:"conveyance_allowance" binding:"gte=0"`
	MedicalAllowance    int64  `json:"medical_allowance" binding:"gte=0"`
	SpecialAllowance    int64  `json:"special_allowance" binding:"gte=0"`
	EffectiveFrom       string `json:"effective_from" binding:"required"`
}

type SalaryStructureResponse struct {
	ID                  string  `json:"id"`
	EmployeeID          string  `json:"employee_id"`
	BasicSalary         int64   `json:"basic_salary"`
	HouseRentAllowance  int64   `json:"house_rent_allowance"`
	ConveyanceAllowance int64   `json:"conveyance_allowance"`
	MedicalAllowance    int64   `json:"medical_allowance"`
	SpecialAllowance    int64   `json:"special_allowance"`
	EffectiveFrom       string  `json:"effective_from"`
	EffectiveTo         *string `json:"effective_to,omitempty"`
	Active              bool    `json:"active"`
}

func mapToResponse(s SalaryStructure) SalaryStructureResponse {
	resp := SalaryStructureResponse{
		ID:                  s.ID.String(),
		EmployeeID:          s.EmployeeID.String(),
		BasicSalary:         s.BasicSalary,
		HouseRentAllowance:  s.HouseRentAllowance,
		ConveyanceAllowance: s.ConveyanceAllowance,
		MedicalAllowance:    s.MedicalAllowance,
		SpecialAllowance:    s.SpecialAllowance,
		EffectiveFrom:       s.EffectiveFrom.Format("2006-01-02"),
		Active:              s.Active,
	}

	if s.EffectiveTo != nil {
		v := s.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}

	return resp
}

func mapToListResponse(structures []SalaryStructure) []SalaryStructureResponse {
	res := make([]SalaryStructureResponse, len(structures))
	for i, s := range structures {
		res[i] = mapToResponse(s)
	}
	return res
}

func parseDate(v string) (time.Time, error) {
	return time.Parse("2006-01-02", v)
}

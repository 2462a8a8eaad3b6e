package payroll

import "time"

type CreatePayrollRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	// BasicSalary overrides the resolver snapshot when set. Optional and
	// explicit: omitting it derives the amount from the employee's current
	// salary structure.
	BasicSalary *int64 `json:"basic_salary" binding:"omitempty,gte=0"`
}

type AddItemRequest struct {
	ItemType    string  `json:"item_type" binding:"required,oneof=earning deduction"`
	Name        string  `json:"name" binding:"required"`
	Amount      int64   `json:"amount" binding:"gte=0"`
	Description *string `json:"description"`
}

type GetPayrollsFilterRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=draft approved paid"`
}

type PayrollResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	PeriodStart     string  `json:"period_start"`
	PeriodEnd       string  `json:"period_end"`
	ProcessDate     string  `json:"process_date"`
	BasicSalary     int64   `json:"basic_salary"`
	TotalEarnings   int64   `json:"total_earnings"`
	TotalDeductions int64   `json:"total_deductions"`
	NetSalary       int64   `json:"net_salary"`
	Status          string  `json:"status"`
	CreatedBy       string  `json:"created_by"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	PaidAt          *string `json:"paid_at,omitempty"`
}

type PayrollItemResponse struct {
	ID          string  `json:"id"`
	PayrollID   string  `json:"payroll_id"`
	ItemType    string  `json:"item_type"`
	Name        string  `json:"name"`
	Amount      int64   `json:"amount"`
	Description *string `json:"description,omitempty"`
}

type TotalsResponse struct {
	Earnings   int64 `json:"earnings"`
	Deductions int64 `json:"deductions"`
}

func mapToResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:              p.ID.String(),
		EmployeeID:      p.EmployeeID.String(),
		PeriodStart:     p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       p.PeriodEnd.Format("2006-01-02"),
		ProcessDate:     p.ProcessDate.Format(time.RFC3339),
		BasicSalary:     p.BasicSalary,
		TotalEarnings:   p.TotalEarnings,
		TotalDeductions: p.TotalDeductions,
		NetSalary:       p.NetSalary,
		Status:          p.Status,
		CreatedBy:       p.CreatedBy.String(),
	}

	if p.ApprovedBy != nil {
		v := p.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if p.ApprovedAt != nil {
		v := p.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if p.PaidAt != nil {
		v := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}

	return resp
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, len(payrolls))
	for i, p := range payrolls {
		resp[i] = mapToResponse(p)
	}
	return resp
}

func mapItemToResponse(item PayrollItem) PayrollItemResponse {
	return PayrollItemResponse{
		ID:          item.ID.String(),
		PayrollID:   item.PayrollID.String(),
		ItemType:    item.ItemType,
		Name:        item.Name,
		Amount:      item.Amount,
		Description: item.Description,
	}
}

func mapItemsToListResponse(items []PayrollItem) []PayrollItemResponse {
	resp := make([]PayrollItemResponse, len(items))
	for i, item := range items {
		resp[i] = mapItemToResponse(item)
	}
	return resp
}

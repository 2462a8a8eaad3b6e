package events

import "time"

const PayrollLifecycleTopic = "hr.payroll.lifecycle.v1"

const (
	PayrollCreated  = "payroll.created"
	PayrollApproved = "payroll.approved"
	PayrollPaid     = "payroll.paid"
)

type PayrollStatusChangedEvent struct {
	EventType  string    `json:"event_type"`
	PayrollID  string    `json:"payroll_id"`
	EmployeeID string    `json:"employee_id"`
	Status     string    `json:"status"`
	NetSalary  int64     `json:"net_salary"`
	OccurredAt time.Time `json:"occurred_at"`
}

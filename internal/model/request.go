package model

type BreakdownRequest struct {
	TenantID     string   `json:"tenant_id,omitempty"`
	WeeklySalary *float64 `json:"weekly_salary"`
}

type BatchRequest struct {
	TenantID       string    `json:"tenant_id,omitempty"`
	WeeklySalaries []float64 `json:"weekly_salaries"`
}

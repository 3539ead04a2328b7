package model

type EmployeeBreakdown struct {
	WeeklySalary      float64 `json:"weekly_salary"`
	BaseWeekly        float64 `json:"base_weekly"`
	WeeklySuper       float64 `json:"weekly_super"`
	WeeklyWithholding float64 `json:"weekly_withholding"`
	WeeklyNet         float64 `json:"weekly_net"`
	AnnualBase        float64 `json:"annual_base"`
	AnnualSuper       float64 `json:"annual_super"`
	AnnualWithholding float64 `json:"annual_withholding"`
	AnnualTax         float64 `json:"annual_tax"`
	TaxRefund         float64 `json:"tax_refund"`
	EffectiveRate     float64 `json:"effective_rate"`
	Bracket           int     `json:"bracket"`
}

type BatchSummary struct {
	Count                int     `json:"count"`
	TotalSalary          float64 `json:"total_salary"`
	AverageSalary        float64 `json:"average_salary"`
	TotalAnnualTax       float64 `json:"total_annual_tax"`
	TotalRefund          float64 `json:"total_refund"`
	AverageEffectiveRate float64 `json:"average_effective_rate"`
}

type BracketInfo struct {
	AnnualIncome float64 `json:"annual_income"`
	Number       int     `json:"bracket_number"`
	Range        string  `json:"range"`
	MarginalRate float64 `json:"marginal_rate"`
}

// Schedule exposes the active tables. A nil Upper is unbounded.
type Schedule struct {
	Name        string            `json:"name"`
	SuperRate   float64           `json:"super_rate"`
	Convention  string            `json:"convention"`
	Brackets    []Bracket         `json:"brackets"`
	Withholding []WithholdingBand `json:"withholding"`
}

type Bracket struct {
	Lower   float64  `json:"lower"`
	Upper   *float64 `json:"upper"`
	BaseTax float64  `json:"base_tax"`
	Rate    float64  `json:"rate"`
}

type WithholdingBand struct {
	Lower float64  `json:"lower"`
	Upper *float64 `json:"upper"`
	A     float64  `json:"a"`
	B     float64  `json:"b"`
}

package tax

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Convention says how a quoted weekly salary relates to super.
type Convention string

const (
	// ConventionBase treats the salary as base pay; super is paid on top.
	ConventionBase Convention = "base"
	// ConventionPackage treats the salary as a total package that includes super.
	ConventionPackage Convention = "package"
)

func ParseConvention(s string) (Convention, error) {
	switch Convention(s) {
	case ConventionBase, "":
		return ConventionBase, nil
	case ConventionPackage:
		return ConventionPackage, nil
	}
	return "", fmt.Errorf("unknown salary convention %q (want base or package)", s)
}

// EmployeeBreakdown is everything derived from one weekly salary.
type EmployeeBreakdown struct {
	WeeklySalary      decimal.Decimal `json:"weekly_salary"`
	BaseWeekly        decimal.Decimal `json:"base_weekly"`
	WeeklySuper       decimal.Decimal `json:"weekly_super"`
	WeeklyWithholding decimal.Decimal `json:"weekly_withholding"`
	WeeklyNet         decimal.Decimal `json:"weekly_net"`
	AnnualBase        decimal.Decimal `json:"annual_base"`
	AnnualSuper       decimal.Decimal `json:"annual_super"`
	AnnualWithholding decimal.Decimal `json:"annual_withholding"`
	AnnualTax         decimal.Decimal `json:"annual_tax"`
	TaxRefund         decimal.Decimal `json:"tax_refund"`
	EffectiveRate     decimal.Decimal `json:"effective_rate"`
	Bracket           int             `json:"bracket"`
}

// BatchSummary aggregates a batch. Rates are percentages.
type BatchSummary struct {
	Count                int
	TotalSalary          decimal.Decimal
	AverageSalary        decimal.Decimal
	TotalAnnualBase      decimal.Decimal
	TotalAnnualTax       decimal.Decimal
	TotalRefund          decimal.Decimal
	AverageEffectiveRate decimal.Decimal
}

type Batch struct {
	Breakdowns []EmployeeBreakdown
	Summary    BatchSummary
}

// Calculator applies one schedule under one salary convention. It holds no
// mutable state and is safe for concurrent use.
type Calculator struct {
	schedule   Schedule
	convention Convention
}

func NewCalculator(schedule Schedule, convention Convention) (*Calculator, error) {
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schedule %s: %w", schedule.Name, err)
	}
	if _, err := ParseConvention(string(convention)); err != nil {
		return nil, err
	}
	if convention == "" {
		convention = ConventionBase
	}
	return &Calculator{schedule: schedule, convention: convention}, nil
}

func (c *Calculator) Schedule() Schedule     { return c.schedule }
func (c *Calculator) Convention() Convention { return c.convention }

// Breakdown computes the weekly and annual figures for one salary.
// WeeklyNet + WeeklyWithholding always equals BaseWeekly.
func (c *Calculator) Breakdown(weekly decimal.Decimal) (EmployeeBreakdown, error) {
	if weekly.IsNegative() {
		return EmployeeBreakdown{}, newValidationError(-1, weekly.String(), "salary must be non-negative")
	}

	var base, super decimal.Decimal
	var err error
	switch c.convention {
	case ConventionPackage:
		base, super, err = SplitPackage(weekly, c.schedule.SuperRate)
	default:
		base = weekly
		super, err = Super(weekly, c.schedule.SuperRate)
	}
	if err != nil {
		return EmployeeBreakdown{}, err
	}

	withholding, err := Withholding(base, c.schedule.Withholding)
	if err != nil {
		return EmployeeBreakdown{}, err
	}

	annualBase := base.Mul(weeks)
	annualTax, err := AnnualTax(annualBase, c.schedule.Brackets)
	if err != nil {
		return EmployeeBreakdown{}, err
	}
	info, err := c.schedule.BracketFor(annualBase)
	if err != nil {
		return EmployeeBreakdown{}, err
	}

	annualWithholding := withholding.Mul(weeks)
	effective := decimal.Zero
	if annualBase.IsPositive() {
		effective = annualTax.Div(annualBase).Mul(hundred).Round(4)
	}

	return EmployeeBreakdown{
		WeeklySalary:      weekly,
		BaseWeekly:        base,
		WeeklySuper:       super,
		WeeklyWithholding: withholding,
		WeeklyNet:         base.Sub(withholding),
		AnnualBase:        annualBase,
		AnnualSuper:       super.Mul(weeks),
		AnnualWithholding: annualWithholding,
		AnnualTax:         annualTax,
		TaxRefund:         annualWithholding.Sub(annualTax),
		EffectiveRate:     effective,
		Bracket:           info.Number,
	}, nil
}

// Batch computes a breakdown per salary, in order, plus the summary. The
// first negative salary fails the whole batch.
func (c *Calculator) Batch(salaries []decimal.Decimal) (Batch, error) {
	return c.BatchFunc(salaries, c.Breakdown)
}

// BatchFunc is Batch with the per-salary computation supplied by the
// caller, typically Breakdown behind a cache. Errors from breakdown are
// tagged with the salary's index.
func (c *Calculator) BatchFunc(salaries []decimal.Decimal, breakdown func(decimal.Decimal) (EmployeeBreakdown, error)) (Batch, error) {
	if s, i, found := lo.FindIndexOf(salaries, decimal.Decimal.IsNegative); found {
		return Batch{}, newValidationError(i, s.String(), "salary must be non-negative")
	}

	breakdowns := make([]EmployeeBreakdown, 0, len(salaries))
	for i, s := range salaries {
		b, err := breakdown(s)
		if err != nil {
			var v *ValidationError
			if errors.As(err, &v) {
				v.Index = i
			}
			return Batch{}, err
		}
		breakdowns = append(breakdowns, b)
	}
	return Batch{Breakdowns: breakdowns, Summary: Summarize(breakdowns)}, nil
}

// Summarize aggregates breakdowns. An empty slice yields a zero summary.
func Summarize(breakdowns []EmployeeBreakdown) BatchSummary {
	sum := func(field func(EmployeeBreakdown) decimal.Decimal) decimal.Decimal {
		return lo.Reduce(breakdowns, func(acc decimal.Decimal, b EmployeeBreakdown, _ int) decimal.Decimal {
			return acc.Add(field(b))
		}, decimal.Zero)
	}

	s := BatchSummary{
		Count:                len(breakdowns),
		TotalSalary:          sum(func(b EmployeeBreakdown) decimal.Decimal { return b.WeeklySalary }),
		TotalAnnualBase:      sum(func(b EmployeeBreakdown) decimal.Decimal { return b.AnnualBase }),
		TotalAnnualTax:       sum(func(b EmployeeBreakdown) decimal.Decimal { return b.AnnualTax }),
		TotalRefund:          sum(func(b EmployeeBreakdown) decimal.Decimal { return b.TaxRefund }),
		AverageSalary:        decimal.Zero,
		AverageEffectiveRate: decimal.Zero,
	}
	if s.Count > 0 {
		s.AverageSalary = s.TotalSalary.Div(decimal.NewFromInt(int64(s.Count))).Round(currencyPlace)
	}
	if s.TotalAnnualBase.IsPositive() {
		s.AverageEffectiveRate = s.TotalAnnualTax.Div(s.TotalAnnualBase).Mul(hundred).Round(4)
	}
	return s
}

package engine

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"tax-engine/internal/model"
	"tax-engine/internal/tax"
)

func toBreakdown(b tax.EmployeeBreakdown) model.EmployeeBreakdown {
	return model.EmployeeBreakdown{
		WeeklySalary:      b.WeeklySalary.InexactFloat64(),
		BaseWeekly:        b.BaseWeekly.InexactFloat64(),
		WeeklySuper:       b.WeeklySuper.InexactFloat64(),
		WeeklyWithholding: b.WeeklyWithholding.InexactFloat64(),
		WeeklyNet:         b.WeeklyNet.InexactFloat64(),
		AnnualBase:        b.AnnualBase.InexactFloat64(),
		AnnualSuper:       b.AnnualSuper.InexactFloat64(),
		AnnualWithholding: b.AnnualWithholding.InexactFloat64(),
		AnnualTax:         b.AnnualTax.InexactFloat64(),
		TaxRefund:         b.TaxRefund.InexactFloat64(),
		EffectiveRate:     b.EffectiveRate.InexactFloat64(),
		Bracket:           b.Bracket,
	}
}

func toBreakdowns(bs []tax.EmployeeBreakdown) []model.EmployeeBreakdown {
	return lo.Map(bs, func(b tax.EmployeeBreakdown, _ int) model.EmployeeBreakdown {
		return toBreakdown(b)
	})
}

func toSummary(s tax.BatchSummary) model.BatchSummary {
	return model.BatchSummary{
		Count:                s.Count,
		TotalSalary:          s.TotalSalary.InexactFloat64(),
		AverageSalary:        s.AverageSalary.InexactFloat64(),
		TotalAnnualTax:       s.TotalAnnualTax.InexactFloat64(),
		TotalRefund:          s.TotalRefund.InexactFloat64(),
		AverageEffectiveRate: s.AverageEffectiveRate.InexactFloat64(),
	}
}

func upperBound(u decimal.NullDecimal) *float64 {
	if !u.Valid {
		return nil
	}
	return lo.ToPtr(u.Decimal.InexactFloat64())
}

func toSchedule(s tax.Schedule, c tax.Convention) model.Schedule {
	return model.Schedule{
		Name:       s.Name,
		SuperRate:  s.SuperRate.InexactFloat64(),
		Convention: string(c),
		Brackets: lo.Map(s.Brackets, func(b tax.Bracket, _ int) model.Bracket {
			return model.Bracket{
				Lower:   b.Lower.InexactFloat64(),
				Upper:   upperBound(b.Upper),
				BaseTax: b.BaseTax.InexactFloat64(),
				Rate:    b.Rate.InexactFloat64(),
			}
		}),
		Withholding: lo.Map(s.Withholding, func(w tax.WithholdingBand, _ int) model.WithholdingBand {
			return model.WithholdingBand{
				Lower: w.Lower.InexactFloat64(),
				Upper: upperBound(w.Upper),
				A:     w.A.InexactFloat64(),
				B:     w.B.InexactFloat64(),
			}
		}),
	}
}

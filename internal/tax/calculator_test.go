package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var demoSalaries = []string{"1693", "1358", "1772", "2234", "1308", "1308", "2263", "1835", "1184", "1717"}

func newTestCalculator(t *testing.T, c Convention) *Calculator {
	t.Helper()
	calc, err := NewCalculator(DefaultSchedule(), c)
	require.NoError(t, err)
	return calc
}

func TestBreakdownReferenceEmployee(t *testing.T) {
	calc := newTestCalculator(t, ConventionBase)

	b, err := calc.Breakdown(dec("1693"))
	require.NoError(t, err)

	assertDecimal(t, "1693", b.WeeklySalary, "weekly salary")
	assertDecimal(t, "1693", b.BaseWeekly, "base weekly")
	assertDecimal(t, "186.23", b.WeeklySuper, "super")
	assertDecimal(t, "401.68", b.WeeklyWithholding, "withholding")
	assertDecimal(t, "1291.32", b.WeeklyNet, "net")
	assertDecimal(t, "88036", b.AnnualBase, "annual base")
	assertDecimal(t, "19078.70", b.AnnualTax, "annual tax")
	assertDecimal(t, "20887.36", b.AnnualWithholding, "annual withholding")
	assertDecimal(t, "1808.66", b.TaxRefund, "refund")
	assertDecimal(t, "21.6715", b.EffectiveRate, "effective rate")
	assert.Equal(t, 3, b.Bracket)
}

func TestBreakdownNetInvariant(t *testing.T) {
	for _, c := range []Convention{ConventionBase, ConventionPackage} {
		calc := newTestCalculator(t, c)
		for w := int64(0); w <= 5000; w += 37 {
			b, err := calc.Breakdown(decimal.NewFromInt(w))
			require.NoError(t, err)
			assert.True(t, b.WeeklyNet.Add(b.WeeklyWithholding).Equal(b.BaseWeekly), "%s convention, weekly %d", c, w)
			if c == ConventionBase {
				assert.True(t, b.WeeklyNet.Add(b.WeeklyWithholding).Equal(b.WeeklySalary))
			}
		}
	}
}

func TestBreakdownPackageConvention(t *testing.T) {
	calc := newTestCalculator(t, ConventionPackage)

	b, err := calc.Breakdown(dec("1693"))
	require.NoError(t, err)
	assertDecimal(t, "1693", b.WeeklySalary, "weekly salary")
	assertDecimal(t, "1525.23", b.BaseWeekly, "base weekly")
	assertDecimal(t, "167.77", b.WeeklySuper, "super")
	assertDecimal(t, "343.80", b.WeeklyWithholding, "withholding")
}

func TestBreakdownZeroSalary(t *testing.T) {
	b, err := newTestCalculator(t, ConventionBase).Breakdown(decimal.Zero)
	require.NoError(t, err)
	assert.True(t, b.AnnualTax.IsZero())
	assert.True(t, b.EffectiveRate.IsZero())
	assert.True(t, b.TaxRefund.IsZero())
	assert.Equal(t, 1, b.Bracket)
}

func TestBreakdownNegativeSalary(t *testing.T) {
	_, err := newTestCalculator(t, ConventionBase).Breakdown(dec("-100"))
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, -1, v.Index)
	assert.Equal(t, "-100", v.Value)
}

func TestBatchDemoSalaries(t *testing.T) {
	salaries, err := ParseAmounts(demoSalaries)
	require.NoError(t, err)

	batch, err := newTestCalculator(t, ConventionBase).Batch(salaries)
	require.NoError(t, err)

	require.Len(t, batch.Breakdowns, len(demoSalaries))
	for i, b := range batch.Breakdowns {
		assertDecimal(t, demoSalaries[i], b.WeeklySalary, "order")
	}
	assertDecimal(t, "1808.66", batch.Breakdowns[0].TaxRefund, "first refund")
	assertDecimal(t, "1265.52", batch.Breakdowns[8].TaxRefund, "ninth refund")

	s := batch.Summary
	assert.Equal(t, 10, s.Count)
	assertDecimal(t, "16672", s.TotalSalary, "total salary")
	assertDecimal(t, "1667.20", s.AverageSalary, "average salary")
	assertDecimal(t, "186426.80", s.TotalAnnualTax, "total tax")
	assertDecimal(t, "17803.20", s.TotalRefund, "total refund")
	assertDecimal(t, "21.5039", s.AverageEffectiveRate, "average rate")
}

func TestBatchEmpty(t *testing.T) {
	batch, err := newTestCalculator(t, ConventionBase).Batch(nil)
	require.NoError(t, err)
	assert.Empty(t, batch.Breakdowns)
	assert.Equal(t, 0, batch.Summary.Count)
	assert.True(t, batch.Summary.AverageSalary.IsZero())
	assert.True(t, batch.Summary.AverageEffectiveRate.IsZero())
}

func TestBatchFailsFastOnNegative(t *testing.T) {
	salaries := []decimal.Decimal{dec("1000"), dec("1200"), dec("-5"), dec("-6")}

	batch, err := newTestCalculator(t, ConventionBase).Batch(salaries)
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, 2, v.Index)
	assert.Equal(t, "-5", v.Value)
	assert.Nil(t, batch.Breakdowns)
	assert.Contains(t, err.Error(), "index 2")
}

func TestBatchFuncUsesSuppliedBreakdown(t *testing.T) {
	calc := newTestCalculator(t, ConventionBase)
	salaries := []decimal.Decimal{dec("1693"), dec("1184"), dec("1358")}

	calls := 0
	batch, err := calc.BatchFunc(salaries, func(s decimal.Decimal) (EmployeeBreakdown, error) {
		calls++
		return calc.Breakdown(s)
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	direct, err := calc.Batch(salaries)
	require.NoError(t, err)
	assert.Equal(t, direct, batch)

	_, err = calc.BatchFunc(salaries, func(s decimal.Decimal) (EmployeeBreakdown, error) {
		if s.Equal(dec("1184")) {
			return EmployeeBreakdown{}, newValidationError(-1, s.String(), "rejected")
		}
		return calc.Breakdown(s)
	})
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, 1, v.Index)

	calls = 0
	_, err = calc.BatchFunc([]decimal.Decimal{dec("1693"), dec("-1")}, func(s decimal.Decimal) (EmployeeBreakdown, error) {
		calls++
		return calc.Breakdown(s)
	})
	require.ErrorAs(t, err, &v)
	assert.Equal(t, 1, v.Index)
	assert.Zero(t, calls, "negative salaries are rejected before any breakdown")
}

func TestSummarizeIsOrderIndependent(t *testing.T) {
	calc := newTestCalculator(t, ConventionBase)
	forward, err := ParseAmounts(demoSalaries)
	require.NoError(t, err)
	reversed := make([]decimal.Decimal, len(forward))
	for i, s := range forward {
		reversed[len(forward)-1-i] = s
	}

	a, err := calc.Batch(forward)
	require.NoError(t, err)
	b, err := calc.Batch(reversed)
	require.NoError(t, err)
	assert.True(t, a.Summary.TotalAnnualTax.Equal(b.Summary.TotalAnnualTax))
	assert.True(t, a.Summary.AverageEffectiveRate.Equal(b.Summary.AverageEffectiveRate))
}

func TestParseConvention(t *testing.T) {
	c, err := ParseConvention("")
	require.NoError(t, err)
	assert.Equal(t, ConventionBase, c)

	c, err = ParseConvention("package")
	require.NoError(t, err)
	assert.Equal(t, ConventionPackage, c)

	_, err = ParseConvention("gross")
	assert.Error(t, err)
}

package tax

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, label string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %s, got %s", label, want, got)
}

func TestAnnualTaxBoundaries(t *testing.T) {
	brackets := DefaultSchedule().Brackets
	cases := map[string]string{
		"0":        "0",
		"1":        "0",
		"18199.99": "0",
		"18200":    "0",
		"45000":    "5092",
		"88036":    "19078.70",
		"120000":   "29467",
		"180000":   "51667",
		"200000":   "60667",
	}
	for income, want := range cases {
		got, err := AnnualTax(dec(income), brackets)
		require.NoError(t, err)
		assertDecimal(t, want, got, "income "+income)
	}
}

func TestAnnualTaxContinuousAtBoundaries(t *testing.T) {
	brackets := DefaultSchedule().Brackets
	cent := dec("0.01")
	for _, b := range brackets[1:] {
		below, err := AnnualTax(b.Lower.Sub(cent), brackets)
		require.NoError(t, err)
		at, err := AnnualTax(b.Lower, brackets)
		require.NoError(t, err)
		assert.True(t, at.GreaterThanOrEqual(below), "drop at %s: %s -> %s", b.Lower, below, at)
		assert.True(t, at.Sub(below).LessThanOrEqual(cent), "jump at %s: %s -> %s", b.Lower, below, at)
	}
}

func TestAnnualTaxNonDecreasing(t *testing.T) {
	brackets := DefaultSchedule().Brackets
	prev := decimal.Zero
	for income := int64(0); income <= 250000; income += 250 {
		got, err := AnnualTax(decimal.NewFromInt(income), brackets)
		require.NoError(t, err)
		assert.True(t, got.GreaterThanOrEqual(prev), "tax fell at %d", income)
		prev = got
	}
}

func TestAnnualTaxRejectsNegative(t *testing.T) {
	_, err := AnnualTax(dec("-100"), DefaultSchedule().Brackets)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestWithholding(t *testing.T) {
	bands := DefaultSchedule().Withholding
	cases := map[string]string{
		"0":    "0",
		"358":  "0",
		"359":  "0.05",
		"360":  "0.24",
		"1000": "161.83",
		"1693": "401.68",
		"3500": "1081.95",
	}
	for weekly, want := range cases {
		got, err := Withholding(dec(weekly), bands)
		require.NoError(t, err)
		assertDecimal(t, want, got, "weekly "+weekly)
	}

	_, err := Withholding(dec("-1"), bands)
	assert.True(t, IsValidation(err))
}

func TestWithholdingDiffersFromAnnualShare(t *testing.T) {
	s := DefaultSchedule()
	weekly, err := Withholding(dec("1693"), s.Withholding)
	require.NoError(t, err)
	annual, err := AnnualTax(dec("88036"), s.Brackets)
	require.NoError(t, err)
	assert.False(t, weekly.Mul(weeks).Equal(annual))
}

func TestSuperAndInverse(t *testing.T) {
	rate := DefaultSuperRate
	for _, s := range []string{"0", "100", "1000", "1693", "2234.50"} {
		super, err := Super(dec(s), rate)
		require.NoError(t, err)
		assert.True(t, super.Sub(dec(s).Mul(rate)).Abs().LessThanOrEqual(dec("0.005")), "super of %s", s)

		base, err := PackageToBase(dec(s).Add(super), rate)
		require.NoError(t, err)
		assert.True(t, base.Sub(dec(s)).Abs().LessThanOrEqual(dec("0.01")), "inverse of %s gave %s", s, base)
	}

	_, err := Super(dec("-1"), rate)
	assert.True(t, IsValidation(err))
	_, err = PackageToBase(dec("-1"), rate)
	assert.True(t, IsValidation(err))
}

func TestSplitPackage(t *testing.T) {
	base, super, err := SplitPackage(dec("1693"), DefaultSuperRate)
	require.NoError(t, err)
	assertDecimal(t, "1525.23", base, "base")
	assertDecimal(t, "167.77", super, "super")
}

func TestAmounts(t *testing.T) {
	got, err := Amounts([]float64{1693, 0.5})
	require.NoError(t, err)
	assertDecimal(t, "1693", got[0], "first")
	assertDecimal(t, "0.5", got[1], "second")

	_, err = Amounts([]float64{100, math.Inf(1)})
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, 1, v.Index)

	_, err = Amounts([]float64{math.NaN()})
	require.ErrorAs(t, err, &v)
	assert.Equal(t, 0, v.Index)
}

func TestParseAmounts(t *testing.T) {
	got, err := ParseAmounts([]string{"1693", "$1,358.50"})
	require.NoError(t, err)
	assertDecimal(t, "1693", got[0], "first")
	assertDecimal(t, "1358.50", got[1], "second")

	for _, bad := range []string{"abc", "NaN", "Inf", ""} {
		_, err := ParseAmounts([]string{"1", bad})
		var v *ValidationError
		require.ErrorAs(t, err, &v, "input %q", bad)
		assert.Equal(t, 1, v.Index)
	}
}

package tax

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// WeeksPerYear annualises weekly figures.
const WeeksPerYear = 52

var (
	weeks         = decimal.NewFromInt(WeeksPerYear)
	hundred       = decimal.NewFromInt(100)
	coefficientX  = decimal.RequireFromString("0.99")
	one           = decimal.NewFromInt(1)
	currencyPlace = int32(2)
)

// AnnualTax returns the tax owed on a year's taxable income.
func AnnualTax(income decimal.Decimal, brackets []Bracket) (decimal.Decimal, error) {
	if income.IsNegative() {
		return decimal.Zero, newValidationError(-1, income.String(), "income must be non-negative")
	}
	for _, b := range brackets {
		if !contains(b.Lower, b.Upper, income) {
			continue
		}
		return b.BaseTax.Add(income.Sub(b.Lower).Mul(b.Rate)).Round(currencyPlace), nil
	}
	return decimal.Zero, ErrNotContiguous
}

// Withholding returns the amount an employer withholds from one week's pay,
// never below zero and rounded to the cent.
func Withholding(weekly decimal.Decimal, bands []WithholdingBand) (decimal.Decimal, error) {
	if weekly.IsNegative() {
		return decimal.Zero, newValidationError(-1, weekly.String(), "weekly earnings must be non-negative")
	}
	for _, w := range bands {
		if !contains(w.Lower, w.Upper, weekly) {
			continue
		}
		y := w.A.Mul(weekly.Add(coefficientX)).Sub(w.B)
		if y.IsNegative() {
			return decimal.Zero, nil
		}
		return y.Round(currencyPlace), nil
	}
	return decimal.Zero, ErrNotContiguous
}

// Super returns the guarantee contribution paid on top of base.
func Super(base, rate decimal.Decimal) (decimal.Decimal, error) {
	if base.IsNegative() {
		return decimal.Zero, newValidationError(-1, base.String(), "salary must be non-negative")
	}
	return base.Mul(rate).Round(currencyPlace), nil
}

// PackageToBase strips super out of a package quoted inclusive of it.
func PackageToBase(total, rate decimal.Decimal) (decimal.Decimal, error) {
	if total.IsNegative() {
		return decimal.Zero, newValidationError(-1, total.String(), "package must be non-negative")
	}
	return total.Div(one.Add(rate)).Round(currencyPlace), nil
}

// SplitPackage separates a total package into base salary and super.
func SplitPackage(total, rate decimal.Decimal) (base, super decimal.Decimal, err error) {
	if total.IsNegative() {
		return decimal.Zero, decimal.Zero, newValidationError(-1, total.String(), "package must be non-negative")
	}
	// Super is taken on the unrounded base so base+super tracks the package.
	exact := total.Div(one.Add(rate))
	return exact.Round(currencyPlace), exact.Mul(rate).Round(currencyPlace), nil
}

// Amounts converts raw floats, rejecting NaN and infinities.
func Amounts(values []float64) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, newValidationError(i, strconv.FormatFloat(v, 'g', -1, 64), "salary must be finite")
		}
		out[i] = decimal.NewFromFloat(v)
	}
	return out, nil
}

var amountCleaner = strings.NewReplacer("$", "", ",", "", " ", "")

// ParseAmounts parses salaries typed on a command line; "$1,693" is accepted.
func ParseAmounts(values []string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		amount, err := decimal.NewFromString(amountCleaner.Replace(v))
		if err != nil {
			return nil, newValidationError(i, v, "salary is not a number")
		}
		out[i] = amount
	}
	return out, nil
}

package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Bracket is one row of the annual progressive schedule. An invalid Upper
// marks the open-ended top bracket.
type Bracket struct {
	Lower   decimal.Decimal
	Upper   decimal.NullDecimal
	BaseTax decimal.Decimal
	Rate    decimal.Decimal
}

// WithholdingBand holds the weekly coefficients used as a × (x + 0.99) − b.
type WithholdingBand struct {
	Lower decimal.Decimal
	Upper decimal.NullDecimal
	A     decimal.Decimal
	B     decimal.Decimal
}

// Schedule groups the tables for one financial year.
type Schedule struct {
	Name        string
	Brackets    []Bracket
	Withholding []WithholdingBand
	SuperRate   decimal.Decimal
}

const DefaultScheduleName = "2024-25"

var DefaultSuperRate = decimal.RequireFromString("0.11")

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func upper(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(d(s))
}

var unbounded = decimal.NullDecimal{}

// DefaultSchedule returns the 2024-25 resident tables.
func DefaultSchedule() Schedule {
	return Schedule{
		Name: DefaultScheduleName,
		Brackets: []Bracket{
			{Lower: d("0"), Upper: upper("18200"), BaseTax: d("0"), Rate: d("0")},
			{Lower: d("18200"), Upper: upper("45000"), BaseTax: d("0"), Rate: d("0.19")},
			{Lower: d("45000"), Upper: upper("120000"), BaseTax: d("5092"), Rate: d("0.325")},
			{Lower: d("120000"), Upper: upper("180000"), BaseTax: d("29467"), Rate: d("0.37")},
			{Lower: d("180000"), Upper: unbounded, BaseTax: d("51667"), Rate: d("0.45")},
		},
		// Scale 2, tax-free threshold claimed.
		Withholding: []WithholdingBand{
			{Lower: d("0"), Upper: upper("359"), A: d("0"), B: d("0")},
			{Lower: d("359"), Upper: upper("438"), A: d("0.1900"), B: d("68.3462")},
			{Lower: d("438"), Upper: upper("548"), A: d("0.2900"), B: d("112.1942")},
			{Lower: d("548"), Upper: upper("721"), A: d("0.2100"), B: d("68.3465")},
			{Lower: d("721"), Upper: upper("865"), A: d("0.2190"), B: d("74.8369")},
			{Lower: d("865"), Upper: upper("1282"), A: d("0.3477"), B: d("186.2119")},
			{Lower: d("1282"), Upper: upper("2307"), A: d("0.3450"), B: d("182.7504")},
			{Lower: d("2307"), Upper: upper("3461"), A: d("0.3900"), B: d("286.5965")},
			{Lower: d("3461"), Upper: unbounded, A: d("0.4700"), B: d("563.5196")},
		},
		SuperRate: DefaultSuperRate,
	}
}

var (
	ErrEmptyTable     = errors.New("table has no rows")
	ErrNotContiguous  = errors.New("rows are not contiguous")
	ErrOpenEnded      = errors.New("only the last row may be unbounded")
	ErrBoundedLast    = errors.New("last row must be unbounded")
	ErrRateOutOfRange = errors.New("rate must be within [0, 1]")
)

// Validate checks that both tables start at zero, are contiguous and sorted,
// and end in an unbounded row.
func (s Schedule) Validate() error {
	if s.SuperRate.IsNegative() || s.SuperRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("super rate %s: %w", s.SuperRate, ErrRateOutOfRange)
	}

	rows := make([]span, len(s.Brackets))
	for i, b := range s.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("bracket %d: %w", i, ErrRateOutOfRange)
		}
		rows[i] = span{b.Lower, b.Upper}
	}
	if err := validateSpans(rows); err != nil {
		return fmt.Errorf("brackets: %w", err)
	}

	rows = make([]span, len(s.Withholding))
	for i, w := range s.Withholding {
		rows[i] = span{w.Lower, w.Upper}
	}
	if err := validateSpans(rows); err != nil {
		return fmt.Errorf("withholding: %w", err)
	}
	return nil
}

type span struct {
	lower decimal.Decimal
	upper decimal.NullDecimal
}

func validateSpans(rows []span) error {
	if len(rows) == 0 {
		return ErrEmptyTable
	}
	if !rows[0].lower.IsZero() {
		return fmt.Errorf("row 0 starts at %s: %w", rows[0].lower, ErrNotContiguous)
	}
	last := len(rows) - 1
	for i, r := range rows {
		if i == last {
			if r.upper.Valid {
				return ErrBoundedLast
			}
			break
		}
		if !r.upper.Valid {
			return fmt.Errorf("row %d: %w", i, ErrOpenEnded)
		}
		if !r.upper.Decimal.GreaterThan(r.lower) {
			return fmt.Errorf("row %d: upper %s not above lower %s: %w", i, r.upper.Decimal, r.lower, ErrNotContiguous)
		}
		if !rows[i+1].lower.Equal(r.upper.Decimal) {
			return fmt.Errorf("row %d ends at %s, row %d starts at %s: %w", i, r.upper.Decimal, i+1, rows[i+1].lower, ErrNotContiguous)
		}
	}
	return nil
}

// contains reports lower <= x < upper, or x >= lower for an unbounded row.
func contains(lower decimal.Decimal, up decimal.NullDecimal, x decimal.Decimal) bool {
	if x.LessThan(lower) {
		return false
	}
	return !up.Valid || x.LessThan(up.Decimal)
}

// BracketInfo describes where an annual income sits in the schedule.
type BracketInfo struct {
	Number  int // 1-based
	Range   string
	Rate    decimal.Decimal
	Bracket Bracket
}

// BracketFor returns the bracket that applies to income.
func (s Schedule) BracketFor(income decimal.Decimal) (BracketInfo, error) {
	if income.IsNegative() {
		return BracketInfo{}, newValidationError(-1, income.String(), "income must be non-negative")
	}
	for i, b := range s.Brackets {
		if contains(b.Lower, b.Upper, income) {
			return BracketInfo{
				Number:  i + 1,
				Range:   rangeLabel(b),
				Rate:    b.Rate,
				Bracket: b,
			}, nil
		}
	}
	return BracketInfo{}, fmt.Errorf("no bracket covers %s: %w", income, ErrNotContiguous)
}

// rangeLabel prints the bracket bounds with thousands separators. The lower
// bound is inclusive, as in contains.
func rangeLabel(b Bracket) string {
	if !b.Upper.Valid {
		return dollars(b.Lower) + "+"
	}
	return dollars(b.Lower) + " - " + dollars(b.Upper.Decimal)
}

func dollars(v decimal.Decimal) string {
	p := message.NewPrinter(language.English)
	if v.IsInteger() {
		return p.Sprintf("$%d", v.IntPart())
	}
	return p.Sprintf("$%.2f", v.InexactFloat64())
}

// Package report renders tax breakdowns as plain text.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tax-engine/internal/tax"
)

const width = 80

var (
	banner  = strings.Repeat("=", width)
	divider = strings.Repeat("-", width)
	hundred = decimal.NewFromInt(100)
)

type printer struct {
	buf bytes.Buffer
	p   *message.Printer
}

func newPrinter() *printer {
	return &printer{p: message.NewPrinter(language.English)}
}

func (pr *printer) line(format string, args ...interface{}) {
	pr.p.Fprintf(&pr.buf, format, args...)
	pr.buf.WriteByte('\n')
}

// money renders a grouped, two decimal dollar amount such as $19,078.70.
func (pr *printer) money(v decimal.Decimal) string {
	return pr.p.Sprintf("$%.2f", v.Round(2).InexactFloat64())
}

func percent(v decimal.Decimal) string {
	return v.StringFixed(1) + "%"
}

func centered(title string) string {
	pad := (width - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + title
}

// Write renders the full report: one section per person and the batch
// summary.
func Write(w io.Writer, batch tax.Batch, superRate decimal.Decimal) error {
	pr := newPrinter()

	pr.line("")
	pr.line(banner)
	pr.line(centered("AUSTRALIAN TAX CALCULATION REPORT"))
	pr.line(banner)

	superLabel := fmt.Sprintf("Superannuation (%s%%):", superRate.Mul(hundred).String())
	for i, b := range batch.Breakdowns {
		pr.line("")
		pr.line("## Person %d", i+1)
		pr.line("   %-28s %s", "Weekly Salary:", pr.money(b.WeeklySalary))
		pr.line("   %-28s %s", superLabel, pr.money(b.WeeklySuper))
		pr.line("   %-28s %s", "Weekly Withholding Tax:", pr.money(b.WeeklyWithholding))
		pr.line("   %-28s %s", "Weekly Take-Home Pay:", pr.money(b.WeeklyNet))
		pr.line("   %-28s %s", "Annual Income Tax:", pr.money(b.AnnualTax))
		pr.line("   %-28s %s", "Estimated Tax Refund:", pr.money(b.TaxRefund))
		pr.line("   %-28s %s", "Effective Tax Rate:", percent(b.EffectiveRate))
	}

	s := batch.Summary
	pr.line("")
	pr.line(divider)
	pr.line("SUMMARY STATISTICS")
	pr.line(divider)
	pr.line("   %-30s %d", "Total Employees:", s.Count)
	pr.line("   %-30s %s", "Average Weekly Salary:", pr.money(s.AverageSalary))
	pr.line("   %-30s %s", "Total Annual Tax Collected:", pr.money(s.TotalAnnualTax))
	pr.line("   %-30s %s", "Total Tax Refunds:", pr.money(s.TotalRefund))
	pr.line("   %-30s %s", "Average Effective Tax Rate:", percent(s.AverageEffectiveRate))
	pr.line(banner)

	_, err := w.Write(pr.buf.Bytes())
	return err
}

// Summary returns the one-line form of a breakdown for person n (1-based).
func Summary(b tax.EmployeeBreakdown, n int) string {
	return fmt.Sprintf(
		"## Person %d weekly salary $%s weekly superannuation contribution $%s "+
			"weekly withholding tax $%s weekly income $%s income tax $%s tax return $%s.",
		n,
		b.WeeklySalary.StringFixed(2),
		b.WeeklySuper.StringFixed(2),
		b.WeeklyWithholding.StringFixed(2),
		b.WeeklyNet.StringFixed(2),
		b.AnnualTax.StringFixed(2),
		b.TaxRefund.StringFixed(2),
	)
}

// WriteCompact writes one Summary line per breakdown.
func WriteCompact(w io.Writer, batch tax.Batch) error {
	var buf bytes.Buffer
	for i, b := range batch.Breakdowns {
		buf.WriteString(Summary(b, i+1))
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

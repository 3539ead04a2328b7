package main

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"tax-engine/internal/report"
	"tax-engine/internal/sample"
	"tax-engine/internal/tax"
)

// demoSalaries is the ten-employee list used when no salaries are given.
var demoSalaries = []string{"1693", "1358", "1772", "2234", "1308", "1308", "2263", "1835", "1184", "1717"}

type reportOptions struct {
	compact    bool
	sampleSize int
	sample     sample.Options
}

// runReport computes the batch named by args (or the sample/demo list) and
// writes the text report to w.
func runReport(w io.Writer, calc *tax.Calculator, args []string, opts reportOptions) error {
	salaries, err := reportSalaries(args, opts)
	if err != nil {
		return err
	}

	log.Infof("Processing %d employees", len(salaries))
	batch, err := calc.Batch(salaries)
	if err != nil {
		return fmt.Errorf("batch rejected: %w", err)
	}

	if err := report.Write(w, batch, calc.Schedule().SuperRate); err != nil {
		return err
	}
	if !opts.compact {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return report.WriteCompact(w, batch)
}

func reportSalaries(args []string, opts reportOptions) ([]decimal.Decimal, error) {
	switch {
	case opts.sampleSize > 0 && len(args) > 0:
		return nil, fmt.Errorf("-sample cannot be combined with explicit salaries")
	case opts.sampleSize > 0:
		return sample.Salaries(opts.sampleSize, opts.sample), nil
	case len(args) > 0:
		return tax.ParseAmounts(args)
	default:
		return tax.ParseAmounts(demoSalaries)
	}
}

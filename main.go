package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"tax-engine/internal/config"
	"tax-engine/internal/sample"
	"tax-engine/internal/tax"
)

var (
	configPath = flag.String("config", "", "config file path (empty means built-in 2024-25 tables)")
	serve      = flag.Bool("serve", false, "run the HTTP calculation service instead of printing a report")
	convention = flag.String("convention", "", "salary convention: base (super paid on top) or package (super included); overrides config")
	compact    = flag.Bool("compact", false, "print one summary line per person after the report")
	sampleSize = flag.Int("sample", 0, "generate N normally distributed sample salaries instead of reading arguments")
	sampleSeed = flag.Uint64("seed", sample.DefaultSeed, "random seed for -sample")
	logLevel   = flag.String("log.level", "", "log level (trace debug info warn error critical off); overrides config")

	log = logrus.WithField("module", "main")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [--] [weekly salary ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	// Errors exit through flag.ExitOnError.
	_ = flag.CommandLine.Parse(markSalaries(os.Args[1:]))
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.0000",
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	level, err := cfg.Log.LogrusLevel()
	if err != nil {
		log.Fatalf("%v", err)
	}
	logrus.SetLevel(level)
	if *convention != "" {
		cfg.Tax.Convention = *convention
	}

	calc, err := newCalculator(cfg.Tax)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if *serve {
		if err := runServer(cfg, calc); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	opts := reportOptions{
		compact:    *compact,
		sampleSize: *sampleSize,
		sample:     sample.DefaultOptions(),
	}
	opts.sample.Seed = *sampleSeed
	if err := runReport(os.Stdout, calc, flag.Args(), opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// markSalaries inserts "--" before the first argument that reads as a
// negative amount so it reaches validation instead of flag parsing.
func markSalaries(args []string) []string {
	for i, a := range args {
		if a == "--" {
			return args
		}
		if !strings.HasPrefix(a, "-") {
			continue
		}
		if _, err := tax.ParseAmounts([]string{strings.TrimPrefix(a, "-")}); err != nil {
			continue
		}
		marked := make([]string, 0, len(args)+1)
		marked = append(marked, args[:i]...)
		marked = append(marked, "--")
		return append(marked, args[i:]...)
	}
	return args
}

func newCalculator(c config.TaxConfig) (*tax.Calculator, error) {
	schedule, err := c.Schedule()
	if err != nil {
		return nil, err
	}
	conv, err := tax.ParseConvention(c.Convention)
	if err != nil {
		return nil, err
	}
	log.Debugf("schedule %s, convention %s, super rate %s", schedule.Name, conv, schedule.SuperRate)
	return tax.NewCalculator(schedule, conv)
}

// Package sample draws synthetic weekly salaries for demonstrations.
package sample

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/rand"
)

const (
	DefaultMean = 1431.0
	DefaultStd  = 527.0
	DefaultSeed = 42
)

type Options struct {
	Mean float64
	Std  float64
	Seed uint64
}

func DefaultOptions() Options {
	return Options{Mean: DefaultMean, Std: DefaultStd, Seed: DefaultSeed}
}

// Salaries returns n normally distributed weekly salaries rounded to whole
// dollars. Draws below zero are clamped to zero. The same seed always yields
// the same list.
func Salaries(n int, opts Options) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	r := rand.New(rand.NewSource(opts.Seed))
	out := make([]decimal.Decimal, n)
	for i := range out {
		v := math.Round(r.NormFloat64()*opts.Std + opts.Mean)
		out[i] = decimal.NewFromInt(int64(math.Max(v, 0)))
	}
	return out
}

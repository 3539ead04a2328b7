package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSalariesDeterministic(t *testing.T) {
	a := Salaries(25, DefaultOptions())
	b := Salaries(25, DefaultOptions())
	assert.Len(t, a, 25)
	for i := range a {
		assert.True(t, a[i].Equal(b[i]))
		assert.False(t, a[i].IsNegative())
		assert.True(t, a[i].IsInteger(), "salary %s is not whole dollars", a[i])
	}
}

func TestSalariesSeedChangesOutput(t *testing.T) {
	opts := DefaultOptions()
	a := Salaries(10, opts)
	opts.Seed++
	b := Salaries(10, opts)

	same := true
	for i := range a {
		if !a[i].Equal(b[i]) {
			same = false
		}
	}
	assert.False(t, same)
}

func TestSalariesClampsAtZero(t *testing.T) {
	for _, s := range Salaries(50, Options{Mean: -1000, Std: 1, Seed: 1}) {
		assert.True(t, s.IsZero())
	}
}

func TestSalariesEmpty(t *testing.T) {
	assert.Nil(t, Salaries(0, DefaultOptions()))
}

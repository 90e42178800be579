// Package money provides a fixed-point representation of monetary values
// as an integer number of minor currency units (paise, cents, ...).
// All arithmetic is integer-only; conversion to and from decimal display
// strings happens at the API boundary and nowhere else.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units. A Money value is signed:
// negative amounts are meaningful for balances.
type Money int64

// Zero is the zero amount.
const Zero Money = 0

var (
	ErrTooPrecise    = errors.New("amount has sub-minor-unit precision")
	ErrEmptyWeights  = errors.New("no allocation weights")
	ErrBadWeight     = errors.New("allocation weight must not be negative")
	ErrZeroWeightSum = errors.New("allocation weights sum to zero")
)

func (m Money) Add(other Money) Money { return m + other }

func (m Money) Sub(other Money) Money { return m - other }

func (m Money) Neg() Money { return -m }

func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) Money {
	if other < m {
		return other
	}
	return m
}

func (m Money) IsZero() bool     { return m == 0 }
func (m Money) IsPositive() bool { return m > 0 }
func (m Money) IsNegative() bool { return m < 0 }

// Cmp returns -1, 0 or +1 comparing m to other.
func (m Money) Cmp(other Money) int {
	switch {
	case m < other:
		return -1
	case m > other:
		return 1
	}
	return 0
}

// minorDigits is the number of decimal places of the minor unit. The app
// runs on a single currency per group with two decimal places; currencies
// without minor units are a display concern we don't support yet.
const minorDigits = 2

// ParseMajor converts a decimal major-unit string ("12.34") to minor
// units. Amounts with more precision than the minor unit are rejected
// rather than rounded, so nothing is silently lost at the boundary.
func ParseMajor(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts a decimal major-unit value to minor units.
func FromDecimal(d decimal.Decimal) (Money, error) {
	minor := d.Shift(minorDigits)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrTooPrecise, d.String())
	}
	return Money(minor.IntPart()), nil
}

// Decimal returns the amount in major units as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -minorDigits)
}

// Major formats the amount in major units, e.g. Money(1234).Major() == "12.34".
func (m Money) Major() string {
	return m.Decimal().StringFixed(minorDigits)
}

func (m Money) String() string { return m.Major() }

// Allocate divides total across the given non-negative weights so that the
// parts sum to total exactly. Each part gets its floor share; the leftover
// minor units go to the parts with the largest remainders, ties resolved by
// index, which keeps the result deterministic. Works for negative totals
// as well (the allocation of -total, negated).
func Allocate(total Money, weights []int64) ([]Money, error) {
	if len(weights) == 0 {
		return nil, ErrEmptyWeights
	}

	var sum int64
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: %d", ErrBadWeight, w)
		}
		sum += w
	}
	if sum == 0 {
		return nil, ErrZeroWeightSum
	}

	if total < 0 {
		parts, err := Allocate(-total, weights)
		if err != nil {
			return nil, err
		}
		for i := range parts {
			parts[i] = -parts[i]
		}
		return parts, nil
	}

	parts := make([]Money, len(weights))
	remainders := make([]int64, len(weights))
	var allocated int64
	for i, w := range weights {
		share := int64(total) * w / sum
		parts[i] = Money(share)
		remainders[i] = int64(total) * w % sum
		allocated += share
	}

	// Hand out the leftover units one by one, largest remainder first.
	for leftover := int64(total) - allocated; leftover > 0; leftover-- {
		best := -1
		for i, r := range remainders {
			if best == -1 || r > remainders[best] {
				best = i
			}
		}
		parts[best]++
		remainders[best] = -1
	}

	return parts, nil
}

// SplitEven divides total into n equal parts, remainder units going to the
// first parts.
func SplitEven(total Money, n int) ([]Money, error) {
	if n <= 0 {
		return nil, ErrEmptyWeights
	}
	weights := make([]int64, n)
	for i := range weights {
		weights[i] = 1
	}
	return Allocate(total, weights)
}

// Sum adds up a slice of amounts.
func Sum(amounts []Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}

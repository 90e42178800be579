package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Money(300), Money(100).Add(Money(200)))
	assert.Equal(t, Money(-100), Money(200).Sub(Money(300)))
	assert.Equal(t, Money(-100), Money(100).Neg())
	assert.Equal(t, Money(100), Money(-100).Abs())
	assert.Equal(t, Money(100), Money(100).Abs())
	assert.Equal(t, Money(50), Money(100).Min(Money(50)))
	assert.Equal(t, Money(50), Money(50).Min(Money(100)))

	assert.True(t, Zero.IsZero())
	assert.True(t, Money(1).IsPositive())
	assert.True(t, Money(-1).IsNegative())

	assert.Equal(t, -1, Money(1).Cmp(Money(2)))
	assert.Equal(t, 0, Money(2).Cmp(Money(2)))
	assert.Equal(t, 1, Money(3).Cmp(Money(2)))
}

func TestParseMajor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    Money
		wantErr bool
	}{
		{name: "whole", in: "12", want: 1200},
		{name: "two_decimals", in: "12.34", want: 1234},
		{name: "one_decimal", in: "0.5", want: 50},
		{name: "negative", in: "-3.21", want: -321},
		{name: "zero", in: "0", want: 0},
		{name: "trailing_zeros", in: "10.10", want: 1010},
		{name: "too_precise", in: "1.005", wantErr: true},
		{name: "not_a_number", in: "ten", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMajor(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMajor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12.34", Money(1234).Major())
	assert.Equal(t, "0.05", Money(5).Major())
	assert.Equal(t, "-3.00", Money(-300).Major())
	assert.Equal(t, "0.00", Zero.Major())
}

func TestAllocate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		total   Money
		weights []int64
		want    []Money
		wantErr error
	}{
		{name: "even", total: 900, weights: []int64{1, 1, 1}, want: []Money{300, 300, 300}},
		{name: "remainder_to_first", total: 1000, weights: []int64{1, 1, 1}, want: []Money{334, 333, 333}},
		{name: "shares", total: 1000, weights: []int64{2, 1, 1}, want: []Money{500, 250, 250}},
		{name: "uneven_shares", total: 100, weights: []int64{1, 2}, want: []Money{33, 67}},
		{name: "zero_weight_member", total: 100, weights: []int64{1, 0, 1}, want: []Money{50, 0, 50}},
		{name: "negative_total", total: -1000, weights: []int64{1, 1, 1}, want: []Money{-334, -333, -333}},
		{name: "single", total: 77, weights: []int64{5}, want: []Money{77}},
		{name: "percent_basis_points", total: 10000, weights: []int64{3333, 3333, 3334}, want: []Money{3333, 3333, 3334}},
		{name: "no_weights", total: 100, weights: nil, wantErr: ErrEmptyWeights},
		{name: "negative_weight", total: 100, weights: []int64{1, -1}, wantErr: ErrBadWeight},
		{name: "all_zero_weights", total: 100, weights: []int64{0, 0}, wantErr: ErrZeroWeightSum},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Allocate(tt.total, tt.weights)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.total, Sum(got), "allocation must conserve the total")
		})
	}
}

func TestAllocateConservesTotal(t *testing.T) {
	t.Parallel()

	// Awkward totals and weights must never lose or mint a unit.
	weights := [][]int64{
		{1, 1, 1},
		{1, 2, 3, 4},
		{7},
		{1, 1, 1, 1, 1, 1, 1},
		{99, 1},
	}
	for total := Money(0); total < 500; total++ {
		for _, w := range weights {
			parts, err := Allocate(total, w)
			require.NoError(t, err)
			require.Equal(t, total, Sum(parts), "total=%d weights=%v", total, w)
		}
	}
}

func TestSplitEven(t *testing.T) {
	t.Parallel()

	parts, err := SplitEven(902, 3)
	require.NoError(t, err)
	assert.Equal(t, []Money{301, 301, 300}, parts)

	_, err = SplitEven(100, 0)
	require.ErrorIs(t, err, ErrEmptyWeights)
}

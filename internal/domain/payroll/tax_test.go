package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTax(t *testing.T) {
	tests := []struct {
		income string
		want   string
	}{
		{"-1000000", "0"},
		{"0", "0"},
		{"5000000", "0"},
		{"5000001", "0.05"},
		{"7500000", "125000"},
		{"10000000", "250000"},
		{"17900000", "1040000"},
		{"18000000", "1050000"},
		{"32000000", "3150000"},
		{"52000000", "7150000"},
		{"80000000", "14150000"},
		{"100000000", "20150000"},
	}

	for _, tt := range tests {
		t.Run(tt.income, func(t *testing.T) {
			got := Tax(decimal.RequireFromString(tt.income))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Tax(%s) = %s, want %s", tt.income, got, tt.want)
			}
		})
	}
}

func TestTax_ContinuousAtBoundaries(t *testing.T) {
	epsilon := decimal.RequireFromString("0.01")
	for _, b := range taxBrackets {
		if b.upTo == nil {
			continue
		}
		at := Tax(*b.upTo)
		above := Tax(b.upTo.Add(epsilon))
		if above.LessThan(at) {
			t.Errorf("Tax decreases past %s: %s -> %s", b.upTo, at, above)
		}
		if above.Sub(at).GreaterThan(epsilon) {
			t.Errorf("Tax jumps past %s: %s -> %s", b.upTo, at, above)
		}
	}
}

func TestTax_NonDecreasing(t *testing.T) {
	step := decimal.NewFromInt(250000)
	prev := Tax(decimal.Zero)
	for i := decimal.Zero; i.LessThan(decimal.NewFromInt(120000000)); i = i.Add(step) {
		cur := Tax(i)
		if cur.LessThan(prev) {
			t.Fatalf("Tax(%s) = %s is below previous %s", i, cur, prev)
		}
		prev = cur
	}
}

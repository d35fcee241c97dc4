package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   bool
	}{
		{name: "whole amount", input: "100.00", wantCents: 10000},
		{name: "no fraction digits", input: "42", wantCents: 4200},
		{name: "one fraction digit", input: "9.5", wantCents: 950},
		{name: "two fraction digits", input: "33.34", wantCents: 3334},
		{name: "three fraction digits rejected", input: "10.005", wantErr: true},
		{name: "garbage rejected", input: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && m.Cents() != tt.wantCents {
				t.Errorf("Parse(%q) = %d cents, want %d", tt.input, m.Cents(), tt.wantCents)
			}
		})
	}
}

func TestFromDecimalRoundsHalfUp(t *testing.T) {
	tests := []struct {
		input     string
		wantCents int64
	}{
		{"29.997", 3000},
		{"29.994", 2999},
		{"0.005", 1},
		{"10.125", 1013},
	}

	for _, tt := range tests {
		d, _ := decimal.NewFromString(tt.input)
		if got := FromDecimal(d).Cents(); got != tt.wantCents {
			t.Errorf("FromDecimal(%s) = %d cents, want %d", tt.input, got, tt.wantCents)
		}
	}
}

func TestArithmetic(t *testing.T) {
	a := FromCents(3334)
	b := FromCents(3333)

	if got := a.Add(b).Cents(); got != 6667 {
		t.Errorf("Add = %d, want 6667", got)
	}
	if got := a.Sub(b).Cents(); got != 1 {
		t.Errorf("Sub = %d, want 1", got)
	}
	if got := b.MulInt(3).Cents(); got != 9999 {
		t.Errorf("MulInt = %d, want 9999", got)
	}
	if a.Cmp(b) != 1 || b.Cmp(a) != -1 || a.Cmp(a) != 0 {
		t.Error("Cmp ordering is wrong")
	}
	if !a.IsPositive() || a.Neg().IsPositive() || !Zero().IsZero() {
		t.Error("sign predicates are wrong")
	}
}

func TestDivideEvenly(t *testing.T) {
	tests := []struct {
		name          string
		cents         int64
		n             int
		wantShare     int64
		wantRemainder int
		wantErr       bool
	}{
		{name: "exact division", cents: 9000, n: 3, wantShare: 3000, wantRemainder: 0},
		{name: "one cent remainder", cents: 10000, n: 3, wantShare: 3333, wantRemainder: 1},
		{name: "two cent remainder", cents: 200, n: 3, wantShare: 66, wantRemainder: 2},
		{name: "single participant", cents: 12345, n: 1, wantShare: 12345, wantRemainder: 0},
		{name: "zero participants", cents: 100, n: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			share, remainder, err := FromCents(tt.cents).DivideEvenly(tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DivideEvenly error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if share.Cents() != tt.wantShare || remainder != tt.wantRemainder {
				t.Errorf("DivideEvenly = (%d, %d), want (%d, %d)",
					share.Cents(), remainder, tt.wantShare, tt.wantRemainder)
			}
			// shares plus distributed remainder must reconstruct the total
			total := share.MulInt(int64(tt.n)).Add(FromCents(int64(remainder)))
			if total.Cents() != tt.cents {
				t.Errorf("shares sum to %d, want %d", total.Cents(), tt.cents)
			}
		})
	}
}

func TestApplyFraction(t *testing.T) {
	total := FromCents(9000) // 90.00
	f, _ := decimal.NewFromString("0.3333")
	// 90.00 * 0.3333 = 29.997 -> 30.00 half-up
	if got := total.ApplyFraction(f).Cents(); got != 3000 {
		t.Errorf("ApplyFraction = %d cents, want 3000", got)
	}
}

func TestString(t *testing.T) {
	if got := FromCents(3334).String(); got != "33.34" {
		t.Errorf("String = %q, want %q", got, "33.34")
	}
	if got := FromCents(-50).String(); got != "-0.50" {
		t.Errorf("String = %q, want %q", got, "-0.50")
	}
}

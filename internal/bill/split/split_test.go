package split

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"billshare/internal/money"
)

func cents(c int64) money.Money {
	return money.FromCents(c)
}

func moneyPtr(c int64) *money.Money {
	m := money.FromCents(c)
	return &m
}

func pctPtr(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func sumShares(shares []Share) money.Money {
	sum := money.Zero()
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}
	return sum
}

func TestEqualStrategy(t *testing.T) {
	tests := []struct {
		name      string
		total     money.Money
		userIDs   []int64
		wantCents []int64
		wantErr   error
	}{
		{
			name:      "100.00 among three, first absorbs the extra cent",
			total:     cents(10000),
			userIDs:   []int64{1, 2, 3},
			wantCents: []int64{3334, 3333, 3333},
		},
		{
			name:      "two cent remainder goes to first two",
			total:     cents(200),
			userIDs:   []int64{7, 8, 9},
			wantCents: []int64{67, 67, 66},
		},
		{
			name:      "single participant takes everything",
			total:     cents(5000),
			userIDs:   []int64{1},
			wantCents: []int64{5000},
		},
		{
			name:    "empty participants",
			total:   cents(100),
			userIDs: nil,
			wantErr: ErrNoParticipants,
		},
		{
			name:    "zero total",
			total:   money.Zero(),
			userIDs: []int64{1, 2},
			wantErr: ErrNonPositiveTotal,
		},
		{
			name:    "duplicate participant",
			total:   cents(100),
			userIDs: []int64{1, 1},
			wantErr: ErrDuplicateParticipant,
		},
	}

	strategy := &EqualStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			participants := make([]Input, len(tt.userIDs))
			for i, id := range tt.userIDs {
				participants[i] = Input{UserID: id}
			}

			shares, err := strategy.Calculate(tt.total, participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Calculate error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Calculate error = %v", err)
			}
			for i, want := range tt.wantCents {
				if shares[i].Amount.Cents() != want {
					t.Errorf("share[%d] = %d cents, want %d", i, shares[i].Amount.Cents(), want)
				}
				if shares[i].UserID != tt.userIDs[i] {
					t.Errorf("share[%d] user = %d, want %d (input order)", i, shares[i].UserID, tt.userIDs[i])
				}
			}
			if !sumShares(shares).Equal(tt.total) {
				t.Errorf("shares sum to %s, want %s", sumShares(shares), tt.total)
			}
		})
	}
}

func TestEqualStrategySumsExactlyForAnyCount(t *testing.T) {
	strategy := &EqualStrategy{}
	total := cents(10000)
	for n := 1; n <= 11; n++ {
		participants := make([]Input, n)
		for i := range participants {
			participants[i] = Input{UserID: int64(i + 1)}
		}
		shares, err := strategy.Calculate(total, participants)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if !sumShares(shares).Equal(total) {
			t.Errorf("n=%d: shares sum to %s, want %s", n, sumShares(shares), total)
		}
	}
}

func TestExactStrategy(t *testing.T) {
	tests := []struct {
		name    string
		total   money.Money
		inputs  []Input
		wantErr error
	}{
		{
			name:  "amounts summing exactly",
			total: cents(10000),
			inputs: []Input{
				{UserID: 1, Amount: moneyPtr(7000)},
				{UserID: 2, Amount: moneyPtr(3000)},
			},
		},
		{
			name:  "one cent off is rejected",
			total: cents(10000),
			inputs: []Input{
				{UserID: 1, Amount: moneyPtr(7000)},
				{UserID: 2, Amount: moneyPtr(3001)},
			},
			wantErr: ErrExactSumMismatch,
		},
		{
			name:  "missing amount",
			total: cents(10000),
			inputs: []Input{
				{UserID: 1, Amount: moneyPtr(10000)},
				{UserID: 2},
			},
			wantErr: ErrMissingExactAmount,
		},
		{
			name:  "negative amount",
			total: cents(100),
			inputs: []Input{
				{UserID: 1, Amount: moneyPtr(200)},
				{UserID: 2, Amount: moneyPtr(-100)},
			},
			wantErr: ErrNegativeExactAmount,
		},
	}

	strategy := &ExactStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := strategy.Calculate(tt.total, tt.inputs)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Calculate error = %v, want %v", err, tt.wantErr)
				}
				if shares != nil {
					t.Error("failed allocation must not return shares")
				}
				return
			}
			if err != nil {
				t.Fatalf("Calculate error = %v", err)
			}
			if !sumShares(shares).Equal(tt.total) {
				t.Errorf("shares sum to %s, want %s", sumShares(shares), tt.total)
			}
		})
	}
}

func TestPercentageStrategy(t *testing.T) {
	tests := []struct {
		name      string
		total     money.Money
		inputs    []Input
		wantCents []int64
		wantErr   error
	}{
		{
			name:  "90.00 split 0.3333/0.3333/0.3334, last absorbs residual",
			total: cents(9000),
			inputs: []Input{
				{UserID: 1, Percentage: pctPtr("0.3333")},
				{UserID: 2, Percentage: pctPtr("0.3333")},
				{UserID: 3, Percentage: pctPtr("0.3334")},
			},
			// 90.00*0.3333 = 29.997 -> 30.00 half-up, twice; last share
			// 90.00*0.3334 = 30.006 -> 30.01, corrected by -0.01 to 30.00
			wantCents: []int64{3000, 3000, 3000},
		},
		{
			name:  "whole percentages",
			total: cents(10000),
			inputs: []Input{
				{UserID: 1, Percentage: pctPtr("0.5")},
				{UserID: 2, Percentage: pctPtr("0.25")},
				{UserID: 3, Percentage: pctPtr("0.25")},
			},
			wantCents: []int64{5000, 2500, 2500},
		},
		{
			name:  "sum below one",
			total: cents(10000),
			inputs: []Input{
				{UserID: 1, Percentage: pctPtr("0.5")},
				{UserID: 2, Percentage: pctPtr("0.4")},
			},
			wantErr: ErrPercentageSumMismatch,
		},
		{
			name:  "missing percentage",
			total: cents(10000),
			inputs: []Input{
				{UserID: 1, Percentage: pctPtr("1")},
				{UserID: 2},
			},
			wantErr: ErrMissingPercentage,
		},
		{
			name:  "zero percentage out of range",
			total: cents(10000),
			inputs: []Input{
				{UserID: 1, Percentage: pctPtr("0")},
				{UserID: 2, Percentage: pctPtr("1")},
			},
			wantErr: ErrPercentageOutOfRange,
		},
		{
			name:  "more than four decimal digits",
			total: cents(10000),
			inputs: []Input{
				{UserID: 1, Percentage: pctPtr("0.33333")},
				{UserID: 2, Percentage: pctPtr("0.66667")},
			},
			wantErr: ErrPercentagePrecision,
		},
	}

	strategy := &PercentageStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := strategy.Calculate(tt.total, tt.inputs)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Calculate error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Calculate error = %v", err)
			}
			for i, want := range tt.wantCents {
				if shares[i].Amount.Cents() != want {
					t.Errorf("share[%d] = %d cents, want %d", i, shares[i].Amount.Cents(), want)
				}
			}
			if !sumShares(shares).Equal(tt.total) {
				t.Errorf("shares sum to %s, want %s", sumShares(shares), tt.total)
			}
		})
	}
}

func TestPercentageStrategySumsExactly(t *testing.T) {
	// uneven totals with awkward fractions must still reconcile exactly
	strategy := &PercentageStrategy{}
	totals := []money.Money{cents(9999), cents(10001), cents(33333), cents(1)}
	inputs := []Input{
		{UserID: 1, Percentage: pctPtr("0.1667")},
		{UserID: 2, Percentage: pctPtr("0.1667")},
		{UserID: 3, Percentage: pctPtr("0.1666")},
		{UserID: 4, Percentage: pctPtr("0.5")},
	}
	for _, total := range totals {
		shares, err := strategy.Calculate(total, inputs)
		if err != nil {
			t.Fatalf("total %s: %v", total, err)
		}
		if !sumShares(shares).Equal(total) {
			t.Errorf("total %s: shares sum to %s", total, sumShares(shares))
		}
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory()
	for _, typ := range []Type{TypeEqual, TypeExact, TypePercentage} {
		s, err := f.Create(typ)
		if err != nil {
			t.Fatalf("Create(%s) error = %v", typ, err)
		}
		if s.Type() != typ {
			t.Errorf("Create(%s).Type() = %s", typ, s.Type())
		}
	}
	if _, err := f.CreateFromString("FIBONACCI"); err == nil {
		t.Error("expected error for unknown split type")
	}
}

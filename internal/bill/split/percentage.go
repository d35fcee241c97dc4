package split

import (
	"github.com/shopspring/decimal"

	"billshare/internal/money"
)

// PercentageStrategy divides the total by caller-supplied fractions. Each
// fraction must lie in (0,1] with at most four decimal digits, and the
// fractions must sum to exactly 1. Each share is total x fraction rounded
// half-up to minor units; the last participant in input order absorbs the
// signed difference between the rounded sum and the total, so the shares
// always sum exactly.
type PercentageStrategy struct{}

var one = decimal.NewFromInt(1)

// Type returns the split type identifier
func (s *PercentageStrategy) Type() Type {
	return TypePercentage
}

// Validate checks if the inputs are valid for a percentage split
func (s *PercentageStrategy) Validate(total money.Money, participants []Input) error {
	if err := validateCommon(total, participants); err != nil {
		return err
	}

	sum := decimal.Zero
	for _, p := range participants {
		if p.Percentage == nil {
			return ErrMissingPercentage
		}
		f := *p.Percentage
		if !f.IsPositive() || f.GreaterThan(one) {
			return ErrPercentageOutOfRange
		}
		if !f.Equal(f.Round(4)) {
			return ErrPercentagePrecision
		}
		sum = sum.Add(f)
	}

	if !sum.Equal(one) {
		return ErrPercentageSumMismatch
	}

	return nil
}

// Calculate divides the total amount based on each participant's fraction
func (s *PercentageStrategy) Calculate(total money.Money, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	allocated := money.Zero()
	for i, p := range participants {
		amount := total.ApplyFraction(*p.Percentage)
		shares[i] = Share{UserID: p.UserID, Amount: amount}
		allocated = allocated.Add(amount)
	}

	// rounding correction: the last participant absorbs the residual cents
	if diff := total.Sub(allocated); !diff.IsZero() {
		last := len(shares) - 1
		shares[last].Amount = shares[last].Amount.Add(diff)
	}

	return shares, nil
}

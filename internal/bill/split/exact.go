package split

import "billshare/internal/money"

// ExactStrategy uses caller-supplied amounts. The amounts must sum to the
// total exactly; there is no tolerance, because Money arithmetic is exact.
type ExactStrategy struct{}

// Type returns the split type identifier
func (s *ExactStrategy) Type() Type {
	return TypeExact
}

// Validate checks if the inputs are valid for an exact split
func (s *ExactStrategy) Validate(total money.Money, participants []Input) error {
	if err := validateCommon(total, participants); err != nil {
		return err
	}

	sum := money.Zero()
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingExactAmount
		}
		if p.Amount.IsNegative() {
			return ErrNegativeExactAmount
		}
		sum = sum.Add(*p.Amount)
	}

	if !sum.Equal(total) {
		return ErrExactSumMismatch
	}

	return nil
}

// Calculate returns the amounts specified for each participant
func (s *ExactStrategy) Calculate(total money.Money, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{UserID: p.UserID, Amount: *p.Amount}
	}

	return shares, nil
}

package split

import "billshare/internal/money"

// EqualStrategy divides the total evenly among all participants. Remainder
// cents from the integer division go to the first participants in input
// order, one cent each, so the shares sum exactly to the total.
type EqualStrategy struct{}

// Type returns the split type identifier
func (s *EqualStrategy) Type() Type {
	return TypeEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(total money.Money, participants []Input) error {
	return validateCommon(total, participants)
}

// Calculate divides the total amount evenly among all participants
func (s *EqualStrategy) Calculate(total money.Money, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	base, remainder, err := total.DivideEvenly(len(participants))
	if err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		amount := base
		if i < remainder {
			amount = amount.Add(money.FromCents(1))
		}
		shares[i] = Share{UserID: p.UserID, Amount: amount}
	}

	return shares, nil
}

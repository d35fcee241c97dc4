package split

import (
	"github.com/shopspring/decimal"

	"billshare/internal/money"
	"billshare/pkg/apperror"
)

// Type identifies a split strategy
type Type string

const (
	TypeEqual      Type = "EQUAL"
	TypeExact      Type = "EXACT"
	TypePercentage Type = "PERCENTAGE"
)

// Input is one participant in an allocation request. Amount is set for
// EXACT splits, Percentage (a fraction in (0,1]) for PERCENTAGE splits.
type Input struct {
	UserID     int64            `json:"user_id"`
	Amount     *money.Money     `json:"amount,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// Share is the computed allocation for a single participant. Output order
// follows input order.
type Share struct {
	UserID int64       `json:"user_id"`
	Amount money.Money `json:"amount"`
}

// Strategy is the interface all split strategies implement. Calculate is a
// pure computation: the produced shares always sum exactly to the total,
// and persisting them is the caller's responsibility.
type Strategy interface {
	Calculate(total money.Money, participants []Input) ([]Share, error)
	Type() Type
	Validate(total money.Money, participants []Input) error
}

// Factory creates split strategies based on the requested type
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy implementation for the given type
func (f *Factory) Create(t Type) (Strategy, error) {
	switch t {
	case TypeEqual:
		return &EqualStrategy{}, nil
	case TypeExact:
		return &ExactStrategy{}, nil
	case TypePercentage:
		return &PercentageStrategy{}, nil
	default:
		return nil, apperror.Newf(apperror.Validation, "unknown split type: %s", t)
	}
}

// CreateFromString creates a strategy from a string type (useful for API requests)
func (f *Factory) CreateFromString(t string) (Strategy, error) {
	return f.Create(Type(t))
}

// Validation errors, one per distinct failure so callers can render
// field-level messages
var (
	ErrNoParticipants        = apperror.New(apperror.Validation, "at least one participant is required")
	ErrNonPositiveTotal      = apperror.New(apperror.Validation, "total amount must be positive")
	ErrDuplicateParticipant  = apperror.New(apperror.Validation, "participants must be distinct")
	ErrMissingExactAmount    = apperror.New(apperror.Validation, "exact amount required for all participants")
	ErrNegativeExactAmount   = apperror.New(apperror.Validation, "exact amounts cannot be negative")
	ErrExactSumMismatch      = apperror.New(apperror.Validation, "exact amounts must sum to the total amount")
	ErrMissingPercentage     = apperror.New(apperror.Validation, "percentage required for all participants")
	ErrPercentageOutOfRange  = apperror.New(apperror.Validation, "percentage must be greater than 0 and at most 1")
	ErrPercentagePrecision   = apperror.New(apperror.Validation, "percentage must have at most four decimal digits")
	ErrPercentageSumMismatch = apperror.New(apperror.Validation, "percentages must sum to exactly 1")
)

// validateCommon checks the constraints shared by all strategies
func validateCommon(total money.Money, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if !total.IsPositive() {
		return ErrNonPositiveTotal
	}
	seen := make(map[int64]bool, len(participants))
	for _, p := range participants {
		if seen[p.UserID] {
			return ErrDuplicateParticipant
		}
		seen[p.UserID] = true
	}
	return nil
}

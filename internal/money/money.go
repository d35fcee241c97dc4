package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"

	"billshare/pkg/apperror"
)

// Money is an exact monetary value stored as integer minor units (cents).
// All arithmetic happens on the int64 representation; decimal.Decimal is
// only the boundary type for parsing, formatting and percentage math.
type Money struct {
	cents int64
}

var hundred = decimal.NewFromInt(100)

// Zero returns the zero value
func Zero() Money {
	return Money{}
}

// FromCents builds a Money from raw minor units
func FromCents(cents int64) Money {
	return Money{cents: cents}
}

// FromDecimal converts a decimal amount to Money, rounding half-up to two
// fraction digits
func FromDecimal(d decimal.Decimal) Money {
	return Money{cents: d.Mul(hundred).Round(0).IntPart()}
}

// Parse reads a decimal string such as "33.34"
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, apperror.Wrap(apperror.Validation, "invalid amount", err)
	}
	if d.Exponent() < -2 {
		return Money{}, apperror.Newf(apperror.Validation, "amount %s has more than two fraction digits", s)
	}
	return Money{cents: d.Mul(hundred).IntPart()}, nil
}

// Cents returns the raw minor units
func (m Money) Cents() int64 {
	return m.cents
}

// Decimal returns the value as a two-digit decimal
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.cents, -2)
}

// Add returns m + o
func (m Money) Add(o Money) Money {
	return Money{cents: m.cents + o.cents}
}

// Sub returns m - o
func (m Money) Sub(o Money) Money {
	return Money{cents: m.cents - o.cents}
}

// MulInt returns m * n
func (m Money) MulInt(n int64) Money {
	return Money{cents: m.cents * n}
}

// Neg returns -m
func (m Money) Neg() Money {
	return Money{cents: -m.cents}
}

// DivideEvenly splits m into n equal shares, returning the base share
// (floor of m/n) and the remainder count r, 0 <= r < n. Callers distribute
// the remainder by adding one cent to the first r shares in their own
// iteration order, so the shares always sum back to m exactly.
func (m Money) DivideEvenly(n int) (Money, int, error) {
	if n <= 0 {
		return Money{}, 0, apperror.Newf(apperror.Validation, "cannot divide among %d participants", n)
	}
	share := m.cents / int64(n)
	remainder := m.cents - share*int64(n)
	return Money{cents: share}, int(remainder), nil
}

// ApplyFraction returns m * f rounded half-up to minor units
func (m Money) ApplyFraction(f decimal.Decimal) Money {
	return Money{cents: decimal.New(m.cents, 0).Mul(f).Round(0).IntPart()}
}

// Cmp compares m and o, returning -1, 0 or 1
func (m Money) Cmp(o Money) int {
	switch {
	case m.cents < o.cents:
		return -1
	case m.cents > o.cents:
		return 1
	default:
		return 0
	}
}

// Equal reports whether m and o are the same amount
func (m Money) Equal(o Money) bool {
	return m.cents == o.cents
}

// IsPositive reports whether m is greater than zero
func (m Money) IsPositive() bool {
	return m.cents > 0
}

// IsNegative reports whether m is less than zero
func (m Money) IsNegative() bool {
	return m.cents < 0
}

// IsZero reports whether m is zero
func (m Money) IsZero() bool {
	return m.cents == 0
}

// String formats the amount with two fraction digits
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a decimal number with two digits
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts both quoted and bare decimal amounts
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer so Money maps to a NUMERIC column
func (m Money) Value() (driver.Value, error) {
	return m.Decimal().StringFixed(2), nil
}

// Scan implements sql.Scanner for NUMERIC columns
func (m *Money) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = Money{}
		return nil
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("failed to scan money value %q: %w", v, err)
		}
		*m = FromDecimal(d)
		return nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("failed to scan money value %q: %w", v, err)
		}
		*m = FromDecimal(d)
		return nil
	case int64:
		*m = Money{cents: v * 100}
		return nil
	case float64:
		*m = FromDecimal(decimal.NewFromFloat(v))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", src)
	}
}

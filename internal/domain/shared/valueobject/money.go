package valueobject

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MinorUnitsExp is the number of decimal places held in minor units (cents)
const MinorUnitsExp = 2

// ErrMoneyOverflow is returned when an amount does not fit in minor units
var ErrMoneyOverflow = errors.New("money amount out of range")

// Money is a currency amount held as an integer number of minor units.
// Sums of Money never drift the way float64 sums do. Conversion to and from
// decimal happens only at the storage and HTTP boundaries.
type Money int64

// Zero is the zero amount
const Zero Money = 0

// NewMoneyFromDecimal converts a decimal amount to minor units, rounding half
// away from zero past the second decimal place.
func NewMoneyFromDecimal(d decimal.Decimal) (Money, error) {
	minor := d.Shift(MinorUnitsExp).Round(0)
	if minor.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || minor.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return Zero, ErrMoneyOverflow
	}
	return Money(minor.IntPart()), nil
}

// NewMoneyFromString parses a display string such as "10.99"
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoneyFromDecimal(d)
}

// MustMoney parses s and panics on error. Intended for constants and tests.
func MustMoney(s string) Money {
	m, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MinorUnits returns the amount in minor units
func (m Money) MinorUnits() int64 {
	return int64(m)
}

// Decimal returns the amount as a decimal with two places
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -MinorUnitsExp)
}

// Add returns m + other, or ErrMoneyOverflow if the sum leaves the int64 range
func (m Money) Add(other Money) (Money, error) {
	sum := m + other
	if (other > 0 && sum < m) || (other < 0 && sum > m) {
		return Zero, ErrMoneyOverflow
	}
	return sum, nil
}

// MultiplyByQuantity returns m * qty, or ErrMoneyOverflow if the product
// leaves the int64 range
func (m Money) MultiplyByQuantity(qty int) (Money, error) {
	if m == 0 || qty == 0 {
		return Zero, nil
	}
	q := Money(qty)
	product := m * q
	if product/q != m || (m == -1 && q == math.MinInt64) || (q == -1 && m == math.MinInt64) {
		return Zero, ErrMoneyOverflow
	}
	return product, nil
}

// IsNegative returns true if the amount is below zero
func (m Money) IsNegative() bool {
	return m < 0
}

// String formats the amount for display, always with two decimal places
func (m Money) String() string {
	return m.Decimal().StringFixed(MinorUnitsExp)
}

// MarshalJSON renders the amount as a display string ("30.00")
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts either a JSON string ("10.99") or a JSON number (10.99)
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Zero
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	parsed, err := NewMoneyFromString(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer, storing the decimal representation
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner for numeric columns
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("failed to scan money: %w", err)
	}
	parsed, err := NewMoneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

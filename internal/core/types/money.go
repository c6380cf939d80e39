// Package types provides common type aliases and utilities.
package types

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// OptionalMoney is a Money that may be absent.
type OptionalMoney = decimal.NullDecimal

// Precision limits for stored amounts, matching a NUMERIC(22,4) column.
const (
	MaxIntegerDigits  = 18
	MaxFractionDigits = 4
)

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// SomeMoney wraps m as a present OptionalMoney.
func SomeMoney(m Money) OptionalMoney {
	return decimal.NullDecimal{Decimal: m, Valid: true}
}

// NoMoney is the absent OptionalMoney.
func NoMoney() OptionalMoney {
	return decimal.NullDecimal{}
}

// CheckPrecision reports an error when m has more integer or fraction digits
// than the storage limits allow. It looks only at the coefficient digits and
// the exponent, so extreme exponents are rejected without rescaling.
func CheckPrecision(m Money) error {
	if m.IsZero() {
		return nil
	}

	digits := new(big.Int).Abs(m.Coefficient()).String()
	significant := strings.TrimRight(digits, "0")
	exp := int64(m.Exponent()) + int64(len(digits)-len(significant))

	if exp < -MaxFractionDigits {
		return fmt.Errorf("at most %d fractional digits allowed", MaxFractionDigits)
	}
	if int64(len(significant))+exp > MaxIntegerDigits {
		return fmt.Errorf("at most %d integer digits allowed", MaxIntegerDigits)
	}
	return nil
}

// Canonical returns the shortest exact string form of m.
func Canonical(m Money) string {
	return m.String()
}

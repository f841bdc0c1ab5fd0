package model

import (
	"fmt"
	"strings"
)

// DefaultCurrency is used when a price carries no currency.
const DefaultCurrency = "usd"

// Money is an amount in minor units plus an ISO 4217 currency code.
type Money struct {
	amount   int64
	currency string
}

// NewMoney creates a Money value. An empty currency means DefaultCurrency.
func NewMoney(amount int64, currency string) Money {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: amount, currency: currency}
}

// Amount returns the amount in minor units.
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the currency code.
func (m Money) Currency() string {
	return m.currency
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount == 0
}

// Add returns the sum of two values in the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Multiply returns the amount multiplied by a quantity.
func (m Money) Multiply(qty int) Money {
	return Money{amount: m.amount * int64(qty), currency: m.currency}
}

// String formats the value as "12.34 USD".
func (m Money) String() string {
	sign := ""
	amount := m.amount
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, amount/100, amount%100, strings.ToUpper(m.currency))
}

// Package money provides exact decimal arithmetic for monetary values.
// Cost Engine totals are computed here and rounded to 2 decimals at the
// API boundary — never with raw float64 addition, which drifts across
// dozens of components.
package money

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount with full decimal precision.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// New creates Money from a decimal string.
func New(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: d, currency: currency}, nil
}

// FromFloat creates Money from a float64. Use only at I/O boundaries
// (parsing provider API responses), never as an intermediate in a chain
// of additions.
func FromFloat(amount float64, currency string) Money {
	return Money{amount: decimal.NewFromFloat(amount), currency: currency}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the underlying decimal.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the ISO currency code.
func (m Money) Currency() string { return m.currency }

// Add returns m + other. Panics on currency mismatch — additions across
// currencies are a programmer error, not a runtime condition to recover from.
func (m Money) Add(other Money) Money {
	if m.currency != other.currency {
		panic(fmt.Sprintf("cannot add %s and %s", m.currency, other.currency))
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	if m.currency != other.currency {
		panic(fmt.Sprintf("cannot subtract %s and %s", m.currency, other.currency))
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}
}

// MulFloat multiplies by a scalar.
func (m Money) MulFloat(factor float64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromFloat(factor)), currency: m.currency}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// Round2 rounds to 2 decimal places as a float64, matching the
// round(..., 2) invariant on CostEstimate.monthly_total and every
// ComponentCost.monthly value.
func (m Money) Round2() float64 {
	f, _ := m.amount.Round(2).Float64()
	return f
}

// String renders the amount fixed to 2 decimal places with currency.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// SumRound2 adds a slice of float64 monthly amounts via decimal and
// rounds once at the end, avoiding float addition drift across a large
// component breakdown.
func SumRound2(values []float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Round(2).Float64()
	return f
}

// SortedKeys returns map keys sorted by less, for use anywhere iteration
// order over a config map or lookup table must be deterministic.
func SortedKeys[K comparable, V any](m map[K]V, less func(a, b K) bool) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return keys
}

// SortedStringKeys returns string map keys sorted lexically.
func SortedStringKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

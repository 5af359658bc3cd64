package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a revenue amount in dollars.
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a new Money instance from a string
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Round rounds the money amount to cents
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// String returns the amount with two decimals and no grouping
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format returns the amount as whole dollars with thousands separators, e.g. "-$1,234,568".
func (m Money) Format() string {
	s := m.Decimal.Abs().StringFixed(0)
	var b strings.Builder
	if m.Decimal.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	b.WriteString(group(s))
	return b.String()
}

var scales = []struct {
	suffix string
	size   decimal.Decimal
}{
	{"T", decimal.New(1, 12)},
	{"B", decimal.New(1, 9)},
	{"M", decimal.New(1, 6)},
}

// Short returns the amount scaled to trillions, billions or millions with two decimals, e.g. "$1.23B".
func (m Money) Short() string {
	abs := m.Decimal.Abs()
	sign := ""
	if m.Decimal.IsNegative() {
		sign = "-"
	}
	for _, sc := range scales {
		if abs.GreaterThanOrEqual(sc.size) {
			return sign + "$" + abs.Div(sc.size).StringFixed(2) + sc.suffix
		}
	}
	return sign + "$" + group(abs.StringFixed(0))
}

// Sum adds up amounts.
func Sum(amounts ...decimal.Decimal) Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return Money{total}
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

package output

import (
	"strconv"

	"github.com/shopspring/decimal"
	money "github.com/taxrev/revenue-projector/pkg/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// FormatCurrency formats a decimal as USD currency with 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return "$" + amount.StringFixed(2) }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.0765) as a percentage ("7.65%").
func FormatRate(rate decimal.Decimal) string { return FormatPercentage(rate.Mul(decimalHundred)) }

// FormatDollars formats an amount as whole dollars with thousands separators.
func FormatDollars(amount decimal.Decimal) string { return money.NewMoneyFromDecimal(amount).Format() }

// FormatShort formats an amount scaled to T/B/M.
func FormatShort(amount decimal.Decimal) string { return money.NewMoneyFromDecimal(amount).Short() }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

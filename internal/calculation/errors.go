package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidRangeError is returned when a bucket is split at a threshold outside its open income range.
type InvalidRangeError struct {
	Threshold decimal.Decimal
	Min       decimal.Decimal
	Max       decimal.Decimal
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("threshold %s outside bucket range (%s, %s)", e.Threshold, e.Min, e.Max)
}

// UnsupportedRatioError is returned when a progressive raise is requested with a ratio below one.
type UnsupportedRatioError struct {
	Ratio decimal.Decimal
}

func (e *UnsupportedRatioError) Error() string {
	return fmt.Sprintf("unsupported rate ratio %s: must be at least 1", e.Ratio)
}

// StructuralMismatchError is returned when policy tables disagree on which filing statuses exist.
type StructuralMismatchError struct {
	Status string
	Detail string
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("filing status %q: %s", e.Status, e.Detail)
}

// NotConvergedError is returned when an approximation loop hits its iteration cap.
type NotConvergedError struct {
	Operation  string
	Iterations int
}

func (e *NotConvergedError) Error() string {
	return fmt.Sprintf("%s did not converge after %d iterations", e.Operation, e.Iterations)
}

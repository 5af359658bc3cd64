package calculation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/taxrev/revenue-projector/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// decimalComparer lets go-cmp compare decimals by value.
var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func assertDecimalNear(t *testing.T, expected, actual decimal.Decimal, tolerance string, msgAndArgs ...any) {
	t.Helper()
	if actual.Sub(expected).Abs().GreaterThan(dec(tolerance)) {
		t.Errorf("expected %s, got %s (tolerance %s) %v", expected, actual, tolerance, msgAndArgs)
	}
}

func record(status domain.FilingStatus, label string, min, max, returns, avg int64) domain.BucketRecord {
	return domain.BucketRecord{
		Status:   status,
		Year:     2016,
		Label:    label,
		Min:      decimal.NewFromInt(min),
		Max:      decimal.NewFromInt(max),
		Returns:  decimal.NewFromInt(returns),
		TotalAGI: decimal.NewFromInt(returns * avg),
	}
}

// testDataset is a small two-status income distribution with 2016 payroll and 2018 corporate history.
func testDataset(t *testing.T) *domain.Dataset {
	t.Helper()
	idx, err := domain.NewBucketIndex([]domain.BucketRecord{
		record(domain.Single, "$1 under $12,000", 1, 12000, 10_000_000, 6000),
		record(domain.Single, "$12,000 under $20,000", 12000, 20000, 8_000_000, 16000),
		record(domain.Single, "$20,000 under $50,000", 20000, 50000, 20_000_000, 33000),
		record(domain.Single, "$50,000 under $200,000", 50000, 200000, 15_000_000, 90000),
		record(domain.Single, "$200,000 under $1,000,000", 200000, 1000000, 1_000_000, 350000),
		record(domain.Single, "$1,000,000 or more", 1000000, 1000000, 50_000, 3000000),
		record(domain.MarriedJoint, "$1 under $25,000", 1, 25000, 5_000_000, 12000),
		record(domain.MarriedJoint, "$25,000 under $50,000", 25000, 50000, 8_000_000, 37000),
		record(domain.MarriedJoint, "$50,000 under $200,000", 50000, 200000, 30_000_000, 100000),
		record(domain.MarriedJoint, "$200,000 under $1,000,000", 200000, 1000000, 5_000_000, 350000),
		record(domain.MarriedJoint, "$1,000,000 or more", 1000000, 1000000, 200_000, 4000000),
	})
	require.NoError(t, err)
	return &domain.Dataset{
		Buckets: idx,
		Payroll: map[int]domain.PayrollRecord{
			2016: {Year: 2016, OASDIRevenue: dec("830000000000"), HIRevenue: dec("250000000000")},
		},
		FederalRevenue: map[int]domain.RevenueRecord{
			2018: {Year: 2018, Individual: dec("1680000000000"), Payroll: dec("1170000000000"), Corporate: dec("205000000000")},
		},
	}
}

func testAssumptions() domain.Assumptions {
	a := domain.DefaultAssumptions()
	a.Years = 3
	return a
}

func testEngine(t *testing.T) *CalculationEngine {
	t.Helper()
	ce, err := NewCalculationEngine(testDataset(t), testAssumptions(), domain.DefaultCoverage())
	require.NoError(t, err)
	return ce
}

package calculation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxrev/revenue-projector/internal/domain"
)

func bucketWithAverage(min, max, count, avg int64) domain.IncomeBucket {
	b := BuildDistribution(decimal.NewFromInt(min), decimal.NewFromInt(max), decimal.NewFromInt(count))
	b.AverageAGI = decimal.NewFromInt(avg)
	b.TotalAGI = decimal.NewFromInt(avg * count)
	return b
}

func TestBuildDistribution(t *testing.T) {
	t.Run("spread over range", func(t *testing.T) {
		b := BuildDistribution(dec("50000"), dec("100000"), dec("1000"))
		assert.True(t, b.PeoplePerDollar.Equal(dec("0.02")), "got %s", b.PeoplePerDollar)
		assert.False(t, b.IsPointMass())
	})

	t.Run("point mass keeps population", func(t *testing.T) {
		b := BuildDistribution(dec("10000000"), dec("10000000"), dec("1234"))
		assert.True(t, b.PeoplePerDollar.Equal(b.Population))
		assert.True(t, b.IsPointMass())
	})
}

func TestSplitAtThreshold(t *testing.T) {
	t.Run("symmetric example", func(t *testing.T) {
		b := bucketWithAverage(50000, 100000, 1000, 70000)
		threshold := dec("75000")

		split, err := SplitAtThreshold(b, threshold)
		require.NoError(t, err)

		assert.True(t, split.Divisor.Equal(dec("2")))
		assert.True(t, split.Low.Average.Equal(dec("62500")), "low average %s", split.Low.Average)
		assert.True(t, split.High.Average.Equal(dec("77500")), "high average %s", split.High.Average)
		assert.True(t, split.Low.Count.Equal(dec("500")))
		assert.True(t, split.High.Count.Equal(dec("500")))

		assertDecimalNear(t, b.Population, split.Low.Count.Add(split.High.Count), "0.000001")
		weighted := split.Low.Average.Mul(split.Low.Count).Add(split.High.Average.Mul(split.High.Count)).Div(b.Population)
		assertDecimalNear(t, dec("70000"), weighted, "0.000001")
		assert.True(t, split.Low.Average.LessThanOrEqual(threshold))
		assert.True(t, split.High.Average.GreaterThanOrEqual(threshold))
	})

	t.Run("skewed bucket steps the divisor by tenths", func(t *testing.T) {
		// Converges exactly when the low average falls to 10, at divisor 5.0.
		b := bucketWithAverage(0, 100, 100, 30)
		split, err := SplitAtThreshold(b, dec("50"))
		require.NoError(t, err)

		assert.True(t, split.Divisor.Equal(dec("5")), "divisor %s", split.Divisor)
		assert.True(t, split.Low.Average.Equal(dec("10")))
		assert.True(t, split.High.Average.Equal(dec("50")))
		weighted := split.Low.Average.Mul(split.Low.Count).Add(split.High.Average.Mul(split.High.Count))
		assertDecimalNear(t, b.TotalAGI, weighted, "0.000001")
	})

	t.Run("threshold outside range", func(t *testing.T) {
		b := bucketWithAverage(50000, 100000, 1000, 70000)
		for _, th := range []string{"50000", "100000", "10", "250000"} {
			_, err := SplitAtThreshold(b, dec(th))
			var rangeErr *InvalidRangeError
			require.True(t, errors.As(err, &rangeErr), "threshold %s", th)
			assert.True(t, rangeErr.Threshold.Equal(dec(th)))
		}
	})

	t.Run("point mass cannot be split", func(t *testing.T) {
		b := bucketWithAverage(1000000, 1000000, 10, 3000000)
		_, err := SplitAtThreshold(b, dec("1000000"))
		var rangeErr *InvalidRangeError
		assert.True(t, errors.As(err, &rangeErr))
	})

	t.Run("average too low to reach threshold", func(t *testing.T) {
		b := bucketWithAverage(0, 100, 100, 10)
		_, err := SplitAtThreshold(b, dec("50"))
		var nc *NotConvergedError
		require.True(t, errors.As(err, &nc))
		assert.Equal(t, maxSplitIterations, nc.Iterations)
	})
}

func TestAgeForward(t *testing.T) {
	b := bucketWithAverage(50000, 100000, 1000, 70000)
	aged := AgeForward(b, dec("0.02"), dec("0.01"))

	assert.True(t, aged.AverageAGI.Equal(dec("71400")))
	assert.True(t, aged.MinIncome.Equal(dec("51000")))
	assert.True(t, aged.MaxIncome.Equal(dec("102000")))
	assert.True(t, aged.Population.Equal(dec("1010")))
	assert.True(t, aged.PeoplePerDollar.Equal(dec("0.0202")))

	// The source bucket is untouched.
	assert.True(t, b.AverageAGI.Equal(dec("70000")))
	assert.True(t, b.Population.Equal(dec("1000")))
}

func TestBucketsFromRecords(t *testing.T) {
	records := testDataset(t).Buckets.ForYear(2016)
	buckets := BucketsFromRecords(records)
	require.Len(t, buckets, len(records))

	first := buckets[2]
	assert.Equal(t, domain.Single, first.Status)
	assert.Equal(t, "$20,000 under $50,000", first.Label)
	assert.True(t, first.AverageAGI.Equal(dec("33000")))

	top := buckets[5]
	assert.True(t, top.IsPointMass())
	assert.True(t, top.PeoplePerDollar.Equal(top.Population))
}

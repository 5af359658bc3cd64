package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IncomeBucket aggregates the returns of one filing status, year and AGI range.
type IncomeBucket struct {
	Status          FilingStatus    `yaml:"status" json:"status"`
	Label           string          `yaml:"label" json:"label"`
	MinIncome       decimal.Decimal `yaml:"min_income" json:"min_income"`
	MaxIncome       decimal.Decimal `yaml:"max_income" json:"max_income"`
	Population      decimal.Decimal `yaml:"population" json:"population"`
	PeoplePerDollar decimal.Decimal `yaml:"people_per_dollar" json:"people_per_dollar"`
	AverageAGI      decimal.Decimal `yaml:"average_agi" json:"average_agi"`
	TotalAGI        decimal.Decimal `yaml:"total_agi" json:"total_agi"`
}

// IsPointMass reports whether the bucket has no income width (e.g. "$10M or more").
func (b IncomeBucket) IsPointMass() bool {
	return b.MaxIncome.Equal(b.MinIncome)
}

// BucketKey identifies a bucket record in the historical statistics.
type BucketKey struct {
	Status FilingStatus
	Year   int
	Label  string
}

func (k BucketKey) String() string {
	return fmt.Sprintf("%s/%d/%s", k.Status, k.Year, k.Label)
}

// BucketRecord is one row of historical income statistics.
type BucketRecord struct {
	Status   FilingStatus    `yaml:"status" json:"status" validate:"required"`
	Year     int             `yaml:"year" json:"year" validate:"required,gt=0"`
	Label    string          `yaml:"label" json:"label" validate:"required"`
	Min      decimal.Decimal `yaml:"min" json:"min" validate:"gte=0"`
	Max      decimal.Decimal `yaml:"max" json:"max" validate:"gte=0"`
	Returns  decimal.Decimal `yaml:"returns" json:"returns" validate:"gte=0"`
	TotalAGI decimal.Decimal `yaml:"total_agi" json:"total_agi"`
}

// Key returns the record's composite key.
func (r BucketRecord) Key() BucketKey {
	return BucketKey{Status: r.Status, Year: r.Year, Label: r.Label}
}

// AverageAGI returns total AGI per return, zero when there are no returns.
func (r BucketRecord) AverageAGI() decimal.Decimal {
	if r.Returns.IsZero() {
		return decimal.Zero
	}
	return r.TotalAGI.Div(r.Returns)
}

// BucketIndex is a flat, insertion-ordered collection of bucket records.
type BucketIndex struct {
	records []BucketRecord
	byKey   map[BucketKey]int
}

// NewBucketIndex indexes records, rejecting duplicate keys.
func NewBucketIndex(records []BucketRecord) (*BucketIndex, error) {
	idx := &BucketIndex{byKey: make(map[BucketKey]int, len(records))}
	for _, r := range records {
		if err := idx.Add(r); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Add appends a record.
func (bi *BucketIndex) Add(r BucketRecord) error {
	if bi.byKey == nil {
		bi.byKey = make(map[BucketKey]int)
	}
	k := r.Key()
	if _, dup := bi.byKey[k]; dup {
		return fmt.Errorf("duplicate bucket record %s", k)
	}
	bi.byKey[k] = len(bi.records)
	bi.records = append(bi.records, r)
	return nil
}

// Get looks up a record by key.
func (bi *BucketIndex) Get(k BucketKey) (BucketRecord, bool) {
	i, ok := bi.byKey[k]
	if !ok {
		return BucketRecord{}, false
	}
	return bi.records[i], true
}

// Len returns the number of records.
func (bi *BucketIndex) Len() int { return len(bi.records) }

// ForYear returns the records of a year in insertion order.
func (bi *BucketIndex) ForYear(year int) []BucketRecord {
	var out []BucketRecord
	for _, r := range bi.records {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out
}

// Years returns the distinct years present, in insertion order.
func (bi *BucketIndex) Years() []int {
	seen := map[int]bool{}
	var out []int
	for _, r := range bi.records {
		if !seen[r.Year] {
			seen[r.Year] = true
			out = append(out, r.Year)
		}
	}
	return out
}

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/taxrev/revenue-projector/internal/domain"
	"gopkg.in/yaml.v3"
)

// File names of the delimited layout, relative to the data directory.
const (
	BucketsFile = "income-buckets.csv"
	PayrollFile = "payroll-collections.csv"
	RevenueFile = "federal-revenue.csv"
)

// Document is the YAML layout of a historical dataset.
type Document struct {
	Name           string                 `yaml:"name"`
	Source         string                 `yaml:"source"`
	Buckets        []domain.BucketRecord  `yaml:"buckets" validate:"required,min=1,dive"`
	Payroll        []domain.PayrollRecord `yaml:"payroll" validate:"required,min=1,dive"`
	FederalRevenue []domain.RevenueRecord `yaml:"federal_revenue" validate:"required,min=1,dive"`
}

// SeriesStatistics summarises one yearly series of the dataset.
type SeriesStatistics struct {
	Name         string          `json:"name"`
	Mean         decimal.Decimal `json:"mean"`
	Median       decimal.Decimal `json:"median"`
	StdDev       decimal.Decimal `json:"std_dev"`
	Min          decimal.Decimal `json:"min"`
	Max          decimal.Decimal `json:"max"`
	Count        int             `json:"count"`
	MinYear      int             `json:"min_year"`
	MaxYear      int             `json:"max_year"`
	MissingYears []int           `json:"missing_years"`
}

// Manager loads historical statistics from a YAML file or a directory of CSV files.
type Manager struct {
	DataPath   string
	IsLoaded   bool
	Name       string
	Source     string
	Statistics map[string]SeriesStatistics
	dataset    *domain.Dataset
}

// NewManager creates a manager for the given file or directory.
func NewManager(dataPath string) *Manager {
	return &Manager{DataPath: dataPath}
}

// Load reads the data once. Later calls are no-ops.
func (m *Manager) Load() error {
	if m.IsLoaded {
		return nil
	}

	info, err := os.Stat(m.DataPath)
	if err != nil {
		return fmt.Errorf("failed to read dataset %s: %w", m.DataPath, err)
	}

	var doc *Document
	if info.IsDir() {
		doc, err = m.loadCSVDirectory()
	} else {
		doc, err = LoadDocument(m.DataPath)
	}
	if err != nil {
		return err
	}

	ds, err := Build(doc)
	if err != nil {
		return err
	}
	m.Name = doc.Name
	m.Source = doc.Source
	m.Statistics = seriesStatistics(doc)
	m.dataset = ds
	m.IsLoaded = true
	return nil
}

// Dataset returns the loaded data and checks it covers the run's base years.
func (m *Manager) Dataset(a domain.Assumptions) (*domain.Dataset, error) {
	if !m.IsLoaded {
		return nil, fmt.Errorf("historical data not loaded")
	}
	if err := m.dataset.RequireYears(a.IncomeBaseYear, a.CorporateBaseYear); err != nil {
		return nil, err
	}
	return m.dataset, nil
}

// LoadDocument parses and validates a YAML dataset file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &doc, nil
}

// Build validates a document and indexes it into a domain dataset.
func Build(doc *Document) (*domain.Dataset, error) {
	if err := domain.NewValidator().Struct(doc); err != nil {
		return nil, fmt.Errorf("dataset validation failed: %w", err)
	}
	for _, r := range doc.Buckets {
		if r.Max.LessThan(r.Min) {
			return nil, fmt.Errorf("bucket %s: max %s below min %s", r.Key(), r.Max, r.Min)
		}
	}

	idx, err := domain.NewBucketIndex(doc.Buckets)
	if err != nil {
		return nil, fmt.Errorf("failed to index buckets: %w", err)
	}
	ds := &domain.Dataset{
		Buckets:        idx,
		Payroll:        make(map[int]domain.PayrollRecord, len(doc.Payroll)),
		FederalRevenue: make(map[int]domain.RevenueRecord, len(doc.FederalRevenue)),
	}
	for _, r := range doc.Payroll {
		if _, dup := ds.Payroll[r.Year]; dup {
			return nil, fmt.Errorf("duplicate payroll record for %d", r.Year)
		}
		ds.Payroll[r.Year] = r
	}
	for _, r := range doc.FederalRevenue {
		if _, dup := ds.FederalRevenue[r.Year]; dup {
			return nil, fmt.Errorf("duplicate revenue record for %d", r.Year)
		}
		ds.FederalRevenue[r.Year] = r
	}
	return ds, nil
}

func (m *Manager) loadCSVDirectory() (*Document, error) {
	doc := &Document{Name: filepath.Base(m.DataPath), Source: m.DataPath}

	err := readCSV(filepath.Join(m.DataPath, BucketsFile), 7, func(row []string) error {
		year, err := strconv.Atoi(row[1])
		if err != nil {
			return err
		}
		vals, err := decimals(row[3:7])
		if err != nil {
			return err
		}
		doc.Buckets = append(doc.Buckets, domain.BucketRecord{
			Status:   domain.FilingStatus(row[0]),
			Year:     year,
			Label:    row[2],
			Min:      vals[0],
			Max:      vals[1],
			Returns:  vals[2],
			TotalAGI: vals[3],
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load income buckets: %w", err)
	}

	err = readCSV(filepath.Join(m.DataPath, PayrollFile), 3, func(row []string) error {
		year, err := strconv.Atoi(row[0])
		if err != nil {
			return err
		}
		vals, err := decimals(row[1:3])
		if err != nil {
			return err
		}
		doc.Payroll = append(doc.Payroll, domain.PayrollRecord{Year: year, OASDIRevenue: vals[0], HIRevenue: vals[1]})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load payroll collections: %w", err)
	}

	err = readCSV(filepath.Join(m.DataPath, RevenueFile), 4, func(row []string) error {
		year, err := strconv.Atoi(row[0])
		if err != nil {
			return err
		}
		vals, err := decimals(row[1:4])
		if err != nil {
			return err
		}
		doc.FederalRevenue = append(doc.FederalRevenue, domain.RevenueRecord{
			Year: year, Individual: vals[0], Payroll: vals[1], Corporate: vals[2],
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load federal revenue: %w", err)
	}
	return doc, nil
}

var errSkipRow = errors.New("skip row")

// readCSV calls fn for every data row after the header. Short rows and rows
// whose fields do not parse are skipped.
func readCSV(path string, columns int, fn func([]string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < columns {
		return fmt.Errorf("invalid CSV format: expected at least %d columns", columns)
	}

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read data row: %w", err)
		}
		if len(record) < columns {
			continue
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if err := fn(record); err != nil {
			continue
		}
		rows++
	}
	if rows == 0 {
		return fmt.Errorf("no valid rows found in %s", path)
	}
	return nil
}

func decimals(fields []string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(fields))
	for i, f := range fields {
		d, err := decimal.NewFromString(strings.ReplaceAll(f, ",", ""))
		if err != nil {
			return nil, errSkipRow
		}
		out[i] = d
	}
	return out, nil
}

func seriesStatistics(doc *Document) map[string]SeriesStatistics {
	oasdi := map[int]decimal.Decimal{}
	hi := map[int]decimal.Decimal{}
	for _, r := range doc.Payroll {
		oasdi[r.Year] = r.OASDIRevenue
		hi[r.Year] = r.HIRevenue
	}
	individual := map[int]decimal.Decimal{}
	corporate := map[int]decimal.Decimal{}
	for _, r := range doc.FederalRevenue {
		individual[r.Year] = r.Individual
		corporate[r.Year] = r.Corporate
	}

	out := make(map[string]SeriesStatistics, 4)
	for name, series := range map[string]map[int]decimal.Decimal{
		"oasdi_revenue":      oasdi,
		"hi_revenue":         hi,
		"individual_revenue": individual,
		"corporate_revenue":  corporate,
	} {
		out[name] = calculateStatistics(name, series)
	}
	return out
}

func calculateStatistics(name string, series map[int]decimal.Decimal) SeriesStatistics {
	if len(series) == 0 {
		return SeriesStatistics{Name: name}
	}

	years := make([]int, 0, len(series))
	for y := range series {
		years = append(years, y)
	}
	sort.Ints(years)

	data := make(stats.Float64Data, len(years))
	for i, y := range years {
		data[i], _ = series[y].Float64()
	}
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	stdDev, _ := stats.StandardDeviation(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)

	var missing []int
	for y, i := years[0], 0; y <= years[len(years)-1]; y++ {
		if years[i] == y {
			i++
			continue
		}
		missing = append(missing, y)
	}

	return SeriesStatistics{
		Name:         name,
		Mean:         decimal.NewFromFloat(mean),
		Median:       decimal.NewFromFloat(median),
		StdDev:       decimal.NewFromFloat(stdDev),
		Min:          decimal.NewFromFloat(min),
		Max:          decimal.NewFromFloat(max),
		Count:        len(years),
		MinYear:      years[0],
		MaxYear:      years[len(years)-1],
		MissingYears: missing,
	}
}

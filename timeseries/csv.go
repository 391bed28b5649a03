package timeseries

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// CSVOptions holds options for loading a metric table.
type CSVOptions struct {
	CodeColumn  string // Entity code column (default: "kode_kabupaten_kota")
	NameColumn  string // Entity name column (default: "nama_kabupaten_kota")
	YearColumn  string // Year column (default: "tahun")
	ValueColumn string // Metric value column (required)
	Delimiter   rune   // Field delimiter (default: ',')
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		CodeColumn: "kode_kabupaten_kota",
		NameColumn: "nama_kabupaten_kota",
		YearColumn: "tahun",
		Delimiter:  ',',
	}
}

var missingMarkers = []string{"", "NA", "NaN", "nan", "null", "NULL", "<nil>"}

// LoadCSV loads a metric table from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) ([]Observation, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a metric table from an io.Reader. Rows with a
// missing value are kept with a NaN value; rows with a missing code or year
// are rejected.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) ([]Observation, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	if opts.ValueColumn == "" {
		return nil, errors.New("value column must be set")
	}
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(delim),
		dataframe.NaNValues(missingMarkers),
		dataframe.WithTypes(map[string]series.Type{
			opts.CodeColumn:  series.Float,
			opts.YearColumn:  series.Float,
			opts.ValueColumn: series.Float,
		}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}

	names := df.Names()
	for _, col := range []string{opts.CodeColumn, opts.NameColumn, opts.YearColumn, opts.ValueColumn} {
		if !slices.Contains(names, col) {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	codes := df.Col(opts.CodeColumn).Float()
	entityNames := df.Col(opts.NameColumn).Records()
	years := df.Col(opts.YearColumn).Float()
	values := df.Col(opts.ValueColumn).Float()

	rows := make([]Observation, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		code, ok := wholeNumber(codes[i])
		if !ok {
			return nil, fmt.Errorf("row %d: invalid entity code", i+1)
		}
		year, ok := wholeNumber(years[i])
		if !ok {
			return nil, fmt.Errorf("row %d: invalid year", i+1)
		}
		rows = append(rows, Observation{
			EntityCode: code,
			EntityName: strings.TrimSpace(entityNames[i]),
			Year:       year,
			Value:      values[i],
		})
	}

	return rows, nil
}

func wholeNumber(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

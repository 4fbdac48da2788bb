package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/hominid-cli/internal/hominid"
)

var (
	// ErrInvalidMeasure marks a cranial capacity or height that is not a positive finite number.
	ErrInvalidMeasure = errors.New("invalid measure")
	// ErrMissingColumn marks a required column absent from the header.
	ErrMissingColumn = errors.New("missing column")
)

// Columns names the source columns the loader reads.
type Columns struct {
	Species  string
	Cranial  string
	Height   string
	TechFlag string
	TechType string
	Diet     string
}

// DefaultColumns returns the header names of the published evolution dataset.
func DefaultColumns() Columns {
	return Columns{
		Species:  "Genus_&_Specie",
		Cranial:  "Cranial_Capacity",
		Height:   "Height",
		TechFlag: "Tecno",
		TechType: "Tecno_type",
		Diet:     "Diet",
	}
}

// Options controls how the tabular source is read.
type Options struct {
	// Delimiter for the source. If 0, sniffed from the file extension.
	Delimiter rune
	Columns   Columns
}

// DefaultOptions returns options for the comma-separated evolution dataset.
func DefaultOptions() Options {
	return Options{Columns: DefaultColumns()}
}

// RowError reports the first row that could not be turned into a record.
type RowError struct {
	Row    int // 1-based data row, header excluded
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Load reads every row of the file at path. A single bad row aborts the load.
func Load(path string, opt Options) (*hominid.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	return LoadReader(f, opt)
}

// LoadReader is Load over an already opened source.
func LoadReader(r io.Reader, opt Options) (*hominid.Collection, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	cols := opt.Columns
	if cols == (Columns{}) {
		cols = DefaultColumns()
	}
	cr := csv.NewReader(r)
	cr.Comma = delim
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read dataset: no header row: %w", ErrMissingColumn)
	}

	present := map[string]bool{}
	for _, n := range records[0] {
		present[n] = true
	}
	fields := []string{cols.Species, cols.Cranial, cols.Height, cols.TechFlag, cols.TechType, cols.Diet}
	for _, name := range fields {
		if !present[name] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	// A header without rows is an empty dataset.
	if len(records) == 1 {
		return hominid.NewCollection(nil), nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read dataset: %w", df.Err)
	}
	raw := make([][]string, len(fields))
	for i, name := range fields {
		raw[i] = df.Col(name).Records()
	}
	species, cranial, height, flag, label, diet := raw[0], raw[1], raw[2], raw[3], raw[4], raw[5]

	recs := make([]hominid.Record, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		row := i + 1
		tech, err := hominid.ResolveTech(flag[i], label[i])
		if err != nil {
			col, val := cols.TechFlag, flag[i]
			if _, ferr := hominid.ParseTechFlag(flag[i]); ferr == nil {
				col, val = cols.TechType, label[i]
			}
			return nil, &RowError{Row: row, Column: col, Value: val, Err: err}
		}
		dt, err := hominid.ParseDietType(diet[i])
		if err != nil {
			return nil, &RowError{Row: row, Column: cols.Diet, Value: diet[i], Err: err}
		}
		cc, err := parseMeasure(cranial[i])
		if err != nil {
			return nil, &RowError{Row: row, Column: cols.Cranial, Value: cranial[i], Err: err}
		}
		ht, err := parseMeasure(height[i])
		if err != nil {
			return nil, &RowError{Row: row, Column: cols.Height, Value: height[i], Err: err}
		}
		rec := hominid.NewRecord(species[i], cc, ht, tech, dt)
		if v := rec.SkullBodyRatio(); math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, &RowError{Row: row, Column: cols.Height, Value: height[i],
				Err: fmt.Errorf("%w: skull-body ratio not finite", ErrInvalidMeasure)}
		}
		recs = append(recs, rec)
	}
	return hominid.NewCollection(recs), nil
}

func parseMeasure(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidMeasure, s)
	}
	if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %q must be positive and finite", ErrInvalidMeasure, s)
	}
	return f, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// ParseDelimiter maps a user-facing delimiter name to a rune. An empty name means auto.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";", "semicolon":
		return ';', nil
	}
	return 0, fmt.Errorf("unsupported delimiter: %s (use ','|';'|'tab')", s)
}

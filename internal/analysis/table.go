package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/hominid-cli/internal/hominid"
	"github.com/KaramelBytes/hominid-cli/internal/stats"
)

// Options controls the dataset summary.
type Options struct {
	// Name labels the report, usually the source file name.
	Name string
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
	// TopValues limits the categories listed per categorical column.
	TopValues int
	// MaxGroups limits the per-species group rows.
	MaxGroups int
}

// DefaultOptions returns reasonable defaults for the summary.
func DefaultOptions() Options {
	return Options{
		Outliers:         true,
		OutlierThreshold: 3.5,
		TopValues:        8,
		MaxGroups:        20,
	}
}

// Report is a markdown-friendly summary of a loaded collection.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Groups   []GroupResult
	Corr     *CorrMatrix
	Warnings []string
}

// ColumnSummary captures the kind and statistics of one record field.
type ColumnSummary struct {
	Name string
	Kind string // numeric|categorical
	Unit string
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Categorical top values
	Unique    int
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// GroupResult captures aggregated metrics per species.
type GroupResult struct {
	Key     string
	Size    int
	Metrics map[string]NumSummary // by column name
}

type NumSummary struct {
	Count          int
	Min, Max, Mean float64
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

type numericField struct {
	name string
	unit string
	get  func(hominid.Record) float64
}

var numericFields = []numericField{
	{"cranial capacity", "cm³", hominid.CranialCapacity},
	{"height", "cm", hominid.Height},
	{"skull-body ratio", "", hominid.Ratio},
}

var categoricalFields = []struct {
	name string
	get  func(hominid.Record) string
}{
	{"species", hominid.Record.Species},
	{"tech type", func(r hominid.Record) string { return r.Tech().String() }},
	{"diet", func(r hominid.Record) string { return r.Diet().String() }},
}

// Summarize builds a Report over the collection.
func Summarize(c *hominid.Collection, opt Options) *Report {
	recs := c.Records()
	rep := &Report{Name: opt.Name, Rows: len(recs)}
	if len(recs) == 0 {
		rep.Warnings = append(rep.Warnings, "dataset has no rows")
		return rep
	}

	columns := make([][]float64, len(numericFields))
	for i, f := range numericFields {
		vals := make([]float64, len(recs))
		for j, r := range recs {
			vals[j] = f.get(r)
		}
		d := stats.Describe(vals)
		s := ColumnSummary{Name: f.name, Kind: "numeric", Unit: f.unit, Min: d.Min, Max: d.Max, Mean: d.Mean, Std: d.SampleStd}
		if opt.Outliers && len(vals) >= 8 {
			s.OutliersCount, s.OutliersMaxAbsZ, s.OutlierThreshold = robustOutliers(vals, opt.OutlierThreshold)
		}
		rep.Cols = append(rep.Cols, s)
		columns[i] = vals
	}

	topN := opt.TopValues
	if topN <= 0 {
		topN = 8
	}
	for _, f := range categoricalFields {
		counts := map[string]int{}
		for _, r := range recs {
			counts[f.get(r)]++
		}
		tops := make([]CategoryCount, 0, len(counts))
		for k, v := range counts {
			tops = append(tops, CategoryCount{Value: k, Count: v})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		s := ColumnSummary{Name: f.name, Kind: "categorical", Unique: len(counts)}
		if len(tops) > topN {
			tops = tops[:topN]
		}
		s.TopValues = tops
		rep.Cols = append(rep.Cols, s)
	}

	rep.Groups = speciesGroups(recs, opt.MaxGroups)
	if len(rep.Groups) < uniqueSpecies(recs) {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("group-by summary limited to %d species", len(rep.Groups)))
	}
	rep.Corr = correlations(columns)
	return rep
}

func uniqueSpecies(recs []hominid.Record) int {
	seen := map[string]struct{}{}
	for _, r := range recs {
		seen[r.Species()] = struct{}{}
	}
	return len(seen)
}

func speciesGroups(recs []hominid.Record, limit int) []GroupResult {
	var out []GroupResult
	byField := make([][]hominid.Group, len(numericFields))
	for i, f := range numericFields {
		byField[i] = hominid.BySpecies(recs, f.get)
	}
	for gi, g := range byField[0] {
		gr := GroupResult{Key: g.Key, Size: len(g.Values), Metrics: map[string]NumSummary{}}
		for fi, f := range numericFields {
			d := stats.Describe(byField[fi][gi].Values)
			gr.Metrics[f.name] = NumSummary{Count: d.N, Min: d.Min, Max: d.Max, Mean: d.Mean}
		}
		out = append(out, gr)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Size == out[j].Size {
			return out[i].Key < out[j].Key
		}
		return out[i].Size > out[j].Size
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func correlations(columns [][]float64) *CorrMatrix {
	n := len(numericFields)
	names := make([]string, n)
	mat := make([][]float64, n)
	for i := range mat {
		names[i] = numericFields[i].name
		mat[i] = make([]float64, n)
		for j := range mat[i] {
			if i == j {
				mat[i][j] = 1
				continue
			}
			mat[i][j] = pearson(columns[i], columns[j])
		}
	}
	return &CorrMatrix{Columns: names, Values: mat}
}

// pearson returns 0 when either column has no spread.
func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

func robustOutliers(vals []float64, thr float64) (count int, maxAbsZ, threshold float64) {
	if thr <= 0 {
		thr = 3.5
	}
	median, mad := medianMAD(vals)
	if mad > 0 {
		for _, v := range vals {
			az := math.Abs(0.6745 * (v - median) / mad)
			if az > thr {
				count++
			}
			if az > maxAbsZ {
				maxAbsZ = az
			}
		}
	}
	return count, maxAbsZ, thr
}

// Markdown renders a compact report for the console or a standalone doc.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		name := c.Name
		if c.Unit != "" {
			name = fmt.Sprintf("%s [%s]", name, c.Unit)
		}
		b.WriteString(fmt.Sprintf("- %s: %s", name, c.Kind))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP-BY SUMMARY]\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- species=%s (n=%d)\n", safeVal(g.Key), g.Size))
			for _, f := range numericFields {
				m, ok := g.Metrics[f.name]
				if !ok {
					continue
				}
				b.WriteString(fmt.Sprintf("  • %s: mean %.4g (min %.4g, max %.4g)\n", f.name, m.Mean, m.Min, m.Max))
			}
		}
	}
	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		type pr struct {
			A, B string
			R    float64
		}
		var pairs []pr
		n := len(r.Corr.Columns)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, pr{A: r.Corr.Columns[i], B: r.Corr.Columns[j], R: r.Corr.Values[i][j]})
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		for _, p := range pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	median = stats.Describe(vals).Median
	dev := make([]float64, len(vals))
	for i, v := range vals {
		dev[i] = math.Abs(v - median)
	}
	return median, stats.Describe(dev).Median
}

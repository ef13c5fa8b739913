package analysis

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/tidyhar/internal/tabular"
)

// Options controls profiling of a written table.
type Options struct {
	// MaxRows limits rows processed; 0 means unlimited.
	MaxRows int
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// GroupBy computes per-group means for the given column names.
	GroupBy []string
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for table profiling.
func DefaultOptions() Options {
	return Options{
		MaxRows:          100000,
		SampleRows:       5,
		Outliers:         true,
		OutlierThreshold: 3.5,
	}
}

// Report is a markdown-friendly profile of a table.
type Report struct {
	Name      string
	Rows      int
	Processed int
	Cols      []ColumnSummary
	Samples   [][]string
	Warnings  []string
	Groups    []GroupResult
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|categorical|unknown
	NonNull int
	Missing int
	Unique  int
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
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// GroupResult captures per-group means keyed by column name.
type GroupResult struct {
	Key   string
	Size  int
	Means map[string]float64
}

// AnalyzeTable profiles a table file written by the pipeline.
func AnalyzeTable(path string, opt Options) (*Report, error) {
	t, err := tabular.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Analyze(filepath.Base(path), t, opt), nil
}

type colAcc struct {
	name   string
	nonNil int
	miss   int
	// numeric stats via Welford
	n      int
	mean   float64
	m2     float64
	min    float64
	max    float64
	txtCnt int
	cats   map[string]int
	vals   []float64
}

// Analyze profiles an in-memory table.
func Analyze(name string, t *tabular.Table, opt Options) *Report {
	rep := &Report{Name: name, Rows: len(t.Rows)}
	ncol := len(t.Header)
	if ncol == 0 {
		return rep
	}
	cols := make([]*colAcc, ncol)
	index := map[string]int{}
	for i, h := range t.Header {
		cols[i] = &colAcc{name: h, min: math.Inf(1), max: math.Inf(-1), cats: map[string]int{}}
		index[strings.ToLower(h)] = i
	}
	var gbIdx []int
	for _, g := range opt.GroupBy {
		if i, ok := index[strings.ToLower(strings.TrimSpace(g))]; ok {
			gbIdx = append(gbIdx, i)
		} else {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("group-by column %q not found", g))
		}
	}
	type gAcc struct {
		size int
		sum  map[int]float64
		cnt  map[int]int
	}
	groups := map[string]*gAcc{}

	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	for _, rec := range t.Rows {
		if rep.Processed >= maxRows {
			break
		}
		rep.Processed++
		if len(rep.Samples) < opt.SampleRows {
			rep.Samples = append(rep.Samples, append([]string(nil), rec...))
		}
		var ga *gAcc
		if len(gbIdx) > 0 {
			parts := make([]string, len(gbIdx))
			for k, i := range gbIdx {
				parts[k] = fmt.Sprintf("%s=%s", cols[i].name, safeVal(rec[i]))
			}
			key := strings.Join(parts, " | ")
			ga = groups[key]
			if ga == nil {
				ga = &gAcc{sum: map[int]float64{}, cnt: map[int]int{}}
				groups[key] = ga
			}
			ga.size++
		}
		for j := 0; j < ncol && j < len(rec); j++ {
			v := strings.TrimSpace(rec[j])
			c := cols[j]
			if v == "" || v == tabular.NA {
				c.miss++
				continue
			}
			c.nonNil++
			if x, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(x) {
				c.n++
				if x < c.min {
					c.min = x
				}
				if x > c.max {
					c.max = x
				}
				delta := x - c.mean
				c.mean += delta / float64(c.n)
				c.m2 += delta * (x - c.mean)
				if opt.Outliers {
					c.vals = append(c.vals, x)
				}
				if ga != nil {
					ga.sum[j] += x
					ga.cnt[j]++
				}
				continue
			}
			c.txtCnt++
			if len(c.cats) <= 10000 {
				c.cats[v]++
			}
		}
	}

	numeric := map[int]bool{}
	for idx, c := range cols {
		s := ColumnSummary{Name: c.name, NonNull: c.nonNil, Missing: c.miss, Kind: "unknown"}
		switch {
		case c.n > 0 && c.n >= c.txtCnt:
			s.Kind = "numeric"
			numeric[idx] = true
			s.Min, s.Max, s.Mean = c.min, c.max, c.mean
			if c.n > 1 {
				s.Std = math.Sqrt(c.m2 / float64(c.n-1))
			}
			if opt.Outliers && len(c.vals) >= 8 {
				thr := opt.OutlierThreshold
				if thr <= 0 {
					thr = 3.5
				}
				s.OutliersCount, s.OutliersMaxAbsZ = robustOutliers(c.vals, thr)
				s.OutlierThreshold = thr
			}
		case len(c.cats) > 0:
			s.Kind = "categorical"
			tops := make([]CategoryCount, 0, len(c.cats))
			for k, v := range c.cats {
				tops = append(tops, CategoryCount{Value: k, Count: v})
			}
			sort.Slice(tops, func(i, j int) bool {
				if tops[i].Count == tops[j].Count {
					return tops[i].Value < tops[j].Value
				}
				return tops[i].Count > tops[j].Count
			})
			s.Unique = len(tops)
			if len(tops) > 8 {
				tops = tops[:8]
			}
			s.TopValues = tops
		}
		rep.Cols = append(rep.Cols, s)
	}

	if rep.Processed < rep.Rows {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", rep.Processed, rep.Rows))
	}

	for k, ga := range groups {
		gr := GroupResult{Key: k, Size: ga.size, Means: map[string]float64{}}
		for j := range cols {
			if numeric[j] && ga.cnt[j] > 0 {
				gr.Means[cols[j].name] = ga.sum[j] / float64(ga.cnt[j])
			}
		}
		rep.Groups = append(rep.Groups, gr)
	}
	sort.Slice(rep.Groups, func(i, j int) bool {
		if rep.Groups[i].Size == rep.Groups[j].Size {
			return rep.Groups[i].Key < rep.Groups[j].Key
		}
		return rep.Groups[i].Size > rep.Groups[j].Size
	})
	if len(rep.Groups) > 20 {
		rep.Groups = rep.Groups[:20]
	}
	return rep
}

func robustOutliers(vals []float64, thr float64) (count int, maxAbsZ float64) {
	median, mad := medianMAD(vals)
	if mad == 0 {
		return 0, 0
	}
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > thr {
			count++
		}
		if az > maxAbsZ {
			maxAbsZ = az
		}
	}
	return count, maxAbsZ
}

// Markdown renders a compact report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[TABLE SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Processed > 0 && r.Processed < r.Rows {
		b.WriteString(fmt.Sprintf("Rows: ~%d (processed %d)\n", r.Rows, r.Processed))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
			}
		case "categorical":
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
		b.WriteString("\n")
	}

	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP-BY SUMMARY]\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- %s (n=%d)\n", g.Key, g.Size))
			keys := make([]string, 0, len(g.Means))
			for k := range g.Means {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			if len(keys) > 6 {
				keys = keys[:6]
			}
			for _, k := range keys {
				b.WriteString(fmt.Sprintf("  • %s: mean %.4g\n", k, g.Means[k]))
			}
		}
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n|")
		for range r.Cols {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
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

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

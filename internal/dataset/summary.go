package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SummaryOptions controls what Summarize reports.
type SummaryOptions struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// GroupBy computes per-group numeric summaries for a categorical column.
	GroupBy string
	// CorrPairs limits how many correlation pairs are listed (by |r|).
	CorrPairs int
}

// DefaultSummaryOptions returns reasonable defaults for dataset summaries.
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{SampleRows: 5, CorrPairs: 10}
}

// Report is a markdown-friendly description of a dataset.
type Report struct {
	Name    string
	Rows    int
	Cols    []ColumnSummary
	Samples [][]string
	Corr    []PairCorr
	Groups  []GroupResult
	Notes   []string
}

// ColumnSummary captures type and statistics per column.
type ColumnSummary struct {
	Name string
	Kind string
	// Numeric stats
	Min, Max, Mean, Std float64
	// Categorical top values
	TopValues []CategoryCount
	Unique    int
}

type CategoryCount struct {
	Value string
	Count int
}

// PairCorr is a Pearson correlation between two numeric columns.
type PairCorr struct {
	A, B string
	R    float64
}

// GroupResult captures per-group numeric aggregates.
type GroupResult struct {
	Key     string
	Size    int
	Metrics []GroupMetric
}

type GroupMetric struct {
	Column         string
	Mean, Min, Max float64
}

// Summarize describes the dataset: schema, numeric statistics, categorical
// level counts, top correlations, optional per-group means, and sample rows.
func Summarize(d *Dataset, opt SummaryOptions) (*Report, error) {
	rep := &Report{Name: d.Name, Rows: d.Len()}
	if rep.Rows == 0 {
		return nil, fmt.Errorf("dataset %s has no rows", d.Name)
	}

	for _, c := range d.Cols {
		s := ColumnSummary{Name: c.Name, Kind: c.Kind}
		if c.Kind == KindNumeric {
			s.Min = floats.Min(c.Floats)
			s.Max = floats.Max(c.Floats)
			s.Mean, s.Std = stat.MeanStdDev(c.Floats, nil)
		} else {
			counts := map[string]int{}
			for _, v := range c.Labels {
				counts[v]++
			}
			tops := make([]CategoryCount, 0, len(counts))
			for k, n := range counts {
				tops = append(tops, CategoryCount{Value: k, Count: n})
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

	// Top correlation pairs across numeric columns.
	num := d.NumericColumns()
	maxPairs := opt.CorrPairs
	if maxPairs <= 0 {
		maxPairs = 10
	}
	for i := 0; i < len(num); i++ {
		for j := i + 1; j < len(num); j++ {
			r := stat.Correlation(num[i].Floats, num[j].Floats, nil)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				continue
			}
			rep.Corr = append(rep.Corr, PairCorr{A: num[i].Name, B: num[j].Name, R: r})
		}
	}
	sort.Slice(rep.Corr, func(i, j int) bool {
		ai, aj := math.Abs(rep.Corr[i].R), math.Abs(rep.Corr[j].R)
		if ai == aj {
			return rep.Corr[i].A+rep.Corr[i].B < rep.Corr[j].A+rep.Corr[j].B
		}
		return ai > aj
	})
	if len(rep.Corr) > maxPairs {
		rep.Corr = rep.Corr[:maxPairs]
	}

	// Per-group numeric aggregates for a categorical column.
	if opt.GroupBy != "" {
		gc := d.Column(opt.GroupBy)
		if gc == nil {
			return nil, fmt.Errorf("no column %q to group by", opt.GroupBy)
		}
		if gc.Kind != KindCategorical {
			return nil, fmt.Errorf("group-by column %q is %s; grouping needs a categorical column", opt.GroupBy, gc.Kind)
		}
		byLevel := map[string][]int{}
		for i, v := range gc.Labels {
			byLevel[v] = append(byLevel[v], i)
		}
		for level, rows := range byLevel {
			gr := GroupResult{Key: fmt.Sprintf("%s=%s", gc.Name, level), Size: len(rows)}
			for _, c := range num {
				vals := make([]float64, len(rows))
				for i, r := range rows {
					vals[i] = c.Floats[r]
				}
				gr.Metrics = append(gr.Metrics, GroupMetric{
					Column: c.Name,
					Mean:   stat.Mean(vals, nil),
					Min:    floats.Min(vals),
					Max:    floats.Max(vals),
				})
			}
			rep.Groups = append(rep.Groups, gr)
		}
		sort.Slice(rep.Groups, func(i, j int) bool {
			if rep.Groups[i].Size == rep.Groups[j].Size {
				return rep.Groups[i].Key < rep.Groups[j].Key
			}
			return rep.Groups[i].Size > rep.Groups[j].Size
		})
	}

	// Sample rows.
	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	if sampleRows > rep.Rows {
		sampleRows = rep.Rows
	}
	for i := 0; i < sampleRows; i++ {
		row := make([]string, 0, len(d.Cols)+1)
		if len(d.RowNames) > 0 {
			row = append(row, d.RowName(i))
		}
		for _, c := range d.Cols {
			row = append(row, cellString(&c, i))
		}
		rep.Samples = append(rep.Samples, row)
	}

	// Duplicate rows matter to the stochastic embeddings, so surface them.
	if _, dropped := d.Deduplicate(); len(dropped) > 0 {
		rep.Notes = append(rep.Notes, fmt.Sprintf("%d exact duplicate row(s) detected; t-SNE drops duplicates before embedding", len(dropped)))
	}

	return rep, nil
}

func cellString(c *Column, i int) string {
	if c.Kind == KindNumeric {
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	}
	return c.Labels[i]
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Dataset: %s\n", r.Name))
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s", safeName(c.Name), c.Kind))
		switch c.Kind {
		case KindNumeric:
			b.WriteString(fmt.Sprintf(" (min %.4g, max %.4g, mean %.4g, std %.4g)", c.Min, c.Max, c.Mean, c.Std))
		case KindCategorical:
			if len(c.TopValues) > 0 {
				b.WriteString(" (top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
				b.WriteString(")")
			}
		}
		b.WriteString("\n")
	}

	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP MEANS]\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- %s (n=%d)\n", g.Key, g.Size))
			maxk := 6
			if len(g.Metrics) < maxk {
				maxk = len(g.Metrics)
			}
			for i := 0; i < maxk; i++ {
				m := g.Metrics[i]
				b.WriteString(fmt.Sprintf("  • %s: mean %.4g (min %.4g, max %.4g)\n", m.Column, m.Mean, m.Min, m.Max))
			}
		}
	}

	if len(r.Corr) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range r.Corr {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[SAMPLE ROWS]\n")
		hasRowNames := len(r.Samples[0]) == len(r.Cols)+1
		b.WriteString("| ")
		if hasRowNames {
			b.WriteString("row | ")
		}
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		n := len(r.Cols)
		if hasRowNames {
			n++
		}
		for i := 0; i < n; i++ {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i, v := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(v))
			}
			b.WriteString(" |\n")
		}
	}

	if len(r.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Notes {
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

func safeVal(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}

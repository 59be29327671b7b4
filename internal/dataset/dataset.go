package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Column kinds as inferred from CSV values.
const (
	KindNumeric     = "numeric"
	KindCategorical = "categorical"
)

// Column is a single typed column. Exactly one of Floats or Labels is
// populated, depending on Kind.
type Column struct {
	Name   string
	Kind   string
	Floats []float64
	Labels []string
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Floats)
	}
	return len(c.Labels)
}

// Levels returns the distinct values of a categorical column in sorted order.
func (c *Column) Levels() []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range c.Labels {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Dataset is an in-memory table with typed columns and optional row names.
type Dataset struct {
	Name     string
	RowNames []string
	Cols     []Column
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if len(d.Cols) == 0 {
		return 0
	}
	return d.Cols[0].Len()
}

// ColumnNames returns the column names in table order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Cols))
	for i := range d.Cols {
		names[i] = d.Cols[i].Name
	}
	return names
}

// Column returns the named column, or nil if absent.
func (d *Dataset) Column(name string) *Column {
	for i := range d.Cols {
		if d.Cols[i].Name == name {
			return &d.Cols[i]
		}
	}
	return nil
}

// Select returns a new dataset restricted to the named columns, in the given
// order. Row names carry over.
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	out := &Dataset{Name: d.Name, RowNames: d.RowNames}
	for _, n := range names {
		c := d.Column(n)
		if c == nil {
			return nil, fmt.Errorf("no column %q in %s (have: %s)", n, d.Name, strings.Join(d.ColumnNames(), ", "))
		}
		out.Cols = append(out.Cols, *c)
	}
	return out, nil
}

// Drop returns a new dataset without the named columns. Unknown names are
// ignored.
func (d *Dataset) Drop(names ...string) *Dataset {
	skip := map[string]bool{}
	for _, n := range names {
		skip[n] = true
	}
	out := &Dataset{Name: d.Name, RowNames: d.RowNames}
	for _, c := range d.Cols {
		if !skip[c.Name] {
			out.Cols = append(out.Cols, c)
		}
	}
	return out
}

// Factorize converts the named numeric columns to categorical in place,
// formatting each value the shortest way that round-trips. Coded columns such
// as gear counts carry level information, not magnitude, and mixed-data
// factorization wants them as factors.
func (d *Dataset) Factorize(names ...string) error {
	for _, n := range names {
		c := d.Column(n)
		if c == nil {
			return fmt.Errorf("no column %q in %s (have: %s)", n, d.Name, strings.Join(d.ColumnNames(), ", "))
		}
		if c.Kind == KindCategorical {
			continue
		}
		labels := make([]string, len(c.Floats))
		for i, v := range c.Floats {
			labels[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		c.Kind = KindCategorical
		c.Labels = labels
		c.Floats = nil
	}
	return nil
}

// NumericColumns returns the numeric columns in table order.
func (d *Dataset) NumericColumns() []Column {
	var out []Column
	for _, c := range d.Cols {
		if c.Kind == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// CategoricalColumns returns the categorical columns in table order.
func (d *Dataset) CategoricalColumns() []Column {
	var out []Column
	for _, c := range d.Cols {
		if c.Kind == KindCategorical {
			out = append(out, c)
		}
	}
	return out
}

// Matrix assembles the numeric columns into a rows-by-columns dense matrix
// and returns the matching column names. Distance and factorization code
// operates on this matrix, so categorical columns are deliberately excluded.
func (d *Dataset) Matrix() (*mat.Dense, []string, error) {
	num := d.NumericColumns()
	if len(num) == 0 {
		return nil, nil, fmt.Errorf("dataset %s has no numeric columns", d.Name)
	}
	n := d.Len()
	if n == 0 {
		return nil, nil, fmt.Errorf("dataset %s has no rows", d.Name)
	}
	m := mat.NewDense(n, len(num), nil)
	names := make([]string, len(num))
	for j, c := range num {
		names[j] = c.Name
		for i, v := range c.Floats {
			m.Set(i, j, v)
		}
	}
	return m, names, nil
}

// RowName returns the name of row i, falling back to its 1-based index.
func (d *Dataset) RowName(i int) string {
	if i < len(d.RowNames) && d.RowNames[i] != "" {
		return d.RowNames[i]
	}
	return fmt.Sprintf("%d", i+1)
}

// PromoteRowNames removes the named categorical column and installs its
// values as the dataset's row names.
func (d *Dataset) PromoteRowNames(name string) error {
	c := d.Column(name)
	if c == nil {
		return fmt.Errorf("no column %q to use for row names", name)
	}
	if c.Kind != KindCategorical {
		return fmt.Errorf("column %q is %s; row names must come from a categorical column", name, c.Kind)
	}
	d.RowNames = c.Labels
	*d = *d.Drop(name)
	return nil
}

// Subset returns a new dataset containing only the given row indices, in
// order. Indices must be valid.
func (d *Dataset) Subset(rows []int) *Dataset {
	out := &Dataset{Name: d.Name}
	if len(d.RowNames) > 0 {
		out.RowNames = make([]string, len(rows))
		for i, r := range rows {
			out.RowNames[i] = d.RowNames[r]
		}
	}
	out.Cols = make([]Column, len(d.Cols))
	for j, c := range d.Cols {
		nc := Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == KindNumeric {
			nc.Floats = make([]float64, len(rows))
			for i, r := range rows {
				nc.Floats[i] = c.Floats[r]
			}
		} else {
			nc.Labels = make([]string, len(rows))
			for i, r := range rows {
				nc.Labels[i] = c.Labels[r]
			}
		}
		out.Cols[j] = nc
	}
	return out
}

// Deduplicate removes rows whose cell values exactly match an earlier row
// across every column. It returns the filtered dataset and the 0-based
// indices of the rows that were dropped. Stochastic embeddings reject
// duplicate observations, so callers run this before t-SNE.
func (d *Dataset) Deduplicate() (*Dataset, []int) {
	n := d.Len()
	seen := make(map[string]bool, n)
	var keep, dropped []int
	for i := 0; i < n; i++ {
		key := d.rowKey(i)
		if seen[key] {
			dropped = append(dropped, i)
			continue
		}
		seen[key] = true
		keep = append(keep, i)
	}
	if len(dropped) == 0 {
		return d, nil
	}
	return d.Subset(keep), dropped
}

func (d *Dataset) rowKey(i int) string {
	var b strings.Builder
	for _, c := range d.Cols {
		if c.Kind == KindNumeric {
			fmt.Fprintf(&b, "%v\x1f", c.Floats[i])
		} else {
			b.WriteString(c.Labels[i])
			b.WriteByte('\x1f')
		}
	}
	return b.String()
}

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadCSV parses comma-separated tabular data into a Dataset. The first
// record is the header. A column becomes numeric when every one of its
// values parses as a float; otherwise it is categorical. Empty cells are
// rejected because downstream distance and factorization code cannot
// tolerate missing values.
func ReadCSV(r io.Reader, name string) (*Dataset, error) {
	return readTable(r, name, ',')
}

// LoadFile reads a CSV or TSV file into a Dataset. When the leading column
// is categorical with all-unique values it is promoted to row names, which
// matches tables exported with observation identifiers in the first column.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	delim := ','
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		delim = '\t'
	}
	ds, err := readTable(f, filepath.Base(path), delim)
	if err != nil {
		return nil, err
	}
	autoPromoteRowNames(ds)
	return ds, nil
}

func readTable(r io.Reader, name string, delim rune) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("table %s is empty", name)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	ncol := len(header)
	cells := make([][]string, ncol)
	row := 0
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		row++
		for j := 0; j < ncol; j++ {
			v := strings.TrimSpace(rec[j])
			if v == "" {
				return nil, fmt.Errorf("row %d has an empty value in column %q; complete tables are required", row, strings.TrimSpace(header[j]))
			}
			cells[j] = append(cells[j], v)
		}
	}
	if row == 0 {
		return nil, fmt.Errorf("table %s has a header but no rows", name)
	}

	ds := &Dataset{Name: name}
	for j := 0; j < ncol; j++ {
		col := Column{Name: strings.TrimSpace(header[j])}
		floats, ok := tryNumeric(cells[j])
		if ok {
			col.Kind = KindNumeric
			col.Floats = floats
		} else {
			col.Kind = KindCategorical
			col.Labels = cells[j]
		}
		ds.Cols = append(ds.Cols, col)
	}
	return ds, nil
}

func tryNumeric(vals []string) ([]float64, bool) {
	out := make([]float64, len(vals))
	for i, v := range vals {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// autoPromoteRowNames promotes a leading identifier column to row names.
func autoPromoteRowNames(ds *Dataset) {
	if len(ds.Cols) == 0 || ds.Cols[0].Kind != KindCategorical {
		return
	}
	seen := map[string]bool{}
	for _, v := range ds.Cols[0].Labels {
		if seen[v] {
			return
		}
		seen[v] = true
	}
	_ = ds.PromoteRowNames(ds.Cols[0].Name)
}

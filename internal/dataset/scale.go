package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scaling modes accepted by the reduce commands.
const (
	ScaleNone        = "none"
	ScaleStandardize = "standardize"
	ScaleMinMax      = "minmax"
)

// Scale transforms the columns of m in place according to mode. names must
// match the matrix columns and is only used in error messages.
func Scale(m *mat.Dense, names []string, mode string) error {
	switch mode {
	case "", ScaleNone:
		return nil
	case ScaleStandardize:
		return Standardize(m, names)
	case ScaleMinMax:
		return MinMax(m, names)
	default:
		return fmt.Errorf("unknown scaling mode %q (have: none, standardize, minmax)", mode)
	}
}

// Standardize centers each column to mean zero and rescales to unit sample
// standard deviation. A constant column is an error: the zero divisor would
// poison every later distance.
func Standardize(m *mat.Dense, names []string) error {
	r, c := m.Dims()
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 {
			return fmt.Errorf("column %q is constant and cannot be standardized; drop it or use --scale none", colName(names, j))
		}
		for i := 0; i < r; i++ {
			m.Set(i, j, (col[i]-mean)/std)
		}
	}
	return nil
}

// MinMax rescales each column to the unit interval. Constant columns are an
// error for the same reason as in Standardize.
func MinMax(m *mat.Dense, names []string) error {
	r, c := m.Dims()
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		lo, hi := floats.Min(col), floats.Max(col)
		if hi == lo {
			return fmt.Errorf("column %q is constant and cannot be min-max scaled; drop it or use --scale none", colName(names, j))
		}
		for i := 0; i < r; i++ {
			m.Set(i, j, (col[i]-lo)/(hi-lo))
		}
	}
	return nil
}

func colName(names []string, j int) string {
	if j < len(names) {
		return names[j]
	}
	return fmt.Sprintf("#%d", j+1)
}

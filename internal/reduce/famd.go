package reduce

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/dimred-cli/internal/dataset"
)

// FAMD performs factor analysis of mixed data: numeric columns are
// standardized by their population deviation, categorical columns become
// chi-square weighted indicator columns, and the assembled matrix goes
// through the same principal component factorization PCA uses. Loadings are
// aggregated back to the original variables as squared contributions, so a
// categorical variable reports one number per component regardless of how
// many levels it has.
func FAMD(ds *dataset.Dataset, k int) (*Result, error) {
	n := ds.Len()
	numN := len(ds.NumericColumns())
	catN := len(ds.CategoricalColumns())
	if numN == 0 || catN == 0 {
		return nil, fmt.Errorf("famd: needs both numeric and categorical columns, have %d numeric and %d categorical; use pca for all-numeric tables", numN, catN)
	}

	type encoded struct {
		parent int
		vals   []float64
	}
	var varNames []string
	var cols []encoded

	for _, c := range ds.Cols {
		switch c.Kind {
		case dataset.KindNumeric:
			mean := stat.Mean(c.Floats, nil)
			var ss float64
			for _, v := range c.Floats {
				d := v - mean
				ss += d * d
			}
			sd := math.Sqrt(ss / float64(n))
			if sd == 0 {
				return nil, fmt.Errorf("famd: column %q is constant and cannot be standardized", c.Name)
			}
			vals := make([]float64, n)
			for i, v := range c.Floats {
				vals[i] = (v - mean) / sd
			}
			cols = append(cols, encoded{parent: len(varNames), vals: vals})
			varNames = append(varNames, c.Name)
		case dataset.KindCategorical:
			levels := c.Levels()
			if len(levels) < 2 {
				return nil, fmt.Errorf("famd: categorical column %q has a single level and carries no information", c.Name)
			}
			parent := len(varNames)
			varNames = append(varNames, c.Name)
			for _, lv := range levels {
				var cnt int
				for _, v := range c.Labels {
					if v == lv {
						cnt++
					}
				}
				p := float64(cnt) / float64(n)
				w := math.Sqrt(p)
				vals := make([]float64, n)
				for i, v := range c.Labels {
					ind := 0.0
					if v == lv {
						ind = 1.0
					}
					vals[i] = (ind - p) / w
				}
				cols = append(cols, encoded{parent: parent, vals: vals})
			}
		}
	}

	p := len(cols)
	if err := checkComponents(k, n, p); err != nil {
		return nil, fmt.Errorf("famd: %w", err)
	}
	z := mat.NewDense(n, p, nil)
	for j, ec := range cols {
		for i, v := range ec.vals {
			z.Set(i, j, v)
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(z, nil); !ok {
		return nil, fmt.Errorf("famd: factorization failed for %dx%d encoded matrix", n, p)
	}
	var vec mat.Dense
	pc.VectorsTo(&vec)
	vars := pc.VarsTo(nil)

	// Every encoded column is already centered, so projection needs no
	// further shift.
	var proj mat.Dense
	proj.Mul(z, vec.Slice(0, p, 0, k))

	var total float64
	for _, v := range vars {
		total += v
	}
	explained := make([]float64, len(vars))
	for i, v := range vars {
		explained[i] = v / total
	}

	loadings := mat.NewDense(len(varNames), k, nil)
	for j, ec := range cols {
		for d := 0; d < k; d++ {
			v := vec.At(j, d)
			loadings.Set(ec.parent, d, loadings.At(ec.parent, d)+v*v)
		}
	}

	return &Result{
		Technique:    TechniqueFAMD,
		Points:       mat.DenseCopyOf(&proj),
		VarExplained: explained,
		Loadings:     loadings,
		FeatureNames: varNames,
	}, nil
}

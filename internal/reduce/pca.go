package reduce

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCA projects m onto its first k principal components. names labels the
// feature columns of m and becomes Result.FeatureNames for the loadings.
// The factorization is gonum's stat.PC; scores are computed against the
// column means so the embedding is centered on the data centroid.
func PCA(m *mat.Dense, names []string, k int) (*Result, error) {
	n, p := m.Dims()
	if err := checkComponents(k, n, p); err != nil {
		return nil, fmt.Errorf("pca: %w", err)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(m, nil); !ok {
		return nil, fmt.Errorf("pca: factorization failed for %dx%d matrix", n, p)
	}
	var vec mat.Dense
	pc.VectorsTo(&vec)
	vars := pc.VarsTo(nil)

	centered := centerColumns(m)
	var proj mat.Dense
	proj.Mul(centered, vec.Slice(0, p, 0, k))

	total := floats.Sum(vars)
	explained := make([]float64, len(vars))
	for i, v := range vars {
		explained[i] = v / total
	}

	return &Result{
		Technique:    TechniquePCA,
		Points:       mat.DenseCopyOf(&proj),
		VarExplained: explained,
		Loadings:     mat.DenseCopyOf(vec.Slice(0, p, 0, k)),
		FeatureNames: names,
	}, nil
}

func checkComponents(k, n, p int) error {
	if k < 1 {
		return fmt.Errorf("need at least 1 component, got %d", k)
	}
	limit := p
	if n-1 < limit {
		limit = n - 1
	}
	if k > limit {
		return fmt.Errorf("cannot extract %d components from %d rows x %d features (max %d)", k, n, p, limit)
	}
	return nil
}

// centerColumns returns a copy of m with each column shifted to mean zero.
func centerColumns(m *mat.Dense) *mat.Dense {
	n, p := m.Dims()
	out := mat.DenseCopyOf(m)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, m)
		mean := stat.Mean(col, nil)
		for i := 0; i < n; i++ {
			out.Set(i, j, col[i]-mean)
		}
	}
	return out
}

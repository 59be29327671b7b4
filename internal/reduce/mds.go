package reduce

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/mds"
)

// MDS embeds m into k dimensions by classical (Torgerson) multidimensional
// scaling over pairwise Euclidean distances. The scaling itself is gonum's
// mds.TorgersonScaling; this function builds the symmetric distance matrix
// and trims the coordinate columns.
func MDS(m *mat.Dense, k int) (*Result, error) {
	n, _ := m.Dims()
	if n < 3 {
		return nil, fmt.Errorf("mds: need at least 3 rows, got %d", n)
	}
	if k < 1 {
		return nil, fmt.Errorf("mds: need at least 1 component, got %d", k)
	}

	dist := DistanceMatrix(m)
	var coords mat.Dense
	pos, eig := mds.TorgersonScaling(&coords, make([]float64, n), dist)
	if pos < k {
		return nil, fmt.Errorf("mds: distance matrix supports only %d dimensions, requested %d", pos, k)
	}

	// Eigenvalue shares over the positive spectrum play the role variance
	// proportions play in PCA.
	var total float64
	for _, v := range eig[:pos] {
		total += v
	}
	explained := make([]float64, pos)
	for i, v := range eig[:pos] {
		explained[i] = v / total
	}

	nr, _ := coords.Dims()
	return &Result{
		Technique:    TechniqueMDS,
		Points:       mat.DenseCopyOf(coords.Slice(0, nr, 0, k)),
		VarExplained: explained,
	}, nil
}

// DistanceMatrix computes the symmetric pairwise Euclidean distance matrix
// of the rows of m. The diagonal is zero.
func DistanceMatrix(m *mat.Dense) *mat.SymDense {
	n, _ := m.Dims()
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d.SetSym(i, j, floats.Distance(m.RawRowView(i), m.RawRowView(j), 2))
		}
	}
	return d
}

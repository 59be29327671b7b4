package reduce

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Neighbor is one nearest-neighbor hit for a query row.
type Neighbor struct {
	Index int
	Dist  float64
}

// KNN returns the k nearest neighbors of every row of m by Euclidean
// distance, each row excluded from its own neighbor list. Results per row
// are sorted by ascending distance with index as the tie-break, so repeated
// runs see the same graph. Brute force: the tutorial tables are tiny.
func KNN(m *mat.Dense, k int) ([][]Neighbor, error) {
	n, _ := m.Dims()
	if k < 1 || k >= n {
		return nil, fmt.Errorf("knn: need 1 <= k < rows, got k=%d with %d rows", k, n)
	}
	out := make([][]Neighbor, n)
	for i := 0; i < n; i++ {
		cand := make([]Neighbor, 0, n-1)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			cand = append(cand, Neighbor{Index: j, Dist: floats.Distance(m.RawRowView(i), m.RawRowView(j), 2)})
		}
		sort.Slice(cand, func(a, b int) bool {
			if cand[a].Dist == cand[b].Dist {
				return cand[a].Index < cand[b].Index
			}
			return cand[a].Dist < cand[b].Dist
		})
		out[i] = cand[:k]
	}
	return out, nil
}

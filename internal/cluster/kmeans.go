// Package cluster overlays k-means groupings on embedded coordinates so the
// scatter plots can color structure even when the dataset has no categorical
// column to group by.
package cluster

import (
	"fmt"
	"math/rand"

	"github.com/mpraski/clusters"
	"gonum.org/v1/gonum/mat"
)

// Options parameterizes the k-means overlay.
type Options struct {
	K       int
	MaxIter int
	Seed    int64
}

// DefaultOptions returns the conventional overlay parameters.
func DefaultOptions() Options {
	return Options{K: 3, MaxIter: 1000, Seed: 42}
}

// Assign clusters the rows of the embedding into opt.K groups and returns
// one label per row plus the per-cluster sizes. Labels are formatted for
// direct use as plot groups.
func Assign(points *mat.Dense, opt Options) ([]string, []int, error) {
	n, _ := points.Dims()
	if opt.K < 2 || opt.K > n/2 {
		return nil, nil, fmt.Errorf("kmeans: need 2 <= k <= rows/2, got k=%d with %d rows", opt.K, n)
	}
	maxIter := opt.MaxIter
	if maxIter <= 0 {
		maxIter = 1000
	}

	data := make([][]float64, n)
	for i := range data {
		row := points.RawRowView(i)
		data[i] = append([]float64(nil), row...)
	}

	// The clusterer draws initial centroids from the global source.
	rand.Seed(opt.Seed)
	c, err := clusters.KMeans(maxIter, opt.K, clusters.EuclideanDistance)
	if err != nil {
		return nil, nil, fmt.Errorf("kmeans: %w", err)
	}
	if err := c.Learn(data); err != nil {
		return nil, nil, fmt.Errorf("kmeans: %w", err)
	}

	guesses := c.Guesses()
	labels := make([]string, len(guesses))
	for i, g := range guesses {
		labels[i] = fmt.Sprintf("cluster %d", g)
	}
	return labels, c.Sizes(), nil
}

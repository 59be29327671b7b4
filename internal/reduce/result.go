// Package reduce projects numeric feature matrices into low-dimensional
// embeddings. The factorizations themselves are delegated to gonum and
// go-tsne; this package owns preprocessing checks, option defaults, and the
// shared Result shape consumed by rendering and reporting.
package reduce

import "gonum.org/v1/gonum/mat"

// Techniques implemented by this package.
const (
	TechniquePCA  = "pca"
	TechniqueFAMD = "famd"
	TechniqueMDS  = "mds"
	TechniqueTSNE = "tsne"
	TechniqueUMAP = "umap"
)

// Techniques lists every implemented technique in presentation order.
func Techniques() []string {
	return []string{TechniquePCA, TechniqueFAMD, TechniqueMDS, TechniqueTSNE, TechniqueUMAP}
}

// Result is the outcome of one dimensionality reduction.
type Result struct {
	Technique string
	// Points holds one embedded row per observation (rows x components).
	Points *mat.Dense
	// VarExplained lists per-component variance proportions where the
	// technique defines them (PCA, FAMD, classical MDS); nil otherwise.
	VarExplained []float64
	// Loadings relates original features to components for the linear
	// techniques (features x components); nil otherwise.
	Loadings *mat.Dense
	// FeatureNames aligns with the rows of Loadings.
	FeatureNames []string
	// KLDivergence is the final t-SNE objective; zero elsewhere.
	KLDivergence float64
}

// Components returns the embedding dimensionality.
func (r *Result) Components() int {
	if r.Points == nil {
		return 0
	}
	_, c := r.Points.Dims()
	return c
}

// Len returns the number of embedded observations.
func (r *Result) Len() int {
	if r.Points == nil {
		return 0
	}
	n, _ := r.Points.Dims()
	return n
}

// Coords returns the embedded values of one dimension across all rows.
func (r *Result) Coords(dim int) []float64 {
	out := make([]float64, r.Len())
	mat.Col(out, dim, r.Points)
	return out
}

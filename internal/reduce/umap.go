package reduce

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// UMAPOptions parameterizes a UMAP embedding.
type UMAPOptions struct {
	Components int
	Neighbors  int
	MinDist    float64
	Spread     float64
	Epochs     int
	Seed       int64
	// Progress, when set, receives the epoch number every 50 epochs.
	Progress func(epoch int)
}

// DefaultUMAPOptions mirrors the reference UMAP defaults.
func DefaultUMAPOptions() UMAPOptions {
	return UMAPOptions{
		Components: 2,
		Neighbors:  15,
		MinDist:    0.1,
		Spread:     1.0,
		Epochs:     300,
		Seed:       42,
	}
}

const negativeSamples = 5

// UMAP embeds m by uniform manifold approximation and projection: a fuzzy
// nearest-neighbor graph is built from smoothed distances, then optimized
// into low dimension by stochastic gradient descent with negative sampling.
// Initialization is the PCA projection scaled to a fixed extent, which keeps
// runs reproducible for a given seed.
func UMAP(m *mat.Dense, opt UMAPOptions) (*Result, error) {
	n, _ := m.Dims()
	if opt.Components < 1 {
		return nil, fmt.Errorf("umap: need at least 1 component, got %d", opt.Components)
	}
	if opt.Neighbors < 2 || opt.Neighbors >= n {
		return nil, fmt.Errorf("umap: need 2 <= neighbors < rows, got neighbors=%d with %d rows", opt.Neighbors, n)
	}
	if opt.Spread <= 0 || opt.MinDist < 0 || opt.MinDist > opt.Spread {
		return nil, fmt.Errorf("umap: need 0 <= min-dist <= spread, got min-dist=%g spread=%g", opt.MinDist, opt.Spread)
	}
	if opt.Epochs < 1 {
		return nil, fmt.Errorf("umap: need at least 1 epoch, got %d", opt.Epochs)
	}

	knn, err := KNN(m, opt.Neighbors)
	if err != nil {
		return nil, fmt.Errorf("umap: %w", err)
	}
	edges := fuzzyGraph(knn)

	init, err := PCA(m, nil, opt.Components)
	if err != nil {
		return nil, fmt.Errorf("umap: init embedding: %w", err)
	}
	y := mat.DenseCopyOf(init.Points)
	rescaleToExtent(y, 10)

	a, b := fitABParams(opt.Spread, opt.MinDist)
	rng := rand.New(rand.NewSource(opt.Seed))
	for epoch := 1; epoch <= opt.Epochs; epoch++ {
		alpha := 1 - float64(epoch-1)/float64(opt.Epochs)
		for _, e := range edges {
			// Edge update frequency is proportional to membership strength.
			if rng.Float64() > e.w {
				continue
			}
			applyAttraction(y, e.a, e.b, a, b, alpha)
			for s := 0; s < negativeSamples; s++ {
				t := rng.Intn(n)
				if t == e.a {
					continue
				}
				applyRepulsion(y, e.a, t, a, b, alpha)
			}
		}
		if opt.Progress != nil && epoch%50 == 0 {
			opt.Progress(epoch)
		}
	}

	return &Result{Technique: TechniqueUMAP, Points: y}, nil
}

type umapEdge struct {
	a, b int
	w    float64
}

// fuzzyGraph converts the directed kNN lists into the symmetric fuzzy
// simplicial set: per-point smoothed exponential weights combined with the
// probabilistic union w1 + w2 - w1*w2. Edges come back sorted so descent
// order is stable across runs.
func fuzzyGraph(knn [][]Neighbor) []umapEdge {
	n := len(knn)
	target := math.Log2(float64(len(knn[0])))

	weights := make([]map[int]float64, n)
	for i, nb := range knn {
		rho := nb[0].Dist
		sigma := smoothKNNDist(nb, rho, target)
		weights[i] = make(map[int]float64, len(nb))
		for _, nn := range nb {
			d := nn.Dist - rho
			w := 1.0
			if d > 0 {
				w = math.Exp(-d / sigma)
			}
			weights[i][nn.Index] = w
		}
	}

	type pairKey struct{ a, b int }
	union := make(map[pairKey]float64, n*len(knn[0]))
	for i := range weights {
		for j, w1 := range weights[i] {
			k := pairKey{i, j}
			if k.a > k.b {
				k.a, k.b = k.b, k.a
			}
			if _, done := union[k]; done {
				continue
			}
			w2 := weights[j][i]
			union[k] = w1 + w2 - w1*w2
		}
	}

	edges := make([]umapEdge, 0, len(union))
	for k, w := range union {
		edges = append(edges, umapEdge{a: k.a, b: k.b, w: w})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].a == edges[j].a {
			return edges[i].b < edges[j].b
		}
		return edges[i].a < edges[j].a
	})
	return edges
}

// smoothKNNDist finds the bandwidth sigma whose exponential weights over the
// neighbor distances sum to the target, by bisection.
func smoothKNNDist(nb []Neighbor, rho, target float64) float64 {
	lo, hi, mid := 0.0, math.Inf(1), 1.0
	for iter := 0; iter < 64; iter++ {
		var sum float64
		for _, nn := range nb {
			d := nn.Dist - rho
			if d > 0 {
				sum += math.Exp(-d / mid)
			} else {
				sum++
			}
		}
		if math.Abs(sum-target) < 1e-5 {
			break
		}
		if sum > target {
			hi = mid
			mid = (lo + hi) / 2
		} else {
			lo = mid
			if math.IsInf(hi, 1) {
				mid *= 2
			} else {
				mid = (lo + hi) / 2
			}
		}
	}
	if mid < 1e-10 {
		mid = 1e-10
	}
	return mid
}

// fitABParams fits the differentiable low-dimensional curve 1/(1+a*d^(2b))
// to the piecewise target defined by spread and min-dist, by a shrinking
// grid search over (a, b). For the defaults (1.0, 0.1) this lands near the
// reference values a=1.58, b=0.90.
func fitABParams(spread, minDist float64) (float64, float64) {
	const samples = 300
	xs := make([]float64, samples)
	ys := make([]float64, samples)
	for i := range xs {
		x := 3 * spread * float64(i+1) / samples
		xs[i] = x
		if x <= minDist {
			ys[i] = 1
		} else {
			ys[i] = math.Exp(-(x - minDist) / spread)
		}
	}
	loss := func(a, b float64) float64 {
		var s float64
		for i, x := range xs {
			f := 1 / (1 + a*math.Pow(x, 2*b))
			d := f - ys[i]
			s += d * d
		}
		return s
	}

	bestA, bestB := 1.0, 1.0
	best := math.Inf(1)
	aLo, aHi := 0.05, 10.0
	bLo, bHi := 0.1, 2.5
	for pass := 0; pass < 3; pass++ {
		const steps = 40
		for i := 0; i <= steps; i++ {
			a := aLo + (aHi-aLo)*float64(i)/steps
			for j := 0; j <= steps; j++ {
				b := bLo + (bHi-bLo)*float64(j)/steps
				if l := loss(a, b); l < best {
					best, bestA, bestB = l, a, b
				}
			}
		}
		aw := (aHi - aLo) / 8
		bw := (bHi - bLo) / 8
		aLo, aHi = math.Max(1e-3, bestA-aw), bestA+aw
		bLo, bHi = math.Max(1e-2, bestB-bw), bestB+bw
	}
	return bestA, bestB
}

// rescaleToExtent scales y uniformly so its largest absolute coordinate
// equals extent.
func rescaleToExtent(y *mat.Dense, extent float64) {
	n, c := y.Dims()
	var maxAbs float64
	for i := 0; i < n; i++ {
		for j := 0; j < c; j++ {
			if v := math.Abs(y.At(i, j)); v > maxAbs {
				maxAbs = v
			}
		}
	}
	if maxAbs == 0 {
		return
	}
	scale := extent / maxAbs
	for i := 0; i < n; i++ {
		for j := 0; j < c; j++ {
			y.Set(i, j, y.At(i, j)*scale)
		}
	}
}

func applyAttraction(y *mat.Dense, i, j int, a, b, alpha float64) {
	_, dim := y.Dims()
	var d2 float64
	for c := 0; c < dim; c++ {
		diff := y.At(i, c) - y.At(j, c)
		d2 += diff * diff
	}
	if d2 <= 0 {
		return
	}
	coef := -2 * a * b * math.Pow(d2, b-1) / (1 + a*math.Pow(d2, b))
	for c := 0; c < dim; c++ {
		g := clipGrad(coef * (y.At(i, c) - y.At(j, c)))
		y.Set(i, c, y.At(i, c)+alpha*g)
		y.Set(j, c, y.At(j, c)-alpha*g)
	}
}

func applyRepulsion(y *mat.Dense, i, j int, a, b, alpha float64) {
	_, dim := y.Dims()
	var d2 float64
	for c := 0; c < dim; c++ {
		diff := y.At(i, c) - y.At(j, c)
		d2 += diff * diff
	}
	if d2 <= 0 {
		// Coincident points get a fixed push so they can separate.
		for c := 0; c < dim; c++ {
			y.Set(i, c, y.At(i, c)+alpha*4)
		}
		return
	}
	coef := 2 * b / ((0.001 + d2) * (1 + a*math.Pow(d2, b)))
	for c := 0; c < dim; c++ {
		g := clipGrad(coef * (y.At(i, c) - y.At(j, c)))
		y.Set(i, c, y.At(i, c)+alpha*g)
	}
}

func clipGrad(v float64) float64 {
	if v > 4 {
		return 4
	}
	if v < -4 {
		return -4
	}
	return v
}

package reduce

import (
	"fmt"
	"math/rand"

	"github.com/danaugrs/go-tsne/tsne"
	"gonum.org/v1/gonum/mat"
)

// TSNEOptions parameterizes a t-SNE embedding.
type TSNEOptions struct {
	Components   int
	Perplexity   float64
	LearningRate float64
	Iterations   int
	// Seed fixes the random initialization. go-tsne draws from the global
	// math/rand source, so the seed is applied there.
	Seed int64
	// Progress, when set, receives the KL divergence every 100 iterations.
	Progress func(iter int, divergence float64)
}

// DefaultTSNEOptions mirrors the conventional t-SNE tutorial parameters.
func DefaultTSNEOptions() TSNEOptions {
	return TSNEOptions{
		Components:   2,
		Perplexity:   30,
		LearningRate: 200,
		Iterations:   1000,
		Seed:         42,
	}
}

// TSNE embeds m with t-distributed stochastic neighbor embedding, delegated
// to go-tsne. Callers must deduplicate rows first: identical observations
// make the conditional probabilities degenerate. The perplexity bound is the
// same one Rtsne enforces.
func TSNE(m *mat.Dense, opt TSNEOptions) (*Result, error) {
	n, _ := m.Dims()
	if opt.Components < 1 {
		return nil, fmt.Errorf("tsne: need at least 1 component, got %d", opt.Components)
	}
	if opt.Perplexity <= 0 {
		return nil, fmt.Errorf("tsne: perplexity must be positive, got %g", opt.Perplexity)
	}
	if 3*opt.Perplexity > float64(n-1) {
		return nil, fmt.Errorf("tsne: perplexity %g is too large for %d rows; need 3*perplexity <= rows-1, try --perplexity %d", opt.Perplexity, n, (n-1)/3)
	}
	if opt.Iterations < 1 {
		return nil, fmt.Errorf("tsne: need at least 1 iteration, got %d", opt.Iterations)
	}

	rand.Seed(opt.Seed)
	t := tsne.NewTSNE(opt.Components, opt.Perplexity, opt.LearningRate, opt.Iterations, false)
	var last float64
	y := t.EmbedData(m, func(iter int, divergence float64, embedding mat.Matrix) bool {
		last = divergence
		if opt.Progress != nil && iter%100 == 0 {
			opt.Progress(iter, divergence)
		}
		return false
	})

	return &Result{
		Technique:    TechniqueTSNE,
		Points:       mat.DenseCopyOf(y),
		KLDivergence: last,
	}, nil
}

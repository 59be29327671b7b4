// Package report renders the interpretive commentary that accompanies each
// embedding: what was preprocessed, how much variance the view keeps, which
// columns drive the axes, and how to read the technique's map.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/dimred-cli/internal/reduce"
)

// Param is one named run parameter, rendered in declaration order.
type Param struct {
	Name  string
	Value string
}

// Run collects everything the commentary needs about one embedding run.
type Run struct {
	Result       *reduce.Result
	Dataset      string
	TotalRows    int
	RowsDropped  int
	Features     []string
	Scaling      string
	ColorBy      string
	ClusterSizes []int
	Params       []Param
}

// DisplayName returns the human form of a technique code.
func DisplayName(tech string) string {
	switch tech {
	case reduce.TechniquePCA:
		return "PCA"
	case reduce.TechniqueFAMD:
		return "FAMD"
	case reduce.TechniqueMDS:
		return "MDS"
	case reduce.TechniqueTSNE:
		return "t-SNE"
	case reduce.TechniqueUMAP:
		return "UMAP"
	}
	return strings.ToUpper(tech)
}

// ComponentLabel names embedding axis i (0-based) for a technique.
func ComponentLabel(tech string, i int) string {
	switch tech {
	case reduce.TechniquePCA:
		return fmt.Sprintf("PC%d", i+1)
	case reduce.TechniqueTSNE:
		return fmt.Sprintf("t-SNE %d", i+1)
	case reduce.TechniqueUMAP:
		return fmt.Sprintf("UMAP %d", i+1)
	}
	return fmt.Sprintf("Dim %d", i+1)
}

// Markdown renders the commentary in compact section form.
func (r *Run) Markdown() string {
	res := r.Result
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s SUMMARY]\n", strings.ToUpper(res.Technique)))
	b.WriteString(fmt.Sprintf("Dataset: %s\n", r.Dataset))
	if r.RowsDropped > 0 {
		b.WriteString(fmt.Sprintf("Rows: %d of %d (%d duplicate row(s) removed)\n", res.Len(), r.TotalRows, r.RowsDropped))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", res.Len()))
	}
	b.WriteString(fmt.Sprintf("Components: %d\n", res.Components()))

	b.WriteString("\n[PREPROCESSING]\n")
	b.WriteString(fmt.Sprintf("- Columns (%d): %s\n", len(r.Features), strings.Join(r.Features, ", ")))
	b.WriteString(fmt.Sprintf("- Scaling: %s\n", scalingPhrase(r.Scaling)))
	if r.RowsDropped > 0 {
		b.WriteString(fmt.Sprintf("- Removed %d exact duplicate row(s), keeping first occurrences\n", r.RowsDropped))
	}
	if r.ColorBy != "" {
		b.WriteString(fmt.Sprintf("- Colored by: %s\n", r.ColorBy))
	}

	if len(r.Params) > 0 {
		b.WriteString("\n[PARAMETERS]\n")
		for _, p := range r.Params {
			b.WriteString(fmt.Sprintf("- %s: %s\n", p.Name, p.Value))
		}
	}

	if len(res.VarExplained) > 0 {
		b.WriteString("\n[VARIANCE EXPLAINED]\n")
		show := len(res.VarExplained)
		if show > 6 {
			show = 6
		}
		var cum float64
		for i := 0; i < show; i++ {
			cum += res.VarExplained[i]
			b.WriteString(fmt.Sprintf("- %s: %.1f%% (cumulative %.1f%%)\n",
				ComponentLabel(res.Technique, i), 100*res.VarExplained[i], 100*cum))
		}
		if show < len(res.VarExplained) {
			b.WriteString(fmt.Sprintf("- ... %d further components\n", len(res.VarExplained)-show))
		}
	}

	if res.Loadings != nil && len(res.FeatureNames) > 0 {
		if res.Technique == reduce.TechniqueFAMD {
			b.WriteString("\n[TOP CONTRIBUTORS]\n")
		} else {
			b.WriteString("\n[TOP LOADINGS]\n")
		}
		_, k := res.Loadings.Dims()
		for d := 0; d < k; d++ {
			b.WriteString(fmt.Sprintf("- %s: %s\n", ComponentLabel(res.Technique, d), r.topEntries(d, 4)))
		}
	}

	b.WriteString("\n[READING THE MAP]\n")
	for _, line := range r.readingNotes() {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Run) topEntries(dim, limit int) string {
	res := r.Result
	type entry struct {
		name string
		val  float64
	}
	rows, _ := res.Loadings.Dims()
	entries := make([]entry, 0, rows)
	for i := 0; i < rows; i++ {
		name := fmt.Sprintf("#%d", i+1)
		if i < len(res.FeatureNames) {
			name = res.FeatureNames[i]
		}
		entries = append(entries, entry{name: name, val: res.Loadings.At(i, dim)})
	}
	sort.Slice(entries, func(i, j int) bool {
		ai, aj := math.Abs(entries[i].val), math.Abs(entries[j].val)
		if ai == aj {
			return entries[i].name < entries[j].name
		}
		return ai > aj
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		if res.Technique == reduce.TechniqueFAMD {
			// Contributions are shares of the component direction.
			parts[i] = fmt.Sprintf("%s (%.0f%%)", e.name, 100*e.val)
		} else {
			parts[i] = fmt.Sprintf("%s (%+.2f)", e.name, e.val)
		}
	}
	return strings.Join(parts, ", ")
}

func (r *Run) readingNotes() []string {
	res := r.Result
	var notes []string
	switch res.Technique {
	case reduce.TechniquePCA:
		notes = append(notes,
			"Each point is one row projected onto the two directions of greatest variance.",
			"Points that sit close together have similar profiles across all input columns at once.",
			"Loadings show which columns pull each axis; opposite signs on one axis separate rows with opposite values.")
	case reduce.TechniqueFAMD:
		notes = append(notes,
			"Numeric and categorical columns share one map: numerics enter standardized, categories as weighted indicators.",
			"Rows sharing a categorical level drift toward that level's side of the map.",
			"Contributions show how much of each axis a variable carries, with multi-level categories counted whole.")
	case reduce.TechniqueMDS:
		notes = append(notes,
			"Plotted distances approximate the original pairwise distances between rows.",
			"Only relative positions matter; the map can be rotated or mirrored without changing its meaning.")
	case reduce.TechniqueTSNE:
		notes = append(notes,
			"Axis units carry no meaning: the layout preserves neighborhoods, not distances.",
			"Tight groups are trustworthy; gaps between groups are not proportional to real separation.",
			"Another seed changes the layout but should keep the same groupings.")
		if res.KLDivergence > 0 {
			notes = append(notes, fmt.Sprintf("Final KL divergence %.3f; lower means the map matches the original neighborhoods better.", res.KLDivergence))
		}
	case reduce.TechniqueUMAP:
		notes = append(notes,
			"Local neighborhoods are faithful; global distances between groups are not.",
			"Lower min-dist packs clusters tighter; more neighbors shifts the view toward global structure.",
			"Layouts vary with the seed while group membership stays stable.")
	}
	if len(r.ClusterSizes) > 0 {
		sizes := make([]string, len(r.ClusterSizes))
		for i, s := range r.ClusterSizes {
			sizes[i] = fmt.Sprintf("%d", s)
		}
		notes = append(notes, fmt.Sprintf("k-means split the embedded points into clusters of %s; colors show cluster membership, not ground truth.", strings.Join(sizes, "/")))
	}
	if shares := res.VarExplained; len(shares) >= 2 {
		two := 100 * (shares[0] + shares[1])
		switch {
		case two >= 80:
			notes = append(notes, fmt.Sprintf("The first two axes keep %.0f%% of the variance, so this plane is a faithful summary.", two))
		case two >= 50:
			notes = append(notes, fmt.Sprintf("The first two axes keep %.0f%% of the variance; some structure lives outside this plane.", two))
		default:
			notes = append(notes, fmt.Sprintf("Only %.0f%% of the variance fits in two axes; check the scree plot before trusting apparent neighbors.", two))
		}
	}
	return notes
}

func scalingPhrase(mode string) string {
	switch mode {
	case "standardize":
		return "standardize (each column to zero mean, unit variance)"
	case "minmax":
		return "minmax (each column to the [0,1] interval)"
	case "famd":
		return "technique-weighted (numerics standardized, category levels as weighted indicators)"
	default:
		return "none (raw feature values)"
	}
}

// Package render draws embedding results as static PNG plots (gonum/plot)
// and interactive HTML pages (go-echarts).
package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ScatterOptions controls an embedding scatter plot.
type ScatterOptions struct {
	Title  string
	XLabel string
	YLabel string
	// PointLabels annotates every point with its row name.
	PointLabels bool
	WidthIn     float64
	HeightIn    float64
}

// Scatter draws the embedded points to a PNG file, one colored series per
// group. groups and names may be nil; without groups all points share one
// series and no legend is drawn.
func Scatter(path string, xs, ys []float64, groups, names []string, opt ScatterOptions) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("scatter: %d x values vs %d y values", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return fmt.Errorf("scatter: no points")
	}

	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = opt.XLabel
	p.Y.Label.Text = opt.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	order, members := groupIndex(groups, len(xs))
	for gi, g := range order {
		pts := make(plotter.XYs, 0, len(members[g]))
		for _, i := range members[g] {
			pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("scatter series %q: %w", g, err)
		}
		s.GlyphStyle.Radius = vg.Points(3)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Color = paletteColor(gi)
		p.Add(s)
		if len(order) > 1 {
			p.Legend.Add(g, s)
		}
	}

	if opt.PointLabels && len(names) == len(xs) {
		xys := make(plotter.XYs, len(xs))
		for i := range xs {
			xys[i] = plotter.XY{X: xs[i], Y: ys[i]}
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: names})
		if err != nil {
			return fmt.Errorf("scatter labels: %w", err)
		}
		p.Add(labels)
	}

	if err := p.Save(sizeOrDefault(opt.WidthIn, 8), sizeOrDefault(opt.HeightIn, 6), path); err != nil {
		return fmt.Errorf("save scatter: %w", err)
	}
	return nil
}

func sizeOrDefault(inches, fallback float64) vg.Length {
	if inches <= 0 {
		inches = fallback
	}
	return vg.Length(inches) * vg.Inch
}

// groupIndex partitions row indices by group label, preserving first
// appearance order. nil groups collapse to a single unnamed series.
func groupIndex(groups []string, n int) ([]string, map[string][]int) {
	members := map[string][]int{}
	var order []string
	for i := 0; i < n; i++ {
		g := ""
		if i < len(groups) {
			g = groups[i]
		}
		if _, ok := members[g]; !ok {
			order = append(order, g)
		}
		members[g] = append(members[g], i)
	}
	return order, members
}

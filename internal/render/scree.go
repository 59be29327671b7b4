package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ScreeOptions controls the variance-share bar chart.
type ScreeOptions struct {
	Title    string
	WidthIn  float64
	HeightIn float64
}

// Scree draws per-component variance shares as bars with a cumulative line,
// one bar per label. Shares are proportions in [0,1].
func Scree(path string, labels []string, shares []float64, opt ScreeOptions) error {
	if len(labels) != len(shares) {
		return fmt.Errorf("scree: %d labels vs %d shares", len(labels), len(shares))
	}
	if len(shares) == 0 {
		return fmt.Errorf("scree: no components")
	}

	p := plot.New()
	p.Title.Text = opt.Title
	p.Y.Label.Text = "variance share"
	p.Legend.Top = true

	vals := make(plotter.Values, len(shares))
	copy(vals, shares)
	bars, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return fmt.Errorf("scree bars: %w", err)
	}
	bars.Color = paletteColor(1)
	p.Add(bars)
	p.Legend.Add("per component", bars)
	p.NominalX(labels...)

	cum := make(plotter.XYs, len(shares))
	var running float64
	for i, s := range shares {
		running += s
		cum[i] = plotter.XY{X: float64(i), Y: running}
	}
	line, err := plotter.NewLine(cum)
	if err != nil {
		return fmt.Errorf("scree cumulative line: %w", err)
	}
	line.Color = paletteColor(0)
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add("cumulative", line)

	if err := p.Save(sizeOrDefault(opt.WidthIn, 8), sizeOrDefault(opt.HeightIn, 6), path); err != nil {
		return fmt.Errorf("save scree: %w", err)
	}
	return nil
}

package render

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// InteractiveScatter writes the embedding as a self-contained HTML page with
// hover tooltips, one series per group. Options mirror Scatter so commands
// can emit either artifact from the same inputs.
func InteractiveScatter(path string, xs, ys []float64, groups, names []string, opt ScatterOptions) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("interactive scatter: %d x values vs %d y values", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return fmt.Errorf("interactive scatter: no points")
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: opt.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: opt.XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: opt.YLabel}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	order, members := groupIndex(groups, len(xs))
	for _, g := range order {
		data := make([]opts.ScatterData, 0, len(members[g]))
		for _, i := range members[g] {
			sd := opts.ScatterData{Value: []interface{}{xs[i], ys[i]}}
			if i < len(names) {
				sd.Name = names[i]
			}
			data = append(data, sd)
		}
		name := g
		if name == "" {
			name = "observations"
		}
		label := opts.Label{Show: opts.Bool(false), Position: "top"}
		if opt.PointLabels {
			// {b} is the data item name, i.e. the row name.
			label = opts.Label{Show: opts.Bool(true), Position: "top", Formatter: "{b}"}
		}
		scatter.AddSeries(name, data).
			SetSeriesOptions(charts.WithLabelOpts(label))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write interactive scatter: %w", err)
	}
	defer f.Close()
	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("render interactive scatter: %w", err)
	}
	return nil
}

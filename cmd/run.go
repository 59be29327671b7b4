package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/dimred-cli/internal/cluster"
	cfgpkg "github.com/KaramelBytes/dimred-cli/internal/config"
	"github.com/KaramelBytes/dimred-cli/internal/dataset"
	"github.com/KaramelBytes/dimred-cli/internal/gallery"
	"github.com/KaramelBytes/dimred-cli/internal/reduce"
	"github.com/KaramelBytes/dimred-cli/internal/render"
	"github.com/KaramelBytes/dimred-cli/internal/report"
)

// embedOpts holds the flags every technique command shares.
type embedOpts struct {
	data       string
	columns    []string
	drop       []string
	scale      string
	components int
	colorBy    string
	kmeans     int
	html       bool
	noLabels   bool
	width      float64
	height     float64
}

// registerEmbedFlags wires the shared flags. Techniques that apply their own
// variable weighting pass an empty defaultScale and get no --scale flag.
func registerEmbedFlags(c *cobra.Command, o *embedOpts, defaultData, defaultScale string) {
	c.Flags().StringVarP(&o.data, "data", "d", defaultData, "built-in dataset name or CSV/TSV path")
	c.Flags().StringSliceVar(&o.columns, "columns", nil, "columns to keep (default: all usable columns)")
	c.Flags().StringSliceVar(&o.drop, "drop", nil, "columns to leave out")
	if defaultScale != "" {
		c.Flags().StringVar(&o.scale, "scale", defaultScale, "feature scaling: standardize | minmax | none")
	}
	c.Flags().IntVar(&o.components, "components", 0, "number of embedding components (0 = config default)")
	c.Flags().StringVar(&o.colorBy, "color-by", "", "categorical column for point colors ('none' disables the automatic choice)")
	c.Flags().IntVar(&o.kmeans, "kmeans", 0, "color points by k-means on the embedding with this many clusters")
	c.Flags().BoolVar(&o.html, "html", false, "also write an interactive HTML scatter")
	c.Flags().BoolVar(&o.noLabels, "no-labels", false, "suppress per-point row name labels")
	c.Flags().Float64Var(&o.width, "width", 0, "plot width in inches (0 = config default)")
	c.Flags().Float64Var(&o.height, "height", 0, "plot height in inches (0 = config default)")
}

// embedInput is the preprocessed matrix plus the labeling context the
// plotting and commentary stages need.
type embedInput struct {
	ds        *dataset.Dataset
	matrix    *mat.Dense
	features  []string
	rowNames  []string
	groups    []string
	colorBy   string
	totalRows int
	dropped   int
	scale     string
}

// loadData resolves a built-in dataset name first and falls back to a file
// path when the argument looks like one.
func loadData(name string) (*dataset.Dataset, error) {
	ds, berr := dataset.Builtin(name)
	if berr == nil {
		return ds, nil
	}
	if strings.ContainsRune(name, os.PathSeparator) || strings.Contains(name, ".") {
		return dataset.LoadFile(name)
	}
	return nil, berr
}

// prepareEmbed runs the shared load, select, dedupe, scale pipeline.
func prepareEmbed(o *embedOpts, dedupe bool) (*embedInput, error) {
	ds, err := loadData(o.data)
	if err != nil {
		return nil, err
	}
	totalRows := ds.Len()

	if len(o.drop) > 0 {
		ds = ds.Drop(o.drop...)
	}
	if len(o.columns) > 0 {
		sel, err := ds.Select(o.columns...)
		if err != nil {
			return nil, err
		}
		ds = sel
	}

	var droppedRows []int
	if dedupe {
		ds, droppedRows = ds.Deduplicate()
	}

	colorBy, groups, err := resolveGroups(ds, o.colorBy)
	if err != nil {
		return nil, err
	}

	m, features, err := ds.Matrix()
	if err != nil {
		return nil, err
	}
	mode := o.scale
	if mode == "" {
		mode = dataset.ScaleNone
	}
	if err := dataset.Scale(m, features, mode); err != nil {
		return nil, err
	}

	return &embedInput{
		ds:        ds,
		matrix:    m,
		features:  features,
		rowNames:  rowNamesOf(ds),
		groups:    groups,
		colorBy:   colorBy,
		totalRows: totalRows,
		dropped:   len(droppedRows),
		scale:     mode,
	}, nil
}

// resolveGroups picks the coloring column: an explicit --color-by must name a
// categorical column, "none" disables coloring, and by default the first
// categorical column (species for iris) colors the points.
func resolveGroups(ds *dataset.Dataset, colorBy string) (string, []string, error) {
	switch colorBy {
	case "none":
		return "", nil, nil
	case "":
		cats := ds.CategoricalColumns()
		if len(cats) == 0 {
			return "", nil, nil
		}
		return cats[0].Name, append([]string(nil), cats[0].Labels...), nil
	}
	c := ds.Column(colorBy)
	if c == nil {
		return "", nil, fmt.Errorf("no column %q to color by (have: %s)", colorBy, strings.Join(ds.ColumnNames(), ", "))
	}
	if c.Kind != dataset.KindCategorical {
		return "", nil, fmt.Errorf("column %q is numeric; --color-by needs a categorical column", colorBy)
	}
	return colorBy, append([]string(nil), c.Labels...), nil
}

func rowNamesOf(ds *dataset.Dataset) []string {
	if len(ds.RowNames) == 0 {
		return nil
	}
	out := make([]string, ds.Len())
	for i := range out {
		out[i] = ds.RowName(i)
	}
	return out
}

// resolveComponents applies the config default and enforces the 2-D floor a
// scatter plot needs.
func resolveComponents(o *embedOpts, c *cfgpkg.Global) (int, error) {
	k := o.components
	if k == 0 {
		k = c.Components
	}
	if k < 2 {
		return 0, fmt.Errorf("need at least 2 components for a 2-D map, got %d", k)
	}
	return k, nil
}

// runArtifacts renders the plots, writes report and coordinates, records the
// manifest, and prints the commentary for one finished embedding.
func runArtifacts(o *embedOpts, in *embedInput, res *reduce.Result, params []report.Param) error {
	c := effectiveConfig()
	log := logger()

	run := gallery.NewRun(res.Technique, in.ds.Name, c.Seed)
	run.Rows = res.Len()
	run.Components = res.Components()
	run.SetParam("scale", in.scale)
	for _, p := range params {
		run.SetParam(p.Name, p.Value)
	}
	if err := run.CreateDir(c.OutDir); err != nil {
		return err
	}

	groups := in.groups
	colorBy := in.colorBy
	var clusterSizes []int
	if o.kmeans > 0 {
		copt := cluster.DefaultOptions()
		copt.K = o.kmeans
		copt.MaxIter = c.KMeansMaxIter
		copt.Seed = c.Seed
		labels, sizes, err := cluster.Assign(res.Points, copt)
		if err != nil {
			return err
		}
		groups = labels
		clusterSizes = sizes
		colorBy = fmt.Sprintf("k-means (k=%d)", o.kmeans)
		run.SetParam("kmeans", strconv.Itoa(o.kmeans))
	}

	xs := res.Coords(0)
	ys := res.Coords(1)
	names := in.rowNames
	if o.noLabels || !c.PointLabels {
		names = nil
	}

	sopt := render.ScatterOptions{
		Title:       fmt.Sprintf("%s of %s", report.DisplayName(res.Technique), in.ds.Name),
		XLabel:      axisLabel(res, 0),
		YLabel:      axisLabel(res, 1),
		PointLabels: len(names) > 0,
		WidthIn:     sizeOr(o.width, c.PlotWidthIn),
		HeightIn:    sizeOr(o.height, c.PlotHeightIn),
	}
	pngPath := filepath.Join(run.Dir(), "embedding.png")
	start := time.Now()
	if err := render.Scatter(pngPath, xs, ys, groups, names, sopt); err != nil {
		return fmt.Errorf("render scatter: %w", err)
	}
	run.AddArtifact("embedding.png")
	log.Debugw("wrote scatter", "path", pngPath, "elapsed", time.Since(start))

	if o.html || c.HTML {
		htmlPath := filepath.Join(run.Dir(), "embedding.html")
		if err := render.InteractiveScatter(htmlPath, xs, ys, groups, in.rowNames, sopt); err != nil {
			return fmt.Errorf("render interactive scatter: %w", err)
		}
		run.AddArtifact("embedding.html")
	}

	if len(res.VarExplained) > 0 {
		labels := make([]string, len(res.VarExplained))
		for i := range labels {
			labels[i] = report.ComponentLabel(res.Technique, i)
		}
		screePath := filepath.Join(run.Dir(), "scree.png")
		if err := render.Scree(screePath, labels, res.VarExplained, render.ScreeOptions{
			Title:    fmt.Sprintf("%s variance explained", report.DisplayName(res.Technique)),
			WidthIn:  sopt.WidthIn,
			HeightIn: sopt.HeightIn,
		}); err != nil {
			return fmt.Errorf("render scree: %w", err)
		}
		run.AddArtifact("scree.png")
	}

	if err := writeCoordinates(filepath.Join(run.Dir(), "coordinates.csv"), res, in.rowNames, groups); err != nil {
		return err
	}
	run.AddArtifact("coordinates.csv")

	rep := &report.Run{
		Result:       res,
		Dataset:      in.ds.Name,
		TotalRows:    in.totalRows,
		RowsDropped:  in.dropped,
		Features:     in.features,
		Scaling:      in.scale,
		ColorBy:      colorBy,
		ClusterSizes: clusterSizes,
		Params:       params,
	}
	md := rep.Markdown()
	if err := os.WriteFile(filepath.Join(run.Dir(), "report.md"), []byte(md), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	run.AddArtifact("report.md")

	if err := run.Save(); err != nil {
		return err
	}

	fmt.Println(md)
	fmt.Printf("✓ Recorded %s run in %s\n", report.DisplayName(res.Technique), run.Dir())
	return nil
}

// axisLabel names a plot axis, appending the variance share where the
// technique defines one.
func axisLabel(res *reduce.Result, i int) string {
	l := report.ComponentLabel(res.Technique, i)
	if i < len(res.VarExplained) {
		return fmt.Sprintf("%s (%.1f%%)", l, 100*res.VarExplained[i])
	}
	return l
}

func sizeOr(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

// writeCoordinates exports the embedded points for downstream use.
func writeCoordinates(path string, res *reduce.Result, names, groups []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create coordinates: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"row"}
	for j := 0; j < res.Components(); j++ {
		header = append(header, report.ComponentLabel(res.Technique, j))
	}
	if len(groups) > 0 {
		header = append(header, "group")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write coordinates: %w", err)
	}
	for i := 0; i < res.Len(); i++ {
		rec := []string{rowLabel(names, i)}
		for j := 0; j < res.Components(); j++ {
			rec = append(rec, strconv.FormatFloat(res.Points.At(i, j), 'g', -1, 64))
		}
		if len(groups) > 0 {
			rec = append(rec, groups[i])
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write coordinates: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush coordinates: %w", err)
	}
	return nil
}

func rowLabel(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return strconv.Itoa(i + 1)
}

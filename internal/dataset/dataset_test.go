package dataset

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestBuiltinMtcars(t *testing.T) {
	ds, err := Builtin("mtcars")
	if err != nil {
		t.Fatalf("Builtin mtcars: %v", err)
	}
	if ds.Len() != 32 {
		t.Fatalf("rows = %d, want 32", ds.Len())
	}
	if got := len(ds.NumericColumns()); got != 11 {
		t.Fatalf("numeric columns = %d, want 11", got)
	}
	if len(ds.CategoricalColumns()) != 0 {
		t.Fatalf("categorical columns = %d, want 0", len(ds.CategoricalColumns()))
	}
	if ds.RowName(0) != "Mazda RX4" {
		t.Fatalf("row 0 name = %q, want Mazda RX4", ds.RowName(0))
	}
	if ds.RowName(31) != "Volvo 142E" {
		t.Fatalf("row 31 name = %q, want Volvo 142E", ds.RowName(31))
	}
	mpg := ds.Column("mpg")
	if mpg == nil || mpg.Kind != KindNumeric {
		t.Fatalf("mpg column missing or not numeric: %#v", mpg)
	}
	if mpg.Floats[0] != 21.0 {
		t.Fatalf("mpg[0] = %v, want 21.0", mpg.Floats[0])
	}
	m, names, err := ds.Matrix()
	if err != nil {
		t.Fatalf("Matrix: %v", err)
	}
	r, c := m.Dims()
	if r != 32 || c != 11 {
		t.Fatalf("matrix dims = %dx%d, want 32x11", r, c)
	}
	if names[0] != "mpg" || names[10] != "carb" {
		t.Fatalf("matrix column names = %v", names)
	}
}

func TestBuiltinIris(t *testing.T) {
	ds, err := Builtin("iris")
	if err != nil {
		t.Fatalf("Builtin iris: %v", err)
	}
	if ds.Len() != 150 {
		t.Fatalf("rows = %d, want 150", ds.Len())
	}
	if got := len(ds.NumericColumns()); got != 4 {
		t.Fatalf("numeric columns = %d, want 4", got)
	}
	sp := ds.Column("species")
	if sp == nil || sp.Kind != KindCategorical {
		t.Fatalf("species column missing or not categorical: %#v", sp)
	}
	levels := sp.Levels()
	want := []string{"setosa", "versicolor", "virginica"}
	if len(levels) != 3 || levels[0] != want[0] || levels[1] != want[1] || levels[2] != want[2] {
		t.Fatalf("species levels = %v, want %v", levels, want)
	}
}

func TestBuiltinUnknown(t *testing.T) {
	if _, err := Builtin("wine"); err == nil || !strings.Contains(err.Error(), "wine") {
		t.Fatalf("expected unknown dataset error naming wine, got %v", err)
	}
}

func TestDeduplicateIris(t *testing.T) {
	ds, err := Builtin("iris")
	if err != nil {
		t.Fatalf("Builtin iris: %v", err)
	}
	dedup, dropped := ds.Deduplicate()
	if dedup.Len() != 149 {
		t.Fatalf("deduped rows = %d, want 149", dedup.Len())
	}
	if len(dropped) != 1 || dropped[0] != 142 {
		t.Fatalf("dropped = %v, want [142]", dropped)
	}
	// A second pass finds nothing and returns the same dataset.
	again, more := dedup.Deduplicate()
	if len(more) != 0 || again != dedup {
		t.Fatalf("second dedupe dropped %v", more)
	}
}

func TestFactorizeMtcars(t *testing.T) {
	ds, err := Builtin("mtcars")
	if err != nil {
		t.Fatalf("Builtin mtcars: %v", err)
	}
	if err := ds.Factorize("cyl", "vs", "am", "gear"); err != nil {
		t.Fatalf("Factorize: %v", err)
	}
	if got := len(ds.NumericColumns()); got != 7 {
		t.Fatalf("numeric columns = %d, want 7", got)
	}
	cyl := ds.Column("cyl")
	if cyl.Kind != KindCategorical {
		t.Fatalf("cyl kind = %q, want categorical", cyl.Kind)
	}
	levels := cyl.Levels()
	if len(levels) != 3 {
		t.Fatalf("cyl levels = %v, want 3 levels", levels)
	}
	if cyl.Labels[0] != "6" {
		t.Fatalf("cyl[0] = %q, want 6", cyl.Labels[0])
	}
	// Re-factorizing a categorical column is a no-op; unknown names error.
	if err := ds.Factorize("cyl"); err != nil {
		t.Fatalf("Factorize categorical: %v", err)
	}
	if err := ds.Factorize("doors"); err == nil || !strings.Contains(err.Error(), "doors") {
		t.Fatalf("expected missing-column error naming doors, got %v", err)
	}
}

func TestReadCSVInference(t *testing.T) {
	in := strings.Join([]string{
		"id,weight,grade",
		"a1,1.5,good",
		"a2,2.5,bad",
		"a3,3.5,good",
	}, "\n")
	ds, err := ReadCSV(strings.NewReader(in), "toy")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if ds.Column("weight").Kind != KindNumeric {
		t.Fatalf("weight kind = %q, want numeric", ds.Column("weight").Kind)
	}
	if ds.Column("grade").Kind != KindCategorical {
		t.Fatalf("grade kind = %q, want categorical", ds.Column("grade").Kind)
	}
	if err := ds.PromoteRowNames("id"); err != nil {
		t.Fatalf("PromoteRowNames: %v", err)
	}
	if ds.RowName(2) != "a3" {
		t.Fatalf("row 2 name = %q, want a3", ds.RowName(2))
	}
	if ds.Column("id") != nil {
		t.Fatalf("id column should be removed after promotion")
	}
}

func TestReadCSVEmptyCell(t *testing.T) {
	in := "x,y\n1,2\n3,\n"
	_, err := ReadCSV(strings.NewReader(in), "toy")
	if err == nil || !strings.Contains(err.Error(), "empty value") || !strings.Contains(err.Error(), `"y"`) {
		t.Fatalf("expected empty-cell error naming y, got %v", err)
	}
}

func TestSelectUnknownColumn(t *testing.T) {
	ds, err := Builtin("iris")
	if err != nil {
		t.Fatalf("Builtin iris: %v", err)
	}
	if _, err := ds.Select("sepal_length", "stem_width"); err == nil || !strings.Contains(err.Error(), "stem_width") {
		t.Fatalf("expected missing-column error naming stem_width, got %v", err)
	}
	sub, err := ds.Select("petal_length", "petal_width")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(sub.Cols) != 2 || sub.Cols[0].Name != "petal_length" {
		t.Fatalf("selected columns = %v", sub.ColumnNames())
	}
}

func TestStandardize(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		1, 2,
		2, 4,
		3, 6,
	})
	if err := Standardize(m, []string{"a", "b"}); err != nil {
		t.Fatalf("Standardize: %v", err)
	}
	for j := 0; j < 2; j++ {
		var sum, sumSq float64
		for i := 0; i < 3; i++ {
			v := m.At(i, j)
			sum += v
			sumSq += v * v
		}
		if math.Abs(sum) > 1e-12 {
			t.Fatalf("col %d mean = %v, want 0", j, sum/3)
		}
		// Sample variance of a standardized column is 1.
		if math.Abs(sumSq/2-1) > 1e-12 {
			t.Fatalf("col %d variance = %v, want 1", j, sumSq/2)
		}
	}
}

func TestStandardizeConstantColumn(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		1, 5,
		2, 5,
		3, 5,
	})
	err := Standardize(m, []string{"a", "flat"})
	if err == nil || !strings.Contains(err.Error(), `"flat"`) || !strings.Contains(err.Error(), "constant") {
		t.Fatalf("expected constant-column error naming flat, got %v", err)
	}
}

func TestMinMax(t *testing.T) {
	m := mat.NewDense(3, 1, []float64{10, 15, 20})
	if err := MinMax(m, []string{"a"}); err != nil {
		t.Fatalf("MinMax: %v", err)
	}
	want := []float64{0, 0.5, 1}
	for i, w := range want {
		if math.Abs(m.At(i, 0)-w) > 1e-12 {
			t.Fatalf("minmax[%d] = %v, want %v", i, m.At(i, 0), w)
		}
	}
}

func TestScaleUnknownMode(t *testing.T) {
	m := mat.NewDense(2, 1, []float64{1, 2})
	if err := Scale(m, []string{"a"}, "robust"); err == nil || !strings.Contains(err.Error(), "robust") {
		t.Fatalf("expected unknown-mode error, got %v", err)
	}
}

func TestSummarizeIris(t *testing.T) {
	ds, err := Builtin("iris")
	if err != nil {
		t.Fatalf("Builtin iris: %v", err)
	}
	opt := DefaultSummaryOptions()
	opt.GroupBy = "species"
	opt.SampleRows = 3
	rep, err := Summarize(ds, opt)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if rep.Rows != 150 {
		t.Fatalf("rows = %d, want 150", rep.Rows)
	}
	sl := summaryColumn(t, rep, "sepal_length")
	if math.Abs(sl.Mean-5.8433) > 1e-3 {
		t.Fatalf("sepal_length mean = %v, want ~5.843", sl.Mean)
	}
	if math.Abs(sl.Std-0.8281) > 1e-3 {
		t.Fatalf("sepal_length std = %v, want ~0.828", sl.Std)
	}
	if len(rep.Corr) == 0 {
		t.Fatalf("no correlations reported")
	}
	top := rep.Corr[0]
	if top.A != "petal_length" || top.B != "petal_width" {
		t.Fatalf("top correlation = %s ~ %s, want petal_length ~ petal_width", top.A, top.B)
	}
	if math.Abs(top.R-0.9629) > 1e-3 {
		t.Fatalf("top correlation r = %v, want ~0.963", top.R)
	}
	if len(rep.Groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(rep.Groups))
	}
	for _, g := range rep.Groups {
		if g.Size != 50 {
			t.Fatalf("group %s size = %d, want 50", g.Key, g.Size)
		}
	}
	if len(rep.Notes) != 1 || !strings.Contains(rep.Notes[0], "duplicate") {
		t.Fatalf("notes = %v, want duplicate warning", rep.Notes)
	}

	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"Dataset: iris",
		"Rows: 150",
		"[SCHEMA]",
		"setosa(50)",
		"[GROUP MEANS]",
		"species=setosa (n=50)",
		"[CORRELATIONS]",
		"petal_length ~ petal_width",
		"[SAMPLE ROWS]",
		"[NOTES]",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestSummarizeGroupByErrors(t *testing.T) {
	ds, err := Builtin("iris")
	if err != nil {
		t.Fatalf("Builtin iris: %v", err)
	}
	opt := DefaultSummaryOptions()
	opt.GroupBy = "petal_width"
	if _, err := Summarize(ds, opt); err == nil || !strings.Contains(err.Error(), "categorical") {
		t.Fatalf("expected categorical group-by error, got %v", err)
	}
	opt.GroupBy = "color"
	if _, err := Summarize(ds, opt); err == nil || !strings.Contains(err.Error(), "color") {
		t.Fatalf("expected missing group-by error naming color, got %v", err)
	}
}

func summaryColumn(t *testing.T, rep *Report, name string) ColumnSummary {
	t.Helper()
	for _, c := range rep.Cols {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("column %q not found in report", name)
	return ColumnSummary{}
}

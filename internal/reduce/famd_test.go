package reduce

import (
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/dimred-cli/internal/dataset"
)

func mixedToyDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Name: "toy",
		Cols: []dataset.Column{
			{Name: "size", Kind: dataset.KindNumeric, Floats: []float64{1, 2, 3, 4, 5, 6, 7, 8}},
			{Name: "weight", Kind: dataset.KindNumeric, Floats: []float64{2.1, 1.9, 3.2, 3.0, 5.5, 5.4, 7.0, 7.2}},
			{Name: "color", Kind: dataset.KindCategorical, Labels: []string{"red", "red", "red", "red", "blue", "blue", "blue", "blue"}},
		},
	}
}

func TestFAMDToy(t *testing.T) {
	ds := mixedToyDataset()
	res, err := FAMD(ds, 2)
	if err != nil {
		t.Fatalf("FAMD: %v", err)
	}
	r, c := res.Points.Dims()
	if r != 8 || c != 2 {
		t.Fatalf("points dims = %dx%d, want 8x2", r, c)
	}
	// 2 numeric + 2 indicator columns feed the factorization.
	if len(res.VarExplained) != 4 {
		t.Fatalf("variance shares = %d entries, want 4", len(res.VarExplained))
	}
	var sum float64
	for _, v := range res.VarExplained {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("variance shares sum = %v, want 1", sum)
	}
	lr, lc := res.Loadings.Dims()
	if lr != 3 || lc != 2 {
		t.Fatalf("loadings dims = %dx%d, want 3x2", lr, lc)
	}
	want := []string{"size", "weight", "color"}
	for i, n := range want {
		if res.FeatureNames[i] != n {
			t.Fatalf("feature names = %v, want %v", res.FeatureNames, want)
		}
	}
	// Squared contributions per component sum to 1 across variables.
	for d := 0; d < 2; d++ {
		var colSum float64
		for v := 0; v < lr; v++ {
			colSum += res.Loadings.At(v, d)
		}
		if math.Abs(colSum-1) > 1e-9 {
			t.Fatalf("component %d contribution sum = %v, want 1", d+1, colSum)
		}
	}
	// Everything in this toy table moves together, so one dominant axis.
	if res.VarExplained[0] < 0.8 {
		t.Fatalf("first share = %v, want dominant axis", res.VarExplained[0])
	}
}

func TestFAMDIris(t *testing.T) {
	ds, err := dataset.Builtin("iris")
	if err != nil {
		t.Fatalf("Builtin iris: %v", err)
	}
	res, err := FAMD(ds, 2)
	if err != nil {
		t.Fatalf("FAMD: %v", err)
	}
	r, c := res.Points.Dims()
	if r != 150 || c != 2 {
		t.Fatalf("points dims = %dx%d, want 150x2", r, c)
	}
	if res.VarExplained[0] <= res.VarExplained[1] || res.VarExplained[1] <= 0 {
		t.Fatalf("variance shares not sorted positive: %v", res.VarExplained[:2])
	}
	// 4 numeric + species: 5 variables carry the loadings.
	lr, _ := res.Loadings.Dims()
	if lr != 5 {
		t.Fatalf("loadings rows = %d, want 5", lr)
	}
}

func TestFAMDRequiresMixedColumns(t *testing.T) {
	ds, err := dataset.Builtin("mtcars")
	if err != nil {
		t.Fatalf("Builtin mtcars: %v", err)
	}
	if _, err := FAMD(ds, 2); err == nil || !strings.Contains(err.Error(), "use pca") {
		t.Fatalf("expected mixed-columns error suggesting pca, got %v", err)
	}
}

func TestFAMDSingleLevelCategorical(t *testing.T) {
	ds := mixedToyDataset()
	ds.Cols[2].Labels = []string{"red", "red", "red", "red", "red", "red", "red", "red"}
	if _, err := FAMD(ds, 2); err == nil || !strings.Contains(err.Error(), "single level") {
		t.Fatalf("expected single-level error, got %v", err)
	}
}

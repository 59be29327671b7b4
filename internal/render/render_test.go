package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var (
	testXs     = []float64{-1.2, -0.8, 1.1, 1.4, 0.2, 0.3}
	testYs     = []float64{0.5, 0.1, -0.4, -0.2, 1.3, 1.1}
	testGroups = []string{"a", "a", "b", "b", "c", "c"}
	testNames  = []string{"r1", "r2", "r3", "r4", "r5", "r6"}
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestScatterWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scatter.png")
	opt := ScatterOptions{Title: "embedding", XLabel: "dim 1", YLabel: "dim 2", PointLabels: true}
	if err := Scatter(path, testXs, testYs, testGroups, testNames, opt); err != nil {
		t.Fatalf("Scatter: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	if !bytes.HasPrefix(b, pngMagic) {
		t.Fatalf("output is not a PNG (first bytes % x)", b[:8])
	}
}

func TestScatterUngrouped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.png")
	if err := Scatter(path, testXs, testYs, nil, nil, ScatterOptions{Title: "plain"}); err != nil {
		t.Fatalf("Scatter: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Fatalf("png missing or empty: %v", err)
	}
}

func TestScatterLengthMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	err := Scatter(path, testXs, testYs[:3], nil, nil, ScatterOptions{})
	if err == nil || !strings.Contains(err.Error(), "x values") {
		t.Fatalf("expected length mismatch error, got %v", err)
	}
}

func TestScreeWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scree.png")
	labels := []string{"PC1", "PC2", "PC3"}
	shares := []float64{0.6, 0.25, 0.15}
	if err := Scree(path, labels, shares, ScreeOptions{Title: "variance"}); err != nil {
		t.Fatalf("Scree: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	if !bytes.HasPrefix(b, pngMagic) {
		t.Fatalf("output is not a PNG")
	}
}

func TestScreeLabelMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := Scree(path, []string{"PC1"}, []float64{0.5, 0.5}, ScreeOptions{}); err == nil {
		t.Fatalf("expected label mismatch error")
	}
}

func TestInteractiveScatterHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scatter.html")
	opt := ScatterOptions{Title: "iris embedding", XLabel: "dim 1", YLabel: "dim 2"}
	if err := InteractiveScatter(path, testXs, testYs, testGroups, testNames, opt); err != nil {
		t.Fatalf("InteractiveScatter: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	html := string(b)
	for _, want := range []string{"echarts", "iris embedding", "r1"} {
		if !strings.Contains(html, want) {
			t.Fatalf("html missing %q", want)
		}
	}
}

func TestGroupIndex(t *testing.T) {
	order, members := groupIndex([]string{"b", "a", "b", "c"}, 4)
	if len(order) != 3 || order[0] != "b" || order[1] != "a" || order[2] != "c" {
		t.Fatalf("order = %v, want [b a c]", order)
	}
	if len(members["b"]) != 2 || members["b"][0] != 0 || members["b"][1] != 2 {
		t.Fatalf("members[b] = %v, want [0 2]", members["b"])
	}

	order, members = groupIndex(nil, 3)
	if len(order) != 1 || order[0] != "" {
		t.Fatalf("ungrouped order = %v, want single empty series", order)
	}
	if len(members[""]) != 3 {
		t.Fatalf("ungrouped members = %v", members[""])
	}
}

package reduce

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestKNNLine(t *testing.T) {
	// Points on a line at 0, 1, 3, 7.
	m := mat.NewDense(4, 1, []float64{0, 1, 3, 7})
	nb, err := KNN(m, 2)
	if err != nil {
		t.Fatalf("KNN: %v", err)
	}
	want := [][]int{
		{1, 2}, // 0: nearest 1 (d=1) then 3 (d=3)
		{0, 2}, // 1: nearest 0 (d=1) then 3 (d=2)
		{1, 0}, // 3: nearest 1 (d=2) then 0 (d=3)
		{2, 1}, // 7: nearest 3 (d=4) then 1 (d=6)
	}
	for i, row := range want {
		if len(nb[i]) != 2 {
			t.Fatalf("row %d has %d neighbors, want 2", i, len(nb[i]))
		}
		for k, idx := range row {
			if nb[i][k].Index != idx {
				t.Fatalf("row %d neighbor %d = %d, want %d", i, k, nb[i][k].Index, idx)
			}
		}
	}
	if nb[0][0].Dist != 1 || nb[3][0].Dist != 4 {
		t.Fatalf("distances wrong: %v %v", nb[0][0].Dist, nb[3][0].Dist)
	}
}

func TestKNNSelfExcluded(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{0, 0, 1, 0, 0, 1})
	nb, err := KNN(m, 2)
	if err != nil {
		t.Fatalf("KNN: %v", err)
	}
	for i := range nb {
		for _, n := range nb[i] {
			if n.Index == i {
				t.Fatalf("row %d lists itself as neighbor", i)
			}
		}
	}
}

func TestKNNBounds(t *testing.T) {
	m := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	if _, err := KNN(m, 0); err == nil {
		t.Fatalf("expected error for k=0")
	}
	if _, err := KNN(m, 4); err == nil {
		t.Fatalf("expected error for k=rows")
	}
}

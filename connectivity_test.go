package superpix

import "testing"

func countDistinct(labels []int32) int {
	seen := map[int32]bool{}
	for _, l := range labels {
		seen[l] = true
	}
	return len(seen)
}

func TestEnforceConnectivityKeepsSingletonsWhenMinSizeIsOne(t *testing.T) {
	// A 2x2 checkerboard where every pixel already carries its own label:
	// with minSize=1 nothing is small enough to absorb (spec.md §8
	// scenario 1).
	labels := []int32{0, 1, 2, 3}
	out, k := enforceConnectivity(2, 2, labels, 1)
	if k != 4 {
		t.Fatalf("k = %d, want 4", k)
	}
	if countDistinct(out) != 4 {
		t.Errorf("distinct labels = %d, want 4", countDistinct(out))
	}
}

func TestEnforceConnectivityAbsorbsUndersizedComponents(t *testing.T) {
	// A 1x3 row: label 1 is a lone pixel wedged between two label-0
	// pixels. With minSize=2 the lone pixel is too small to stand on its
	// own and merges into an adjacent label.
	labels := []int32{0, 1, 0}
	out, k := enforceConnectivity(3, 1, labels, 2)
	if k != 1 {
		t.Fatalf("k = %d, want 1 (the stray pixel should merge away)", k)
	}
	for i, l := range out {
		if l != 0 {
			t.Errorf("out[%d] = %d, want 0 after absorption", i, l)
		}
	}
}

func TestEnforceConnectivitySplitsDisjointComponents(t *testing.T) {
	// 3x2 grid, row-major (0,0)=0 (1,0)=0 (2,0)=1 (0,1)=1 (1,1)=0 (2,1)=0.
	// The four label-0 pixels are one 4-connected chain; the two label-1
	// pixels sit on opposite corners and are not adjacent, so each stays
	// its own component. With minSize=1 that's 3 output labels.
	labels := []int32{0, 0, 1, 1, 0, 0}
	out, k := enforceConnectivity(3, 2, labels, 1)
	if k != 3 {
		t.Fatalf("k = %d, want 3", k)
	}
	if len(out) != 6 {
		t.Fatalf("len(out) = %d, want 6", len(out))
	}
}

func TestCompactLabelsDropsGaps(t *testing.T) {
	labels := []int32{0, 2, 2, 5}
	out, k := compactLabels(labels, 6)
	if k != 3 {
		t.Fatalf("k = %d, want 3", k)
	}
	for _, l := range out {
		if l < 0 || int(l) >= k {
			t.Errorf("label %d out of compacted range [0,%d)", l, k)
		}
	}
	if out[1] != out[2] {
		t.Errorf("equal input labels produced different compacted labels: %d vs %d", out[1], out[2])
	}
	if out[0] == out[1] || out[0] == out[3] || out[1] == out[3] {
		t.Errorf("distinct input labels collapsed to the same compacted label")
	}
}

func TestMinComponentSize(t *testing.T) {
	if got := minComponentSize(10000, 100, 0.25); got != 25 {
		t.Errorf("minComponentSize(10000,100,0.25) = %d, want 25", got)
	}
	if got := minComponentSize(4, 4, 0.25); got != 1 {
		t.Errorf("minComponentSize(4,4,0.25) = %d, want 1 (floored)", got)
	}
}

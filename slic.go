package superpix

import (
	"math"
	"runtime"
	"sync"
)

// runSLIC implements the iterative SLIC solver of spec.md §4.3: T rounds
// of local assignment within a +-S window per center, followed by a
// recompute of each center as the mean of its members.
func runSLIC(lab *labImage, centers []center, s int, m int, iterations int) []int32 {
	w, h := lab.W, lab.H
	n := w * h
	mOverSSquared := float64(m) / float64(s)
	mOverSSquared *= mOverSSquared

	labels := make([]int32, n)
	for i := range labels {
		labels[i] = Unset
	}
	distances := make([]float64, n)

	for iter := 0; iter < iterations; iter++ {
		assignSLICPass(lab, centers, s, mOverSSquared, labels, distances)
		recomputeCenters(lab, centers, labels)
	}
	return labels
}

// Unset marks a pixel not yet assigned to any label.
const Unset int32 = -1

// assignSLICPass resets distances to +Inf and, for every center, visits
// its +-S window and keeps the argmin label per pixel. When more than one
// CPU is available and there are enough centers to make it worthwhile,
// the window scans are split across disjoint center batches (each with
// its own distance/label buffer) and reduced deterministically, per the
// concurrency allowance in spec.md §5: assignment order between centers
// must not change the result.
func assignSLICPass(lab *labImage, centers []center, s int, mOverSSquared float64, labels []int32, distances []float64) {
	n := len(distances)
	for i := 0; i < n; i++ {
		distances[i] = posInf
		labels[i] = Unset
	}

	workers := runtime.NumCPU()
	if workers > len(centers) {
		workers = len(centers)
	}
	if workers <= 1 || len(centers) < 4 {
		for ci := range centers {
			scanWindow(lab, &centers[ci], int32(ci), s, mOverSSquared, labels, distances)
		}
		return
	}

	type partial struct {
		dist []float64
		lbl  []int32
	}
	parts := make([]partial, workers)
	batch := (len(centers) + workers - 1) / workers

	var wg sync.WaitGroup
	for wIdx := 0; wIdx < workers; wIdx++ {
		lo := wIdx * batch
		hi := lo + batch
		if hi > len(centers) {
			hi = len(centers)
		}
		if lo >= hi {
			continue
		}
		parts[wIdx].dist = make([]float64, n)
		parts[wIdx].lbl = make([]int32, n)
		for i := 0; i < n; i++ {
			parts[wIdx].dist[i] = posInf
			parts[wIdx].lbl[i] = Unset
		}
		wg.Add(1)
		go func(wIdx, lo, hi int) {
			defer wg.Done()
			for ci := lo; ci < hi; ci++ {
				scanWindow(lab, &centers[ci], int32(ci), s, mOverSSquared, parts[wIdx].lbl, parts[wIdx].dist)
			}
		}(wIdx, lo, hi)
	}
	wg.Wait()

	for p := 0; p < n; p++ {
		bestDist := posInf
		bestLabel := Unset
		for wIdx := range parts {
			if parts[wIdx].dist == nil {
				continue
			}
			d := parts[wIdx].dist[p]
			l := parts[wIdx].lbl[p]
			if l == Unset {
				continue
			}
			if d < bestDist || (d == bestDist && l < bestLabel) {
				bestDist = d
				bestLabel = l
			}
		}
		distances[p] = bestDist
		labels[p] = bestLabel
	}
}

var posInf = math.Inf(1)

func scanWindow(lab *labImage, c *center, ci int32, s int, mOverSSquared float64, labels []int32, distances []float64) {
	w, h := lab.W, lab.H
	x0 := clamp(int(c.X)-s, 0, w)
	x1 := clamp(int(c.X)+s+1, 0, w)
	y0 := clamp(int(c.Y)-s, 0, h)
	y1 := clamp(int(c.Y)+s+1, 0, h)

	for y := y0; y < y1; y++ {
		row := y * w
		for x := x0; x < x1; x++ {
			p := row + x
			d2 := jointDistanceSquared(lab.L[p], lab.A[p], lab.B[p], float64(x), float64(y), c, mOverSSquared)
			if d2 < distances[p] {
				distances[p] = d2
				labels[p] = ci
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// recomputeCenters sets each center to the mean (L,a,b,x,y) of its
// members. Centers with zero members keep their previous position
// (spec.md §4.3 step 3).
func recomputeCenters(lab *labImage, centers []center, labels []int32) {
	type accum struct {
		l, a, b, x, y float64
		n             int
	}
	acc := make([]accum, len(centers))
	w := lab.W
	for p, lbl := range labels {
		if lbl == Unset {
			continue
		}
		x, y := p%w, p/w
		a := &acc[lbl]
		a.l += lab.L[p]
		a.a += lab.A[p]
		a.b += lab.B[p]
		a.x += float64(x)
		a.y += float64(y)
		a.n++
	}
	for i := range centers {
		if acc[i].n == 0 {
			continue
		}
		nf := float64(acc[i].n)
		centers[i].L = acc[i].l / nf
		centers[i].A = acc[i].a / nf
		centers[i].B = acc[i].b / nf
		centers[i].X = acc[i].x / nf
		centers[i].Y = acc[i].y / nf
		centers[i].n = acc[i].n
	}
}

package superpix

import "math"

// center is a cluster center's joint color+position state plus the
// running population used during accumulation.
type center struct {
	L, A, B float64
	X, Y    float64
	n       int
}

// gridStep computes S = round(sqrt(N/K)), the canonical SLIC/SNIC grid
// spacing (spec.md §3, "Invariants").
func gridStep(n, k int) int {
	if k <= 0 {
		k = 1
	}
	s := int(math.Round(math.Sqrt(float64(n) / float64(k))))
	if s < 1 {
		s = 1
	}
	return s
}

// initSeeds lays out centers on a near-regular grid sized from the grid
// step s and the requested count k, then perturbs each to the
// lowest-gradient pixel in its 3x3 neighborhood (spec.md §4.1).
//
// The grid's row/column counts are derived the way
// original_source/src/seed.rs::init_seeds does: divide each axis into
// floor(dimension/s) cells (at least one), then shrink until the product
// is at most k.
// Seeds are then centered evenly within each cell along that axis
// (rather than starting at a fixed s/2 offset and stepping by s), which
// keeps seeding well-defined even when a dimension is thinner than s
// (spec.md §8 scenario 3: a 256x1 image needs exactly 8 evenly spaced
// seeds along its single row, not zero).
func initSeeds(lab *labImage, s, k int) []center {
	w, h := lab.W, lab.H

	xSeeds := divCeil(w, s)
	if xSeeds*s > w {
		xSeeds--
	}
	ySeeds := divCeil(h, s)
	if ySeeds*s > h {
		ySeeds--
	}
	if xSeeds < 1 {
		xSeeds = 1
	}
	if ySeeds < 1 {
		ySeeds = 1
	}
	for xSeeds*ySeeds > k && (xSeeds > 1 || ySeeds > 1) {
		if xSeeds >= ySeeds && xSeeds > 1 {
			xSeeds--
		} else if ySeeds > 1 {
			ySeeds--
		} else {
			break
		}
	}

	var centers []center
	for yi := 0; yi < ySeeds; yi++ {
		cy := clamp(int(math.Floor((float64(yi)+0.5)*float64(h)/float64(ySeeds))), 0, h-1)
		for xi := 0; xi < xSeeds; xi++ {
			cx := clamp(int(math.Floor((float64(xi)+0.5)*float64(w)/float64(xSeeds))), 0, w-1)
			x, y := perturbSeed(lab, cx, cy)
			p := y*w + x
			l, a, b := lab.at(p)
			centers = append(centers, center{L: l, A: a, B: b, X: float64(x), Y: float64(y)})
		}
	}
	if len(centers) == 0 {
		cx, cy := w/2, h/2
		p := cy*w + cx
		l, a, b := lab.at(p)
		centers = append(centers, center{L: l, A: a, B: b, X: float64(cx), Y: float64(cy)})
	}
	return centers
}

func divCeil(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// perturbSeed returns the pixel of minimum gradient magnitude in the 3x3
// neighborhood of (cx,cy), or (cx,cy) unchanged if the neighborhood would
// escape the image (spec.md §4.1).
func perturbSeed(lab *labImage, cx, cy int) (int, int) {
	w, h := lab.W, lab.H
	if cx-1 < 0 || cx+1 >= w || cy-1 < 0 || cy+1 >= h {
		return cx, cy
	}
	bestX, bestY := cx, cy
	bestGrad := math.Inf(1)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := cx+dx, cy+dy
			if x-1 < 0 || x+1 >= w || y-1 < 0 || y+1 >= h {
				continue
			}
			g := gradientMagnitude(lab, x, y)
			if g < bestGrad {
				bestGrad = g
				bestX, bestY = x, y
			}
		}
	}
	return bestX, bestY
}

// gradientMagnitude computes ||I(x+1,y)-I(x-1,y)||^2 + ||I(x,y+1)-I(x,y-1)||^2
// over the (L,a,b) vector, per spec.md §4.1.
func gradientMagnitude(lab *labImage, x, y int) float64 {
	w := lab.W
	pxp := y*w + (x + 1)
	pxm := y*w + (x - 1)
	pyp := (y+1)*w + x
	pym := (y-1)*w + x

	dl1 := lab.L[pxp] - lab.L[pxm]
	da1 := lab.A[pxp] - lab.A[pxm]
	db1 := lab.B[pxp] - lab.B[pxm]
	dl2 := lab.L[pyp] - lab.L[pym]
	da2 := lab.A[pyp] - lab.A[pym]
	db2 := lab.B[pyp] - lab.B[pym]

	return dl1*dl1 + da1*da1 + db1*db1 + dl2*dl2 + da2*da2 + db2*db2
}

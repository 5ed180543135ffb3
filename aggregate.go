package superpix

import (
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// meanColors computes the per-label mean Lab color over the final label
// image and converts each to sRGB (spec.md §4.6).
func meanColors(lab *labImage, labels []int32, k int) []colorful.Color {
	type accum struct {
		l, a, b float64
		n       int
	}
	acc := make([]accum, k)
	for p, lbl := range labels {
		if lbl < 0 || int(lbl) >= k {
			continue
		}
		a := &acc[lbl]
		a.l += lab.L[p]
		a.a += lab.A[p]
		a.b += lab.B[p]
		a.n++
	}
	means := make([]colorful.Color, k)
	for i := range acc {
		if acc[i].n == 0 {
			continue
		}
		nf := float64(acc[i].n)
		means[i] = colorful.Lab(acc[i].l/nf, acc[i].a/nf, acc[i].b/nf)
	}
	return means
}

// drawContours overlays a single-pixel contour in segColor wherever a
// pixel's label differs from at least two not-yet-bordered 8-connected
// neighbors (spec.md §4.6, disambiguated per original_source's
// segment_contours predicate — see DESIGN.md).
func drawContours(img *image.RGBA, w, h int, labels []int32, segColor color.RGBA) {
	isBorder := make([]bool, w*h)
	dx8 := [8]int{-1, -1, 0, 1, 1, 1, 0, -1}
	dy8 := [8]int{0, -1, -1, -1, 0, 1, 1, 1}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := y*w + x
			self := labels[p]
			diffCount := 0
			for d := 0; d < 8; d++ {
				nx, ny := x+dx8[d], y+dy8[d]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				np := ny*w + nx
				if isBorder[np] {
					continue
				}
				if labels[np] != self {
					diffCount++
				}
			}
			if diffCount >= 2 {
				isBorder[p] = true
				img.SetRGBA(x, y, segColor)
			}
		}
	}
}

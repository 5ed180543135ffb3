// Package superpix segments a color raster into spatially compact,
// color-coherent superpixels using the SLIC and SNIC algorithms, both
// operating in CIELAB space.
package superpix

import (
	"image"
	"image/color"
)

// Result is the output of Segment. Labels range over 0..K-1; K is the
// realized superpixel count after seeding and connectivity compaction,
// which may be less than the requested Config.K (spec.md §3).
type Result struct {
	Width, Height int
	Labels        []int32
	K             int

	lab *labImage
}

// Segment runs the configured clustering algorithm over img and returns
// its label image (spec.md §6, library entry point).
func Segment(img image.Image, cfg Config) (*Result, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, newError(KindInvalidParameter, ErrInvalidParameter, "empty image (%dx%d)", w, h)
	}
	cfg = NormalizeConfig(cfg)
	if cfg.K < 2 {
		return nil, newError(KindInvalidParameter, ErrInvalidParameter, "k=%d, must be >= 2", cfg.K)
	}
	if cfg.M < 1 || cfg.M > 20 {
		return nil, newError(KindInvalidParameter, ErrInvalidParameter, "m=%d, must be in [1,20]", cfg.M)
	}

	lab := labFromImage(img)
	n := w * h
	s := gridStep(n, cfg.K)

	centers := initSeeds(lab, s, cfg.K)
	if len(centers) < 2 {
		// Degenerate seeding (spec.md §7): fall back to a single
		// constant label rather than failing.
		labels := make([]int32, n)
		return &Result{Width: w, Height: h, Labels: labels, K: 1, lab: lab}, nil
	}

	var labels []int32
	switch cfg.Algorithm {
	case Slic:
		labels = runSLIC(lab, centers, s, cfg.M, cfg.Iterations)
	default:
		labels = runSNIC(lab, centers, s, cfg.M)
	}

	minSize := minComponentSize(n, cfg.K, cfg.MinComponentFraction)
	labels, k := enforceConnectivity(w, h, labels, minSize)

	return &Result{Width: w, Height: h, Labels: labels, K: k, lab: lab}, nil
}

// minComponentSize is the connectivity enforcer's threshold,
// max(1, fraction * N/K) (spec.md §3 default is N/(K*4), i.e. fraction
// 0.25 of N/K).
func minComponentSize(n, k int, fraction float64) int {
	size := int(fraction * float64(n) / float64(k))
	if size < 1 {
		size = 1
	}
	return size
}

// MeanColorImage paints each pixel with its label's mean Lab->sRGB color
// (spec.md §4.6).
func (r *Result) MeanColorImage() *image.RGBA {
	means := meanColors(r.lab, r.Labels, r.K)
	return meanColorImage(r.Width, r.Height, r.Labels, means)
}

// MeanColors returns each label's mean sRGB color and its pixel
// population, in label order. internal/palette builds its preview
// palette from these instead of re-scanning the source image.
func (r *Result) MeanColors() ([]color.RGBA, []int) {
	means := meanColors(r.lab, r.Labels, r.K)
	counts := make([]int, r.K)
	for _, lbl := range r.Labels {
		if lbl >= 0 && int(lbl) < len(counts) {
			counts[lbl]++
		}
	}
	rgba := make([]color.RGBA, len(means))
	for i, c := range means {
		rgba[i] = colorToRGBA(c)
	}
	return rgba, counts
}

// ContourOverlay draws a single-pixel contour in segColor over base
// wherever a pixel's label differs from its neighbors (spec.md §4.6).
// base is copied, never mutated in place.
func (r *Result) ContourOverlay(base image.Image, segColor color.RGBA) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	bounds := base.Bounds()
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			out.Set(x, y, base.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	drawContours(out, r.Width, r.Height, r.Labels, segColor)
	return out
}

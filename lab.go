package superpix

import (
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// labImage is a planar CIELAB buffer owned by a single Segment call.
type labImage struct {
	W, H int
	L    []float64
	A    []float64
	B    []float64
}

func newLabImage(w, h int) *labImage {
	return &labImage{
		W: w, H: h,
		L: make([]float64, w*h),
		A: make([]float64, w*h),
		B: make([]float64, w*h),
	}
}

func (lab *labImage) at(p int) (l, a, b float64) {
	return lab.L[p], lab.A[p], lab.B[p]
}

// labFromImage converts an sRGB raster to a planar Lab buffer. Alpha is
// dropped; this is the "color-space adapter" spec.md treats as an
// external collaborator.
func labFromImage(img image.Image) *labImage {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	lab := newLabImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			c := colorful.Color{
				R: float64(r) / 65535.0,
				G: float64(g) / 65535.0,
				B: float64(b) / 65535.0,
			}
			l, a, bb := c.Lab()
			p := y*w + x
			lab.L[p] = l
			lab.A[p] = a
			lab.B[p] = bb
		}
	}
	return lab
}

// meanColorImage paints an RGBA image where every pixel carries the mean
// sRGB color of its label, as computed by the region aggregator.
func meanColorImage(w, h int, labels []int32, means []colorful.Color) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for p, lbl := range labels {
		var c colorful.Color
		if lbl >= 0 && int(lbl) < len(means) {
			c = means[lbl]
		}
		x, y := p%w, p/w
		out.Set(x, y, colorToRGBA(c))
	}
	return out
}

func colorToRGBA(c colorful.Color) color.RGBA {
	c = c.Clamped()
	return color.RGBA{
		R: uint8(c.R*255 + 0.5),
		G: uint8(c.G*255 + 0.5),
		B: uint8(c.B*255 + 0.5),
		A: 255,
	}
}

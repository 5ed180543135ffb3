// Package palette builds a small representative color set from a
// Result's per-superpixel mean colors, and renders it as a preview
// strip. It backs the CLI's -palette-preview flag.
//
// The selection and smoothing techniques are adapted from
// github.com/setanarut/layerbuilder's utils package, which built a
// fixed palette for its alpha-layer decomposition from raw image
// pixels. Here the input is never the raw image: Segment has already
// reduced the picture to K Lab centroids, so the candidate set this
// package works from is that aggregate, population-weighted by
// superpixel size rather than re-derived by scanning pixels again.
package palette

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"gonum.org/v1/gonum/mat"

	"github.com/setanarut/superpix/internal/imageio"
)

// Method selects how FromSuperpixelMeans narrows K superpixel means
// down to a preview palette.
type Method int

const (
	// Direct diversity-picks straight from the superpixel means: the
	// candidate set is already small and already population-weighted,
	// so no pre-clustering step runs.
	Direct Method = iota
	// KMeans first clusters the superpixel means with
	// github.com/muesli/kmeans, merging shades that recur across many
	// superpixels before diversity-picking among the cluster centers.
	KMeans
)

func (m Method) String() string {
	if m == KMeans {
		return "kmeans"
	}
	return "direct"
}

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

// FromSuperpixelMeans reduces a segmentation's per-label mean colors to
// at most k representative colors. counts[i] is the pixel population
// behind means[i] (as returned by Result.MeanColors) and drives both
// which colors survive clustering and which get picked first.
func FromSuperpixelMeans(means []color.RGBA, counts []int, k int, method Method) []colorful.Color {
	if k <= 0 || len(means) == 0 {
		return nil
	}
	cands := make([]weightedColor, 0, len(means))
	for i, m := range means {
		w := 1.0
		if i < len(counts) && counts[i] > 0 {
			w = float64(counts[i])
		}
		col, _ := colorful.MakeColor(m)
		cands = append(cands, weightedColor{Col: col, Weight: w})
	}

	if method == KMeans {
		cands = clusterMeans(cands, k)
	}
	cands = smoothCandidates(cands, min(4, len(cands)-1))
	return selectDiverse(cands, k)
}

// clusterMeans merges superpixel means that share a Lab neighborhood,
// the way ExtractKMeansPalette clustered raw pixel samples, but here
// the dataset is already K weighted centroids rather than a pixel
// subsample, so there is no subsampling step to size. A cluster's
// weight is the summed population of every mean assigned to it, not
// just the number of means, so a cluster of ten small superpixels
// ranks below one large superpixel's mean if the large one covers more
// pixels.
func clusterMeans(cands []weightedColor, k int) []weightedColor {
	n := len(cands)
	if n < 3 {
		return cands
	}
	workK := min(max(k, 2), n-1)

	dataset := make(clusters.Observations, n)
	for i, c := range cands {
		l, a, b := c.Col.Lab()
		dataset[i] = labObservation{coords: clusters.Coordinates{l, a, b}, srcIdx: i}
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return cands
	}

	out := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		var w float64
		for _, obs := range c.Observations {
			if lo, ok := obs.(labObservation); ok && lo.srcIdx >= 0 && lo.srcIdx < n {
				w += cands[lo.srcIdx].Weight
			}
		}
		if w <= 0 {
			w = float64(len(c.Observations))
		}
		col := colorful.Lab(c.Center[0], c.Center[1], c.Center[2]).Clamped()
		out = append(out, weightedColor{Col: col, Weight: w})
	}
	if len(out) == 0 {
		return cands
	}
	return out
}

// labObservation is a clusters.Observation that remembers which input
// candidate it came from, so clusterMeans can sum real pixel-population
// weight across a cluster instead of just counting its members.
type labObservation struct {
	coords clusters.Coordinates
	srcIdx int
}

// Coordinates implements clusters.Observation.
func (l labObservation) Coordinates() clusters.Coordinates {
	return l.coords
}

// Distance implements clusters.Observation.
func (l labObservation) Distance(p clusters.Coordinates) float64 {
	return l.coords.Distance(p)
}

// smoothCandidates reconstructs each candidate color as a locally linear
// combination of its kNeighbors nearest candidates in Lab space, the way
// github.com/setanarut/layerbuilder's buildLLEWeightMatrix reconstructs
// each superpixel from its spatial neighbors: build a local Gram matrix
// over (neighbor-self) vectors, solve it for reconstruction weights, and
// use those weights to pull the candidate toward the neighborhood's
// centroid. This damps the single-sample jitter k-means clustering can
// leave in a cluster center without discarding distinct colors entirely.
func smoothCandidates(cands []weightedColor, kNeighbors int) []weightedColor {
	n := len(cands)
	if n < 3 || kNeighbors < 1 {
		return cands
	}
	if kNeighbors >= n {
		kNeighbors = n - 1
	}

	lab := make([][3]float64, n)
	for i, c := range cands {
		l, a, b := c.Col.Lab()
		lab[i] = [3]float64{l, a, b}
	}

	out := make([]weightedColor, n)
	for i := range cands {
		neighbors := nearestLab(lab, i, kNeighbors)

		g := mat.NewDense(kNeighbors, kNeighbors, nil)
		for r, nr := range neighbors {
			for c, nc := range neighbors {
				dot := 0.0
				for d := 0; d < 3; d++ {
					dot += (lab[nr][d] - lab[i][d]) * (lab[nc][d] - lab[i][d])
				}
				g.Set(r, c, dot)
			}
			g.Set(r, r, g.At(r, r)+1e-3) // regularize against singular neighborhoods
		}

		rhs := mat.NewDense(kNeighbors, 1, nil)
		for r := range neighbors {
			rhs.Set(r, 0, 1.0)
		}
		var x mat.Dense
		if err := x.Solve(g, rhs); err != nil {
			out[i] = cands[i]
			continue
		}

		sum := 0.0
		w := make([]float64, kNeighbors)
		for r := 0; r < kNeighbors; r++ {
			v := x.At(r, 0)
			if v < 0 {
				v = 0
			}
			w[r] = v
			sum += v
		}
		if sum <= 0 {
			out[i] = cands[i]
			continue
		}

		var sl, sa, sb float64
		for r, nr := range neighbors {
			wn := w[r] / sum
			sl += wn * lab[nr][0]
			sa += wn * lab[nr][1]
			sb += wn * lab[nr][2]
		}
		const blend = 0.35
		smoothed := colorful.Lab(
			lab[i][0]*(1-blend)+sl*blend,
			lab[i][1]*(1-blend)+sa*blend,
			lab[i][2]*(1-blend)+sb*blend,
		).Clamped()
		out[i] = weightedColor{Col: smoothed, Weight: cands[i].Weight}
	}
	return out
}

// nearestLab returns the indices of the k candidates closest to i in Lab
// space, excluding i itself.
func nearestLab(lab [][3]float64, i, k int) []int {
	type cand struct {
		idx int
		d2  float64
	}
	all := make([]cand, 0, len(lab)-1)
	for j := range lab {
		if j == i {
			continue
		}
		d0 := lab[i][0] - lab[j][0]
		d1 := lab[i][1] - lab[j][1]
		d2 := lab[i][2] - lab[j][2]
		all = append(all, cand{idx: j, d2: d0*d0 + d1*d1 + d2*d2})
	}
	sort.Slice(all, func(a, b int) bool { return all[a].d2 < all[b].d2 })
	if k > len(all) {
		k = len(all)
	}
	out := make([]int, k)
	for i := range out {
		out[i] = all[i].idx
	}
	return out
}

// selectDiverse greedily picks k colors by farthest-point sampling in
// Lab space, seeded by the heaviest candidate, so the preview strip
// doesn't collapse into near-duplicate shades. Unlike a round that
// rescans every already-picked color each time, it keeps a running
// nearest-picked-distance per remaining candidate and only updates the
// entries that could have changed after each pick.
func selectDiverse(cands []weightedColor, k int) []colorful.Color {
	n := len(cands)
	if k <= 0 || n == 0 {
		return nil
	}
	if k > n {
		k = n
	}

	lab := mat.NewDense(n, 3, nil)
	maxW := 0.0
	for i, c := range cands {
		l, a, b := c.Col.Clamped().Lab()
		lab.SetRow(i, []float64{l, a, b})
		if c.Weight > maxW {
			maxW = c.Weight
		}
	}
	if maxW <= 0 {
		maxW = 1
	}

	seed := 0
	for i := 1; i < n; i++ {
		if cands[i].Weight > cands[seed].Weight {
			seed = i
		}
	}

	picked := make([]int, 0, k)
	picked = append(picked, seed)

	const unpicked = -1
	minDist := make([]float64, n)
	for i := range minDist {
		minDist[i] = labDistSq(lab, i, seed)
	}
	minDist[seed] = unpicked

	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i := 0; i < n; i++ {
			if minDist[i] == unpicked {
				continue
			}
			normW := cands[i].Weight / maxW
			score := math.Sqrt(minDist[i]) * (0.55 + 0.45*math.Sqrt(normW))
			if score > bestScore {
				bestScore, best = score, i
			}
		}
		if best < 0 {
			break
		}
		picked = append(picked, best)
		minDist[best] = unpicked
		for i := 0; i < n; i++ {
			if minDist[i] == unpicked {
				continue
			}
			if d := labDistSq(lab, i, best); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	out := make([]colorful.Color, len(picked))
	for i, idx := range picked {
		out[i] = cands[idx].Col.Clamped()
	}
	return out
}

func labDistSq(lab *mat.Dense, i, j int) float64 {
	d0 := lab.At(i, 0) - lab.At(j, 0)
	d1 := lab.At(i, 1) - lab.At(j, 1)
	d2 := lab.At(i, 2) - lab.At(j, 2)
	return d0*d0 + d1*d1 + d2*d2
}

// SortByBrightness orders colors from darkest to brightest (relative
// luminance), so a rendered strip reads background-to-foreground.
// Luminance is computed once per color up front rather than recomputed
// on every comparison a sort makes.
func SortByBrightness(colors []colorful.Color) {
	lum := make([]float64, len(colors))
	for i, c := range colors {
		r, g, b := c.LinearRgb()
		lum[i] = 0.2126*r + 0.7152*g + 0.0722*b
	}
	idx := make([]int, len(colors))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return lum[idx[a]] < lum[idx[b]] })

	sorted := make([]colorful.Color, len(colors))
	for i, j := range idx {
		sorted[i] = colors[j]
	}
	copy(colors, sorted)
}

// SaveStrip renders colors as equal-width tiles and writes an image.
// colorful.Color satisfies image/color.Color directly, so each tile is
// a draw.Draw over an image.Uniform rather than a manual per-pixel
// clamp-and-fill loop.
func SaveStrip(colors []colorful.Color, tileSize int, path string) error {
	if len(colors) == 0 {
		return fmt.Errorf("palette: empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}
	img := image.NewRGBA(image.Rect(0, 0, tileSize*len(colors), tileSize))
	for i, c := range colors {
		tile := image.Rect(i*tileSize, 0, (i+1)*tileSize, tileSize)
		draw.Draw(img, tile, image.NewUniform(c.Clamped()), image.Point{}, draw.Src)
	}
	return imageio.Write(img, path)
}

// Command superpix segments an image into superpixels and writes a
// mean-color reconstruction and/or a contour overlay (spec.md §6).
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/setanarut/superpix"
	"github.com/setanarut/superpix/internal/config"
	"github.com/setanarut/superpix/internal/imageio"
	"github.com/setanarut/superpix/internal/palette"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "superpix: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	def := config.Default()

	configPath := flag.String("config", "", "YAML file of default parameters, overridden by any flag set explicitly")
	input := flag.String("i", "", "input image (required)")
	output := flag.String("o", "", "output image (default derived from input)")
	algo := flag.String("a", def.Algorithm, "segmentation algorithm: snic or slic")
	k := flag.Int("k", def.K, "number of superpixels")
	n := flag.Int("n", def.K, "alias for -k")
	m := flag.Int("m", def.M, "compactness, 1..20")
	iterations := flag.Int("iterations", def.Iterations, "SLIC iteration count")
	minFrac := flag.Float64("min-component-fraction", def.MinComponentFraction, "connectivity threshold as a fraction of N/K")
	segments := flag.Bool("segments", def.Segments, "draw contours around segments")
	segmentColor := flag.String("segment-color", def.SegmentColor, "contour color, 3 or 6 hex digits")
	noMean := flag.Bool("no-mean", def.NoMean, "skip the mean-color image (implies -segments)")
	format := flag.String("format", "png", "output format when -o is not given: png or jpg")
	palettePreview := flag.String("palette-preview", "", "write a palette preview strip to this path, built from the segmentation's superpixel mean colors")
	paletteColors := flag.Int("palette-colors", 8, "number of colors in the palette preview strip")
	paletteMethod := flag.String("palette-method", "direct", "palette-preview reduction method: direct or kmeans")
	verbose := flag.Bool("v", false, "print segment count")
	flag.Parse()

	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		if !flagWasSet("a") {
			*algo = loaded.Algorithm
		}
		if !flagWasSet("k") && !flagWasSet("n") {
			*k, *n = loaded.K, loaded.K
		}
		if !flagWasSet("m") {
			*m = loaded.M
		}
		if !flagWasSet("iterations") {
			*iterations = loaded.Iterations
		}
		if !flagWasSet("min-component-fraction") {
			*minFrac = loaded.MinComponentFraction
		}
		if !flagWasSet("segments") {
			*segments = loaded.Segments
		}
		if !flagWasSet("segment-color") {
			*segmentColor = loaded.SegmentColor
		}
		if !flagWasSet("no-mean") {
			*noMean = loaded.NoMean
		}
	}

	if *input == "" {
		flag.Usage()
		return fmt.Errorf("%w: -i is required", superpix.ErrInvalidParameter)
	}
	if *noMean {
		*segments = true
	}

	requestedK := *k
	if flagWasSet("n") {
		requestedK = *n
	}

	alg, err := superpix.ParseAlgorithm(*algo)
	if err != nil {
		return err
	}

	img, err := imageio.Read(*input)
	if err != nil {
		return err
	}

	cfg := superpix.Config{
		Algorithm:            alg,
		K:                    requestedK,
		M:                    *m,
		Iterations:           *iterations,
		MinComponentFraction: *minFrac,
	}

	result, err := superpix.Segment(img, cfg)
	if err != nil {
		return err
	}

	segColor, err := parseHexColor(*segmentColor)
	if err != nil {
		return err
	}

	outPath := *output
	if outPath == "" {
		outPath = imageio.DeriveOutputPath(*input, alg.String(), requestedK, *m, *noMean, *segments, *format)
	}

	var outImg *image.RGBA
	if *noMean {
		outImg = result.ContourOverlay(img, segColor)
	} else {
		outImg = result.MeanColorImage()
		if *segments {
			outImg = result.ContourOverlay(outImg, segColor)
		}
	}

	if err := imageio.Write(outImg, outPath); err != nil {
		return err
	}

	if *palettePreview != "" {
		method := palette.Direct
		if *paletteMethod == "kmeans" {
			method = palette.KMeans
		}
		means, counts := result.MeanColors()
		colors := palette.FromSuperpixelMeans(means, counts, *paletteColors, method)
		palette.SortByBrightness(colors)
		if err := palette.SaveStrip(colors, 64, *palettePreview); err != nil {
			return err
		}
	}

	if *verbose {
		fmt.Printf("%s: %d segments -> %s\n", alg, result.K, outPath)
	}
	return nil
}

// flagWasSet reports whether a flag was explicitly passed on the command
// line, so -config can seed defaults without overriding an explicit
// flag value.
func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// parseHexColor accepts a 3- or 6-digit hex string (spec.md §6).
func parseHexColor(s string) (color.RGBA, error) {
	expand := func(c byte) (byte, byte) { return c, c }
	var r, g, b byte
	switch len(s) {
	case 3:
		r0, r1 := expand(s[0])
		g0, g1 := expand(s[1])
		b0, b1 := expand(s[2])
		var err error
		if r, err = hexByte(r0, r1); err != nil {
			return color.RGBA{}, err
		}
		if g, err = hexByte(g0, g1); err != nil {
			return color.RGBA{}, err
		}
		if b, err = hexByte(b0, b1); err != nil {
			return color.RGBA{}, err
		}
	case 6:
		var err error
		if r, err = hexByte(s[0], s[1]); err != nil {
			return color.RGBA{}, err
		}
		if g, err = hexByte(s[2], s[3]); err != nil {
			return color.RGBA{}, err
		}
		if b, err = hexByte(s[4], s[5]); err != nil {
			return color.RGBA{}, err
		}
	default:
		return color.RGBA{}, fmt.Errorf("%w: segment-color %q, want 3 or 6 hex digits", superpix.ErrInvalidParameter, s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func hexByte(hi, lo byte) (byte, error) {
	h, err := hexNibble(hi)
	if err != nil {
		return 0, err
	}
	l, err := hexNibble(lo)
	if err != nil {
		return 0, err
	}
	return h<<4 | l, nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', nil
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, nil
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("%w: invalid hex digit %q", superpix.ErrInvalidParameter, string(c))
	}
}

// Package imageio provides the decode/encode helpers the CLI needs.
// Format selection by filename extension and the blank-imported decoders
// are the "external collaborator" spec.md §6 calls out as out of scope
// for the clustering engine itself.
package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Read decodes a PNG, JPEG, WEBP, or BMP file into an image.Image.
func Read(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return img, nil
}

// Write encodes img as PNG or JPEG, selected by path's extension.
func Write(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jpg", ".jpeg":
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
			return fmt.Errorf("imageio: encode jpeg %s: %w", path, err)
		}
	default:
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("imageio: encode png %s: %w", path, err)
		}
	}
	return nil
}

// DeriveOutputPath builds an output filename from the input path and run
// parameters, matching the original_source CLI's generate_filename
// convention: "<stem>-<algo>-<k>-<m>[-orig|-mean][-segments].<format>".
func DeriveOutputPath(input, algo string, k, m int, noMean, segments bool, format string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	var b strings.Builder
	b.WriteString(stem)
	fmt.Fprintf(&b, "-%s-%d-%02d", algo, k, m)
	if noMean {
		b.WriteString("-orig")
	} else {
		b.WriteString("-mean")
	}
	if segments {
		b.WriteString("-segments")
	}
	b.WriteString(".")
	b.WriteString(format)
	return b.String()
}

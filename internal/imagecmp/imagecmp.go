// Package imagecmp compares rendered images against references.
package imagecmp

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/fcolor"
	"github.com/anthonynsimon/bild/imgio"
)

// Result is the outcome of a comparison.
type Result struct {
	// Similarity is 1 minus the mean absolute channel difference, in [0, 1].
	Similarity float64
	// Diff holds the absolute difference per channel. Alpha differences are
	// stored in the alpha channel, so identical images give a transparent
	// black diff.
	Diff *image.RGBA
}

// Percent returns the similarity as a percentage.
func (r Result) Percent() float64 { return r.Similarity * 100 }

// Compare compares got against want. Images of different sizes have a
// similarity of 0.
func Compare(want, got image.Image) Result {
	if want.Bounds().Size() != got.Bounds().Size() {
		return Result{}
	}
	diff := blend.Blend(clone.AsRGBA(want), clone.AsRGBA(got), func(a, b fcolor.RGBAF64) fcolor.RGBAF64 {
		return fcolor.RGBAF64{
			R: math.Abs(a.R - b.R),
			G: math.Abs(a.G - b.G),
			B: math.Abs(a.B - b.B),
			A: math.Abs(a.A - b.A),
		}
	})
	var sum uint64
	for _, v := range diff.Pix {
		sum += uint64(v)
	}
	n := len(diff.Pix)
	if n == 0 {
		return Result{Similarity: 1, Diff: diff}
	}
	return Result{
		Similarity: 1 - float64(sum)/float64(255*n),
		Diff:       diff,
	}
}

// Similarity is shorthand for Compare(want, got).Similarity.
func Similarity(want, got image.Image) float64 {
	return Compare(want, got).Similarity
}

// Difference returns the RGB difference of two opaque images.
func Difference(want, got image.Image) *image.RGBA {
	return blend.Difference(want, got)
}

// Load reads a reference image.
func Load(path string) (image.Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imagecmp: load %s: %w", path, err)
	}
	return img, nil
}

// SaveFailure writes want, got and their difference as PNGs named after
// name into dir, for inspecting a failed comparison.
func SaveFailure(dir, name string, want, got image.Image) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("imagecmp: %w", err)
	}
	files := map[string]image.Image{
		name + "_want.png": want,
		name + "_got.png":  got,
		name + "_diff.png": Difference(want, got),
	}
	for file, img := range files {
		if err := imgio.Save(filepath.Join(dir, file), img, imgio.PNGEncoder()); err != nil {
			return fmt.Errorf("imagecmp: save %s: %w", file, err)
		}
	}
	return nil
}

package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrEmptyImage is returned when a source image has no pixels.
var ErrEmptyImage = errors.New("empty image")

// Background is the fill painted behind the scaled image before drawing.
var Background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// DefaultFilter is the resample filter used when none is named.
const DefaultFilter = "linear"

var filters = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"catmullrom": imaging.CatmullRom,
	"lanczos":    imaging.Lanczos,
}

// LookupFilter resolves a resample filter by name. The empty name selects
// DefaultFilter.
func LookupFilter(name string) (imaging.ResampleFilter, error) {
	if name == "" {
		name = DefaultFilter
	}
	f, ok := filters[strings.ToLower(name)]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("unknown resample filter: %s", name)
	}
	return f, nil
}

// Placement returns the rectangle a width x height image occupies once it is
// scaled uniformly to fit a size x size square and centered.
//
// The scale factor is min(size/width, size/height). The scaled dimensions are
// rounded to whole pixels and clamped to [1, size]; the offset is the floor of
// half the remaining space on each axis.
func Placement(width, height, size int) image.Rectangle {
	scale := math.Min(float64(size)/float64(width), float64(size)/float64(height))

	w := clampDim(int(math.Round(float64(width)*scale)), size)
	h := clampDim(int(math.Round(float64(height)*scale)), size)

	x := (size - w) / 2
	y := (size - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

func clampDim(v, size int) int {
	if v < 1 {
		return 1
	}
	if v > size {
		return size
	}
	return v
}

// Normalize letterboxes img onto a size x size surface.
//
// The surface is filled with Background, then the image is resampled with
// the named filter into the rectangle returned by Placement and alpha
// composited over the background. Aspect ratio is preserved and no source
// content is cropped.
//
// # Errors
//
//   - ErrEmptyImage if img has zero width or height
//   - error if size < 1 or the filter name is unknown
func Normalize(img image.Image, size int, filter string) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("cannot normalize %dx%d image: %w", bounds.Dx(), bounds.Dy(), ErrEmptyImage)
	}
	if size < 1 {
		return nil, fmt.Errorf("invalid surface size %d", size)
	}
	f, err := LookupFilter(filter)
	if err != nil {
		return nil, err
	}

	dst := Placement(bounds.Dx(), bounds.Dy(), size)

	var scaled image.Image = img
	if dst.Dx() != bounds.Dx() || dst.Dy() != bounds.Dy() {
		scaled = imaging.Resize(img, dst.Dx(), dst.Dy(), f)
	}

	surface := imaging.New(size, size, Background)
	return imaging.Overlay(surface, scaled, dst.Min, 1.0), nil
}

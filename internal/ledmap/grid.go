package ledmap

import (
	"fmt"
	"image"

	"github.com/ironsheep/pov-bitmap-mcp/internal/imaging"
)

// GridResult is a square 1bpp bitmap.
//
// Rows run top to bottom. Within a row, bit 7 of byte 0 is column 0; columns
// past Width are padding and always zero.
type GridResult struct {
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	BytesPerRow int        `json:"bytes_per_row"`
	Rows        []HexBytes `json:"rows"`
}

// Pixel reports whether the bit for (x, y) is set.
func (g *GridResult) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return false
	}
	return bitSet(g.Rows[y], x)
}

// EncodeGrid thresholds the top-left Resolution x Resolution pixels of
// surface into a GridResult.
//
// A pixel is white when its luminance is strictly greater than the
// threshold; Invert flips that. White pixels set their bit.
func EncodeGrid(surface image.Image, s Settings) (*GridResult, error) {
	if s.Mode != ModeGrid {
		return nil, fmt.Errorf("%w: grid encoder called with mode %s", ErrInvalidSettings, s.Mode)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	res := s.Resolution
	b := surface.Bounds()
	if b.Dx() < res || b.Dy() < res {
		return nil, fmt.Errorf("%w: surface %dx%d smaller than resolution %d",
			ErrInvalidSettings, b.Dx(), b.Dy(), res)
	}

	bytesPerRow := packedLen(res)
	threshold := float64(s.Threshold)

	rows := make([]HexBytes, res)
	for r := 0; r < res; r++ {
		row := make(HexBytes, bytesPerRow)
		for c := 0; c < res; c++ {
			white := imaging.Luminance(imaging.RGBAt(surface, c, r)) > threshold
			if white != s.Invert {
				setBit(row, c)
			}
		}
		rows[r] = row
	}

	return &GridResult{
		Width:       res,
		Height:      res,
		BytesPerRow: bytesPerRow,
		Rows:        rows,
	}, nil
}

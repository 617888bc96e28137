package ledmap

import (
	"fmt"
	"image"

	"github.com/ironsheep/pov-bitmap-mcp/internal/imaging"
)

// ConvertedImage is the result of converting one source image. Exactly one of
// Grid and Polar is set, matching Mode.
type ConvertedImage struct {
	Name       string       `json:"name"`
	Mode       Mode         `json:"mode"`
	Grid       *GridResult  `json:"grid,omitempty"`
	Polar      *PolarResult `json:"polar,omitempty"`
	TotalBytes int          `json:"total_bytes"`
}

// NewGridImage wraps a grid result. TotalBytes is rows x bytes per row.
func NewGridImage(name string, g *GridResult) *ConvertedImage {
	return &ConvertedImage{
		Name:       name,
		Mode:       ModeGrid,
		Grid:       g,
		TotalBytes: len(g.Rows) * g.BytesPerRow,
	}
}

// NewPolarImage wraps a polar result. TotalBytes is divisions x bytes per
// line.
func NewPolarImage(name string, p *PolarResult) *ConvertedImage {
	return &ConvertedImage{
		Name:       name,
		Mode:       ModePolar,
		Polar:      p,
		TotalBytes: p.Divisions * p.BytesPerLine,
	}
}

// Packed returns the packed bytes of every row or line, in order. Each
// element aliases the result's storage.
func (c *ConvertedImage) Packed() []HexBytes {
	switch {
	case c.Grid != nil:
		return c.Grid.Rows
	case c.Polar != nil:
		out := make([]HexBytes, len(c.Polar.Lines))
		for i := range c.Polar.Lines {
			out[i] = c.Polar.Lines[i].Packed
		}
		return out
	}
	return nil
}

// Convert runs the full pipeline for one image: validate, tone adjust,
// normalize, encode and assemble.
//
// The source image is only read. On error no ConvertedImage is returned.
//
// # Errors
//
//   - ErrInvalidSettings (wrapped) if s fails validation
//   - ErrEmptyImage (wrapped) if img has zero width or height
func Convert(name string, img image.Image, s Settings) (*ConvertedImage, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("convert %s: nil image: %w", name, ErrEmptyImage)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("convert %s: %dx%d source: %w", name, b.Dx(), b.Dy(), ErrEmptyImage)
	}

	surface, err := imaging.Normalize(s.Adjust.Apply(img), s.SurfaceSize(), s.Filter)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", name, err)
	}

	switch s.Mode {
	case ModePolar:
		p, err := EncodePolar(surface, s)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", name, err)
		}
		return NewPolarImage(name, p), nil
	default:
		g, err := EncodeGrid(surface, s)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", name, err)
		}
		return NewGridImage(name, g), nil
	}
}

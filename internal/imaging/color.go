package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Hex formats the color as "#RRGGBB".
func (c RGBColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Scale multiplies every component by ratio, truncating toward zero.
// Ratios outside [0,1] are clamped.
func (c RGBColor) Scale(ratio float64) RGBColor {
	if ratio >= 1 {
		return c
	}
	if ratio <= 0 {
		return RGBColor{}
	}
	return RGBColor{
		R: uint8(float64(c.R) * ratio),
		G: uint8(float64(c.G) * ratio),
		B: uint8(float64(c.B) * ratio),
	}
}

// Luminance returns the ITU-R BT.601 luma of an 8-bit RGB triple:
//
//	0.299*R + 0.587*G + 0.114*B
//
// The result lies in [0, 255].
func Luminance(c RGBColor) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// RGBAt reads the pixel at (x, y) and reduces it to 8-bit components.
//
// Coordinates are relative to the image bounds origin. The caller is
// responsible for bounds checking; *image.NRGBA surfaces are read straight
// from the pixel buffer.
func RGBAt(img image.Image, x, y int) RGBColor {
	if n, ok := img.(*image.NRGBA); ok {
		i := n.PixOffset(n.Rect.Min.X+x, n.Rect.Min.Y+y)
		return RGBColor{R: n.Pix[i], G: n.Pix[i+1], B: n.Pix[i+2]}
	}

	b := img.Bounds()
	r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	// Convert from 16-bit to 8-bit
	return RGBColor{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)}
}

// ParseHexColor parses "#RRGGBB" (the leading '#' is optional).
func ParseHexColor(hex string) (RGBColor, error) {
	if hex == "" {
		return RGBColor{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

// ToNRGBA converts c into an opaque color.NRGBA.
func (c RGBColor) ToNRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

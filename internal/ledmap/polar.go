package ledmap

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ironsheep/pov-bitmap-mcp/internal/imaging"
)

// LitLED is one lit position on the arm together with the color it shows.
type LitLED struct {
	Pos int   `json:"pos"`
	R   uint8 `json:"r"`
	G   uint8 `json:"g"`
	B   uint8 `json:"b"`
}

// Color returns the LED color.
func (l LitLED) Color() imaging.RGBColor {
	return imaging.RGBColor{R: l.R, G: l.G, B: l.B}
}

// PolarLine is what the arm displays at one angular position. LEDs lists the
// lit positions in ascending order; Packed holds the same set as bits,
// MSB-first, bit (7 - pos%8) of byte pos/8.
type PolarLine struct {
	// Slice is the angular slice sampled for this line. It differs from the
	// line index only when a line shift is applied.
	Slice int `json:"slice"`

	// Angle is the slice angle in degrees, 0 along +X, increasing toward +Y.
	Angle float64 `json:"angle"`

	LEDs   []LitLED `json:"leds"`
	Packed HexBytes `json:"packed"`
}

// light marks pos as lit with color c. Positions that are already lit keep
// their first color.
func (l *PolarLine) light(pos int, c imaging.RGBColor) {
	if bitSet(l.Packed, pos) {
		return
	}
	setBit(l.Packed, pos)
	l.LEDs = append(l.LEDs, LitLED{Pos: pos, R: c.R, G: c.G, B: c.B})
}

// Lit reports whether pos is lit.
func (l *PolarLine) Lit(pos int) bool {
	if pos < 0 || pos>>3 >= len(l.Packed) {
		return false
	}
	return bitSet(l.Packed, pos)
}

// PolarResult is a full rotation of lines for a POV arm of NumLeds LEDs.
type PolarResult struct {
	NumLeds      int         `json:"num_leds"`
	Divisions    int         `json:"divisions"`
	BytesPerLine int         `json:"bytes_per_line"`
	Lines        []PolarLine `json:"lines"`
}

func newPolarResult(numLeds, divisions int) *PolarResult {
	bytesPerLine := packedLen(numLeds)
	lines := make([]PolarLine, divisions)
	for i := range lines {
		lines[i] = PolarLine{
			Slice:  i,
			Angle:  sliceDegrees(i, divisions),
			LEDs:   []LitLED{},
			Packed: make(HexBytes, bytesPerLine),
		}
	}
	return &PolarResult{
		NumLeds:      numLeds,
		Divisions:    divisions,
		BytesPerLine: bytesPerLine,
		Lines:        lines,
	}
}

// shift rotates the lines so that line j holds what was line (j+n) mod
// Divisions.
func (p *PolarResult) shift(n int) {
	d := p.Divisions
	n = ((n % d) + d) % d
	if n == 0 {
		return
	}
	rotated := make([]PolarLine, d)
	for j := range rotated {
		rotated[j] = p.Lines[(j+n)%d]
	}
	p.Lines = rotated
}

func (p *PolarResult) sortLEDs() {
	for i := range p.Lines {
		leds := p.Lines[i].LEDs
		sort.Slice(leds, func(a, b int) bool { return leds[a].Pos < leds[b].Pos })
	}
}

func sliceDegrees(i, divisions int) float64 {
	return float64(i) * (360.0 / float64(divisions))
}

// polarGeometry holds the sampling frame of a surface.
type polarGeometry struct {
	width, height int
	cx, cy        float64
	step          float64 // radial distance between adjacent LEDs
	half          int     // LEDs per half-ray
}

func newPolarGeometry(b image.Rectangle, numLeds int) polarGeometry {
	w, h := b.Dx(), b.Dy()
	radius := float64(min(w, h)/2 - 1)
	half := numLeds / 2
	return polarGeometry{
		width:  w,
		height: h,
		cx:     float64(w / 2),
		cy:     float64(h / 2),
		step:   radius / float64(half),
		half:   half,
	}
}

// locate returns the surface pixel sampled for LED position pos on the slice
// at angle rad. Positions below half run inward along the ray at rad, so pos
// half-1 is the LED nearest the hub on that side; positions from half upward
// run outward along the opposite ray. ok is false when the pixel falls off the
// surface.
func (g polarGeometry) locate(pos int, rad float64) (x, y int, ok bool) {
	var led int
	if pos < g.half {
		led = g.half - pos - 1
	} else {
		led = pos - g.half
		rad += math.Pi
	}
	dist := float64(led+1) * g.step
	x = int(math.Floor(g.cx + dist*math.Cos(rad)))
	y = int(math.Floor(g.cy + dist*math.Sin(rad)))
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return x, y, false
	}
	return x, y, true
}

// EncodePolar samples surface along Divisions rays for an arm of Resolution
// LEDs.
//
// Slice i lies at i*360/Divisions degrees. Each slice is sampled once per LED
// position and both views of the line, the sparse color list and the packed
// bits, are filled from that single sample. A sample is lit when its
// luminance is strictly below the threshold (dark pixels light the LED);
// Invert flips that. Samples that land outside the surface are always unlit.
func EncodePolar(surface image.Image, s Settings) (*PolarResult, error) {
	if s.Mode != ModePolar {
		return nil, fmt.Errorf("%w: polar encoder called with mode %s", ErrInvalidSettings, s.Mode)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	b := surface.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("polar surface: %w", ErrEmptyImage)
	}

	numLeds := s.Resolution
	geom := newPolarGeometry(b, numLeds)
	threshold := float64(s.Threshold)
	brightness := s.brightness()

	result := newPolarResult(numLeds, s.Divisions)
	for i := range result.Lines {
		line := &result.Lines[i]
		rad := line.Angle * (math.Pi / 180)

		for pos := 0; pos < numLeds; pos++ {
			x, y, ok := geom.locate(pos, rad)
			if !ok {
				continue
			}
			c := imaging.RGBAt(surface, x, y)
			lit := imaging.Luminance(c) < threshold
			if lit != s.Invert {
				line.light(pos, c.Scale(brightness))
			}
		}
	}

	result.shift(s.LineShift)
	return result, nil
}

package ledmap

import (
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/pov-bitmap-mcp/internal/imaging"
)

// squareEdgeThickness is the number of LEDs lit across each square edge.
const squareEdgeThickness = 3

// Shape names a generated test pattern.
type Shape string

const (
	ShapeCircle Shape = "circle"
	ShapeSquare Shape = "square"
)

// PatternSpec describes a generated polar pattern.
type PatternSpec struct {
	Shape     Shape
	NumLeds   int
	Divisions int

	// Size is the circle radius or the square side, in LEDs.
	Size int

	Color imaging.RGBColor

	// Brightness scales Color, in (0,1]. Zero selects 1.
	Brightness float64
}

func (p PatternSpec) validate() error {
	if p.NumLeds <= 0 || p.NumLeds%2 != 0 {
		return fmt.Errorf("%w: pattern LED count must be positive and even, got %d", ErrInvalidSettings, p.NumLeds)
	}
	if p.Divisions <= 0 {
		return fmt.Errorf("%w: divisions must be positive, got %d", ErrInvalidSettings, p.Divisions)
	}
	if p.Size < 0 {
		return fmt.Errorf("%w: pattern size must not be negative, got %d", ErrInvalidSettings, p.Size)
	}
	if p.Brightness < 0 || p.Brightness > 1 {
		return fmt.Errorf("%w: brightness must be in [0,1], got %v", ErrInvalidSettings, p.Brightness)
	}
	return nil
}

func (p PatternSpec) color() imaging.RGBColor {
	if p.Brightness == 0 {
		return p.Color
	}
	return p.Color.Scale(p.Brightness)
}

// Pattern generates the polar result for spec. Useful for checking a POV arm
// without an image: a correct rig shows a steady circle or square.
func Pattern(spec PatternSpec) (*PolarResult, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	switch Shape(strings.ToLower(string(spec.Shape))) {
	case ShapeCircle:
		return circlePattern(spec), nil
	case ShapeSquare:
		return squarePattern(spec), nil
	}
	return nil, fmt.Errorf("%w: unknown pattern shape %q", ErrInvalidSettings, spec.Shape)
}

// circlePattern lights the two positions Size LEDs either side of the hub on
// every slice. Radii that reach past the arm light nothing.
func circlePattern(spec PatternSpec) *PolarResult {
	res := newPolarResult(spec.NumLeds, spec.Divisions)
	hub := spec.NumLeds / 2
	if spec.Size >= hub {
		return res
	}
	c := spec.color()
	for i := range res.Lines {
		lightInRange(&res.Lines[i], hub-spec.Size, spec.NumLeds, c)
		lightInRange(&res.Lines[i], hub+spec.Size, spec.NumLeds, c)
	}
	res.sortLEDs()
	return res
}

// squarePattern draws the four edges of an axis-aligned square: slices within
// 22.5 degrees of 0, 90, 180 or 270 light a band squareEdgeThickness LEDs wide
// at Size/2 from the hub on both sides. Corner slices stay dark.
func squarePattern(spec PatternSpec) *PolarResult {
	res := newPolarResult(spec.NumLeds, spec.Divisions)
	hub := spec.NumLeds / 2
	dist := spec.Size / 2
	c := spec.color()
	lo, hi := -(squareEdgeThickness / 2), squareEdgeThickness/2

	for i := range res.Lines {
		line := &res.Lines[i]
		if !onSquareEdge(line.Angle) {
			continue
		}
		for off := lo; off <= hi; off++ {
			lightInRange(line, hub-dist+off, spec.NumLeds, c)
			lightInRange(line, hub+dist+off, spec.NumLeds, c)
		}
	}
	res.sortLEDs()
	return res
}

func onSquareEdge(deg float64) bool {
	d := math.Mod(deg, 90)
	return d < 22.5 || d >= 67.5
}

func lightInRange(line *PolarLine, pos, numLeds int, c imaging.RGBColor) {
	if pos >= 0 && pos < numLeds {
		line.light(pos, c)
	}
}

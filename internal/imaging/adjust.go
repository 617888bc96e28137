package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/adjust"
)

// Adjustments is an optional tone pass applied to the source image before it
// is normalized and thresholded. The zero value leaves the image untouched.
type Adjustments struct {
	// Brightness shifts lightness, -1 (black) to 1 (white).
	Brightness float64 `json:"brightness,omitempty" yaml:"brightness,omitempty"`

	// Contrast scales distance from mid-gray, -1 to 1.
	Contrast float64 `json:"contrast,omitempty" yaml:"contrast,omitempty"`

	// Gamma applies a gamma curve; 0 and 1 both mean "no change".
	Gamma float64 `json:"gamma,omitempty" yaml:"gamma,omitempty"`
}

// IsZero reports whether the adjustments are a no-op.
func (a Adjustments) IsZero() bool {
	return a.Brightness == 0 && a.Contrast == 0 && (a.Gamma == 0 || a.Gamma == 1)
}

// Validate checks that every field is within range.
func (a Adjustments) Validate() error {
	if a.Brightness < -1 || a.Brightness > 1 {
		return fmt.Errorf("brightness %v outside [-1,1]", a.Brightness)
	}
	if a.Contrast < -1 || a.Contrast > 1 {
		return fmt.Errorf("contrast %v outside [-1,1]", a.Contrast)
	}
	if a.Gamma < 0 {
		return fmt.Errorf("gamma %v must not be negative", a.Gamma)
	}
	return nil
}

// Apply runs the adjustments over img in the order brightness, contrast,
// gamma. The input is never modified; when a is a no-op img is returned as is.
func (a Adjustments) Apply(img image.Image) image.Image {
	if a.IsZero() {
		return img
	}

	out := img
	if a.Brightness != 0 {
		out = adjust.Brightness(out, a.Brightness)
	}
	if a.Contrast != 0 {
		out = adjust.Contrast(out, a.Contrast)
	}
	if a.Gamma != 0 && a.Gamma != 1 {
		out = adjust.Gamma(out, a.Gamma)
	}
	return out
}

package ledmap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/pov-bitmap-mcp/internal/imaging"
)

// ErrInvalidSettings is returned, wrapped, when Settings fail validation.
// No output is produced for a rejected conversion.
var ErrInvalidSettings = errors.New("invalid settings")

// ErrEmptyImage is returned, wrapped, when the source image has no pixels.
var ErrEmptyImage = imaging.ErrEmptyImage

// DefaultWorkingSize is the side of the square surface polar conversions
// sample from. It is independent of the LED count so that angular and radial
// positions are resolved finely before being reduced to LED granularity.
const DefaultWorkingSize = 600

// DefaultThreshold is the luminance cutoff used when none is configured.
const DefaultThreshold = 128

// Mode selects the LED addressing scheme.
type Mode int

const (
	// ModeGrid is a square, row-major matrix with one bit per pixel.
	ModeGrid Mode = iota
	// ModePolar is a spinning persistence-of-vision arm: angular slices by
	// radial LED positions.
	ModePolar
)

// String returns "grid" or "polar".
func (m Mode) String() string {
	switch m {
	case ModeGrid:
		return "grid"
	case ModePolar:
		return "polar"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "grid" or "polar", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grid", "matrix":
		return ModeGrid, nil
	case "polar", "pov":
		return ModePolar, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != ModeGrid && m != ModePolar {
		return nil, fmt.Errorf("unknown mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Settings controls one conversion.
//
// Resolution is the side length of the output square in grid mode and the LED
// count of the arm in polar mode. Divisions only applies to polar mode.
type Settings struct {
	Mode       Mode `json:"mode" yaml:"mode"`
	Resolution int  `json:"resolution" yaml:"resolution"`
	Divisions  int  `json:"divisions,omitempty" yaml:"divisions,omitempty"`
	Threshold  int  `json:"threshold" yaml:"threshold"`
	Invert     bool `json:"invert" yaml:"invert"`

	// WorkingSize overrides DefaultWorkingSize for polar mode. Zero selects
	// the default.
	WorkingSize int `json:"working_size,omitempty" yaml:"working_size,omitempty"`

	// Brightness scales the colors recorded for lit polar LEDs, in (0,1].
	// Zero selects 1.
	Brightness float64 `json:"brightness,omitempty" yaml:"brightness,omitempty"`

	// LineShift rotates the polar output so that line j carries slice
	// (j+LineShift) mod Divisions. It compensates for the angle between the
	// rotation sensor and the arm.
	LineShift int `json:"line_shift,omitempty" yaml:"line_shift,omitempty"`

	// Filter names the resample filter used by the normalizer.
	Filter string `json:"filter,omitempty" yaml:"filter,omitempty"`

	// Adjust is an optional tone pass run before normalization.
	Adjust imaging.Adjustments `json:"adjust,omitempty" yaml:"adjust,omitempty"`
}

// Validate checks the settings for the selected mode.
//
// Polar mode additionally requires an even Resolution so the arm splits
// into two equal half-rays.
func (s Settings) Validate() error {
	if s.Resolution <= 0 {
		return fmt.Errorf("%w: resolution must be positive, got %d", ErrInvalidSettings, s.Resolution)
	}
	if s.Threshold < 0 || s.Threshold > 255 {
		return fmt.Errorf("%w: threshold must be in [0,255], got %d", ErrInvalidSettings, s.Threshold)
	}
	if s.Brightness < 0 || s.Brightness > 1 {
		return fmt.Errorf("%w: brightness must be in [0,1], got %v", ErrInvalidSettings, s.Brightness)
	}
	if _, err := imaging.LookupFilter(s.Filter); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := s.Adjust.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	switch s.Mode {
	case ModeGrid:
		return nil
	case ModePolar:
		if s.Divisions <= 0 {
			return fmt.Errorf("%w: divisions must be positive, got %d", ErrInvalidSettings, s.Divisions)
		}
		if s.Resolution%2 != 0 {
			return fmt.Errorf("%w: polar LED count must be even, got %d", ErrInvalidSettings, s.Resolution)
		}
		if s.WorkingSize < 0 {
			return fmt.Errorf("%w: working size must not be negative, got %d", ErrInvalidSettings, s.WorkingSize)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidSettings, int(s.Mode))
	}
}

// SurfaceSize returns the side of the normalized surface for s: the
// resolution in grid mode, the working size in polar mode.
func (s Settings) SurfaceSize() int {
	if s.Mode == ModeGrid {
		return s.Resolution
	}
	if s.WorkingSize > 0 {
		return s.WorkingSize
	}
	return DefaultWorkingSize
}

func (s Settings) brightness() float64 {
	if s.Brightness == 0 {
		return 1
	}
	return s.Brightness
}

// packedLen returns the number of bytes needed to hold n bits.
func packedLen(n int) int {
	return (n + 7) / 8
}

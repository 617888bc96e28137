package ledmap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/pov-bitmap-mcp/internal/imaging"
)

var cyan = imaging.RGBColor{R: 0, G: 255, B: 255}

func TestPattern_Circle(t *testing.T) {
	p, err := Pattern(PatternSpec{Shape: ShapeCircle, NumLeds: 8, Divisions: 4, Size: 2, Color: cyan, Brightness: 0.5})
	if err != nil {
		t.Fatalf("Pattern failed: %v", err)
	}
	checkConsistent(t, p)

	want := []LitLED{{Pos: 2, G: 127, B: 127}, {Pos: 6, G: 127, B: 127}}
	for i, line := range p.Lines {
		if diff := cmp.Diff(want, line.LEDs); diff != "" {
			t.Errorf("line %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestPattern_CircleTooLarge(t *testing.T) {
	p, err := Pattern(PatternSpec{Shape: ShapeCircle, NumLeds: 8, Divisions: 4, Size: 4, Color: cyan})
	if err != nil {
		t.Fatalf("Pattern failed: %v", err)
	}
	for i, line := range p.Lines {
		if len(line.LEDs) != 0 {
			t.Errorf("line %d: %d lit, want 0", i, len(line.LEDs))
		}
	}
}

func TestPattern_Square(t *testing.T) {
	p, err := Pattern(PatternSpec{Shape: "Square", NumLeds: 16, Divisions: 8, Size: 8, Color: cyan})
	if err != nil {
		t.Fatalf("Pattern failed: %v", err)
	}
	checkConsistent(t, p)

	edge := []int{3, 4, 5, 11, 12, 13}
	for i, line := range p.Lines {
		var got []int
		for _, led := range line.LEDs {
			got = append(got, led.Pos)
			if led.Color() != cyan {
				t.Errorf("line %d pos %d: color %v, want %v", i, led.Pos, led.Color(), cyan)
			}
		}
		if i%2 == 0 {
			if diff := cmp.Diff(edge, got); diff != "" {
				t.Errorf("edge line %d (-want +got):\n%s", i, diff)
			}
		} else if len(got) != 0 {
			t.Errorf("corner line %d: lit %v, want none", i, got)
		}
	}
}

func TestOnSquareEdge(t *testing.T) {
	tests := []struct {
		deg  float64
		want bool
	}{
		{0, true},
		{22.4, true},
		{22.5, false},
		{45, false},
		{67.5, true},
		{90, true},
		{200, true},
		{315, false},
	}
	for _, tt := range tests {
		if got := onSquareEdge(tt.deg); got != tt.want {
			t.Errorf("onSquareEdge(%v): got %v, want %v", tt.deg, got, tt.want)
		}
	}
}

func TestPattern_Errors(t *testing.T) {
	bad := []PatternSpec{
		{Shape: ShapeCircle, NumLeds: 7, Divisions: 4},
		{Shape: ShapeCircle, NumLeds: 8, Divisions: 0},
		{Shape: ShapeCircle, NumLeds: 8, Divisions: 4, Size: -1},
		{Shape: ShapeCircle, NumLeds: 8, Divisions: 4, Brightness: 2},
		{Shape: "triangle", NumLeds: 8, Divisions: 4},
	}
	for _, spec := range bad {
		if _, err := Pattern(spec); !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("%+v: got %v, want ErrInvalidSettings", spec, err)
		}
	}
}

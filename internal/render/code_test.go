package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ironsheep/pov-bitmap-mcp/internal/imaging"
	"github.com/ironsheep/pov-bitmap-mcp/internal/ledmap"
)

func tinyGrid(name string) *ledmap.ConvertedImage {
	return ledmap.NewGridImage(name, &ledmap.GridResult{
		Width:       2,
		Height:      2,
		BytesPerRow: 1,
		Rows:        []ledmap.HexBytes{{0xC0}, {0x00}},
	})
}

func ringImage(t *testing.T, name string) *ledmap.ConvertedImage {
	t.Helper()
	p, err := ledmap.Pattern(ledmap.PatternSpec{
		Shape:     ledmap.ShapeCircle,
		NumLeds:   8,
		Divisions: 2,
		Size:      2,
		Color:     imaging.RGBColor{R: 0x11, G: 0x22, B: 0x33},
	})
	if err != nil {
		t.Fatalf("Pattern failed: %v", err)
	}
	return ledmap.NewPolarImage(name, p)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatArduino, false},
		{"Arduino", FormatArduino, false},
		{"cpp", FormatArduino, false},
		{"micropython", FormatMicroPython, false},
		{"py", FormatMicroPython, false},
		{"rust", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q): got %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCode_ArduinoGrid(t *testing.T) {
	out, err := CodeString([]*ledmap.ConvertedImage{tinyGrid("tiny")}, Options{Format: FormatArduino})
	if err != nil {
		t.Fatalf("CodeString failed: %v", err)
	}

	wantParts := []string{
		"#include <Arduino.h>",
		"#define TINY_WIDTH 2",
		"#define TINY_HEIGHT 2",
		"const uint8_t tiny[2][1] PROGMEM = {\n  {0xC0},\n  {0x00}\n};",
		"const uint8_t image_count = 1;",
		"  (const uint8_t*)tiny\n",
		"  \"tiny\"\n",
	}
	for _, part := range wantParts {
		if !strings.Contains(out, part) {
			t.Errorf("output missing %q:\n%s", part, out)
		}
	}
}

func TestCode_MicroPythonGrid(t *testing.T) {
	out, err := CodeString([]*ledmap.ConvertedImage{tinyGrid("tiny")}, Options{Format: FormatMicroPython})
	if err != nil {
		t.Fatalf("CodeString failed: %v", err)
	}

	wantParts := []string{
		"TINY_WIDTH = 2",
		"tiny = (\n    bytes((0xC0,)),\n    bytes((0x00,)),\n)",
		"images = (tiny, )",
		"image_names = (\"tiny\", )",
	}
	for _, part := range wantParts {
		if !strings.Contains(out, part) {
			t.Errorf("output missing %q:\n%s", part, out)
		}
	}
	if strings.Contains(out, "PROGMEM") {
		t.Error("MicroPython output contains C syntax")
	}
}

func TestCode_IndexOrderAndNames(t *testing.T) {
	images := []*ledmap.ConvertedImage{tinyGrid("zeta"), tinyGrid("my logo"), tinyGrid("alpha")}

	out, err := CodeString(images, Options{})
	if err != nil {
		t.Fatalf("CodeString failed: %v", err)
	}

	z := strings.Index(out, "(const uint8_t*)zeta")
	m := strings.Index(out, "(const uint8_t*)my_logo")
	a := strings.Index(out, "(const uint8_t*)alpha")
	if z < 0 || m < 0 || a < 0 {
		t.Fatalf("index entries missing:\n%s", out)
	}
	if !(z < m && m < a) {
		t.Errorf("index not in submission order: zeta=%d my_logo=%d alpha=%d", z, m, a)
	}
	if !strings.Contains(out, "image_count = 3;") {
		t.Error("image_count wrong")
	}
}

func TestCode_PolarColors(t *testing.T) {
	img := ringImage(t, "ring")

	out, err := CodeString([]*ledmap.ConvertedImage{img}, Options{WithColors: true, Order: OrderGRB})
	if err != nil {
		t.Fatalf("CodeString failed: %v", err)
	}

	wantParts := []string{
		"#define RING_LEDS 8",
		"#define RING_DIVISIONS 2",
		"const uint8_t ring[2][1] PROGMEM = {\n  {0x22},\n  {0x22}\n};",
		"// ring_leds: {line, pos, g, r, b}",
		"const uint16_t ring_led_count = 4;",
		"  {0, 2, 0x22, 0x11, 0x33},\n",
		"  {1, 6, 0x22, 0x11, 0x33}\n};",
	}
	for _, part := range wantParts {
		if !strings.Contains(out, part) {
			t.Errorf("output missing %q:\n%s", part, out)
		}
	}

	upper, err := CodeString([]*ledmap.ConvertedImage{img}, Options{WithColors: true, Order: "GRB"})
	if err != nil {
		t.Fatalf("CodeString with GRB failed: %v", err)
	}
	if upper != out {
		t.Error("order GRB should render like grb")
	}

	plain, err := CodeString([]*ledmap.ConvertedImage{img}, Options{})
	if err != nil {
		t.Fatalf("CodeString failed: %v", err)
	}
	if strings.Contains(plain, "ring_leds") {
		t.Error("color table emitted without WithColors")
	}
}

func TestCode_MicroPythonColors(t *testing.T) {
	out, err := CodeString([]*ledmap.ConvertedImage{ringImage(t, "ring")}, Options{Format: FormatMicroPython, WithColors: true})
	if err != nil {
		t.Fatalf("CodeString failed: %v", err)
	}
	if !strings.Contains(out, "    (1, 2, 0x11, 0x22, 0x33),\n") {
		t.Errorf("color tuple missing:\n%s", out)
	}
}

func TestCode_Errors(t *testing.T) {
	images := []*ledmap.ConvertedImage{tinyGrid("x")}
	if _, err := CodeString(images, Options{Format: "cobol"}); err == nil {
		t.Error("unknown format should fail")
	}
	if _, err := CodeString(images, Options{Order: "bgr"}); err == nil {
		t.Error("unknown color order should fail")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCode_WriteError(t *testing.T) {
	if err := Code(failWriter{}, []*ledmap.ConvertedImage{tinyGrid("x")}, Options{}); err == nil {
		t.Error("write failure should be reported")
	}
}

func TestCode_Deterministic(t *testing.T) {
	images := []*ledmap.ConvertedImage{tinyGrid("a"), ringImage(t, "b")}
	var first, second bytes.Buffer
	if err := Code(&first, images, Options{WithColors: true}); err != nil {
		t.Fatalf("Code failed: %v", err)
	}
	if err := Code(&second, images, Options{WithColors: true}); err != nil {
		t.Fatalf("Code failed: %v", err)
	}
	if first.String() != second.String() {
		t.Error("repeated rendering differs")
	}
}

package render

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ironsheep/pov-bitmap-mcp/internal/imaging"
	"github.com/ironsheep/pov-bitmap-mcp/internal/ledmap"
)

// Format selects the source dialect of a code listing.
type Format string

const (
	// FormatArduino emits C arrays stored in PROGMEM.
	FormatArduino Format = "arduino"
	// FormatMicroPython emits tuples of bytes objects.
	FormatMicroPython Format = "micropython"
)

// ParseFormat resolves a dialect name. "c" and "cpp" select Arduino,
// "python" and "py" select MicroPython.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "arduino", "c", "cpp":
		return FormatArduino, nil
	case "micropython", "python", "py":
		return FormatMicroPython, nil
	}
	return "", fmt.Errorf("unknown output format: %s", s)
}

// ColorOrder is the byte order of emitted LED colors. WS281x strips expect
// GRB.
type ColorOrder string

const (
	OrderRGB ColorOrder = "rgb"
	OrderGRB ColorOrder = "grb"
)

// Options controls Code.
type Options struct {
	Format Format

	// WithColors adds the sparse per-LED color table for polar images.
	WithColors bool

	// Order is the byte order of the color table. Empty means RGB.
	Order ColorOrder
}

// Code writes images as a source listing.
//
// Each image becomes a named array of its packed rows (grid) or lines
// (polar), every byte spelled as an uppercase "0xHH" literal. After the
// images an index array lists them all in the given order, followed by their
// names.
func Code(w io.Writer, images []*ledmap.ConvertedImage, opts Options) error {
	opts.Order = ColorOrder(strings.ToLower(string(opts.Order)))
	if opts.Order != "" && opts.Order != OrderRGB && opts.Order != OrderGRB {
		return fmt.Errorf("unknown color order: %s", opts.Order)
	}

	var e emitter
	switch opts.Format {
	case "", FormatArduino:
		e = arduino{}
	case FormatMicroPython:
		e = micropython{}
	default:
		return fmt.Errorf("unknown output format: %s", opts.Format)
	}

	bw := bufio.NewWriter(w)
	names := make([]string, len(images))
	e.header(bw, images)
	for i, img := range images {
		names[i] = imaging.SanitizeName(img.Name)
		e.image(bw, names[i], img)
		if opts.WithColors && img.Polar != nil {
			e.colors(bw, names[i], img.Polar, opts.Order)
		}
	}
	e.index(bw, names)
	return bw.Flush()
}

// CodeString is Code into a string.
func CodeString(images []*ledmap.ConvertedImage, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := Code(&buf, images, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type emitter interface {
	header(w *bufio.Writer, images []*ledmap.ConvertedImage)
	image(w *bufio.Writer, name string, img *ledmap.ConvertedImage)
	colors(w *bufio.Writer, name string, p *ledmap.PolarResult, order ColorOrder)
	index(w *bufio.Writer, names []string)
}

func describe(img *ledmap.ConvertedImage) string {
	if img.Grid != nil {
		return fmt.Sprintf("grid %dx%d, %d bytes", img.Grid.Width, img.Grid.Height, img.TotalBytes)
	}
	if img.Polar != nil {
		return fmt.Sprintf("polar %d LEDs x %d divisions, %d bytes", img.Polar.NumLeds, img.Polar.Divisions, img.TotalBytes)
	}
	return "empty"
}

// rowWidth is the number of bytes per packed row or line.
func rowWidth(img *ledmap.ConvertedImage) int {
	if img.Grid != nil {
		return img.Grid.BytesPerRow
	}
	if img.Polar != nil {
		return img.Polar.BytesPerLine
	}
	return 0
}

func colorBytes(led ledmap.LitLED, order ColorOrder) [3]uint8 {
	if order == OrderGRB {
		return [3]uint8{led.G, led.R, led.B}
	}
	return [3]uint8{led.R, led.G, led.B}
}

func countLEDs(p *ledmap.PolarResult) int {
	n := 0
	for i := range p.Lines {
		n += len(p.Lines[i].LEDs)
	}
	return n
}

// === Arduino ===

type arduino struct{}

func (arduino) header(w *bufio.Writer, images []*ledmap.ConvertedImage) {
	fmt.Fprintf(w, "// Generated by pov-bitmap-mcp: %d image(s)\n", len(images))
	w.WriteString("#include <Arduino.h>\n")
}

func (arduino) image(w *bufio.Writer, name string, img *ledmap.ConvertedImage) {
	rows := img.Packed()
	fmt.Fprintf(w, "\n// %s: %s\n", name, describe(img))
	if img.Grid != nil {
		fmt.Fprintf(w, "#define %s_WIDTH %d\n", strings.ToUpper(name), img.Grid.Width)
		fmt.Fprintf(w, "#define %s_HEIGHT %d\n", strings.ToUpper(name), img.Grid.Height)
	} else if img.Polar != nil {
		fmt.Fprintf(w, "#define %s_LEDS %d\n", strings.ToUpper(name), img.Polar.NumLeds)
		fmt.Fprintf(w, "#define %s_DIVISIONS %d\n", strings.ToUpper(name), img.Polar.Divisions)
	}
	fmt.Fprintf(w, "const uint8_t %s[%d][%d] PROGMEM = {\n", name, len(rows), rowWidth(img))
	for i, row := range rows {
		fmt.Fprintf(w, "  {%s}", row)
		if i < len(rows)-1 {
			w.WriteByte(',')
		}
		w.WriteByte('\n')
	}
	w.WriteString("};\n")
}

func (arduino) colors(w *bufio.Writer, name string, p *ledmap.PolarResult, order ColorOrder) {
	n := countLEDs(p)
	if order == "" {
		order = OrderRGB
	}
	fmt.Fprintf(w, "// %s_leds: {line, pos, %s}\n", name, strings.Join(strings.Split(string(order), ""), ", "))
	fmt.Fprintf(w, "const uint16_t %s_led_count = %d;\n", name, n)
	if n == 0 {
		fmt.Fprintf(w, "const uint16_t %s_leds[1][5] PROGMEM = {{0, 0, 0, 0, 0}};\n", name)
		return
	}
	fmt.Fprintf(w, "const uint16_t %s_leds[%d][5] PROGMEM = {\n", name, n)
	k := 0
	for li := range p.Lines {
		for _, led := range p.Lines[li].LEDs {
			c := colorBytes(led, order)
			fmt.Fprintf(w, "  {%d, %d, 0x%02X, 0x%02X, 0x%02X}", li, led.Pos, c[0], c[1], c[2])
			k++
			if k < n {
				w.WriteByte(',')
			}
			w.WriteByte('\n')
		}
	}
	w.WriteString("};\n")
}

func (arduino) index(w *bufio.Writer, names []string) {
	fmt.Fprintf(w, "\nconst uint8_t image_count = %d;\n", len(names))
	w.WriteString("const uint8_t* const images[] PROGMEM = {\n")
	for i, n := range names {
		fmt.Fprintf(w, "  (const uint8_t*)%s", n)
		if i < len(names)-1 {
			w.WriteByte(',')
		}
		w.WriteByte('\n')
	}
	w.WriteString("};\n")
	w.WriteString("const char* const image_names[] = {\n")
	for i, n := range names {
		fmt.Fprintf(w, "  %q", n)
		if i < len(names)-1 {
			w.WriteByte(',')
		}
		w.WriteByte('\n')
	}
	w.WriteString("};\n")
}

// === MicroPython ===

type micropython struct{}

func (micropython) header(w *bufio.Writer, images []*ledmap.ConvertedImage) {
	fmt.Fprintf(w, "# Generated by pov-bitmap-mcp: %d image(s)\n", len(images))
}

func (micropython) image(w *bufio.Writer, name string, img *ledmap.ConvertedImage) {
	fmt.Fprintf(w, "\n# %s: %s\n", name, describe(img))
	if img.Grid != nil {
		fmt.Fprintf(w, "%s_WIDTH = %d\n", strings.ToUpper(name), img.Grid.Width)
		fmt.Fprintf(w, "%s_HEIGHT = %d\n", strings.ToUpper(name), img.Grid.Height)
	} else if img.Polar != nil {
		fmt.Fprintf(w, "%s_LEDS = %d\n", strings.ToUpper(name), img.Polar.NumLeds)
		fmt.Fprintf(w, "%s_DIVISIONS = %d\n", strings.ToUpper(name), img.Polar.Divisions)
	}
	fmt.Fprintf(w, "%s = (\n", name)
	for _, row := range img.Packed() {
		fmt.Fprintf(w, "    bytes((%s,)),\n", row)
	}
	w.WriteString(")\n")
}

func (micropython) colors(w *bufio.Writer, name string, p *ledmap.PolarResult, order ColorOrder) {
	if order == "" {
		order = OrderRGB
	}
	fmt.Fprintf(w, "# %s_leds: (line, pos, %s)\n", name, strings.Join(strings.Split(string(order), ""), ", "))
	fmt.Fprintf(w, "%s_leds = (\n", name)
	for li := range p.Lines {
		for _, led := range p.Lines[li].LEDs {
			c := colorBytes(led, order)
			fmt.Fprintf(w, "    (%d, %d, 0x%02X, 0x%02X, 0x%02X),\n", li, led.Pos, c[0], c[1], c[2])
		}
	}
	w.WriteString(")\n")
}

func (micropython) index(w *bufio.Writer, names []string) {
	w.WriteString("\nimages = (")
	for _, n := range names {
		fmt.Fprintf(w, "%s, ", n)
	}
	w.WriteString(")\n")
	w.WriteString("image_names = (")
	for _, n := range names {
		fmt.Fprintf(w, "%q, ", n)
	}
	w.WriteString(")\n")
}

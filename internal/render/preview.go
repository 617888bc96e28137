package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/ironsheep/pov-bitmap-mcp/internal/ledmap"
)

const (
	// DefaultPreviewSize is the side of a preview image when none is given.
	DefaultPreviewSize = 400

	// MaxPreviewSize bounds the side of a preview image.
	MaxPreviewSize = 4096
)

var (
	previewOff  = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	previewOn   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	previewDisc = color.NRGBA{R: 24, G: 24, B: 24, A: 255}
)

// PreviewOptions controls Preview.
type PreviewOptions struct {
	// Size is the side of the square output in pixels. Zero selects
	// DefaultPreviewSize.
	Size int

	// Color paints polar LEDs with their recorded color instead of white.
	// Dark-lit LEDs carry dark colors, so this is mostly useful with an
	// inverted conversion.
	Color bool
}

// PreviewResult contains a rendered preview encoded as base64 PNG.
type PreviewResult struct {
	Name        string `json:"name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview rasterizes a converted image so the encoding can be checked by eye.
//
// Grid images are drawn one pixel per bit and upscaled with nearest-neighbour
// sampling. Polar images are drawn as dots on a disc, each lit LED placed at
// its slice angle and radial position.
func Preview(img *ledmap.ConvertedImage, opts PreviewOptions) (*PreviewResult, error) {
	size := opts.Size
	if size == 0 {
		size = DefaultPreviewSize
	}
	if size < 1 || size > MaxPreviewSize {
		return nil, fmt.Errorf("invalid preview size %d: must be 1-%d", size, MaxPreviewSize)
	}

	var out image.Image
	switch {
	case img.Grid != nil:
		out = gridPreview(img.Grid, size)
	case img.Polar != nil:
		out = polarPreview(img.Polar, size, opts.Color)
	default:
		return nil, fmt.Errorf("image %s has no encoded data", img.Name)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	b := out.Bounds()
	return &PreviewResult{
		Name:        img.Name,
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

func gridPreview(g *ledmap.GridResult, size int) image.Image {
	small := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := previewOff
			if g.Pixel(x, y) {
				c = previewOn
			}
			small.SetNRGBA(x, y, c)
		}
	}
	return transform.Resize(small, size, size, transform.NearestNeighbor)
}

func polarPreview(p *ledmap.PolarResult, size int, useColor bool) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: previewOff}, image.Point{}, draw.Src)

	center := float64(size) / 2
	radius := center - 1
	draw.DrawMask(dst, dst.Bounds(), &image.Uniform{C: previewDisc}, image.Point{},
		&disc{cx: center, cy: center, r: radius}, image.Point{}, draw.Over)

	half := p.NumLeds / 2
	step := radius / float64(half)
	dot := math.Max(1, step/2)

	for _, line := range p.Lines {
		rad := line.Angle * (math.Pi / 180)
		for _, led := range line.LEDs {
			theta := rad
			k := half - led.Pos - 1
			if led.Pos >= half {
				k = led.Pos - half
				theta += math.Pi
			}
			dist := float64(k+1) * step
			x := center + dist*math.Cos(theta)
			y := center + dist*math.Sin(theta)

			c := previewOn
			if useColor {
				c = color.NRGBA{R: led.R, G: led.G, B: led.B, A: 255}
			}
			m := &disc{cx: x, cy: y, r: dot}
			draw.DrawMask(dst, m.Bounds(), &image.Uniform{C: c}, image.Point{}, m, m.Bounds().Min, draw.Over)
		}
	}
	return dst
}

// disc is a filled circle usable as a draw mask.
type disc struct {
	cx, cy, r float64
}

func (d *disc) ColorModel() color.Model { return color.AlphaModel }

func (d *disc) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(d.cx-d.r)), int(math.Floor(d.cy-d.r)),
		int(math.Ceil(d.cx+d.r))+1, int(math.Ceil(d.cy+d.r))+1,
	)
}

func (d *disc) At(x, y int) color.Color {
	dx := float64(x) + 0.5 - d.cx
	dy := float64(y) + 0.5 - d.cy
	if dx*dx+dy*dy <= d.r*d.r {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}

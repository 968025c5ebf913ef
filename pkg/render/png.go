package render

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"

	"github.com/matzehuels/holopanel/pkg/display"
	"github.com/matzehuels/holopanel/pkg/display/memory"
	"github.com/matzehuels/holopanel/pkg/geom"
)

// PNGOption configures [PNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	fontSize   float64
	background color.Color
	outlines   bool
}

// WithScale sets the pixel scale factor (default 1).
func WithScale(s float64) PNGOption { return func(r *pngRenderer) { r.scale = s } }

// WithFontSize sets the text size in points (default 16).
func WithFontSize(pt float64) PNGOption { return func(r *pngRenderer) { r.fontSize = pt } }

// WithCanvas sets the color behind every primitive (default dark grey).
func WithCanvas(c color.Color) PNGOption { return func(r *pngRenderer) { r.background = c } }

// WithOutlines strokes the bounds of every primitive.
func WithOutlines() PNGOption { return func(r *pngRenderer) { r.outlines = true } }

// PNG paints primitives onto a viewport-sized canvas. Primitives are painted
// in the given order, so pass them lowest layer first as
// [memory.Recorder.Live] returns them.
func PNG(prims []memory.Primitive, viewport geom.Dimensions, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1, fontSize: 16, background: color.RGBA{0x20, 0x20, 0x24, 0xFF}}
	for _, opt := range opts {
		opt(&r)
	}
	if viewport.Width <= 0 || viewport.Height <= 0 || r.scale <= 0 {
		return nil, fmt.Errorf("png: empty canvas %v at scale %g", viewport, r.scale)
	}

	w := int(viewport.Width * r.scale)
	h := int(viewport.Height * r.scale)
	dc := gg.NewContext(w, h)
	dc.SetColor(r.background)
	dc.Clear()

	regular, err := loadFace(gomono.TTF, r.fontSize*r.scale)
	if err != nil {
		return nil, err
	}
	bold, err := loadFace(gomonobold.TTF, r.fontSize*r.scale)
	if err != nil {
		return nil, err
	}

	// Panel space is centered with Y up; the canvas is top-left with Y down.
	dc.Translate(float64(w)/2, float64(h)/2)
	dc.Scale(r.scale, -r.scale)

	for _, p := range prims {
		drawPrimitive(dc, p, regular, bold, r.outlines)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

func drawPrimitive(dc *gg.Context, p memory.Primitive, regular, bold font.Face, outline bool) {
	s := p.Spec
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	if p.Transform.Scale != 0 {
		scale *= p.Transform.Scale
	}
	pos := geom.Coordinates{X: s.Position.X + p.Transform.Translate.X, Y: s.Position.Y + p.Transform.Translate.Y}
	w, h := s.Size.Width*scale, s.Size.Height*scale

	if s.Background != display.Transparent {
		dc.SetColor(toColor(s.Background))
		dc.DrawRectangle(pos.X-w/2, pos.Y-h/2, w, h)
		dc.Fill()
	}
	if outline || s.Kind == display.KindItem {
		dc.SetColor(color.RGBA{0x90, 0x90, 0x98, 0xFF})
		dc.SetLineWidth(1)
		dc.DrawRectangle(pos.X-w/2, pos.Y-h/2, w, h)
		dc.Stroke()
	}

	label := s.Text
	if s.Kind == display.KindItem {
		label = s.Item
	}
	if label == "" {
		return
	}
	face := regular
	if s.Bold {
		face = bold
	}
	dc.SetFontFace(face)
	dc.SetColor(color.White)
	lines := strings.Split(label, "\n")

	// Text is drawn in a flipped sub-frame so glyphs are upright.
	dc.Push()
	dc.Translate(pos.X, pos.Y)
	dc.Scale(1, -1)
	lh := dc.FontHeight() * 1.2
	top := -lh * float64(len(lines)-1) / 2
	for i, line := range lines {
		dc.DrawStringAnchored(line, 0, top+float64(i)*lh, 0.5, 0.35)
	}
	dc.Pop()
}

func toColor(c display.Color) color.Color {
	r, g, b, a := c.RGBA()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

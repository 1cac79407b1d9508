package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// OverlayBox is one outlined region of an overlay.
type OverlayBox struct {
	// Rect is the outlined region in source image coordinates.
	Rect image.Rectangle

	// Occupied selects the occupied color; otherwise the empty color is used.
	Occupied bool

	// Label is drawn near the top-left corner of Rect. Empty means no label.
	Label string
}

// OverlayStyle controls how overlay boxes are drawn.
type OverlayStyle struct {
	OccupiedColor color.Color
	EmptyColor    color.Color

	// LineWidth is the outline thickness in pixels, drawn inside Rect.
	LineWidth int

	// LabelOffset is the label baseline position relative to Rect.Min.
	LabelOffset image.Point
}

// DefaultOverlayStyle returns green outlines for occupied slots, red for empty
// ones, 2 pixel lines and labels 5px in from the left edge with a baseline 20px
// below the top.
func DefaultOverlayStyle() OverlayStyle {
	return OverlayStyle{
		OccupiedColor: color.NRGBA{R: 0, G: 128, B: 0, A: 255},
		EmptyColor:    color.NRGBA{R: 255, G: 0, B: 0, A: 255},
		LineWidth:     2,
		LabelOffset:   image.Pt(5, 20),
	}
}

// ParseColor parses a hex color such as "#00FF00" or "#0F0".
func ParseColor(hex string) (color.Color, error) {
	if hex == "" {
		return nil, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", hex, err)
	}

	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// DrawOverlay returns a copy of img with every box outlined and labeled.
//
// The source image is not modified. The returned image is anchored at (0,0);
// box coordinates are translated accordingly when img has a non-zero origin.
func DrawOverlay(img image.Image, boxes []OverlayBox, style OverlayStyle) *image.NRGBA {
	out := imaging.Clone(img)
	origin := img.Bounds().Min

	lw := style.LineWidth
	if lw < 1 {
		lw = 1
	}

	for _, box := range boxes {
		r := box.Rect.Sub(origin).Intersect(out.Bounds())
		if r.Empty() {
			continue
		}

		c := style.EmptyColor
		if box.Occupied {
			c = style.OccupiedColor
		}
		outline(out, r, lw, c)

		if box.Label != "" {
			drawText(out, r.Min.Add(style.LabelOffset), box.Label, c)
		}
	}

	return out
}

// outline draws a rectangle border of width lw inside r.
func outline(dst draw.Image, r image.Rectangle, lw int, c color.Color) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+lw), // top
		image.Rect(r.Min.X, r.Max.Y-lw, r.Max.X, r.Max.Y), // bottom
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+lw, r.Max.Y), // left
		image.Rect(r.Max.X-lw, r.Min.Y, r.Max.X, r.Max.Y), // right
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(r), src, image.Point{}, draw.Src)
	}
}

// drawText renders text with its baseline starting at dot.
func drawText(dst draw.Image, dot image.Point, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(text)
}

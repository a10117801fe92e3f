package gauge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rileyhilliard/speedo/internal/errors"
)

// Point is a position on the drawing surface, in pixels, y growing downward.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Left, Top, Right, Bottom float64
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Color is a non-premultiplied RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// ARGB returns a color with explicit alpha.
func ARGB(a, r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Hex formats the color as #rrggbb, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Named colors accepted in configuration.
var namedColors = map[string]Color{
	"green":  RGB(0, 255, 0),
	"yellow": RGB(255, 255, 0),
	"orange": RGB(255, 165, 0),
	"red":    RGB(255, 0, 0),
	"blue":   RGB(0, 0, 255),
	"gray":   RGB(150, 150, 150),
	"white":  RGB(255, 255, 255),
	"black":  RGB(0, 0, 0),
}

// ParseColor accepts a color name or a #rrggbb hex string.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if len(s) == 7 && s[0] == '#' {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
		}
	}
	return Color{}, errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown color %q", s),
		"Use a name like green, yellow, red or a hex value like #ffa500")
}

// Primitive is one drawing instruction. The concrete types are Line, Arc,
// Wedge, Text, FillRect and Image.
type Primitive interface {
	primitive()
}

// Line is a stroked segment.
type Line struct {
	From, To Point
	Width    float64
	Color    Color
}

// Arc is a stroked arc of the ellipse inscribed in Bounds. Start and Sweep are
// dial degrees: 0 at the left horizontal, growing clockwise over the top.
type Arc struct {
	Bounds       Rect
	Start, Sweep float64
	Width        float64
	Color        Color
}

// Wedge is a filled pie slice of the ellipse inscribed in Bounds, in dial degrees.
type Wedge struct {
	Bounds       Rect
	Start, Sweep float64
	Color        Color
}

// Text is a label centered horizontally on At, with its baseline at At.Y.
// Rotation is in degrees clockwise about At.
type Text struct {
	At       Point
	Text     string
	Size     float64
	Rotation float64
	Bold     bool
	Color    Color
}

// FillRect is a solid rectangle.
type FillRect struct {
	Bounds Rect
	Color  Color
}

// Image draws the asset identified by Key scaled to Bounds. Loading the asset
// is up to the surface.
type Image struct {
	Key    string
	Bounds Rect
}

func (Line) primitive()     {}
func (Arc) primitive()      {}
func (Wedge) primitive()    {}
func (Text) primitive()     {}
func (FillRect) primitive() {}
func (Image) primitive()    {}

// redraw tracks invalidations for a model.
type redraw struct {
	generation uint64
	notify     func()
}

func (r *redraw) invalidate() {
	r.generation++
	if r.notify != nil {
		r.notify()
	}
}

// OnInvalidate registers fn to be called each time the model needs a redraw.
func (r *redraw) OnInvalidate(fn func()) {
	r.notify = fn
}

// Generation counts the redraws scheduled so far.
func (r *redraw) Generation() uint64 {
	return r.generation
}

package dashboard

import (
	"math"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rileyhilliard/speedo/internal/gauge"
)

// Braille rendering for gauge primitives.
//
// Each terminal cell is a 2x4 dot matrix:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Strokes (Line, Arc) set dots and the cell's foreground color. Fills (Wedge,
// FillRect, Image) set the cell background. Text replaces the cell's glyph.

const brailleBase = '\u2800'

// brailleDots maps [row][col] inside a cell to the pattern bit.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// Cell is one rendered terminal cell.
type Cell struct {
	Dots  uint8
	Text  rune
	Bold  bool
	FG    gauge.Color
	BG    gauge.Color
	HasFG bool
	HasBG bool
}

// Rune returns the glyph drawn for the cell.
func (c Cell) Rune() rune {
	switch {
	case c.Text != 0:
		return c.Text
	case c.Dots != 0:
		return brailleBase + rune(c.Dots)
	default:
		return ' '
	}
}

// ImagePainter fills the cells under an Image primitive. Unknown keys draw
// nothing.
type ImagePainter map[string]gauge.Color

// DefaultImages are flat stand-ins for the gauge background assets.
var DefaultImages = ImagePainter{
	gauge.MotorTempImage:      gauge.RGB(255, 140, 60),
	gauge.ControllerTempImage: gauge.RGB(90, 170, 255),
}

// Canvas is a cols x rows grid of braille cells. Primitives are laid out on a
// virtual surface of a fixed width and scaled down to the grid, so stroke
// lengths keep their proportions at any terminal size.
type Canvas struct {
	cols, rows int
	scale      float64
	cells      []Cell
	images     ImagePainter
}

// NewCanvas creates a blank canvas. virtualWidth is the surface width gauges
// lay themselves out on.
func NewCanvas(cols, rows int, virtualWidth float64) *Canvas {
	cols = max(cols, 0)
	rows = max(rows, 0)
	scale := 0.0
	if virtualWidth > 0 {
		scale = float64(cols*2) / virtualWidth
	}
	return &Canvas{
		cols:   cols,
		rows:   rows,
		scale:  scale,
		cells:  make([]Cell, cols*rows),
		images: DefaultImages,
	}
}

// SetImages replaces the image painter.
func (c *Canvas) SetImages(p ImagePainter) {
	c.images = p
}

// Size returns the grid dimensions in cells.
func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

// Surface returns the virtual surface matching the grid's aspect ratio.
func (c *Canvas) Surface() gauge.Surface {
	if c.scale == 0 {
		return gauge.Surface{}
	}
	return gauge.Surface{
		Width:  float64(c.cols*2) / c.scale,
		Height: float64(c.rows*4) / c.scale,
	}
}

// Cell returns the cell at col, row. Out of range returns a blank cell.
func (c *Canvas) Cell(col, row int) Cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return Cell{}
	}
	return c.cells[row*c.cols+col]
}

// Draw rasterizes primitives in order.
func (c *Canvas) Draw(prims []gauge.Primitive) {
	if c.scale == 0 {
		return
	}
	for _, p := range prims {
		switch p := p.(type) {
		case gauge.Line:
			c.line(p)
		case gauge.Arc:
			c.arc(p)
		case gauge.Wedge:
			c.wedge(p)
		case gauge.FillRect:
			c.fillRect(p.Bounds, p.Color)
		case gauge.Text:
			c.text(p)
		case gauge.Image:
			if color, ok := c.images[p.Key]; ok {
				c.fillRect(p.Bounds, color)
			}
		}
	}
}

// Render returns the grid as lines of styled text. termenv.Ascii yields plain
// glyphs.
func (c *Canvas) Render(profile termenv.Profile) string {
	lines := make([]string, c.rows)
	for row := 0; row < c.rows; row++ {
		var b strings.Builder
		var run strings.Builder
		var runCell Cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(styled(profile, runCell, run.String()))
			run.Reset()
		}
		for col := 0; col < c.cols; col++ {
			cell := c.cells[row*c.cols+col]
			if run.Len() > 0 && !sameStyle(cell, runCell) {
				flush()
			}
			runCell = cell
			run.WriteRune(cell.Rune())
		}
		flush()
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

func sameStyle(a, b Cell) bool {
	return a.HasFG == b.HasFG && a.HasBG == b.HasBG && a.Bold == b.Bold &&
		(!a.HasFG || a.FG == b.FG) && (!a.HasBG || a.BG == b.BG)
}

func styled(profile termenv.Profile, cell Cell, s string) string {
	if profile == termenv.Ascii {
		return s
	}
	st := profile.String(s)
	if cell.HasFG {
		st = st.Foreground(profile.Color(cell.FG.Hex()))
	}
	if cell.HasBG {
		st = st.Background(profile.Color(cell.BG.Hex()))
	}
	if cell.Bold {
		st = st.Bold()
	}
	return st.String()
}

// dot sets one braille dot in canvas pixel coordinates.
func (c *Canvas) dot(x, y int, color gauge.Color) {
	if x < 0 || y < 0 || x >= c.cols*2 || y >= c.rows*4 {
		return
	}
	cell := &c.cells[(y/4)*c.cols+x/2]
	cell.Dots |= 1 << brailleDots[y%4][x%2]
	cell.FG = color
	cell.HasFG = true
}

// brush stamps a square of side w centered on x, y.
func (c *Canvas) brush(x, y float64, w int, color gauge.Color) {
	off := float64(w-1) / 2
	for dy := 0; dy < w; dy++ {
		for dx := 0; dx < w; dx++ {
			c.dot(int(math.Floor(x-off+float64(dx))), int(math.Floor(y-off+float64(dy))), color)
		}
	}
}

func (c *Canvas) strokeWidth(w float64) int {
	return max(1, int(math.Round(w*c.scale)))
}

func (c *Canvas) line(l gauge.Line) {
	if l.Color.A == 0 {
		return
	}
	x0, y0 := l.From.X*c.scale, l.From.Y*c.scale
	x1, y1 := l.To.X*c.scale, l.To.Y*c.scale
	w := c.strokeWidth(l.Width)

	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))*2)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.brush(x0+(x1-x0)*t, y0+(y1-y0)*t, w, l.Color)
	}
}

func (c *Canvas) arc(a gauge.Arc) {
	if a.Color.A == 0 || a.Sweep == 0 {
		return
	}
	center := a.Bounds.Center()
	cx, cy := center.X*c.scale, center.Y*c.scale
	rx, ry := a.Bounds.Width()/2*c.scale, a.Bounds.Height()/2*c.scale
	w := c.strokeWidth(a.Width)

	step := 0.5 / math.Max(math.Max(rx, ry), 1) * 180 / math.Pi
	sweep := math.Abs(a.Sweep)
	dir := math.Copysign(1, a.Sweep)
	for d := 0.0; ; d += step {
		if d > sweep {
			d = sweep
		}
		rad := (180 - (a.Start + dir*d)) * math.Pi / 180
		c.brush(cx+math.Cos(rad)*rx, cy-math.Sin(rad)*ry, w, a.Color)
		if d == sweep {
			break
		}
	}
}

// wedge fills cells whose center lies inside the slice.
func (c *Canvas) wedge(wd gauge.Wedge) {
	if wd.Color.A == 0 {
		return
	}
	center := wd.Bounds.Center()
	cx, cy := center.X*c.scale, center.Y*c.scale
	rx, ry := wd.Bounds.Width()/2*c.scale, wd.Bounds.Height()/2*c.scale
	if rx <= 0 || ry <= 0 {
		return
	}

	start, sweep := wd.Start, wd.Sweep
	if sweep < 0 {
		start, sweep = start+sweep, -sweep
	}

	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			x := float64(col*2) + 1 - cx
			y := cy - (float64(row*4) + 2)
			if (x/rx)*(x/rx)+(y/ry)*(y/ry) > 1 {
				continue
			}
			if sweep < 360 && !withinSweep(dialAngle(x, y), start, sweep) {
				continue
			}
			c.background(col, row, wd.Color)
		}
	}
}

// dialAngle converts an offset from the center (y up) into dial degrees.
func dialAngle(x, y float64) float64 {
	a := 180 - math.Atan2(y, x)*180/math.Pi
	return math.Mod(a+360, 360)
}

func withinSweep(a, start, sweep float64) bool {
	d := math.Mod(a-start+720, 360)
	return d <= sweep+1e-9
}

func (c *Canvas) fillRect(r gauge.Rect, color gauge.Color) {
	if color.A == 0 {
		return
	}
	for row := 0; row < c.rows; row++ {
		y := float64(row*4) + 2
		if y < r.Top*c.scale || y >= r.Bottom*c.scale {
			continue
		}
		for col := 0; col < c.cols; col++ {
			x := float64(col*2) + 1
			if x < r.Left*c.scale || x >= r.Right*c.scale {
				continue
			}
			c.background(col, row, color)
		}
	}
}

func (c *Canvas) background(col, row int, color gauge.Color) {
	cell := &c.cells[row*c.cols+col]
	cell.BG = color
	cell.HasBG = true
}

// text centers t horizontally on its anchor in the cell row holding the
// baseline. Rotation is ignored: terminal glyphs stay upright.
func (c *Canvas) text(t gauge.Text) {
	if t.Text == "" || c.rows == 0 {
		return
	}
	runes := []rune(t.Text)
	row := int(math.Floor(t.At.Y * c.scale / 4))
	row = min(max(row, 0), c.rows-1)
	col := int(math.Round(t.At.X*c.scale/2)) - len(runes)/2

	for i, r := range runes {
		x := col + i
		if x < 0 || x >= c.cols {
			continue
		}
		cell := &c.cells[row*c.cols+x]
		cell.Text = r
		cell.Bold = t.Bold
		cell.FG = t.Color
		cell.HasFG = true
	}
}

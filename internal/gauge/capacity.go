package gauge

import "math"

// SegmentCount is the number of cells in the capacity bar.
const SegmentCount = 10

const (
	// DefaultCapacity is the percentage shown before the first sample.
	DefaultCapacity = 100.0

	cellPadding = 4.0
	segmentSpan = 100.0 / SegmentCount
)

// SegmentPalette holds each cell's lit color, index 0 (top, green) to 9
// (bottom, red).
var SegmentPalette = [SegmentCount]Color{
	RGB(0, 255, 0),
	RGB(40, 240, 0),
	RGB(80, 230, 0),
	RGB(130, 220, 0),
	RGB(180, 210, 0),
	RGB(220, 220, 0),
	RGB(215, 150, 0),
	RGB(230, 100, 0),
	RGB(245, 50, 0),
	RGB(255, 0, 0),
}

// UnavailableColor paints cells above the current capacity.
var UnavailableColor = RGB(33, 33, 33)

// SegmentState describes how a cell is lit.
type SegmentState int

const (
	SegmentUnavailable SegmentState = iota
	SegmentLit
	SegmentPartial
)

// String returns the segment state name.
func (s SegmentState) String() string {
	switch s {
	case SegmentUnavailable:
		return "unavailable"
	case SegmentLit:
		return "lit"
	case SegmentPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Segment is one cell of the capacity bar.
type Segment struct {
	Index int
	State SegmentState
	// Fill is the lit fraction of the cell measured from its bottom edge.
	Fill  float64
	Color Color
}

// Capacity is a ten-cell LED bar showing a percentage in [0, 100]. Cells fill
// from the bottom (index 9) upward.
type Capacity struct {
	redraw
	percent float64
}

// NewCapacity returns a bar showing 100%.
func NewCapacity() *Capacity {
	return &Capacity{percent: DefaultCapacity}
}

// SetCapacity sets the percentage clamped into [0, 100]. Writing the current
// value does nothing. NaN is ignored.
func (c *Capacity) SetCapacity(p float64) {
	if math.IsNaN(p) {
		return
	}
	p = clamp(p, 0, 100)
	if p == c.percent {
		return
	}
	c.percent = p
	c.invalidate()
}

// Capacity returns the current percentage.
func (c *Capacity) Capacity() float64 {
	return c.percent
}

// FullSegmentCount is the number of completely lit cells.
func (c *Capacity) FullSegmentCount() int {
	return int(math.Floor(c.percent / segmentSpan))
}

// PartialFillFraction is the lit fraction of the boundary cell, in [0, 1).
func (c *Capacity) PartialFillFraction() float64 {
	return (c.percent - float64(c.FullSegmentCount())*segmentSpan) / segmentSpan
}

// boundary returns the index of the partially lit cell, or -1 when the bar is full.
func (c *Capacity) boundary() int {
	return SegmentCount - c.FullSegmentCount() - 1
}

// Segments reports every cell from index 0 (top) to 9 (bottom). A boundary
// cell with nothing lit is reported as unavailable.
func (c *Capacity) Segments() []Segment {
	full := c.FullSegmentCount()
	edge := c.boundary()
	fill := c.PartialFillFraction()

	out := make([]Segment, SegmentCount)
	for i := range out {
		seg := Segment{Index: i, State: SegmentUnavailable, Color: UnavailableColor}
		switch {
		case i >= SegmentCount-full:
			seg.State, seg.Fill, seg.Color = SegmentLit, 1, SegmentPalette[i]
		case i == edge && fill > 0:
			seg.State, seg.Fill, seg.Color = SegmentPartial, fill, SegmentPalette[i]
		}
		out[i] = seg
	}
	return out
}

// Draw lays the bar out on s. Lit cells are drawn bottom up, then unavailable
// cells, then the lit part of the boundary cell over its unavailable fill.
func (c *Capacity) Draw(s Surface) []Primitive {
	return LayoutCapacity(c.percent, s)
}

// LayoutCapacity draws a capacity bar at percent p.
func LayoutCapacity(p float64, s Surface) []Primitive {
	c := Capacity{percent: clamp(p, 0, 100)}
	cw, ch := s.contentSize()
	cellHeight := ch/SegmentCount - cellPadding

	cell := func(i int, top float64, color Color) FillRect {
		y := float64(i) * (cellHeight + cellPadding)
		return FillRect{
			Bounds: Rect{
				Left:   s.Padding.Left,
				Top:    s.Padding.Top + y + top,
				Right:  s.Padding.Left + cw,
				Bottom: s.Padding.Top + y + cellHeight,
			},
			Color: color,
		}
	}

	full := c.FullSegmentCount()
	out := make([]Primitive, 0, SegmentCount+1)
	i := SegmentCount - 1
	for ; i >= SegmentCount-full; i-- {
		out = append(out, cell(i, 0, SegmentPalette[i]))
	}
	for ; i >= 0; i-- {
		out = append(out, cell(i, 0, UnavailableColor))
	}

	if edge := c.boundary(); edge >= 0 {
		if fill := c.PartialFillFraction(); fill > 0 {
			out = append(out, cell(edge, cellHeight*(1-fill), SegmentPalette[edge]))
		}
	}
	return out
}

package gauge

import (
	"math"

	"github.com/rileyhilliard/speedo/internal/errors"
)

// Needle gauge defaults.
const (
	DefaultMaxValue   = 100.0
	DefaultMajorStep  = 20.0
	DefaultMinorTicks = 1
)

// ColoredRange highlights an operating zone on the dial arc.
type ColoredRange struct {
	Begin, End float64
	Color      Color
}

// GaugeState is everything LayoutNeedle needs to draw a needle gauge.
type GaugeState struct {
	Value      float64
	Max        float64
	MajorStep  float64
	MinorTicks int
	Ranges     []ColoredRange
	Title      string
	Labels     LabelFormatter
}

// Needle is an analog dial gauge. The value domain is [0, max].
type Needle struct {
	redraw
	state GaugeState
}

// NewNeedle returns a gauge with max 100, major ticks every 20, one minor
// tick between majors, no title and no tick labels.
func NewNeedle() *Needle {
	return &Needle{state: GaugeState{
		Max:        DefaultMaxValue,
		MajorStep:  DefaultMajorStep,
		MinorTicks: DefaultMinorTicks,
	}}
}

// SetMaxValue sets the top of the scale. The current value is re-clamped.
func (n *Needle) SetMaxValue(v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return errors.Configuration("Gauge max value must be positive, got %g", v)
	}
	n.state.Max = v
	n.state.Value = clamp(n.state.Value, 0, v)
	n.invalidate()
	return nil
}

// MaxValue returns the top of the scale.
func (n *Needle) MaxValue() float64 {
	return n.state.Max
}

// SetValue moves the needle to v clamped into [0, max]. Writing the value the
// gauge already shows does nothing. NaN is ignored.
func (n *Needle) SetValue(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = clamp(v, 0, n.state.Max)
	if v == n.state.Value {
		return
	}
	n.state.Value = v
	n.invalidate()
}

// Value returns the current reading.
func (n *Needle) Value() float64 {
	return n.state.Value
}

// Angle returns the needle's current dial angle.
func (n *Needle) Angle() float64 {
	return NeedleAngle(n.state.Value, n.state.Max)
}

// SetMajorTickStep sets the value distance between labeled ticks.
func (n *Needle) SetMajorTickStep(s float64) error {
	if !(s > 0) || math.IsInf(s, 1) {
		return errors.Configuration("Gauge major tick step must be positive, got %g", s)
	}
	n.state.MajorStep = s
	n.invalidate()
	return nil
}

// SetMinorTicks sets how many minor ticks sit between two major ticks.
func (n *Needle) SetMinorTicks(count int) error {
	if count < 0 {
		return errors.Configuration("Gauge minor tick count cannot be negative, got %d", count)
	}
	n.state.MinorTicks = count
	n.invalidate()
	return nil
}

// AddColoredRange appends a highlighted zone. Bounds are clamped to the dial's
// overscan margin; begin must be below end. Later ranges draw over earlier ones.
func (n *Needle) AddColoredRange(begin, end float64, color Color) error {
	if math.IsNaN(begin) || math.IsNaN(end) || begin >= end {
		return errors.Configuration("Colored range begin (%g) must be below end (%g)", begin, end)
	}
	begin, end = ClampRange(begin, end, n.state.Max)
	n.state.Ranges = append(n.state.Ranges, ColoredRange{Begin: begin, End: end, Color: color})
	n.invalidate()
	return nil
}

// Ranges returns a copy of the configured colored ranges in insertion order.
func (n *Needle) Ranges() []ColoredRange {
	out := make([]ColoredRange, len(n.state.Ranges))
	copy(out, n.state.Ranges)
	return out
}

// SetTitle sets the caption drawn under the dial.
func (n *Needle) SetTitle(title string) {
	if title == n.state.Title {
		return
	}
	n.state.Title = title
	n.invalidate()
}

// Title returns the caption.
func (n *Needle) Title() string {
	return n.state.Title
}

// SetLabelFormatter replaces the tick label formatter. nil hides labels.
func (n *Needle) SetLabelFormatter(f LabelFormatter) {
	n.state.Labels = f
	n.invalidate()
}

// State returns a snapshot of the gauge that later setters do not affect.
func (n *Needle) State() GaugeState {
	st := n.state
	st.Ranges = n.Ranges()
	return st
}

// Draw lays the gauge out on s.
func (n *Needle) Draw(s Surface) []Primitive {
	return LayoutNeedle(n.state, s)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

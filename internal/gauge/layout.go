package gauge

import "math"

// Dial constants. The usable arc is 160 degrees with a 10 degree dead zone on
// each side of the half circle.
const (
	DialStart = 10.0
	DialSweep = 160.0
	DialEnd   = DialStart + DialSweep

	// rangeOverscan is the dead zone expressed as a fraction of the value span.
	rangeOverscan = 5.0 / DialSweep

	majorTickLength = 30.0
	minorTickLength = majorTickLength / 2
	labelGap        = 8.0

	tickRadiusFactor = 0.40
	needleOverhang   = 10.0
	hubFactor        = 0.2
	rangeArcFactor   = 0.8

	tickStroke   = 3.0
	rangeStroke  = 5.0
	needleStroke = 8.0

	// angleEpsilon absorbs float drift when accumulated tick angles land on 170.
	angleEpsilon = 1e-9
)

// DefaultLabelTextSize is the tick label size; titles are drawn four times larger.
const (
	DefaultLabelTextSize = 24.0
	titleSizeMultiplier  = 4.0
)

// Gauge palette.
var (
	NeutralColor     = RGB(150, 150, 150)
	DialFaceColor    = RGB(66, 66, 66)
	HubColor         = RGB(33, 33, 33)
	TitleColor       = RGB(33, 33, 33)
	TickLabelColor   = RGB(255, 255, 255)
	NeedleColor      = ARGB(200, 255, 0, 0)
	OverlayTextColor = RGB(0, 0, 0)
)

// SpotMaskImage is the image key for the radial fade drawn over the dial face.
const SpotMaskImage = "spot_mask"

// Insets is padding around a drawing surface.
type Insets struct {
	Left, Top, Right, Bottom float64
}

// Surface is the area a gauge draws into.
type Surface struct {
	Width, Height float64
	Padding       Insets
}

func (s Surface) contentSize() (float64, float64) {
	return s.Width - s.Padding.Left - s.Padding.Right,
		s.Height - s.Padding.Top - s.Padding.Bottom
}

// Oval returns the reference square for a needle gauge scaled by f. Its side
// is the content width times f; it is centered horizontally and its center sits
// on the bottom edge of the content area, so the upper half circle fills it.
func Oval(s Surface, f float64) Rect {
	cw, ch := s.contentSize()
	side := cw * f
	left := (cw-side)/2 + s.Padding.Left
	top := (ch*2-side)/2 + s.Padding.Top
	return Rect{Left: left, Top: top, Right: left + side, Bottom: top + side}
}

// Measure constrains a needle gauge to width == 2*height. A negative size
// means the side is unconstrained.
func Measure(width, height int) (int, int) {
	switch {
	case width >= 0 && height >= 0:
		w := min(width, height)
		return w, w / 2
	case width >= 0:
		return width, width / 2
	case height >= 0:
		return height * 2, height
	default:
		return 0, 0
	}
}

// NeedleAngle maps a value in [0,max] to a dial angle in [10,170].
func NeedleAngle(value, max float64) float64 {
	return DialStart + value/max*DialSweep
}

// DialPoint returns the point at radius r along dial angle a from center c.
func DialPoint(c Point, r, a float64) Point {
	return Point{
		X: c.X + math.Cos((180-a)/180*math.Pi)*r,
		Y: c.Y - math.Sin(a/180*math.Pi)*r,
	}
}

// Tick is one tick mark on the dial.
type Tick struct {
	Angle float64
	Major bool
	// Value is the scale value of a major tick; zero for minor ticks.
	Value float64
}

// Ticks lists the major and minor ticks for a dial in drawing order. Major
// ticks run every majorStep value units up to 170 degrees; minorTicks minor
// ticks are spaced evenly after each major, except those at or beyond half a
// minor step past the end of the dial.
func Ticks(max, majorStep float64, minorTicks int) []Tick {
	majorAngle := majorStep * DialSweep / max
	minorAngle := majorAngle / float64(1+minorTicks)

	var ticks []Tick
	for k := 0; ; k++ {
		angle := DialStart + float64(k)*majorAngle
		if angle > DialEnd+angleEpsilon {
			break
		}
		ticks = append(ticks, Tick{Angle: angle, Major: true, Value: float64(k) * majorStep})

		for i := 1; i <= minorTicks; i++ {
			a := angle + float64(i)*minorAngle
			if a >= DialEnd+minorAngle/2 {
				break
			}
			ticks = append(ticks, Tick{Angle: a})
		}
	}
	return ticks
}

// RangeArc returns the dial start angle and sweep for a colored range.
func RangeArc(r ColoredRange, max float64) (start, sweep float64) {
	return DialStart + r.Begin/max*DialSweep, (r.End - r.Begin) / max * DialSweep
}

// ClampRange pulls range bounds into the overscan margin around [0,max].
func ClampRange(begin, end, max float64) (float64, float64) {
	if lo := -rangeOverscan * max; begin < lo {
		begin = lo
	}
	if hi := max * (1 + rangeOverscan); end > hi {
		end = hi
	}
	return begin, end
}

// LayoutNeedle turns a needle gauge state into draw primitives: face, title,
// ticks and labels, neutral arc, colored ranges, needle, hub. The output
// depends only on its inputs.
func LayoutNeedle(st GaugeState, s Surface) []Primitive {
	oval := Oval(s, 1)
	center := oval.Center()
	radius := oval.Width() * tickRadiusFactor

	out := []Primitive{
		Wedge{Bounds: oval, Start: 0, Sweep: 180, Color: DialFaceColor},
		Image{Key: SpotMaskImage, Bounds: Rect{
			Left:   oval.Left,
			Top:    oval.Top,
			Right:  oval.Right,
			Bottom: center.Y,
		}},
		Text{
			At:    Point{X: s.Width / 2, Y: s.Height * 7 / 10},
			Text:  st.Title,
			Size:  DefaultLabelTextSize * titleSizeMultiplier,
			Bold:  true,
			Color: TitleColor,
		},
	}

	for _, t := range Ticks(st.Max, st.MajorStep, st.MinorTicks) {
		if !t.Major {
			out = append(out, Line{
				From:  DialPoint(center, radius, t.Angle),
				To:    DialPoint(center, radius+minorTickLength, t.Angle),
				Width: tickStroke,
				Color: NeutralColor,
			})
			continue
		}
		out = append(out, Line{
			From:  DialPoint(center, radius-majorTickLength/2, t.Angle),
			To:    DialPoint(center, radius+majorTickLength/2, t.Angle),
			Width: tickStroke,
			Color: NeutralColor,
		})
		if st.Labels != nil {
			out = append(out, Text{
				At:       DialPoint(center, radius+majorTickLength/2+labelGap, t.Angle),
				Text:     st.Labels.Label(t.Value, st.Max),
				Size:     DefaultLabelTextSize,
				Rotation: math.Mod(270+t.Angle, 360),
				Color:    TickLabelColor,
			})
		}
	}

	arcBounds := Oval(s, rangeArcFactor)
	out = append(out, Arc{
		Bounds: arcBounds,
		Start:  DialStart - 5,
		Sweep:  DialSweep + 10,
		Width:  rangeStroke,
		Color:  NeutralColor,
	})
	for _, r := range st.Ranges {
		start, sweep := RangeArc(r, st.Max)
		out = append(out, Arc{Bounds: arcBounds, Start: start, Sweep: sweep, Width: rangeStroke, Color: r.Color})
	}

	hub := Oval(s, hubFactor)
	angle := NeedleAngle(st.Value, st.Max)
	out = append(out,
		Line{
			From:  DialPoint(center, hub.Width()*0.5, angle),
			To:    DialPoint(center, oval.Width()*tickRadiusFactor+needleOverhang, angle),
			Width: needleStroke,
			Color: NeedleColor,
		},
		Wedge{Bounds: hub, Start: 0, Sweep: 180, Color: HubColor},
	)
	return out
}

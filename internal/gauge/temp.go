package gauge

import (
	"math"
	"strconv"
)

// Image keys for the two stock temperature backgrounds.
const (
	MotorTempImage      = "motor_temp"
	ControllerTempImage = "controller_temp"
)

// TempOverlay shows a Fahrenheit reading over a background image. The image is
// configuration, so motor and controller readouts share this one type.
type TempOverlay struct {
	redraw
	image string
	temp  float64
}

// NewTempOverlay returns an overlay drawing on the image identified by key.
func NewTempOverlay(key string) *TempOverlay {
	return &TempOverlay{image: key}
}

// SetTemp updates the reading. Writing the current reading does nothing.
// NaN is ignored.
func (t *TempOverlay) SetTemp(v float64) {
	if math.IsNaN(v) || v == t.temp {
		return
	}
	t.temp = v
	t.invalidate()
}

// Temp returns the current reading.
func (t *TempOverlay) Temp() float64 {
	return t.temp
}

// Image returns the background image key.
func (t *TempOverlay) Image() string {
	return t.image
}

// Text returns the overlay caption, e.g. "150°F".
func (t *TempOverlay) Text() string {
	return FormatFahrenheit(t.temp)
}

// Draw lays the overlay out on s: the image stretched over the whole surface,
// then the caption centered at 60% of the height.
func (t *TempOverlay) Draw(s Surface) []Primitive {
	return []Primitive{
		Image{Key: t.image, Bounds: Rect{Right: s.Width, Bottom: s.Height}},
		Text{
			At:    Point{X: s.Width / 2, Y: s.Height * 6 / 10},
			Text:  t.Text(),
			Size:  DefaultLabelTextSize,
			Color: OverlayTextColor,
		},
	}
}

// FormatFahrenheit renders a temperature with the shortest exact decimal form.
func FormatFahrenheit(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "°F"
}

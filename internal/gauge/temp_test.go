package gauge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempOverlay(t *testing.T) {
	tests := []struct {
		name  string
		image string
		temp  float64
		want  string
	}{
		{name: "motor", image: MotorTempImage, temp: 150, want: "150°F"},
		{name: "controller", image: ControllerTempImage, temp: 72.5, want: "72.5°F"},
		{name: "custom image", image: "battery_temp", temp: -4, want: "-4°F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewTempOverlay(tt.image)
			o.SetTemp(tt.temp)

			assert.Equal(t, tt.image, o.Image())
			assert.Equal(t, tt.want, o.Text())

			prims := o.Draw(Surface{Width: 200, Height: 100})
			require.Len(t, prims, 2)

			img := prims[0].(Image)
			assert.Equal(t, tt.image, img.Key)
			assert.Equal(t, Rect{Right: 200, Bottom: 100}, img.Bounds)

			text := prims[1].(Text)
			assert.Equal(t, tt.want, text.Text)
			assert.Equal(t, Point{X: 100, Y: 60}, text.At)
			assert.Equal(t, OverlayTextColor, text.Color)
		})
	}
}

func TestTempOverlay_RedrawOnlyOnChange(t *testing.T) {
	o := NewTempOverlay(MotorTempImage)
	calls := 0
	o.OnInvalidate(func() { calls++ })

	o.SetTemp(0)
	assert.Equal(t, 0, calls, "default reading is 0")

	o.SetTemp(180)
	o.SetTemp(180)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 180.0, o.Temp())
}

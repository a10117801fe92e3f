package dashboard

import (
	"testing"

	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/gauge"
	"github.com/rileyhilliard/speedo/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCluster_Defaults(t *testing.T) {
	c, err := NewCluster(config.DefaultConfig().Gauges)
	require.NoError(t, err)

	assert.Equal(t, 600.0, c.Amps.MaxValue())
	assert.Equal(t, "Amps", c.Amps.Title())
	assert.Len(t, c.Amps.Ranges(), 3)
	assert.Equal(t, 300.0, c.RPM.MaxValue())
	assert.Equal(t, "RPM", c.RPM.Title())
	assert.Equal(t, gauge.MotorTempImage, c.Motor.Image())
	assert.Equal(t, gauge.ControllerTempImage, c.Controller.Image())
	assert.Equal(t, "Motor", c.MotorLabel)

	st := c.Amps.State()
	require.NotNil(t, st.Labels)
	assert.Equal(t, "600", st.Labels.Label(600, 600))
}

func TestNewCluster_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.GaugesConfig)
		code   string
	}{
		{
			name:   "zero max",
			mutate: func(g *config.GaugesConfig) { g.Amps.Max = 0 },
			code:   errors.ErrGauge,
		},
		{
			name:   "negative step",
			mutate: func(g *config.GaugesConfig) { g.RPM.MajorStep = -5 },
			code:   errors.ErrGauge,
		},
		{
			name:   "inverted range",
			mutate: func(g *config.GaugesConfig) { g.Amps.Ranges[0] = config.RangeConfig{From: 300, To: 100, Color: "red"} },
			code:   errors.ErrGauge,
		},
		{
			name:   "unknown color",
			mutate: func(g *config.GaugesConfig) { g.RPM.Ranges[1].Color = "mauve" },
			code:   errors.ErrConfig,
		},
		{
			name:   "unknown labels",
			mutate: func(g *config.GaugesConfig) { g.Amps.Labels = "roman" },
			code:   errors.ErrConfig,
		},
		{
			name:   "zero full volts",
			mutate: func(g *config.GaugesConfig) { g.Capacity.FullVolts = 0 },
			code:   errors.ErrGauge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := config.DefaultConfig().Gauges
			tt.mutate(&g)

			_, err := NewCluster(g)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestCluster_Apply(t *testing.T) {
	c, err := NewCluster(config.DefaultConfig().Gauges)
	require.NoError(t, err)

	c.Apply(telemetry.Reading{Volts: 96, Amps: 900, RPM: 120, MotorTempF: 150, ControllerTempF: 110})

	assert.Equal(t, 600.0, c.Amps.Value(), "amps clamp to the dial max")
	assert.Equal(t, 120.0, c.RPM.Value())
	assert.Equal(t, 80.0, c.Capacity.Capacity())
	assert.Equal(t, "150°F", c.Motor.Text())
	assert.Equal(t, "110°F", c.Controller.Text())
}

func TestCluster_GenerationTracksChanges(t *testing.T) {
	c, err := NewCluster(config.DefaultConfig().Gauges)
	require.NoError(t, err)

	r := telemetry.Reading{Volts: 60, Amps: 100, RPM: 50, MotorTempF: 80, ControllerTempF: 70}
	c.Apply(r)
	gen := c.Generation()

	c.Apply(r)
	assert.Equal(t, gen, c.Generation(), "identical readings do not invalidate")

	r.RPM = 51
	c.Apply(r)
	assert.Greater(t, c.Generation(), gen)
}

func TestCapacityFromVolts(t *testing.T) {
	tests := []struct {
		volts, full, want float64
	}{
		{120, 120, 100},
		{0, 120, 0},
		{54, 120, 45},
		{60.5, 120, 50},
		{139, 120, 116},
		{50, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CapacityFromVolts(tt.volts, tt.full), "volts %g full %g", tt.volts, tt.full)
	}
}

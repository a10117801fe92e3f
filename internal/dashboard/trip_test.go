package dashboard

import (
	"testing"
	"time"

	"github.com/rileyhilliard/speedo/internal/telemetry"
	"github.com/stretchr/testify/assert"
)

func sampleAt(at time.Time, volts, amps float64) telemetry.Sample {
	return telemetry.Sample{Reading: telemetry.Reading{Volts: volts, Amps: amps}, At: at}
}

func TestTrip_Trapezoidal(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var trip Trip

	trip.Add(sampleAt(start, 100, 0))
	assert.Zero(t, trip.AmpHours(), "first sample only sets the reference")
	assert.Equal(t, start, trip.Started())

	// 0 A -> 36 A over 10 s averages 18 A: 18 * 10/3600 = 0.05 Ah.
	trip.Add(sampleAt(start.Add(10*time.Second), 100, 36))
	assert.InDelta(t, 0.05, trip.AmpHours(), 1e-9)
	assert.InDelta(t, 5.0, trip.WattHours(), 1e-9)

	// Steady 36 A at 100 V for another 5 s.
	trip.Add(sampleAt(start.Add(15*time.Second), 100, 36))
	assert.InDelta(t, 0.1, trip.AmpHours(), 1e-9)
	assert.InDelta(t, 10.0, trip.WattHours(), 1e-9)
}

func TestTrip_SkipsGapsAndReorders(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var trip Trip

	trip.Add(sampleAt(start, 100, 50))
	trip.Add(sampleAt(start.Add(time.Minute), 100, 50))
	assert.Zero(t, trip.AmpHours(), "a reconnect gap is not integrated")

	trip.Add(sampleAt(start.Add(59*time.Second), 100, 50))
	assert.Zero(t, trip.AmpHours(), "samples going back in time are not integrated")
}

func TestTrip_Reset(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var trip Trip

	trip.Add(sampleAt(start, 100, 36))
	trip.Add(sampleAt(start.Add(time.Second), 100, 36))
	assert.Positive(t, trip.AmpHours())

	trip.Reset()
	assert.Zero(t, trip.AmpHours())
	assert.Zero(t, trip.WattHours())
	assert.True(t, trip.Started().IsZero())

	later := start.Add(2 * time.Second)
	trip.Add(sampleAt(later, 100, 36))
	assert.Zero(t, trip.AmpHours(), "the first sample after a reset starts a new trip")
	assert.Equal(t, later, trip.Started())
}

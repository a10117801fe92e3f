package dashboard

import (
	"time"

	"github.com/rileyhilliard/speedo/internal/telemetry"
)

// maxTripGap drops the integration step across a longer silence, such as a
// reconnect, instead of smearing one reading over the whole outage.
const maxTripGap = 10 * time.Second

// Trip integrates charge and energy over consecutive samples with the
// trapezoidal rule.
type Trip struct {
	ampHours  float64
	wattHours float64
	started   time.Time
	last      *telemetry.Sample
}

// Add folds one sample into the totals. Samples that do not move forward in
// time only become the new reference point.
func (t *Trip) Add(s telemetry.Sample) {
	if t.last != nil {
		dt := s.At.Sub(t.last.At)
		if dt > 0 && dt <= maxTripGap {
			hours := dt.Hours()
			t.ampHours += (t.last.Amps + s.Amps) / 2 * hours
			t.wattHours += (t.last.Watts() + s.Watts()) / 2 * hours
		}
	} else if t.started.IsZero() {
		t.started = s.At
	}
	t.last = &s
}

// AmpHours returns the charge drawn since the last reset.
func (t *Trip) AmpHours() float64 {
	return t.ampHours
}

// WattHours returns the energy drawn since the last reset.
func (t *Trip) WattHours() float64 {
	return t.wattHours
}

// Started returns when the trip began, or the zero time before any sample.
func (t *Trip) Started() time.Time {
	return t.started
}

// Reset zeroes the totals. The next sample starts a new trip.
func (t *Trip) Reset() {
	*t = Trip{}
}

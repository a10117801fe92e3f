package telemetry

import "time"

// Reading is the payload of one wire record.
type Reading struct {
	Volts           float64
	Amps            float64
	RPM             float64
	MotorTempF      float64
	ControllerTempF float64
}

// Watts is the instantaneous electrical power.
func (r Reading) Watts() float64 {
	return r.Volts * r.Amps
}

// Sample is a reading stamped by the worker. Samples are values and are never
// modified after creation.
type Sample struct {
	Reading

	// Seq increases by one for every sample a worker produces, across reconnects.
	Seq uint64
	// At is when the worker received the record.
	At time.Time
}

package dashboard

import (
	"fmt"
	"math"

	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/gauge"
	"github.com/rileyhilliard/speedo/internal/telemetry"
)

// Cluster holds the gauge models shown on the dashboard. It is owned by the
// UI goroutine; nothing else calls its setters.
type Cluster struct {
	Amps       *gauge.Needle
	RPM        *gauge.Needle
	Capacity   *gauge.Capacity
	Motor      *gauge.TempOverlay
	Controller *gauge.TempOverlay

	MotorLabel      string
	ControllerLabel string

	fullVolts float64
}

// NewCluster builds and configures every gauge. Any invalid gauge setting
// fails the whole cluster.
func NewCluster(cfg config.GaugesConfig) (*Cluster, error) {
	amps, err := newNeedle("amps", cfg.Amps)
	if err != nil {
		return nil, err
	}
	rpm, err := newNeedle("rpm", cfg.RPM)
	if err != nil {
		return nil, err
	}

	full := cfg.Capacity.FullVolts
	if !(full > 0) {
		return nil, errors.Configuration("gauges.capacity.full_volts must be positive, got %g", full)
	}

	return &Cluster{
		Amps:            amps,
		RPM:             rpm,
		Capacity:        gauge.NewCapacity(),
		Motor:           gauge.NewTempOverlay(cfg.MotorTemp.Image),
		Controller:      gauge.NewTempOverlay(cfg.ControllerTemp.Image),
		MotorLabel:      cfg.MotorTemp.Label,
		ControllerLabel: cfg.ControllerTemp.Label,
		fullVolts:       full,
	}, nil
}

func newNeedle(name string, cfg config.NeedleConfig) (*gauge.Needle, error) {
	n := gauge.NewNeedle()
	n.SetTitle(cfg.Title)

	if err := n.SetMaxValue(cfg.Max); err != nil {
		return nil, gaugeError(err, name)
	}
	if err := n.SetMajorTickStep(cfg.MajorStep); err != nil {
		return nil, gaugeError(err, name)
	}
	if err := n.SetMinorTicks(cfg.MinorTicks); err != nil {
		return nil, gaugeError(err, name)
	}

	labels, err := gauge.LabelFormatterByName(cfg.Labels)
	if err != nil {
		return nil, err
	}
	n.SetLabelFormatter(labels)

	for i, r := range cfg.Ranges {
		color, err := gauge.ParseColor(r.Color)
		if err != nil {
			return nil, err
		}
		if err := n.AddColoredRange(r.From, r.To, color); err != nil {
			return nil, gaugeError(err, fmt.Sprintf("%s range %d", name, i))
		}
	}
	return n, nil
}

func gaugeError(err error, name string) error {
	return errors.WrapWithCode(err, errors.ErrGauge,
		fmt.Sprintf("Gauge %s is misconfigured", name),
		"Check the gauges section of your .speedo.yaml")
}

// Apply pushes one reading into every gauge.
func (c *Cluster) Apply(r telemetry.Reading) {
	c.Amps.SetValue(r.Amps)
	c.RPM.SetValue(r.RPM)
	c.Capacity.SetCapacity(CapacityFromVolts(r.Volts, c.fullVolts))
	c.Motor.SetTemp(r.MotorTempF)
	c.Controller.SetTemp(r.ControllerTempF)
}

// Generation sums the models' redraw counters; it changes whenever any
// gauge needs repainting.
func (c *Cluster) Generation() uint64 {
	return c.Amps.Generation() + c.RPM.Generation() + c.Capacity.Generation() +
		c.Motor.Generation() + c.Controller.Generation()
}

// CapacityFromVolts maps pack voltage to a whole percentage of full.
func CapacityFromVolts(volts, full float64) float64 {
	if !(full > 0) {
		return 0
	}
	return math.Round(volts / full * 100)
}

// Package chart renders recorded telemetry as PNG trend charts.
package chart

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/telemetry"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Metric is one plottable quantity.
type Metric struct {
	Name  string
	Unit  string
	Color drawing.Color
	Value func(telemetry.Reading) float64
}

var metrics = map[string]Metric{
	"volts": {Name: "Volts", Unit: "V", Color: gochart.ColorBlue,
		Value: func(r telemetry.Reading) float64 { return r.Volts }},
	"amps": {Name: "Amps", Unit: "A", Color: gochart.ColorRed,
		Value: func(r telemetry.Reading) float64 { return r.Amps }},
	"rpm": {Name: "RPM", Unit: "rpm", Color: gochart.ColorGreen,
		Value: func(r telemetry.Reading) float64 { return r.RPM }},
	"kw": {Name: "Power", Unit: "kW", Color: gochart.ColorOrange,
		Value: func(r telemetry.Reading) float64 { return r.Watts() / 1000 }},
	"motor_temp": {Name: "Motor", Unit: "°F", Color: gochart.ColorAlternateGray,
		Value: func(r telemetry.Reading) float64 { return r.MotorTempF }},
	"controller_temp": {Name: "Controller", Unit: "°F", Color: gochart.ColorBlack,
		Value: func(r telemetry.Reading) float64 { return r.ControllerTempF }},
}

// DefaultMetrics are plotted when none are requested.
var DefaultMetrics = []string{"volts", "amps", "rpm"}

// MetricNames lists the accepted metric keys.
func MetricNames() []string {
	names := make([]string, 0, len(metrics))
	for k := range metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Options controls the rendered image.
type Options struct {
	Title   string
	Metrics []string
	Width   int
	Height  int
	// YMax fixes the top of the y axis; zero lets go-chart fit the data.
	YMax float64
}

// Render plots samples as one time series per metric and writes a PNG to w.
func Render(w io.Writer, samples []telemetry.Sample, opts Options) error {
	if len(samples) == 0 {
		return errors.New(errors.ErrExport, "Nothing to plot: the session has no samples", "")
	}
	if len(opts.Metrics) == 0 {
		opts.Metrics = DefaultMetrics
	}
	if opts.Width <= 0 {
		opts.Width = 1200
	}
	if opts.Height <= 0 {
		opts.Height = 500
	}

	series := make([]gochart.Series, 0, len(opts.Metrics))
	for _, key := range opts.Metrics {
		m, ok := metrics[strings.ToLower(key)]
		if !ok {
			return errors.New(errors.ErrExport,
				fmt.Sprintf("Unknown metric '%s'", key),
				"Pick from: "+strings.Join(MetricNames(), ", "))
		}
		series = append(series, timeSeries(m, samples))
	}

	ch := gochart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      gochart.XAxis{ValueFormatter: gochart.TimeMinuteValueFormatter},
		YAxis:      gochart.YAxis{},
		Series:     series,
	}
	if opts.YMax > 0 {
		ch.YAxis.Range = &gochart.ContinuousRange{Min: 0, Max: opts.YMax}
	} else if lo, hi := bounds(series); lo == hi {
		// go-chart rejects a zero-height y range.
		ch.YAxis.Range = &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	if err := ch.Render(gochart.PNG, w); err != nil {
		return errors.WrapWithCode(err, errors.ErrExport, "Couldn't render the chart", "")
	}
	return nil
}

// timeSeries builds one series. A single sample is stretched to one second
// because go-chart cannot scale a zero-width x range.
func timeSeries(m Metric, samples []telemetry.Sample) gochart.TimeSeries {
	xs := make([]time.Time, 0, len(samples)+1)
	ys := make([]float64, 0, len(samples)+1)
	for _, s := range samples {
		xs = append(xs, s.At)
		ys = append(ys, m.Value(s.Reading))
	}
	if len(samples) == 1 {
		xs = append(xs, xs[0].Add(time.Second))
		ys = append(ys, ys[0])
	}

	return gochart.TimeSeries{
		Name:    fmt.Sprintf("%s (%s)", m.Name, m.Unit),
		XValues: xs,
		YValues: ys,
		Style:   gochart.Style{StrokeColor: m.Color, StrokeWidth: 2},
	}
}

func bounds(series []gochart.Series) (lo, hi float64) {
	first := true
	for _, s := range series {
		ts, ok := s.(gochart.TimeSeries)
		if !ok {
			continue
		}
		for _, y := range ts.YValues {
			if first || y < lo {
				lo = y
			}
			if first || y > hi {
				hi = y
			}
			first = false
		}
	}
	return lo, hi
}

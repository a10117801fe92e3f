package config

import (
	"testing"
	"time"

	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Validate(DefaultConfig()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "future version",
			mutate:  func(c *Config) { c.Version = CurrentConfigVersion + 1 },
			wantMsg: "from the future",
		},
		{
			name:    "unknown link type",
			mutate:  func(c *Config) { c.Link.Type = "bluetooth" },
			wantMsg: "link.type 'bluetooth'",
		},
		{
			name:    "serial without baud",
			mutate:  func(c *Config) { c.Link.Baud = 0 },
			wantMsg: "link.baud",
		},
		{
			name:    "tcp without address",
			mutate:  func(c *Config) { c.Link.Type = LinkTCP },
			wantMsg: "link.address is required",
		},
		{
			name: "tcp without port",
			mutate: func(c *Config) {
				c.Link.Type = LinkTCP
				c.Link.Address = "relay.local"
			},
			wantMsg: "needs a port",
		},
		{
			name: "ssh without command",
			mutate: func(c *Config) {
				c.Link.Type = LinkSSH
				c.Link.Address = "bike"
				c.Link.Command = " "
			},
			wantMsg: "link.command",
		},
		{
			name:    "zero backoff",
			mutate:  func(c *Config) { c.Link.Backoff = 0 },
			wantMsg: "link.backoff",
		},
		{
			name: "nothing to connect to",
			mutate: func(c *Config) {
				c.Link.Peer = ""
				c.Link.Address = ""
			},
			wantMsg: "link.peer or link.address",
		},
		{
			name:    "zero tick",
			mutate:  func(c *Config) { c.Dashboard.Tick = 0 },
			wantMsg: "dashboard.tick",
		},
		{
			name:    "tiny trend",
			mutate:  func(c *Config) { c.Dashboard.TrendPoints = 1 },
			wantMsg: "trend_points",
		},
		{
			name:    "bad color mode",
			mutate:  func(c *Config) { c.Dashboard.Color = "sometimes" },
			wantMsg: "dashboard.color",
		},
		{
			name:    "negative max",
			mutate:  func(c *Config) { c.Gauges.Amps.Max = -1 },
			wantMsg: "gauges.amps.max",
		},
		{
			name:    "zero step",
			mutate:  func(c *Config) { c.Gauges.RPM.MajorStep = 0 },
			wantMsg: "gauges.rpm.major_step",
		},
		{
			name: "too many major ticks",
			mutate: func(c *Config) {
				c.Gauges.Amps.Max = 600
				c.Gauges.Amps.MajorStep = 0.0001
			},
			wantMsg: "more than 1000 major ticks",
		},
		{
			name:    "too many minor ticks",
			mutate:  func(c *Config) { c.Gauges.RPM.MinorTicks = 5000 },
			wantMsg: "gauges.rpm.minor_ticks",
		},
		{
			name:    "unknown labels",
			mutate:  func(c *Config) { c.Gauges.RPM.Labels = "roman" },
			wantMsg: "gauges.rpm.labels",
		},
		{
			name: "inverted range",
			mutate: func(c *Config) {
				c.Gauges.Amps.Ranges = []RangeConfig{{From: 10, To: 5, Color: "red"}}
			},
			wantMsg: "ranges[0] ends",
		},
		{
			name: "unknown range color",
			mutate: func(c *Config) {
				c.Gauges.Amps.Ranges = []RangeConfig{{From: 0, To: 5, Color: "mauve"}}
			},
			wantMsg: "ranges[0].color",
		},
		{
			name:    "capacity scale",
			mutate:  func(c *Config) { c.Gauges.Capacity.FullVolts = 0 },
			wantMsg: "full_volts",
		},
		{
			name: "recorder batch",
			mutate: func(c *Config) {
				c.Recorder.Enabled = true
				c.Recorder.BatchSize = 0
			},
			wantMsg: "batch_size",
		},
		{
			name: "recorder timeout",
			mutate: func(c *Config) {
				c.Recorder.Enabled = true
				c.Recorder.BatchTimeout = -time.Second
			},
			wantMsg: "batch_timeout",
		},
		{
			name:    "log level",
			mutate:  func(c *Config) { c.Log.Level = "chatty" },
			wantMsg: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_DisabledRecorderSkipsChecks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Recorder.BatchSize = 0
	assert.NoError(t, Validate(cfg))
}

func TestValidate_SimLink(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Link.Type = LinkSim
	assert.NoError(t, Validate(cfg))

	cfg.Link.Interval = 0
	assert.Error(t, Validate(cfg))
}

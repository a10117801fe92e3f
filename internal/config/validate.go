package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/gauge"
	"github.com/rs/zerolog"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but speedo only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest speedo release")
	}

	checks := []struct {
		section string
		err     error
	}{
		{"link", validateLink(cfg.Link)},
		{"dashboard", validateDashboard(cfg.Dashboard)},
		{"gauges", validateGauges(cfg.Gauges)},
		{"recorder", validateRecorder(cfg.Recorder)},
		{"log", validateLog(cfg.Log)},
	}
	for _, c := range checks {
		if c.err != nil {
			return errors.WrapWithCode(c.err, errors.ErrConfig, c.err.Error(),
				fmt.Sprintf("Check the '%s' section in your %s.", c.section, ConfigFileName))
		}
	}
	return nil
}

func validateLink(l LinkConfig) error {
	switch l.Type {
	case LinkSerial:
		if l.Baud <= 0 {
			return fmt.Errorf("link.baud must be positive for serial links, got %d", l.Baud)
		}
	case LinkTCP:
		if l.Address == "" {
			return fmt.Errorf("link.address is required for tcp links - use host:port")
		}
		if !strings.Contains(l.Address, ":") {
			return fmt.Errorf("link.address '%s' needs a port - use host:port", l.Address)
		}
	case LinkSSH:
		if l.Address == "" {
			return fmt.Errorf("link.address is required for ssh links - use an ssh alias or user@host")
		}
		if strings.TrimSpace(l.Command) == "" {
			return fmt.Errorf("link.command is required for ssh links")
		}
	case LinkSim:
		if l.Interval <= 0 {
			return fmt.Errorf("link.interval must be positive for sim links")
		}
	default:
		return fmt.Errorf("link.type '%s' isn't valid - use serial, tcp, ssh, or sim", l.Type)
	}

	if strings.TrimSpace(l.Peer) == "" && l.Address == "" {
		return fmt.Errorf("set link.peer or link.address so speedo knows what to connect to")
	}
	if l.Backoff <= 0 {
		return fmt.Errorf("link.backoff must be positive, got %v", l.Backoff)
	}
	if l.Timeout < 0 {
		return fmt.Errorf("link.timeout can't be negative")
	}
	return nil
}

func validateDashboard(d DashboardConfig) error {
	if d.Tick <= 0 {
		return fmt.Errorf("dashboard.tick must be positive, got %v", d.Tick)
	}
	if d.TrendPoints < 2 {
		return fmt.Errorf("dashboard.trend_points must be at least 2, got %d", d.TrendPoints)
	}
	if d.TrendMax <= 0 {
		return fmt.Errorf("dashboard.trend_max must be positive")
	}
	switch d.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("dashboard.color '%s' isn't valid - use 'auto', 'always', or 'never'", d.Color)
	}
	return nil
}

func validateGauges(g GaugesConfig) error {
	if err := validateNeedle("gauges.amps", g.Amps); err != nil {
		return err
	}
	if err := validateNeedle("gauges.rpm", g.RPM); err != nil {
		return err
	}
	if g.Capacity.FullVolts <= 0 {
		return fmt.Errorf("gauges.capacity.full_volts must be positive")
	}
	return nil
}

// Tick limits keep a dial's layout small enough to redraw on every tick.
const (
	maxMajorTicks = 1000
	maxMinorTicks = 100
)

func validateNeedle(name string, n NeedleConfig) error {
	if n.Max <= 0 {
		return fmt.Errorf("%s.max must be positive, got %g", name, n.Max)
	}
	if n.MajorStep <= 0 {
		return fmt.Errorf("%s.major_step must be positive, got %g", name, n.MajorStep)
	}
	if n.MinorTicks < 0 {
		return fmt.Errorf("%s.minor_ticks can't be negative", name)
	}
	if n.Max/n.MajorStep > maxMajorTicks {
		return fmt.Errorf("%s.major_step %g gives more than %d major ticks up to %g - use a step of at least %g",
			name, n.MajorStep, maxMajorTicks, n.Max, n.Max/maxMajorTicks)
	}
	if n.MinorTicks > maxMinorTicks {
		return fmt.Errorf("%s.minor_ticks can't be more than %d, got %d", name, maxMinorTicks, n.MinorTicks)
	}
	if _, err := gauge.LabelFormatterByName(n.Labels); err != nil {
		return fmt.Errorf("%s.labels '%s' isn't valid - use round, percent, or none", name, n.Labels)
	}
	for i, r := range n.Ranges {
		if r.To <= r.From {
			return fmt.Errorf("%s.ranges[%d] ends (%g) before it starts (%g)", name, i, r.To, r.From)
		}
		if _, err := gauge.ParseColor(r.Color); err != nil {
			return fmt.Errorf("%s.ranges[%d].color '%s' isn't a known color", name, i, r.Color)
		}
	}
	return nil
}

func validateRecorder(r RecorderConfig) error {
	if !r.Enabled {
		return nil
	}
	if r.Path == "" {
		return fmt.Errorf("recorder.path is required when recording is enabled")
	}
	if r.BatchSize <= 0 {
		return fmt.Errorf("recorder.batch_size must be positive, got %d", r.BatchSize)
	}
	if r.BatchTimeout <= 0 {
		return fmt.Errorf("recorder.batch_timeout must be positive")
	}
	return nil
}

func validateLog(l LogConfig) error {
	if l.Level != "" {
		if _, err := zerolog.ParseLevel(l.Level); err != nil {
			return fmt.Errorf("log.level '%s' isn't valid - try debug, info, warn, or error", l.Level)
		}
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation settings can't be negative")
	}
	return nil
}

package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Link types.
const (
	LinkSerial = "serial"
	LinkTCP    = "tcp"
	LinkSSH    = "ssh"
	LinkSim    = "sim"
)

// Config represents the complete .speedo.yaml configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	Link      LinkConfig      `yaml:"link" mapstructure:"link"`
	Dashboard DashboardConfig `yaml:"dashboard,omitempty" mapstructure:"dashboard"`
	Gauges    GaugesConfig    `yaml:"gauges,omitempty" mapstructure:"gauges"`
	Recorder  RecorderConfig  `yaml:"recorder,omitempty" mapstructure:"recorder"`
	Log       LogConfig       `yaml:"log,omitempty" mapstructure:"log"`
}

// LinkConfig selects how telemetry reaches the dashboard.
type LinkConfig struct {
	// Type is one of serial, tcp, ssh, or sim.
	Type string `yaml:"type" mapstructure:"type"`

	// Peer is the device name (or address) the worker connects to.
	Peer string `yaml:"peer,omitempty" mapstructure:"peer"`

	// Address is a serial port path, a host:port, or an ssh host/alias.
	Address string `yaml:"address,omitempty" mapstructure:"address"`

	// Baud is the serial line rate.
	Baud int `yaml:"baud,omitempty" mapstructure:"baud"`

	// Command runs on the ssh host and must print records to stdout.
	Command string `yaml:"command,omitempty" mapstructure:"command"`

	// Backoff is the fixed delay between connection attempts.
	Backoff time.Duration `yaml:"backoff,omitempty" mapstructure:"backoff"`

	// Timeout bounds a single dial.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`

	// Interval is the sim source's emit period.
	Interval time.Duration `yaml:"interval,omitempty" mapstructure:"interval"`

	SSH SSHConfig `yaml:"ssh,omitempty" mapstructure:"ssh"`
}

// SSHConfig holds ssh transport options.
type SSHConfig struct {
	IdentityFile string `yaml:"identity_file,omitempty" mapstructure:"identity_file"`
	Insecure     bool   `yaml:"insecure,omitempty" mapstructure:"insecure"`
}

// DashboardConfig controls the terminal dashboard.
type DashboardConfig struct {
	// Tick is how often the UI drains the latest sample.
	Tick time.Duration `yaml:"tick,omitempty" mapstructure:"tick"`

	// TrendPoints is the size of the volts trend window.
	TrendPoints int `yaml:"trend_points,omitempty" mapstructure:"trend_points"`

	// TrendMax is the top of the trend's y range.
	TrendMax float64 `yaml:"trend_max,omitempty" mapstructure:"trend_max"`

	// Color mode: "auto", "always", or "never".
	Color string `yaml:"color,omitempty" mapstructure:"color"`

	// AutoConnect starts the worker when the dashboard opens.
	AutoConnect bool `yaml:"auto_connect,omitempty" mapstructure:"auto_connect"`
}

// GaugesConfig configures every gauge in the cluster.
type GaugesConfig struct {
	Amps           NeedleConfig   `yaml:"amps" mapstructure:"amps"`
	RPM            NeedleConfig   `yaml:"rpm" mapstructure:"rpm"`
	Capacity       CapacityConfig `yaml:"capacity" mapstructure:"capacity"`
	MotorTemp      TempConfig     `yaml:"motor_temp" mapstructure:"motor_temp"`
	ControllerTemp TempConfig     `yaml:"controller_temp" mapstructure:"controller_temp"`
}

// NeedleConfig configures a dial gauge.
type NeedleConfig struct {
	Title      string        `yaml:"title" mapstructure:"title"`
	Max        float64       `yaml:"max" mapstructure:"max"`
	MajorStep  float64       `yaml:"major_step" mapstructure:"major_step"`
	MinorTicks int           `yaml:"minor_ticks" mapstructure:"minor_ticks"`
	Labels     string        `yaml:"labels" mapstructure:"labels"`
	Ranges     []RangeConfig `yaml:"ranges" mapstructure:"ranges"`
}

// RangeConfig is one colored band on a dial.
type RangeConfig struct {
	From  float64 `yaml:"from" mapstructure:"from"`
	To    float64 `yaml:"to" mapstructure:"to"`
	Color string  `yaml:"color" mapstructure:"color"`
}

// CapacityConfig maps pack voltage to percent.
type CapacityConfig struct {
	// FullVolts is the voltage reported as 100%.
	FullVolts float64 `yaml:"full_volts" mapstructure:"full_volts"`
}

// TempConfig configures a temperature overlay.
type TempConfig struct {
	Label string `yaml:"label" mapstructure:"label"`
	Image string `yaml:"image" mapstructure:"image"`
}

// RecorderConfig controls SQLite recording of consumed samples.
type RecorderConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Path         string        `yaml:"path" mapstructure:"path"`
	BatchSize    int           `yaml:"batch_size" mapstructure:"batch_size"`
	BatchTimeout time.Duration `yaml:"batch_timeout" mapstructure:"batch_timeout"`
}

// LogConfig controls the log file used while the dashboard owns the terminal.
type LogConfig struct {
	File       string `yaml:"file" mapstructure:"file"`
	Level      string `yaml:"level" mapstructure:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Link: LinkConfig{
			Type:     LinkSerial,
			Peer:     "CAN Relay",
			Baud:     115200,
			Command:  "speedo-relay --stdout",
			Backoff:  3 * time.Second,
			Timeout:  5 * time.Second,
			Interval: time.Second,
		},
		Dashboard: DashboardConfig{
			Tick:        100 * time.Millisecond,
			TrendPoints: 40,
			TrendMax:    160,
			Color:       "auto",
			AutoConnect: true,
		},
		Gauges: GaugesConfig{
			Amps: NeedleConfig{
				Title:      "Amps",
				Max:        600,
				MajorStep:  100,
				MinorTicks: 3,
				Labels:     "round",
				Ranges: []RangeConfig{
					{From: 0, To: 400, Color: "green"},
					{From: 400, To: 500, Color: "yellow"},
					{From: 500, To: 600, Color: "red"},
				},
			},
			RPM: NeedleConfig{
				Title:      "RPM",
				Max:        300,
				MajorStep:  50,
				MinorTicks: 3,
				Labels:     "round",
				Ranges: []RangeConfig{
					{From: 30, To: 140, Color: "green"},
					{From: 140, To: 180, Color: "yellow"},
					{From: 180, To: 400, Color: "red"},
				},
			},
			Capacity:       CapacityConfig{FullVolts: 120},
			MotorTemp:      TempConfig{Label: "Motor", Image: "motor_temp"},
			ControllerTemp: TempConfig{Label: "Controller", Image: "controller_temp"},
		},
		Recorder: RecorderConfig{
			Enabled:      false,
			Path:         "~/.local/state/speedo/speedo.db",
			BatchSize:    50,
			BatchTimeout: 2 * time.Second,
		},
		Log: LogConfig{
			File:       "~/.local/state/speedo/speedo.log",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

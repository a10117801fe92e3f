package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/logger"
	"github.com/rileyhilliard/speedo/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile     string
	verbose     bool
	logFileFlag string
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:   "speedo",
	Short: "Terminal gauge cluster for CAN telemetry",
	Long: `speedo reads volts, amps, RPM, and temperatures from a CAN relay and
draws them as a gauge cluster in your terminal.

Running speedo with no command opens the dashboard.

Examples:
  speedo                      # open the dashboard
  speedo --link sim           # demo with simulated data
  speedo record               # headless recording
  speedo doctor               # diagnose config and link problems`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashCommand(cmd.Context(), dashFlags)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .speedo.yaml in this or a parent directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "log file used while the dashboard is open (default: log.file)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// speedo with no command behaves like speedo dash
	addDashFlags(rootCmd, &dashFlags)
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// Verbose reports whether --verbose was passed.
func Verbose() bool {
	return verbose
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if isUnknownCommandError(err) {
			name := extractUnknownCommand(err)
			if name != "" {
				err = errors.New(errors.ErrConfig,
					fmt.Sprintf("'%s' isn't a speedo command", name),
					"Run 'speedo --help' to see the available commands")
			}
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "speedo"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start == -1 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// loadConfig resolves and loads the config, applies link flag overrides, and
// validates the result. A missing config file is not an error; the returned
// path is empty and defaults apply.
func loadConfig(lf *LinkFlags) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, path, err
	}
	if lf != nil {
		lf.Apply(&cfg.Link)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// newConsoleLogger builds the stderr logger used by headless commands.
func newConsoleLogger(cfg *config.Config) *logger.ZeroLogger {
	return logger.New(logger.Options{
		Debug: verbose,
		Level: cfg.Log.Level,
	})
}

// newFileLogger builds the rotating file logger used while the dashboard
// owns the terminal.
func newFileLogger(cfg *config.Config) *logger.ZeroLogger {
	file := cfg.Log.File
	if logFileFlag != "" {
		file = config.ExpandPath(logFileFlag)
	}
	return logger.New(logger.Options{
		Debug:      verbose,
		Level:      cfg.Log.Level,
		File:       file,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
}

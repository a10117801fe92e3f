package cli

import (
	"io"
	"os"
	"strings"

	"github.com/rileyhilliard/speedo/internal/chart"
	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	dashFlags dashOptions

	recordLinkFlags    LinkFlags
	recordPathFlag     string
	recordIntervalFlag string
	recordDurationFlag string
	exportListFlag     bool
	exportSessionFlag  string
	exportMetricsFlag  string
	exportOutFlag      string
	exportWidthFlag    int
	exportHeightFlag   int
	exportDBFlag       string
	portsUseFlag       string
	portsJSONFlag      bool
	initLinkFlags      LinkFlags
	initForce          bool
	initNonInteractive bool
	initRecordFlag     bool
	initSkipDiscovery  bool
)

// dashCmd opens the gauge dashboard
var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the gauge dashboard",
	Long: `Open the full-screen gauge cluster: amps and RPM dials, pack capacity,
motor and controller temperatures, a volts trend, and trip totals.

This is what 'speedo' runs when no command is given. The dashboard needs a
terminal; use 'speedo record' to capture telemetry without one.

Keys:
  c  connect / disconnect
  r  reset trip totals
  ?  help
  q  quit

Examples:
  speedo dash
  speedo dash --link sim
  speedo dash --link tcp --address relay.local:9000 --record
  speedo dash --no-connect`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashCommand(cmd.Context(), dashFlags)
	},
}

// recordCmd captures telemetry without the dashboard
var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record telemetry to SQLite without the dashboard",
	Long: `Connect to the relay and write every sample to the recording database
until interrupted. A status line is printed periodically.

Recordings can be listed and charted with 'speedo export'.

Examples:
  speedo record
  speedo record --link sim --for 30s
  speedo record --db ./bench.db --interval 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordCommand(cmd.Context(), recordOptions{
			Link:     recordLinkFlags,
			Path:     recordPathFlag,
			Interval: recordIntervalFlag,
			Duration: recordDurationFlag,
		})
	},
}

// exportCmd charts a recorded session
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Chart a recorded session as PNG",
	Long: `Render a recorded session as a PNG trend chart, one line per metric.

Without --session the most recent session is exported. Session IDs can be
abbreviated to any unique prefix.

Metrics: ` + strings.Join(chart.MetricNames(), ", ") + `

Examples:
  speedo export --list
  speedo export
  speedo export --session 3f2a --metrics volts,kw --out ride.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportCommand(cmd.Context(), exportOptions{
			List:    exportListFlag,
			Session: exportSessionFlag,
			Metrics: exportMetricsFlag,
			Out:     exportOutFlag,
			Width:   exportWidthFlag,
			Height:  exportHeightFlag,
			DB:      exportDBFlag,
		})
	},
}

// portsCmd lists serial ports
var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	Long: `List the serial ports on this machine with their USB details. The port
pinned by link.address is marked.

Examples:
  speedo ports
  speedo ports --use /dev/ttyUSB0
  speedo ports --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return portsCommand(os.Stdout, portsOptions{
			Use:  portsUseFlag,
			JSON: portsJSONFlag,
		})
	},
}

// initCmd creates a new .speedo.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .speedo.yaml configuration",
	Long: `Initialize a new speedo configuration file.

Walks through choosing a link (serial port, TCP relay, ssh host, or the
simulator), tries to find the relay, and writes .speedo.yaml to the
current directory.

Examples:
  speedo init
  speedo init --link sim --non-interactive
  speedo init --link serial --address /dev/ttyUSB0 --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(cmd.Context(), InitOptions{
			Link:           initLinkFlags,
			Overwrite:      initForce,
			NonInteractive: initNonInteractive,
			Record:         initRecordFlag,
			SkipDiscovery:  initSkipDiscovery,
		})
	},
}

// doctorCmd runs diagnostic checks
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and link problems",
	Long: `Run diagnostic checks on your speedo setup.

Checks:
  - Config file present and valid
  - Serial ports or ssh host for the configured link
  - Relay discoverable on the link
  - Log and recording directories writable

Examples:
  speedo doctor
  speedo doctor --fix
  speedo doctor --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.Context(), os.Stdout)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for speedo.

Examples:
  # Bash
  speedo completion bash > /etc/bash_completion.d/speedo

  # Zsh
  speedo completion zsh > "${fpath[1]}/_speedo"

  # Fish
  speedo completion fish > ~/.config/fish/completions/speedo.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeCompletion(cmd.OutOrStdout(), args[0])
	},
}

// writeCompletion writes the completion script for shell.
func writeCompletion(w io.Writer, shell string) error {
	switch shell {
	case "bash":
		return rootCmd.GenBashCompletion(w)
	case "zsh":
		return rootCmd.GenZshCompletion(w)
	case "fish":
		return rootCmd.GenFishCompletion(w, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletion(w)
	default:
		return errors.New(errors.ErrConfig,
			"Unknown shell: "+shell,
			"Supported shells: bash, zsh, fish, powershell")
	}
}

func init() {
	// dash command flags
	addDashFlags(dashCmd, &dashFlags)

	// record command flags
	AddLinkFlags(recordCmd, &recordLinkFlags)
	recordCmd.Flags().StringVar(&recordPathFlag, "db", "", "recording database (default: recorder.path)")
	recordCmd.Flags().StringVar(&recordIntervalFlag, "interval", "5s", "status line interval (e.g., 2s, 1m)")
	recordCmd.Flags().StringVar(&recordDurationFlag, "for", "", "stop after this long (e.g., 30s, 1h)")

	// export command flags
	exportCmd.Flags().BoolVar(&exportListFlag, "list", false, "list recorded sessions instead of exporting")
	exportCmd.Flags().StringVarP(&exportSessionFlag, "session", "s", "", "session ID or unique prefix (default: latest)")
	exportCmd.Flags().StringVarP(&exportMetricsFlag, "metrics", "m", "", "comma-separated metrics (default: volts,amps,rpm)")
	exportCmd.Flags().StringVarP(&exportOutFlag, "out", "o", "", "output file (default: speedo-<session>.png)")
	exportCmd.Flags().IntVar(&exportWidthFlag, "width", 1200, "image width in pixels")
	exportCmd.Flags().IntVar(&exportHeightFlag, "height", 600, "image height in pixels")
	exportCmd.Flags().StringVar(&exportDBFlag, "db", "", "recording database (default: recorder.path)")

	// ports command flags
	portsCmd.Flags().StringVar(&portsUseFlag, "use", "", "pin this port as link.address in the config file")
	portsCmd.Flags().BoolVar(&portsJSONFlag, "json", false, "output in JSON format")

	// init command flags
	AddLinkFlags(initCmd, &initLinkFlags)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "skip prompts and use flags or defaults")
	initCmd.Flags().BoolVar(&initRecordFlag, "record", false, "enable the recorder in the new config")
	initCmd.Flags().BoolVar(&initSkipDiscovery, "skip-discovery", false, "don't look for the relay before saving")

	rootCmd.AddCommand(dashCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(completionCmd)
}

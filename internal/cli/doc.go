// Package cli implements the speedo command-line interface.
//
// Each Cobra command parses its flags into an options struct and hands off
// to a plain function (dashCommand, recordCommand, runExport, ...) that does
// the work, so tests can drive commands without going through Cobra.
//
// # Command Structure
//
// The root command is "speedo". Run with no subcommand it opens the
// dashboard, the same as "speedo dash":
//
//	speedo [dash]       - Live gauge cluster in the terminal
//	speedo record       - Record telemetry to SQLite without the dashboard
//	speedo export       - List recorded sessions or chart one to PNG
//	speedo ports        - List serial ports, pin one with --use
//	speedo init         - Create .speedo.yaml
//	speedo doctor       - Diagnose config and link issues
//
// # Telemetry Pipeline
//
// dash and record share the same pipeline: a link transport feeds a
// telemetry worker, which leaves the latest sample in a handoff. The
// dashboard model or the record loop drains the handoff on its own
// schedule, and optionally forwards samples to the recorder.
//
// # Flag Handling
//
// Global flags (--config, --verbose, --log-file, --no-color) live on the
// root command. LinkFlags adds --link, --peer and --address to commands
// that open a link, overriding the config file for one run.
package cli

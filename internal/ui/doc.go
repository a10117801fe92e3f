// Package ui provides the styled CLI output used by speedo's non-dashboard
// commands: init, ports, doctor, record, and export.
//
// # Components Overview
//
//	Spinner     - Single-line progress indicator while waiting on the link
//	Picker      - Interactive list for choosing a serial port or ssh alias
//	Tables      - Port listings, session listings, and doctor results
//	Sparkline   - Block-character state-of-charge trend for record's status line
//	Header      - Branded title used by init and version
//
// # Color Scheme
//
// The neon palette matches the dashboard. Semantic colors:
//
//	ColorSuccess (green) - Passing checks, streaming link
//	ColorError   (red)   - Failures
//	ColorWarning (amber) - Warnings, skipped steps
//	ColorInfo    (cyan)  - Informational messages
//	ColorMuted   (gray)  - Secondary text, timing info
//
// Use DisableColors() for plain output, or ColorProfile() to map the
// dashboard.color setting to a terminal profile.
//
// # Spinner Usage
//
//	s := ui.NewSpinner(os.Stderr, "Looking for CAN Relay")
//	s.Start()
//	// ... discover ...
//	s.Success() // or s.Fail() or s.Skip()
package ui

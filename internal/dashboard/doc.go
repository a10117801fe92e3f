// Package dashboard implements the full-screen gauge cluster.
//
// The dashboard follows the Bubble Tea Model-Update-View pattern and is the
// only goroutine that touches the gauge models:
//
//   - Model: owns the Cluster, the volts Trend and the Trip totals
//   - Update: drains the latest sample from the handoff on every tick and
//     applies it to the gauges
//   - View: rasterizes each gauge's primitives onto a braille Canvas
//
// # Message Flow
//
//  1. tickMsg fires at the configured interval (default 100ms)
//  2. the handoff slot is taken; an empty slot leaves the gauges alone
//  3. the sample updates the gauges, the trend, the trip and the recorder
//  4. View() repaints, reusing the gauge row while no gauge has changed
//
// # Keyboard Shortcuts
//
//	c           - Connect / disconnect
//	r           - Reset trip totals
//	q, Ctrl+C   - Quit (stops the worker first)
//	?           - Toggle help overlay
package dashboard

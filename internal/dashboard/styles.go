package dashboard

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/speedo/internal/telemetry"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#FF2E97")
	ColorGraph  = lipgloss.Color("#00FFFF")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	ReasonStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)
)

// Connection status glyphs
const (
	StatusConnected    = "◉"
	StatusConnecting   = "◐"
	StatusDisconnected = "○"
	StatusFailed       = "✗"
)

// ConnectingSpinnerFrames animate the connecting status icon.
var ConnectingSpinnerFrames = []string{"◐", "◓", "◑", "◒"}

// StatusIcon returns the glyph and color for a connection state.
func StatusIcon(c telemetry.ConnectionState) (string, lipgloss.Color) {
	switch c {
	case telemetry.Connected:
		return StatusConnected, ColorHealthy
	case telemetry.Connecting:
		return StatusConnecting, ColorWarning
	case telemetry.Failed:
		return StatusFailed, ColorCritical
	default:
		return StatusDisconnected, ColorTextMuted
	}
}

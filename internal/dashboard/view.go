package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/speedo/internal/gauge"
	"github.com/rileyhilliard/speedo/internal/telemetry"
)

// Fallback terminal size until the first WindowSizeMsg.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// Virtual surface widths the gauges lay out on before scaling to cells.
const (
	needleVirtualWidth   = 600.0
	capacityVirtualWidth = 100.0
	tempVirtualWidth     = 200.0
)

const (
	minDialCols  = 24
	maxDialCols  = 64
	capacityCols = 6
	tempCols     = 16
	tempRows     = 3
	// panelChrome is the border plus horizontal padding of one panel.
	panelChrome = 4
	trendRows   = 3
)

// renderCache keeps the last gauge row so an unchanged cluster is not
// rasterized again on every frame.
type renderCache struct {
	valid  bool
	gen    uint64
	width  int
	gauges string
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	lower := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderReadouts(),
		" ",
		m.renderTrend(),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		m.renderGauges(),
		lower,
		m.renderFooter(),
	)
}

// renderHeader shows the title and the connection status.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("speedo")

	conn := m.status.Connection()
	glyph, color := StatusIcon(conn)
	icon := lipgloss.NewStyle().Foreground(color).Render(glyph)
	if conn == telemetry.Connecting {
		icon = m.spinner.View()
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("  ")
	b.WriteString(icon)
	b.WriteString(" ")
	b.WriteString(lipgloss.NewStyle().Foreground(color).Render(conn.String()))
	if m.status.Peer != "" {
		b.WriteString(LabelStyle.Render(" | " + m.status.Peer))
	}
	if conn == telemetry.Failed && m.status.Reason != "" {
		b.WriteString(" ")
		b.WriteString(ReasonStyle.Render(m.status.Reason))
	}
	return HeaderStyle.Render(b.String())
}

// renderGauges draws both dials, the capacity bar and the temperatures.
func (m Model) renderGauges() string {
	width, _ := m.size()
	gen := m.cluster.Generation()
	if m.cache.valid && m.cache.gen == gen && m.cache.width == width {
		return m.cache.gauges
	}

	dialCols := dialWidth(width)
	dialRows := dialCols / 4

	capacity := lipgloss.JoinVertical(lipgloss.Center,
		m.renderCanvas(m.cluster.Capacity.Draw, capacityCols, dialRows-1, capacityVirtualWidth),
		ValueStyle.Render(fmt.Sprintf("%.0f%%", m.cluster.Capacity.Capacity())),
	)
	temps := lipgloss.JoinVertical(lipgloss.Left,
		PanelTitleStyle.Render(m.cluster.MotorLabel),
		m.renderCanvas(m.cluster.Motor.Draw, tempCols, tempRows, tempVirtualWidth),
		PanelTitleStyle.Render(m.cluster.ControllerLabel),
		m.renderCanvas(m.cluster.Controller.Draw, tempCols, tempRows, tempVirtualWidth),
	)

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		PanelStyle.Render(m.renderCanvas(m.cluster.Amps.Draw, dialCols, dialRows, needleVirtualWidth)),
		PanelStyle.Render(m.renderCanvas(m.cluster.RPM.Draw, dialCols, dialRows, needleVirtualWidth)),
		PanelStyle.Render(capacity),
		PanelStyle.Render(temps),
	)

	*m.cache = renderCache{valid: true, gen: gen, width: width, gauges: row}
	return row
}

// dialWidth picks a dial width that fits two dials beside the capacity bar
// and temperature column. Dials are four cells wide per row so the half
// circle stays round.
func dialWidth(termWidth int) int {
	avail := termWidth - capacityCols - tempCols - 4*panelChrome
	cols := min(max(avail/2, minDialCols), maxDialCols)
	return cols / 4 * 4
}

func (m Model) renderCanvas(draw func(gauge.Surface) []gauge.Primitive, cols, rows int, virtualWidth float64) string {
	c := NewCanvas(cols, max(rows, 1), virtualWidth)
	c.Draw(draw(c.Surface()))
	return c.Render(m.profile)
}

// renderReadouts lists the numeric values and trip totals.
func (m Model) renderReadouts() string {
	row := func(label, value string) string {
		return LabelStyle.Render(fmt.Sprintf("%-8s", label)) + ValueStyle.Render(value)
	}

	volts, amps, kw, rpm := "--", "--", "--", "--"
	if m.hasSample {
		volts = fmt.Sprintf("%.1f V", m.last.Volts)
		amps = fmt.Sprintf("%.0f A", m.last.Amps)
		kw = fmt.Sprintf("%.2f kW", m.last.Watts()/1000)
		rpm = fmt.Sprintf("%.0f", m.last.RPM)
	}

	lines := []string{
		PanelTitleStyle.Render("Readouts"),
		row("Volts", volts),
		row("Amps", amps),
		row("Power", kw),
		row("RPM", rpm),
		row("Trip", fmt.Sprintf("%s Ah  %s Wh", formatTotal(m.trip.AmpHours()), formatTotal(m.trip.WattHours()))),
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}

func formatTotal(v float64) string {
	if math.Abs(v) < 10 {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.0f", v)
}

// renderTrend draws the volts window as a braille area chart.
func (m Model) renderTrend() string {
	cols := max(m.trend.Cap()/2, 10)
	graph := RenderBrailleSparkline(m.trend.Values(), cols, trendRows, m.trendMax, ColorGraph)
	if graph == "" {
		graph = LabelStyle.Render(lipgloss.PlaceHorizontal(cols, lipgloss.Left, "waiting for data"))
	}
	title := PanelTitleStyle.Render(fmt.Sprintf("Volts trend (0-%.0f)", m.trendMax))
	return PanelStyle.Render(title + "\n" + graph)
}

// renderFooter shows key hints and counters.
func (m Model) renderFooter() string {
	stats := fmt.Sprintf("samples %d | malformed %d | dropped %d",
		m.stats.Samples, m.stats.Malformed, m.handoff.Overwritten())
	if m.stats.Reconnects > 0 {
		stats += fmt.Sprintf(" | reconnects %d", m.stats.Reconnects)
	}
	if m.sinkErr != "" {
		stats += " | " + ReasonStyle.Render("recorder: "+firstLine(m.sinkErr))
	}
	return FooterStyle.Render(m.help.View(m.keys) + "\n" + stats)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

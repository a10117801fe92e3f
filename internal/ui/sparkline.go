package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

var sparklineBlockRunes = []rune(sparklineBlocks)

// RenderSparkline draws the most recent width values of a percentage series
// (0..100) on a fixed scale, so a full pack always reaches the top block.
// The color follows the last value: low charge is red.
func RenderSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	var sb strings.Builder
	sb.Grow(len(data) * 3)

	top := len(sparklineBlockRunes) - 1
	for _, v := range data {
		level := int(v / 100 * float64(top))
		if level < 0 {
			level = 0
		} else if level > top {
			level = top
		}
		sb.WriteRune(sparklineBlockRunes[level])
	}

	style := lipgloss.NewStyle().Foreground(chargeColor(data[len(data)-1]))
	return style.Render(sb.String())
}

// chargeColor returns a color for a state-of-charge percentage.
//   - below 20%: red
//   - below 40%: amber
//   - otherwise: green
func chargeColor(percent float64) lipgloss.Color {
	switch {
	case percent < 20:
		return ColorError
	case percent < 40:
		return ColorWarning
	default:
		return ColorSuccess
	}
}

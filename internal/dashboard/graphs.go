package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderBrailleSparkline plots data as a filled braille area chart of width
// characters by height rows. Each character holds two points and four
// vertical levels. The y axis is fixed to [0, maxVal] so the trace does not
// rescale as values move. Short series are right-aligned.
func RenderBrailleSparkline(data []float64, width, height int, maxVal float64, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	totalDots := height * 4
	targetPoints := width * 2

	resampled := data
	if len(data) > targetPoints {
		resampled = resampleData(data, targetPoints)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}

	horizOffset := max(targetPoints-len(resampled), 0)
	for i, val := range resampled {
		dotHeight := clampInt(int(normalizeValue(val, 0, maxVal)*float64(totalDots)), totalDots)
		charCol := (i + horizOffset) / 2
		subCol := (i + horizOffset) % 2

		for dot := 0; dot < dotHeight; dot++ {
			row := height - 1 - dot/4
			subRow := 3 - dot%4
			grid[row][charCol] |= rune(1 << brailleDots[subRow][subCol])
		}
	}

	style := lipgloss.NewStyle().Foreground(color)
	lines := make([]string, height)
	for i, row := range grid {
		lines[i] = style.Render(string(row))
	}
	return strings.Join(lines, "\n")
}

// resampleData averages data down to targetLen buckets.
func resampleData(data []float64, targetLen int) []float64 {
	if len(data) <= targetLen || targetLen <= 0 {
		return data
	}

	out := make([]float64, targetLen)
	ratio := float64(len(data)) / float64(targetLen)
	for i := range out {
		start := int(float64(i) * ratio)
		end := max(int(float64(i+1)*ratio), start+1)
		end = min(end, len(data))

		sum := 0.0
		for _, v := range data[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// normalizeValue converts a value to the 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

package gauge

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rileyhilliard/speedo/internal/errors"
)

// LabelFormatter produces the text for a major tick at progress on a dial
// whose scale ends at max.
type LabelFormatter interface {
	Label(progress, max float64) string
}

// LabelFunc adapts a plain function to LabelFormatter.
type LabelFunc func(progress, max float64) string

// Label calls f.
func (f LabelFunc) Label(progress, max float64) string {
	return f(progress, max)
}

// RoundedLabels prints the tick value rounded to an integer.
var RoundedLabels = LabelFunc(func(progress, _ float64) string {
	return strconv.Itoa(int(math.Round(progress)))
})

// PercentLabels prints the tick position as a percentage of the scale.
var PercentLabels = LabelFunc(func(progress, max float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(progress/max*100)))
})

// LabelFormatterByName resolves the label style named in configuration.
// "none" and "" return a nil formatter, which hides tick labels.
func LabelFormatterByName(name string) (LabelFormatter, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "round":
		return RoundedLabels, nil
	case "percent":
		return PercentLabels, nil
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown label style %q", name),
			"Use one of: round, percent, none")
	}
}

package telemetry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rileyhilliard/speedo/internal/errors"
)

// SchemaVersion is the wire schema this package reads and writes.
const SchemaVersion = 1

const (
	schemaTag   = "V1"
	fieldCount  = 5
	recordUsage = "Expected V1,volts,amps,rpm,motorTempF,controllerTempF"
)

// ErrNoRecord marks lines that carry no record (blank or comment). They are
// skipped without counting as malformed.
var ErrNoRecord = errors.New(errors.ErrParse, "Line carries no record", "")

// ParseLine decodes one schema v1 line. The line terminator is optional.
func ParseLine(line string) (Reading, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Reading{}, ErrNoRecord
	}

	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	if tag := fields[0]; len(tag) > 1 && (tag[0] == 'V' || tag[0] == 'v') {
		if !strings.EqualFold(tag, schemaTag) {
			return Reading{}, errors.New(errors.ErrParse,
				fmt.Sprintf("Unsupported schema version %q", tag),
				fmt.Sprintf("This build reads schema v%d", SchemaVersion))
		}
		fields = fields[1:]
	}

	if len(fields) != fieldCount {
		return Reading{}, errors.New(errors.ErrParse,
			fmt.Sprintf("Record has %d fields, want %d: %q", len(fields), fieldCount, line),
			recordUsage)
	}

	var vals [fieldCount]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Reading{}, errors.WrapWithCode(err, errors.ErrParse,
				fmt.Sprintf("Field %d is not a finite number: %q", i+1, f),
				recordUsage)
		}
		vals[i] = v
	}

	return Reading{
		Volts:           vals[0],
		Amps:            vals[1],
		RPM:             vals[2],
		MotorTempF:      vals[3],
		ControllerTempF: vals[4],
	}, nil
}

// FormatLine encodes r as a tagged schema v1 line including the newline.
func FormatLine(r Reading) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return strings.Join([]string{
		schemaTag,
		f(r.Volts),
		f(r.Amps),
		f(r.RPM),
		f(r.MotorTempF),
		f(r.ControllerTempF),
	}, ",") + "\n"
}

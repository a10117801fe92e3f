package telemetry

import (
	stderrors "errors"
	"testing"

	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Reading
	}{
		{
			name: "tagged record",
			line: "V1,96.5,120,1800,150,110\n",
			want: Reading{Volts: 96.5, Amps: 120, RPM: 1800, MotorTempF: 150, ControllerTempF: 110},
		},
		{
			name: "untagged record",
			line: "72,40,90,80,75",
			want: Reading{Volts: 72, Amps: 40, RPM: 90, MotorTempF: 80, ControllerTempF: 75},
		},
		{
			name: "lowercase tag, CRLF and spaces",
			line: " v1, 12.5 , -3 ,0, 32,  33\r\n",
			want: Reading{Volts: 12.5, Amps: -3, RPM: 0, MotorTempF: 32, ControllerTempF: 33},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine_NoRecord(t *testing.T) {
	for _, line := range []string{"", "   ", "\r\n", "# relay boot v2.1"} {
		_, err := ParseLine(line)
		assert.True(t, stderrors.Is(err, ErrNoRecord), "line %q", line)
	}
}

func TestParseLine_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "too few fields", line: "V1,1,2,3,4"},
		{name: "too many fields", line: "1,2,3,4,5,6"},
		{name: "not a number", line: "V1,abc,2,3,4,5"},
		{name: "empty field", line: "1,,3,4,5"},
		{name: "NaN", line: "NaN,2,3,4,5"},
		{name: "infinity", line: "1,+Inf,3,4,5"},
		{name: "future schema", line: "V2,1,2,3,4,5"},
		{name: "binary noise", line: "\x00\x13\xff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.line)
			require.Error(t, err)
			assert.False(t, stderrors.Is(err, ErrNoRecord))
			assert.True(t, errors.IsCode(err, errors.ErrParse))
		})
	}
}

func TestFormatLine(t *testing.T) {
	r := Reading{Volts: 96.5, Amps: 120, RPM: 1800, MotorTempF: 150, ControllerTempF: 110}

	line := FormatLine(r)
	assert.Equal(t, "V1,96.5,120,1800,150,110\n", line)

	parsed, err := ParseLine(line)
	require.NoError(t, err)
	assert.Equal(t, r, parsed)
}

func TestReadingWatts(t *testing.T) {
	assert.Equal(t, 9600.0, Reading{Volts: 96, Amps: 100}.Watts())
}

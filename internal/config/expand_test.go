package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/rides/a.db", filepath.Join(home, "rides/a.db")},
		{"/var/lib/speedo", "/var/lib/speedo"},
		{"~other/x", "~other/x"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTilde(tt.in))
		})
	}
}

func TestExpand(t *testing.T) {
	t.Setenv("USER", "rider")
	t.Setenv("SPEEDO_BIKE", "cafe")
	t.Setenv("SPEEDO_EMPTY", "")

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"${USER}", "rider"},
		{"/logs/${SPEEDO_BIKE}/${USER}.log", "/logs/cafe/rider.log"},
		{"a${SPEEDO_EMPTY}b", "ab"},
		{"$SPEEDO_BIKE", "$SPEEDO_BIKE"},
		{"broken ${SPEEDO_BIKE", "broken ${SPEEDO_BIKE"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.in))
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SPEEDO_SUB", "state")

	assert.Equal(t, filepath.Join(home, "state/speedo.db"), ExpandPath("~/${SPEEDO_SUB}/speedo.db"))
}

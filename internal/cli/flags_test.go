package cli

import (
	"testing"
	"time"

	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		want    time.Duration
		wantErr bool
	}{
		{name: "empty string returns default", flag: "", want: 5 * time.Second},
		{name: "valid seconds", flag: "2s", want: 2 * time.Second},
		{name: "valid milliseconds", flag: "500ms", want: 500 * time.Millisecond},
		{name: "valid complex duration", flag: "1m30s", want: 90 * time.Second},
		{name: "missing unit", flag: "5", wantErr: true},
		{name: "not a duration", flag: "fast", wantErr: true},
		{name: "zero", flag: "0s", wantErr: true},
		{name: "negative", flag: "-1s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInterval(tt.flag, 5*time.Second)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddLinkFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var flags LinkFlags
	AddLinkFlags(cmd, &flags)

	for _, name := range []string{"link", "peer", "address"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing --%s", name)
	}

	require.NoError(t, cmd.Flags().Parse([]string{"--link", "TCP", "--address", "relay.local:9000"}))
	assert.Equal(t, "TCP", flags.Type)
	assert.Equal(t, "relay.local:9000", flags.Address)
	assert.Empty(t, flags.Peer)
}

func TestAddLinkFlags_Completion(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	AddLinkFlags(cmd, &LinkFlags{})

	complete, ok := cmd.GetFlagCompletionFunc("link")
	require.True(t, ok)
	got, directive := complete(cmd, nil, "")
	assert.Equal(t, []string{"serial", "tcp", "ssh", "sim"}, got)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}

func TestLinkFlagsApply(t *testing.T) {
	tests := []struct {
		name  string
		flags LinkFlags
		check func(t *testing.T, l config.LinkConfig)
	}{
		{
			name:  "no flags keeps config",
			flags: LinkFlags{},
			check: func(t *testing.T, l config.LinkConfig) {
				assert.Equal(t, config.LinkSerial, l.Type)
				assert.Equal(t, "CAN Relay", l.Peer)
				assert.Empty(t, l.Address)
			},
		},
		{
			name:  "type is lowercased",
			flags: LinkFlags{Type: "SIM"},
			check: func(t *testing.T, l config.LinkConfig) {
				assert.Equal(t, config.LinkSim, l.Type)
			},
		},
		{
			name:  "peer and address override",
			flags: LinkFlags{Type: "tcp", Peer: "bench", Address: "10.0.0.2:7000"},
			check: func(t *testing.T, l config.LinkConfig) {
				assert.Equal(t, config.LinkTCP, l.Type)
				assert.Equal(t, "bench", l.Peer)
				assert.Equal(t, "10.0.0.2:7000", l.Address)
			},
		},
		{
			name:  "serial address expands tilde",
			flags: LinkFlags{Address: "~/dev/ttyFAKE"},
			check: func(t *testing.T, l config.LinkConfig) {
				assert.NotContains(t, l.Address, "~")
				assert.Contains(t, l.Address, "dev/ttyFAKE")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := config.DefaultConfig().Link
			tt.flags.Apply(&link)
			tt.check(t, link)
		})
	}
}

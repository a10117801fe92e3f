package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/muesli/termenv"
	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashCommand_RequiresTerminal(t *testing.T) {
	orig := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdoutIsTerminal = orig })

	err := dashCommand(context.Background(), dashOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "speedo record")
}

func simConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Link.Type = config.LinkSim
	cfg.Recorder.Path = filepath.Join(t.TempDir(), "speedo.db")
	require.NoError(t, config.Validate(cfg))
	return cfg
}

func testLogger() *logger.ZeroLogger {
	return logger.New(logger.Options{Console: &syncBuffer{}})
}

func TestNewDashSession(t *testing.T) {
	tests := []struct {
		name         string
		enabled      bool
		opts         dashOptions
		wantRecorder bool
	}{
		{name: "no recorder", wantRecorder: false},
		{name: "recorder from config", enabled: true, wantRecorder: true},
		{name: "recorder from flag", opts: dashOptions{Record: true}, wantRecorder: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := simConfig(t)
			cfg.Recorder.Enabled = tt.enabled

			s, err := newDashSession(context.Background(), cfg, tt.opts, termenv.Ascii, testLogger())
			require.NoError(t, err)

			assert.NotNil(t, s.worker)
			assert.False(t, s.worker.Running(), "the model starts the worker, not the session")
			assert.Equal(t, tt.wantRecorder, s.recorder != nil)
			assert.NotNil(t, s.model.Cluster())

			require.NoError(t, s.close())
		})
	}
}

func TestNewDashSession_BadGauges(t *testing.T) {
	cfg := simConfig(t)
	cfg.Gauges.Amps.MajorStep = 0

	_, err := newDashSession(context.Background(), cfg, dashOptions{}, termenv.Ascii, testLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrGauge))
}

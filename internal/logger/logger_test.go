package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroLogger_Levels(t *testing.T) {
	tests := []struct {
		name        string
		debug       bool
		expectDebug bool
	}{
		{name: "debug enabled", debug: true, expectDebug: true},
		{name: "debug disabled", debug: false, expectDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(DebugEnv, "")
			var buf bytes.Buffer
			l := New(Options{Debug: tt.debug, Console: &buf})

			l.Debug("debug message %d", 1)
			l.Info("info message %s", "two")

			assert.Contains(t, buf.String(), "info message two")
			if tt.expectDebug {
				assert.Contains(t, buf.String(), "debug message 1")
			} else {
				assert.NotContains(t, buf.String(), "debug message 1")
			}
		})
	}
}

func TestZeroLogger_LevelName(t *testing.T) {
	t.Setenv(DebugEnv, "")
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Console: &buf})

	l.Info("quiet info")
	l.Warn("loud warn")

	assert.NotContains(t, buf.String(), "quiet info")
	assert.Contains(t, buf.String(), "loud warn")
}

func TestZeroLogger_DebugEnv(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	var buf bytes.Buffer
	l := New(Options{Console: &buf})

	l.Debug("from env")

	assert.Contains(t, buf.String(), "from env")
}

func TestZeroLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Console: &buf})

	l.Named("worker").Warn("link dropped")

	assert.Contains(t, buf.String(), "link dropped")
	assert.Contains(t, buf.String(), "worker")
}

func TestZeroLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "speedo.log")
	l := New(Options{File: path, MaxSizeMB: 1})

	l.Error("rotating %s", "file")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rotating file")
	assert.Contains(t, string(data), `"level":"error"`)
}

func TestNoop(t *testing.T) {
	l := Noop()

	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x")
		l.Warn("x")
		l.Error("x")
	})
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Info("connected to %s", "CAN Relay")
	l.Warn("dropped malformed record")

	assert.True(t, l.HasLevel("info"))
	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))
	assert.True(t, l.Contains("CAN Relay"))
	assert.Len(t, l.Messages(), 2)

	l.Clear()
	assert.Empty(t, l.Messages())
}

func TestBufferLogger_Concurrent(t *testing.T) {
	l := NewBufferLogger()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Debug("message %d", n)
		}(i)
	}
	wg.Wait()

	assert.Len(t, l.Messages(), 10)
}

func TestDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	buf := NewBufferLogger()
	SetDefault(buf)
	Default().Info("hello")

	assert.True(t, buf.Contains("hello"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MergesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), ConfigFileName, `
version: 1
link:
  type: tcp
  address: 192.168.4.1:7000
  backoff: 5s
gauges:
  amps:
    max: 800
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, LinkTCP, cfg.Link.Type)
	assert.Equal(t, "192.168.4.1:7000", cfg.Link.Address)
	assert.Equal(t, 5*time.Second, cfg.Link.Backoff)
	assert.Equal(t, "CAN Relay", cfg.Link.Peer, "unset keys keep defaults")

	assert.Equal(t, 800.0, cfg.Gauges.Amps.Max)
	assert.Equal(t, 100.0, cfg.Gauges.Amps.MajorStep)
	assert.Equal(t, "Amps", cfg.Gauges.Amps.Title)
	assert.Len(t, cfg.Gauges.Amps.Ranges, 3)
	assert.Equal(t, 300.0, cfg.Gauges.RPM.Max)
	assert.Equal(t, 100*time.Millisecond, cfg.Dashboard.Tick)
}

func TestLoad_Ranges(t *testing.T) {
	path := writeFile(t, t.TempDir(), ConfigFileName, `
gauges:
  rpm:
    ranges:
      - {from: 0, to: 100, color: blue}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Gauges.RPM.Ranges, 1)
	assert.Equal(t, RangeConfig{From: 0, To: 100, Color: "blue"}, cfg.Gauges.RPM.Ranges[0])
}

func TestLoad_ExpandsPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SPEEDO_TEST_DIR", "/data/rides")

	path := writeFile(t, t.TempDir(), ConfigFileName, `
recorder:
  enabled: true
  path: ${SPEEDO_TEST_DIR}/speedo.db
log:
  file: ~/logs/speedo.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/rides/speedo.db", cfg.Recorder.Path)
	assert.Equal(t, filepath.Join(home, "logs/speedo.log"), cfg.Log.File)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), ConfigFileName, "link: [unterminated\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})
}

func TestFind(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "custom.yaml", "version: 1\n")
		found, err := Find(path)
		require.NoError(t, err)
		assert.Equal(t, path, found)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := Find(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})

	t.Run("parent directory", func(t *testing.T) {
		root := t.TempDir()
		want := writeFile(t, root, ConfigFileName, "version: 1\n")
		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0o755))
		chdir(t, nested)

		found, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, evalPath(t, want), evalPath(t, found))
	})
}

func TestLoadOrDefault_NoConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, path, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultConfig().Link, cfg.Link)
	assert.NotContains(t, cfg.Log.File, "~", "default paths are expanded")
}

func TestMarshalStarter(t *testing.T) {
	link := DefaultConfig().Link
	link.Type = LinkTCP
	link.Address = "10.0.0.5:7000"

	data, err := MarshalStarter(link, RecorderConfig{})
	require.NoError(t, err)

	path := writeFile(t, t.TempDir(), ConfigFileName, string(data))
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, LinkTCP, cfg.Link.Type)
	assert.Equal(t, "10.0.0.5:7000", cfg.Link.Address)
	assert.NotContains(t, string(data), "command", "command only applies to ssh")
	assert.NotContains(t, string(data), "recorder")
	assert.NoError(t, Validate(cfg))
}

func evalPath(t *testing.T, p string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(p)
	require.NoError(t, err)
	return resolved
}

package doctor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rileyhilliard/speedo/internal/config"
)

func TestConfigFileCheck(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("explicit config missing", func(t *testing.T) {
		check := &ConfigFileCheck{ConfigPath: filepath.Join(tmpDir, "nonexistent.yaml")}
		result := check.Run(context.Background())

		if result.Status != StatusFail {
			t.Errorf("expected StatusFail, got %v", result.Status)
		}
		if !strings.Contains(result.Message, "not found") {
			t.Errorf("expected a not found message, got %q", result.Message)
		}
	})

	t.Run("config found", func(t *testing.T) {
		cfgPath := filepath.Join(tmpDir, ".speedo.yaml")
		content := `version: 1
link:
  type: sim
`
		if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		check := &ConfigFileCheck{ConfigPath: cfgPath}
		result := check.Run(context.Background())

		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v: %s", result.Status, result.Message)
		}
		if !strings.Contains(result.Message, cfgPath) {
			t.Errorf("expected message to name %s, got %q", cfgPath, result.Message)
		}
	})

	t.Run("name and category", func(t *testing.T) {
		check := &ConfigFileCheck{}
		if check.Name() != "config_file" {
			t.Errorf("expected name 'config_file', got %s", check.Name())
		}
		if check.Category() != "CONFIG" {
			t.Errorf("expected category 'CONFIG', got %s", check.Category())
		}
	})
}

func TestConfigFileCheck_FixWritesStarter(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)

	check := &ConfigFileCheck{Dir: dir}
	result := check.Run(context.Background())
	if result.Status != StatusWarn || !result.Fixable {
		t.Fatalf("expected fixable warning, got %v (fixable=%v): %s", result.Status, result.Fixable, result.Message)
	}

	if err := check.Fix(); err != nil {
		t.Fatalf("Fix() error: %v", err)
	}

	path := filepath.Join(dir, config.ConfigFileName)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("starter config doesn't load: %v", err)
	}
	if cfg.Link.Peer != "CAN Relay" {
		t.Errorf("expected default peer, got %q", cfg.Link.Peer)
	}

	if result := check.Run(context.Background()); result.Status != StatusPass {
		t.Errorf("expected StatusPass after fix, got %v: %s", result.Status, result.Message)
	}
}

func TestConfigSchemaCheck(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("valid schema", func(t *testing.T) {
		cfgPath := filepath.Join(tmpDir, "valid.yaml")
		content := `version: 1
link:
  type: sim
`
		if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		check := &ConfigSchemaCheck{ConfigPath: cfgPath}
		result := check.Run(context.Background())

		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v: %s", result.Status, result.Message)
		}
		if !strings.Contains(result.Message, "sim link") {
			t.Errorf("expected link type in message, got %q", result.Message)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		cfgPath := filepath.Join(tmpDir, "invalid.yaml")
		if err := os.WriteFile(cfgPath, []byte(`this is not valid yaml: [unclosed`), 0644); err != nil {
			t.Fatal(err)
		}

		check := &ConfigSchemaCheck{ConfigPath: cfgPath}
		result := check.Run(context.Background())

		if result.Status != StatusFail {
			t.Errorf("expected StatusFail, got %v", result.Status)
		}
	})

	t.Run("unknown link type", func(t *testing.T) {
		cfgPath := filepath.Join(tmpDir, "badlink.yaml")
		content := `version: 1
link:
  type: bluetooth
`
		if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		check := &ConfigSchemaCheck{ConfigPath: cfgPath}
		result := check.Run(context.Background())

		if result.Status != StatusFail {
			t.Errorf("expected StatusFail, got %v", result.Status)
		}
		if !strings.Contains(result.Message, "bluetooth") {
			t.Errorf("expected message to name the link type, got %q", result.Message)
		}
		if result.Suggestion == "" {
			t.Error("expected a suggestion")
		}
	})
}

func TestNewConfigChecks(t *testing.T) {
	checks := NewConfigChecks("")

	if len(checks) != 2 {
		t.Fatalf("expected 2 config checks, got %d", len(checks))
	}
	for _, check := range checks {
		if check.Category() != "CONFIG" {
			t.Errorf("expected CONFIG category, got %s", check.Category())
		}
	}
}

package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/record"
)

// WritableDirCheck verifies the directory holding a state file exists and
// accepts writes.
type WritableDirCheck struct {
	Label string // "recorder" or "log"
	Path  string // file whose parent directory is checked
}

func (c *WritableDirCheck) Name() string     { return c.Label + "_dir" }
func (c *WritableDirCheck) Category() string { return "STATE" }

func (c *WritableDirCheck) Run(context.Context) CheckResult {
	dir := filepath.Dir(config.ExpandPath(c.Path))

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s directory %s does not exist", c.Label, dir),
			Suggestion: fmt.Sprintf("Fix: mkdir -p %s", dir),
			Fixable:    true,
		}
	}
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: fmt.Sprintf("Cannot access %s: %v", dir, err),
		}
	}
	if !info.IsDir() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s is not a directory", dir),
			Suggestion: fmt.Sprintf("Point %s.path somewhere else", c.Label),
		}
	}

	tmp, err := os.CreateTemp(dir, ".speedo-doctor-*")
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s directory %s is not writable", c.Label, dir),
			Suggestion: fmt.Sprintf("Check permissions: ls -ld %s", dir),
		}
	}
	tmp.Close()
	os.Remove(tmp.Name()) //nolint:errcheck // Best-effort cleanup

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s directory writable: %s", c.Label, dir),
	}
}

func (c *WritableDirCheck) Fix() error {
	return os.MkdirAll(filepath.Dir(config.ExpandPath(c.Path)), 0755)
}

// RecorderStoreCheck opens the recording database and counts its sessions.
// A database that doesn't exist yet passes: the recorder creates it.
type RecorderStoreCheck struct {
	Path string
}

func (c *RecorderStoreCheck) Name() string     { return "recorder_store" }
func (c *RecorderStoreCheck) Category() string { return "STATE" }

func (c *RecorderStoreCheck) Run(ctx context.Context) CheckResult {
	path := config.ExpandPath(c.Path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No recordings yet",
		}
	}

	store, err := record.OpenStore(path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    firstLine(err),
			Suggestion: suggestionOf(err, ""),
		}
	}
	defer store.Close()

	sessions, err := store.Sessions(ctx)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Can't list sessions: %s", firstLine(err)),
			Suggestion: suggestionOf(err, "Move "+path+" aside and record again"),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%d recorded session%s in %s", len(sessions), pluralize(len(sessions)), path),
	}
}

func (c *RecorderStoreCheck) Fix() error {
	return nil
}

// NewStateChecks creates the checks for the log and recorder locations.
func NewStateChecks(cfg *config.Config) []Check {
	checks := []Check{&WritableDirCheck{Label: "log", Path: cfg.Log.File}}
	if cfg.Recorder.Enabled {
		checks = append(checks,
			&WritableDirCheck{Label: "recorder", Path: cfg.Recorder.Path},
			&RecorderStoreCheck{Path: cfg.Recorder.Path},
		)
	}
	return checks
}

// NewChecks assembles every check for a loaded config. configPath is the
// --config flag value.
func NewChecks(cfg *config.Config, configPath string) []Check {
	checks := NewConfigChecks(configPath)
	checks = append(checks, NewLinkChecks(cfg.Link)...)
	checks = append(checks, NewStateChecks(cfg)...)
	return checks
}

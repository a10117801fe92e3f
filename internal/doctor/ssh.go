package doctor

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/pkg/sshutil"
)

// sshKeys lists the private keys the ssh link tries, in the same order:
// $SPEEDO_SSH_KEY, link.ssh.identity_file, then the ~/.ssh defaults.
type sshKeys struct {
	Home         string // overrides the user's home directory
	IdentityFile string // link.ssh.identity_file, already expanded
}

func (k sshKeys) home() (string, error) {
	if k.Home != "" {
		return k.Home, nil
	}
	return os.UserHomeDir()
}

func (k sshKeys) candidates() []string {
	var paths []string
	seen := map[string]bool{}
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	add(os.Getenv(sshutil.KeyEnv))
	add(k.IdentityFile)
	if home, err := k.home(); err == nil {
		for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
			add(filepath.Join(home, ".ssh", name))
		}
	}
	return paths
}

// display shortens paths under the home directory to ~/...
func (k sshKeys) display(path string) string {
	home, err := k.home()
	if err != nil || home == "" {
		return path
	}
	if rel, err := filepath.Rel(home, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.Join("~", rel)
	}
	return path
}

// SSHKeyCheck verifies a private key is available to the ssh link.
type SSHKeyCheck struct {
	Home         string
	IdentityFile string
}

func (c *SSHKeyCheck) keys() sshKeys {
	return sshKeys{Home: c.Home, IdentityFile: c.IdentityFile}
}

func (c *SSHKeyCheck) Name() string     { return "ssh_key" }
func (c *SSHKeyCheck) Category() string { return "SSH" }

func (c *SSHKeyCheck) Run(context.Context) CheckResult {
	if c.IdentityFile != "" {
		if _, err := os.Stat(c.IdentityFile); err != nil {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusFail,
				Message:    "link.ssh.identity_file not found: " + c.keys().display(c.IdentityFile),
				Suggestion: "Fix the path, or remove identity_file to use the keys in ~/.ssh",
			}
		}
	}

	for _, keyPath := range c.keys().candidates() {
		if _, err := os.Stat(keyPath); err == nil {
			return CheckResult{
				Name:    c.Name(),
				Status:  StatusPass,
				Message: "SSH key found: " + c.keys().display(keyPath),
			}
		}
	}

	return CheckResult{
		Name:       c.Name(),
		Status:     StatusFail,
		Message:    "No SSH key found",
		Suggestion: "Generate a key with: ssh-keygen -t ed25519, then ssh-copy-id to the relay's host",
	}
}

func (c *SSHKeyCheck) Fix() error {
	return nil
}

// SSHAgentCheck reports on the ssh agent. The link falls back to key files,
// so agent problems are warnings.
type SSHAgentCheck struct{}

func (c *SSHAgentCheck) Name() string     { return "ssh_agent" }
func (c *SSHAgentCheck) Category() string { return "SSH" }

const agentSuggestion = "Passphrase-protected keys need an agent: eval $(ssh-agent) && ssh-add"

func (c *SSHAgentCheck) Run(ctx context.Context) CheckResult {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH agent not running, using key files only",
			Suggestion: agentSuggestion,
		}
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socket)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH agent socket not accessible, using key files only",
			Suggestion: agentSuggestion,
		}
	}
	conn.Close() //nolint:errcheck

	output, err := exec.CommandContext(ctx, "ssh-add", "-l").Output()
	if err != nil {
		// ssh-add exits 1 when the agent holds no keys
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusWarn,
				Message:    "SSH agent running but no keys loaded",
				Suggestion: "Add a key with: ssh-add",
			}
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Cannot query SSH agent",
			Suggestion: "Check the agent with: ssh-add -l",
		}
	}

	keyCount := 0
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if strings.TrimSpace(line) != "" {
			keyCount++
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("SSH agent running with %d key%s loaded", keyCount, pluralize(keyCount)),
	}
}

func (c *SSHAgentCheck) Fix() error {
	return nil
}

// SSHKeyPermissionsCheck flags private keys readable by group or others,
// which ssh refuses to use.
type SSHKeyPermissionsCheck struct {
	Home         string
	IdentityFile string
}

func (c *SSHKeyPermissionsCheck) keys() sshKeys {
	return sshKeys{Home: c.Home, IdentityFile: c.IdentityFile}
}

func (c *SSHKeyPermissionsCheck) Name() string     { return "ssh_key_permissions" }
func (c *SSHKeyPermissionsCheck) Category() string { return "SSH" }

func (c *SSHKeyPermissionsCheck) insecure() (found bool, bad []string) {
	for _, keyPath := range c.keys().candidates() {
		info, err := os.Stat(keyPath)
		if err != nil {
			continue
		}
		found = true
		if info.Mode().Perm()&0077 != 0 {
			bad = append(bad, keyPath)
		}
	}
	return found, bad
}

func (c *SSHKeyPermissionsCheck) Run(context.Context) CheckResult {
	found, bad := c.insecure()
	if !found {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No private keys to check",
		}
	}

	if len(bad) > 0 {
		shown := make([]string, len(bad))
		for i, p := range bad {
			shown[i] = c.keys().display(p)
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Insecure permissions on: " + strings.Join(shown, ", "),
			Suggestion: "Fix: chmod 600 " + strings.Join(shown, " "),
			Fixable:    true,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "SSH key permissions OK",
	}
}

func (c *SSHKeyPermissionsCheck) Fix() error {
	_, bad := c.insecure()
	for _, keyPath := range bad {
		if err := os.Chmod(keyPath, 0600); err != nil {
			return fmt.Errorf("failed to fix permissions on %s: %w", keyPath, err)
		}
	}
	return nil
}

// NewSSHChecks creates the key and agent checks for an ssh link.
func NewSSHChecks(cfg config.SSHConfig) []Check {
	return []Check{
		&SSHKeyCheck{IdentityFile: cfg.IdentityFile},
		&SSHAgentCheck{},
		&SSHKeyPermissionsCheck{IdentityFile: cfg.IdentityFile},
	}
}

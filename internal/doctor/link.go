package doctor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/link"
	"github.com/rileyhilliard/speedo/internal/telemetry"
	"github.com/rileyhilliard/speedo/pkg/sshutil"
)

// DefaultDiscoverTimeout bounds peer discovery when LinkCheck.Timeout is zero.
const DefaultDiscoverTimeout = 5 * time.Second

// LinkCheck runs peer discovery on the configured transport and looks for
// the configured peer.
type LinkCheck struct {
	Transport telemetry.Transport
	Want      string // peer name or address
	Type      string // link type, for messages
	Timeout   time.Duration
}

func (c *LinkCheck) Name() string     { return "link_peer" }
func (c *LinkCheck) Category() string { return "LINK" }

func (c *LinkCheck) Run(ctx context.Context) CheckResult {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultDiscoverTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	peers, err := c.Transport.Discover(ctx)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Discovery failed on %s link: %s", c.Type, firstLine(err)),
			Suggestion: suggestionOf(err, "Check link.type and link.address in your config"),
		}
	}

	peer, ok := telemetry.MatchPeer(peers, c.Want)
	if !ok {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("No peer named %q (found: %s)", c.Want, peerNames(peers)),
			Suggestion: "Power on the relay, or set link.peer to one of the names above",
		}
	}

	msg := fmt.Sprintf("Found %q at %s", peer.Name, peer.Address)
	if peer.Detail != "" {
		msg += " (" + peer.Detail + ")"
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: msg,
	}
}

func (c *LinkCheck) Fix() error {
	return nil // Devices can't be powered on from here
}

func peerNames(peers []telemetry.Peer) string {
	if len(peers) == 0 {
		return "none"
	}
	names := make([]string, len(peers))
	for i, p := range peers {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// SerialPortsCheck verifies at least one serial port is present.
type SerialPortsCheck struct {
	// List enumerates ports. Defaults to link.ListSerialPorts.
	List func() ([]link.PortInfo, error)
}

func (c *SerialPortsCheck) Name() string     { return "serial_ports" }
func (c *SerialPortsCheck) Category() string { return "LINK" }

func (c *SerialPortsCheck) Run(context.Context) CheckResult {
	list := c.List
	if list == nil {
		list = link.ListSerialPorts
	}

	ports, err := list()
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    firstLine(err),
			Suggestion: suggestionOf(err, ""),
		}
	}

	if len(ports) == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No serial ports found",
			Suggestion: "Plug in the relay's USB cable, then run 'speedo ports'",
		}
	}

	usb := 0
	for _, p := range ports {
		if p.USB {
			usb++
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%d serial port%s (%d USB)", len(ports), pluralize(len(ports)), usb),
	}
}

func (c *SerialPortsCheck) Fix() error {
	return nil
}

// SSHHostCheck looks the link address up in ~/.ssh/config. A plain hostname
// still works, so a missing alias is only a warning.
type SSHHostCheck struct {
	Address    string
	ConfigPath string // overrides ~/.ssh/config
}

func (c *SSHHostCheck) Name() string     { return "ssh_host" }
func (c *SSHHostCheck) Category() string { return "SSH" }

func (c *SSHHostCheck) Run(context.Context) CheckResult {
	if c.Address == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "link.address is empty",
			Suggestion: "Set link.address to an ssh host or alias",
		}
	}

	hosts, err := sshutil.Hosts(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Can't read ssh config: %s", firstLine(err)),
			Suggestion: "Check the syntax of ~/.ssh/config",
		}
	}

	for _, h := range hosts {
		if h.Alias == c.Address {
			return CheckResult{
				Name:    c.Name(),
				Status:  StatusPass,
				Message: fmt.Sprintf("%s → %s", h.Alias, h.Description()),
			}
		}
	}

	return CheckResult{
		Name:       c.Name(),
		Status:     StatusWarn,
		Message:    fmt.Sprintf("%s is not an alias in your ssh config, connecting to it directly", c.Address),
		Suggestion: "Add a Host entry for the relay to ~/.ssh/config",
	}
}

func (c *SSHHostCheck) Fix() error {
	return nil
}

// NewLinkChecks creates the checks for the configured link.
func NewLinkChecks(cfg config.LinkConfig) []Check {
	var checks []Check

	switch cfg.Type {
	case config.LinkSerial:
		checks = append(checks, &SerialPortsCheck{})
	case config.LinkSSH:
		checks = append(checks, &SSHHostCheck{Address: cfg.Address})
		checks = append(checks, NewSSHChecks(cfg.SSH)...)
	}

	if t, err := link.New(cfg); err == nil {
		checks = append(checks, &LinkCheck{
			Transport: t,
			Want:      link.PeerName(cfg),
			Type:      cfg.Type,
			Timeout:   cfg.Timeout,
		})
	}
	return checks
}

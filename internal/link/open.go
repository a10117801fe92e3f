// Package link provides the transports that carry telemetry records from the
// relay to the worker: serial ports, TCP, SSH, and a simulated source.
package link

import (
	"fmt"

	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/telemetry"
	"github.com/rileyhilliard/speedo/pkg/sshutil"
)

// New builds the transport selected by cfg.Type.
func New(cfg config.LinkConfig) (telemetry.Transport, error) {
	peer := PeerName(cfg)

	switch cfg.Type {
	case config.LinkSerial:
		return NewSerial(cfg.Address, peer, cfg.Baud), nil
	case config.LinkTCP:
		return &TCP{Address: cfg.Address, PeerName: peer, Timeout: cfg.Timeout}, nil
	case config.LinkSSH:
		return &SSH{
			Address:  cfg.Address,
			PeerName: peer,
			Command:  cfg.Command,
			Options: sshutil.Options{
				Timeout:         cfg.Timeout,
				IdentityFile:    cfg.SSH.IdentityFile,
				InsecureHostKey: cfg.SSH.Insecure,
			},
		}, nil
	case config.LinkSim:
		return &Sim{PeerName: peer, Interval: cfg.Interval}, nil
	}
	return nil, errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown link type '%s'", cfg.Type),
		"Set link.type to serial, tcp, ssh, or sim")
}

// PeerName is the name the worker matches against discovered peers: the
// configured peer, or the address when no peer name is set.
func PeerName(cfg config.LinkConfig) string {
	if cfg.Peer != "" {
		return cfg.Peer
	}
	if cfg.Type == config.LinkSim {
		return SimAddress
	}
	return cfg.Address
}

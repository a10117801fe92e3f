package link

import (
	"context"

	"github.com/rileyhilliard/speedo/internal/telemetry"
	"github.com/rileyhilliard/speedo/pkg/sshutil"
)

// SSH reaches a relay by running a command on it that prints records.
type SSH struct {
	Address  string
	PeerName string
	Command  string
	Options  sshutil.Options
}

// Discover advertises the configured host, annotated from the ssh config
// when it is a known alias.
func (s *SSH) Discover(ctx context.Context) ([]telemetry.Peer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	peer := telemetry.Peer{Name: s.PeerName, Address: s.Address, Detail: "ssh"}

	hosts, err := sshutil.Hosts(s.Options.ConfigPath)
	if err == nil {
		for _, h := range hosts {
			if h.Alias == s.Address {
				peer.Detail = "ssh " + h.Description()
				break
			}
		}
	}
	return []telemetry.Peer{peer}, nil
}

// Dial connects and starts the relay command.
func (s *SSH) Dial(ctx context.Context, p telemetry.Peer) (telemetry.Link, error) {
	client, err := sshutil.Dial(ctx, p.Address, s.Options)
	if err != nil {
		return nil, err
	}
	stream, err := client.Stream(s.Command)
	if err != nil {
		client.Close()
		return nil, err
	}
	return stream, nil
}

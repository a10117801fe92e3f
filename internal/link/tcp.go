package link

import (
	"context"
	"net"
	"time"

	"github.com/rileyhilliard/speedo/internal/telemetry"
)

// TCP reaches a relay that serves records on a TCP port, such as a WiFi
// bridge on the bike.
type TCP struct {
	Address  string
	PeerName string
	Timeout  time.Duration
}

// Discover advertises the configured address as the only peer.
func (t *TCP) Discover(ctx context.Context) ([]telemetry.Peer, error) {
	return []telemetry.Peer{{Name: t.PeerName, Address: t.Address, Detail: "tcp"}}, ctx.Err()
}

// Dial connects to the peer's address.
func (t *TCP) Dial(ctx context.Context, p telemetry.Peer) (telemetry.Link, error) {
	d := net.Dialer{Timeout: t.Timeout}
	return d.DialContext(ctx, "tcp", p.Address)
}

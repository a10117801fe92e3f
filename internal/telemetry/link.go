package telemetry

import (
	"context"
	"io"
	"strings"
)

// DefaultPeerName is the advertised name of the stock telemetry relay.
const DefaultPeerName = "CAN Relay"

// Peer is a device a transport can connect to.
type Peer struct {
	// Name is the advertised device name matched against the configured peer.
	Name string
	// Address is transport specific: a port path, host:port, or ssh alias.
	Address string
	// Detail is free-form information for listings.
	Detail string
}

// Link is an open connection carrying newline-terminated records. Close must
// make a pending Read return.
type Link interface {
	io.ReadCloser
}

// Discoverer lists the peers currently reachable.
type Discoverer interface {
	Discover(ctx context.Context) ([]Peer, error)
}

// Dialer opens a link to a peer.
type Dialer interface {
	Dial(ctx context.Context, p Peer) (Link, error)
}

// Transport discovers and dials peers of one kind.
type Transport interface {
	Discoverer
	Dialer
}

// MatchPeer returns the first peer whose name or address equals want,
// ignoring case.
func MatchPeer(peers []Peer, want string) (Peer, bool) {
	for _, p := range peers {
		if strings.EqualFold(p.Name, want) || strings.EqualFold(p.Address, want) {
			return p, true
		}
	}
	return Peer{}, false
}

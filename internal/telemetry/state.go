package telemetry

import "time"

// State is the worker's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateStreaming
	StateDisconnecting
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateDisconnecting:
		return "disconnecting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ConnectionState is the coarse link status shown to the user.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
	Failed
)

// String returns a human-readable connection state.
func (c ConnectionState) String() string {
	switch c {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is a snapshot of the worker for display.
type Status struct {
	State State
	// Reason explains the last failure while State is StateFailed.
	Reason string
	// Peer names the connected or last attempted peer.
	Peer  string
	Since time.Time
}

// Connection maps the lifecycle state onto the user-facing connection state.
func (s Status) Connection() ConnectionState {
	switch s.State {
	case StateConnecting:
		return Connecting
	case StateStreaming:
		return Connected
	case StateFailed:
		return Failed
	default:
		return Disconnected
	}
}

// Stats counts worker activity since it was created.
type Stats struct {
	Samples    uint64
	Malformed  uint64
	Attempts   uint64
	Reconnects uint64
}

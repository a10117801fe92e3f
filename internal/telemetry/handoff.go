package telemetry

import "sync"

// Handoff is a single-slot mailbox between the worker and the render loop.
// Put replaces whatever is in the slot; Take empties it. Nothing queues, so a
// slow consumer only ever sees the freshest sample.
type Handoff struct {
	mu          sync.Mutex
	slot        Sample
	full        bool
	overwritten uint64
	ready       chan struct{}
}

// NewHandoff returns an empty handoff.
func NewHandoff() *Handoff {
	return &Handoff{ready: make(chan struct{}, 1)}
}

// Put stores s, discarding any unread sample.
func (h *Handoff) Put(s Sample) {
	h.mu.Lock()
	if h.full {
		h.overwritten++
	}
	h.slot = s
	h.full = true
	h.mu.Unlock()

	select {
	case h.ready <- struct{}{}:
	default:
	}
}

// Take removes and returns the stored sample, if any.
func (h *Handoff) Take() (Sample, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.full {
		return Sample{}, false
	}
	s := h.slot
	h.slot = Sample{}
	h.full = false
	return s, true
}

// Ready receives a value after a Put. It may fire once for several Puts, and a
// Take can find the slot already drained, so always check Take's result.
func (h *Handoff) Ready() <-chan struct{} {
	return h.ready
}

// Overwritten counts samples replaced before anyone took them.
func (h *Handoff) Overwritten() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.overwritten
}

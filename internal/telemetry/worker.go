package telemetry

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/logger"
)

// DefaultBackoff is the fixed delay between failed connection attempts.
const DefaultBackoff = 3 * time.Second

// maxLineBytes bounds a single record. Longer lines are skipped up to the
// next newline and counted as malformed.
const maxLineBytes = 4096

var errLineTooLong = stderrors.New("record exceeds 4096 bytes")

// WorkerConfig configures a Worker.
type WorkerConfig struct {
	// PeerName selects the peer by name or address. Defaults to DefaultPeerName.
	PeerName string
	// Backoff is the fixed retry delay. Defaults to DefaultBackoff.
	Backoff time.Duration
}

// Worker runs the acquisition loop on its own goroutine.
type Worker struct {
	transport Transport
	handoff   *Handoff
	cfg       WorkerConfig
	log       logger.Logger
	now       func() time.Time

	mu     sync.Mutex
	status Status
	stats  Stats
	cancel context.CancelFunc
	done   chan struct{}
	seq    uint64
}

// NewWorker creates an idle worker that will deliver samples into h.
func NewWorker(t Transport, h *Handoff, cfg WorkerConfig, log logger.Logger) *Worker {
	if cfg.PeerName == "" {
		cfg.PeerName = DefaultPeerName
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Worker{
		transport: t,
		handoff:   h,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		status:    Status{State: StateIdle, Since: time.Now()},
	}
}

// Start launches the worker. Calling Start on a running worker does nothing.
// Cancelling ctx has the same effect as Stop without the wait.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.runningLocked() {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.setStateLocked(StateConnecting, "", "")
	w.log.Info("Starting telemetry worker for peer %q", w.cfg.PeerName)

	go w.run(runCtx, w.done)
}

// Stop cancels the worker and blocks until its goroutine has exited and the
// link is closed. Stop on an idle worker returns immediately.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.runningLocked() {
		w.mu.Unlock()
		return
	}
	w.setStateLocked(StateDisconnecting, "", w.status.Peer)
	w.cancel()
	done := w.done
	w.mu.Unlock()

	<-done
	w.log.Info("Telemetry worker stopped")
}

// Running reports whether the worker goroutine is active.
func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runningLocked()
}

func (w *Worker) runningLocked() bool {
	if w.done == nil {
		return false
	}
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

// Status returns a snapshot of the worker state.
func (w *Worker) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// State returns the current lifecycle state.
func (w *Worker) State() State {
	return w.Status().State
}

// Stats returns activity counters.
func (w *Worker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Worker) setStateLocked(s State, reason, peer string) {
	if w.status.State == s && w.status.Reason == reason && w.status.Peer == peer {
		return
	}
	w.status = Status{State: s, Reason: reason, Peer: peer, Since: w.now()}
}

// setState records a transition made by the run loop. Once the context is
// cancelled only the final move to Idle is recorded, so Disconnecting stays
// visible while the loop unwinds.
func (w *Worker) setState(ctx context.Context, s State, reason, peer string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ctx.Err() != nil && s != StateIdle {
		return
	}
	w.setStateLocked(s, reason, peer)
}

func (w *Worker) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer w.setState(ctx, StateIdle, "", "")

	connected := false
	for ctx.Err() == nil {
		w.setState(ctx, StateConnecting, "", "")

		link, peer, err := w.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Warn("Connect to %q failed, retrying in %s: %v", w.cfg.PeerName, w.cfg.Backoff, err)
			w.setState(ctx, StateFailed, failureReason(err), "")
			if !w.sleep(ctx) {
				return
			}
			continue
		}

		if connected {
			w.mu.Lock()
			w.stats.Reconnects++
			w.mu.Unlock()
		}
		connected = true

		w.log.Info("Streaming from %s (%s)", peer.Name, peer.Address)
		w.setState(ctx, StateStreaming, "", peer.Name)

		err = w.stream(ctx, link)
		if cerr := link.Close(); cerr != nil {
			w.log.Debug("Closing link to %s: %v", peer.Address, cerr)
		}
		if ctx.Err() != nil {
			return
		}
		w.log.Warn("Link to %s dropped, reconnecting: %v", peer.Name, err)
	}
}

// connect discovers the configured peer and dials it.
func (w *Worker) connect(ctx context.Context) (Link, Peer, error) {
	w.mu.Lock()
	w.stats.Attempts++
	w.mu.Unlock()

	peers, err := w.transport.Discover(ctx)
	if err != nil {
		return nil, Peer{}, errors.WrapWithCode(err, errors.ErrTransport,
			"Peer discovery failed", "Check that the relay is paired and powered")
	}

	peer, ok := MatchPeer(peers, w.cfg.PeerName)
	if !ok {
		return nil, Peer{}, errors.New(errors.ErrTransport,
			fmt.Sprintf("No peer named %q among %d discovered", w.cfg.PeerName, len(peers)),
			"Run 'speedo ports' to list devices, then set link.peer")
	}

	link, err := w.transport.Dial(ctx, peer)
	if err != nil {
		return nil, peer, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Cannot open %s", peer.Address), "")
	}
	return link, peer, nil
}

// stream reads records until the link fails or ctx ends. It always returns a
// non-nil error; io.EOF means the peer closed the link.
func (w *Worker) stream(ctx context.Context, link Link) error {
	stop := context.AfterFunc(ctx, func() { _ = link.Close() })
	defer stop()

	reader := bufio.NewReaderSize(link, maxLineBytes)
	for {
		line, err := readRecord(reader)
		if stderrors.Is(err, errLineTooLong) {
			w.dropMalformed(err)
			continue
		}
		if line != "" {
			w.consume(line)
		}
		if err != nil {
			return err
		}
	}
}

// consume parses one line and delivers it as the next sample.
func (w *Worker) consume(line string) {
	reading, err := ParseLine(line)
	if stderrors.Is(err, ErrNoRecord) {
		return
	}
	if err != nil {
		w.dropMalformed(err)
		return
	}

	w.mu.Lock()
	w.seq++
	w.stats.Samples++
	s := Sample{Reading: reading, Seq: w.seq, At: w.now()}
	w.mu.Unlock()

	w.handoff.Put(s)
}

func (w *Worker) dropMalformed(err error) {
	w.mu.Lock()
	w.stats.Malformed++
	w.mu.Unlock()
	w.log.Debug("Dropping malformed record: %s", firstLine(err))
}

// readRecord returns the next line without its terminator. A line longer than
// the reader's buffer is discarded through its newline and reported as
// errLineTooLong. At end of stream a final unterminated line is returned
// together with io.EOF.
func readRecord(r *bufio.Reader) (string, error) {
	line, err := r.ReadSlice('\n')
	if stderrors.Is(err, bufio.ErrBufferFull) {
		for stderrors.Is(err, bufio.ErrBufferFull) {
			_, err = r.ReadSlice('\n')
		}
		if err != nil {
			return "", err
		}
		return "", errLineTooLong
	}
	return strings.TrimRight(string(line), "\r\n"), err
}

// sleep waits one backoff interval. It returns false if ctx ended first.
func (w *Worker) sleep(ctx context.Context) bool {
	t := time.NewTimer(w.cfg.Backoff)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// failureReason extracts the headline of a structured error for status display.
func failureReason(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + firstLine(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

func firstLine(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

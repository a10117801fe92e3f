package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/dashboard"
	"github.com/rileyhilliard/speedo/internal/link"
	"github.com/rileyhilliard/speedo/internal/logger"
	"github.com/rileyhilliard/speedo/internal/record"
	"github.com/rileyhilliard/speedo/internal/telemetry"
	"github.com/rileyhilliard/speedo/internal/ui"
)

const (
	defaultStatusInterval = 5 * time.Second
	// statusHistory is how many capacity points the status sparkline shows.
	statusHistory = 20
)

// recordOptions holds the record command's flags.
type recordOptions struct {
	Link     LinkFlags
	Path     string
	Interval string
	Duration string
}

// recordCommand runs headless acquisition into the recorder until
// interrupted or the --for duration elapses.
func recordCommand(ctx context.Context, opts recordOptions) error {
	cfg, _, err := loadConfig(&opts.Link)
	if err != nil {
		return err
	}

	interval, err := ParseInterval(opts.Interval, defaultStatusInterval)
	if err != nil {
		return err
	}
	var limit time.Duration
	if opts.Duration != "" {
		if limit, err = ParseInterval(opts.Duration, 0); err != nil {
			return err
		}
	}

	path := cfg.Recorder.Path
	if opts.Path != "" {
		path = config.ExpandPath(opts.Path)
	}

	log := newConsoleLogger(cfg)
	defer log.Close()
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}

	peer := link.PeerName(cfg.Link)
	rec, err := record.Open(record.Options{
		Path:         path,
		BatchSize:    cfg.Recorder.BatchSize,
		BatchTimeout: cfg.Recorder.BatchTimeout,
		Link:         cfg.Link.Type,
		Peer:         peer,
	}, log.Named("recorder"))
	if err != nil {
		return err
	}

	transport, err := link.New(cfg.Link)
	if err != nil {
		_ = rec.Close()
		return err
	}

	handoff := telemetry.NewHandoff()
	worker := telemetry.NewWorker(transport, handoff, telemetry.WorkerConfig{
		PeerName: peer,
		Backoff:  cfg.Link.Backoff,
	}, log.Named("worker"))

	fmt.Fprintf(os.Stderr, "Recording to %s (session %s)\n", path, shortID(rec.Session()))

	worker.Start(ctx)
	loop := &recordLoop{
		worker:    worker,
		handoff:   handoff,
		sink:      rec,
		out:       os.Stderr,
		interval:  interval,
		fullVolts: cfg.Gauges.Capacity.FullVolts,
		label:     fmt.Sprintf("Connecting to %s over %s", peer, cfg.Link.Type),
	}
	recorded := loop.run(ctx)

	worker.Stop()
	if err := rec.Close(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n%s Recorded %d sample%s in session %s\n",
		ui.SuccessStyle().Render(ui.SymbolSuccess), recorded, pluralSuffix(recorded), shortID(rec.Session()))
	fmt.Fprintf(os.Stderr, "  Chart it with: speedo export --session %s\n", shortID(rec.Session()))
	return nil
}

// statusSource is the part of the worker the record loop reports on.
type statusSource interface {
	Status() telemetry.Status
	Stats() telemetry.Stats
}

// sampleSink receives drained samples. *record.Recorder satisfies it.
type sampleSink interface {
	Record(s telemetry.Sample) error
}

// recordLoop drains the handoff into the sink and prints status lines.
type recordLoop struct {
	worker    statusSource
	handoff   *telemetry.Handoff
	sink      sampleSink
	out       io.Writer
	interval  time.Duration
	fullVolts float64
	label     string

	spinner   *ui.Spinner
	last      telemetry.Sample
	hasSample bool
	capacity  []float64
	recorded  int
	sinkErr   bool
}

// run blocks until ctx is done and returns how many samples were recorded.
func (l *recordLoop) run(ctx context.Context) int {
	l.spinner = ui.NewSpinner(l.out, l.label)
	l.spinner.Start()

	poll := time.NewTicker(250 * time.Millisecond)
	defer poll.Stop()
	status := time.NewTicker(l.interval)
	defer status.Stop()

	for {
		select {
		case <-ctx.Done():
			l.drain()
			if l.spinner != nil {
				l.spinner.Skip()
			}
			return l.recorded

		case <-l.handoff.Ready():
			l.drain()

		case <-poll.C:
			l.pollConnection()

		case <-status.C:
			if l.spinner == nil {
				fmt.Fprintln(l.out, l.statusLine())
			}
		}
	}
}

// drain takes the pending sample, if any.
func (l *recordLoop) drain() {
	s, ok := l.handoff.Take()
	if !ok {
		return
	}
	l.last = s
	l.hasSample = true

	l.capacity = append(l.capacity, dashboard.CapacityFromVolts(s.Volts, l.fullVolts))
	if len(l.capacity) > statusHistory {
		l.capacity = l.capacity[len(l.capacity)-statusHistory:]
	}

	if err := l.sink.Record(s); err != nil {
		if !l.sinkErr {
			ui.PrintWarning(fmt.Sprintf("Recording failed: %v", err))
			l.sinkErr = true
		}
		return
	}
	l.recorded++
}

// pollConnection resolves the connecting spinner once the link streams, and
// brings it back when the link drops.
func (l *recordLoop) pollConnection() {
	st := l.worker.Status()
	switch st.Connection() {
	case telemetry.Connected:
		if l.spinner != nil {
			l.spinner.Success()
			l.spinner = nil
			fmt.Fprintln(l.out, l.statusLine())
		}
	case telemetry.Failed:
		if l.spinner != nil {
			l.spinner.SetDetail(st.Reason)
		}
	default:
		if l.spinner == nil {
			fmt.Fprintln(l.out, ui.WarningStyle().Render(ui.SymbolWarning)+" Link lost, reconnecting")
			l.spinner = ui.NewSpinner(l.out, l.label)
			l.spinner.Start()
		}
	}
}

// statusLine summarizes the latest sample and worker counters.
func (l *recordLoop) statusLine() string {
	muted := ui.MutedStyle()
	stats := l.worker.Stats()

	if !l.hasSample {
		return muted.Render(fmt.Sprintf("  waiting for data  %d recorded", l.recorded))
	}

	r := l.last.Reading
	pct := l.capacity[len(l.capacity)-1]
	line := fmt.Sprintf("  %6.1fV %6.1fA %5.0frpm %5.1fkW  %s %3.0f%%",
		r.Volts, r.Amps, r.RPM, r.Watts()/1000,
		ui.RenderSparkline(l.capacity, statusHistory), pct)

	counters := fmt.Sprintf("  %d recorded", l.recorded)
	if stats.Malformed > 0 {
		counters += fmt.Sprintf(", %d malformed", stats.Malformed)
	}
	if stats.Reconnects > 0 {
		counters += fmt.Sprintf(", %d reconnect%s", stats.Reconnects, pluralSuffix(int(stats.Reconnects)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, line, muted.Render(counters))
}

// shortID abbreviates a session UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

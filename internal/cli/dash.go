package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/dashboard"
	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/link"
	"github.com/rileyhilliard/speedo/internal/logger"
	"github.com/rileyhilliard/speedo/internal/record"
	"github.com/rileyhilliard/speedo/internal/telemetry"
	"github.com/rileyhilliard/speedo/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// dashOptions holds the dash command's flags.
type dashOptions struct {
	Link      LinkFlags
	NoConnect bool
	Record    bool
}

// addDashFlags registers the dash flags. The root command shares them so
// that plain 'speedo' accepts the same overrides.
func addDashFlags(cmd *cobra.Command, opts *dashOptions) {
	AddLinkFlags(cmd, &opts.Link)
	cmd.Flags().BoolVar(&opts.NoConnect, "no-connect", false, "open the dashboard without connecting")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "record samples to the recorder database")
}

// stdoutIsTerminal is swapped out in tests.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// dashSession is everything the dashboard needs, assembled but not started.
type dashSession struct {
	model    dashboard.Model
	worker   *telemetry.Worker
	recorder *record.Recorder
}

// close stops acquisition and flushes the recorder.
func (s *dashSession) close() error {
	s.worker.Stop()
	if s.recorder != nil {
		return s.recorder.Close()
	}
	return nil
}

// dashCommand opens the dashboard.
func dashCommand(ctx context.Context, opts dashOptions) error {
	if !stdoutIsTerminal() {
		return errors.New(errors.ErrConfig,
			"The dashboard needs a terminal",
			"Run 'speedo record' to capture telemetry without one")
	}

	cfg, _, err := loadConfig(&opts.Link)
	if err != nil {
		return err
	}

	log := newFileLogger(cfg)
	defer log.Close()
	logger.SetDefault(log)

	profile := ui.ColorProfile(cfg.Dashboard.Color)
	if noColor {
		profile = termenv.Ascii
	}
	lipgloss.SetColorProfile(profile)

	session, err := newDashSession(ctx, cfg, opts, profile, log)
	if err != nil {
		return err
	}

	log.Info("dashboard starting on %s link (peer %q)", cfg.Link.Type, link.PeerName(cfg.Link))

	p := tea.NewProgram(session.model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()

	closeErr := session.close()
	if runErr != nil {
		return errors.WrapWithCode(runErr, errors.ErrConfig,
			"Dashboard exited unexpectedly",
			"Check the log file: "+cfg.Log.File)
	}
	return closeErr
}

// newDashSession wires transport, worker, gauges, and the optional recorder
// into a dashboard model.
func newDashSession(ctx context.Context, cfg *config.Config, opts dashOptions, profile termenv.Profile, log *logger.ZeroLogger) (*dashSession, error) {
	cluster, err := dashboard.NewCluster(cfg.Gauges)
	if err != nil {
		return nil, err
	}

	transport, err := link.New(cfg.Link)
	if err != nil {
		return nil, err
	}

	handoff := telemetry.NewHandoff()
	worker := telemetry.NewWorker(transport, handoff, telemetry.WorkerConfig{
		PeerName: link.PeerName(cfg.Link),
		Backoff:  cfg.Link.Backoff,
	}, log.Named("worker"))

	session := &dashSession{worker: worker}

	modelOpts := dashboard.Options{
		Tick:        cfg.Dashboard.Tick,
		TrendPoints: cfg.Dashboard.TrendPoints,
		TrendMax:    cfg.Dashboard.TrendMax,
		AutoConnect: cfg.Dashboard.AutoConnect && !opts.NoConnect,
		Profile:     profile,
		Logger:      log.Named("dashboard"),
	}

	if cfg.Recorder.Enabled || opts.Record {
		rec, err := record.Open(record.Options{
			Path:         cfg.Recorder.Path,
			BatchSize:    cfg.Recorder.BatchSize,
			BatchTimeout: cfg.Recorder.BatchTimeout,
			Link:         cfg.Link.Type,
			Peer:         link.PeerName(cfg.Link),
		}, log.Named("recorder"))
		if err != nil {
			return nil, err
		}
		session.recorder = rec
		modelOpts.Sink = rec
	}

	session.model = dashboard.NewModel(ctx, cluster, worker, handoff, modelOpts)
	return session, nil
}

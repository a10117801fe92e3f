package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/speedo/internal/logger"
	"github.com/rileyhilliard/speedo/internal/telemetry"
)

// DefaultTick is how often the dashboard drains the handoff.
const DefaultTick = 100 * time.Millisecond

// DefaultTrendMax is the top of the volts trend's y range.
const DefaultTrendMax = 160.0

// Worker is the acquisition loop the dashboard starts and stops.
// *telemetry.Worker satisfies it.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	Running() bool
	Status() telemetry.Status
	Stats() telemetry.Stats
}

// Sink receives every sample the dashboard consumes.
type Sink interface {
	Record(s telemetry.Sample) error
}

// Options configures a Model.
type Options struct {
	Tick        time.Duration
	TrendPoints int
	TrendMax    float64
	AutoConnect bool
	// Profile selects the canvas color depth. termenv.Ascii disables color.
	Profile termenv.Profile
	// Sink, when set, records consumed samples.
	Sink   Sink
	Logger logger.Logger
}

// Model is the Bubble Tea model for the gauge dashboard. It owns the gauge
// cluster: every gauge setter runs inside Update.
type Model struct {
	ctx     context.Context
	cluster *Cluster
	worker  Worker
	handoff *telemetry.Handoff
	sink    Sink
	log     logger.Logger

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	trend    *Trend
	trendMax float64
	trip     *Trip

	last      telemetry.Sample
	hasSample bool
	status    telemetry.Status
	stats     telemetry.Stats
	sinkErr   string

	tick        time.Duration
	autoConnect bool
	profile     termenv.Profile
	cache       *renderCache

	width    int
	height   int
	showHelp bool
	quitting bool
}

// tickMsg signals a handoff drain.
type tickMsg time.Time

// stoppedMsg reports that the worker has fully stopped.
type stoppedMsg struct{}

// NewModel creates a dashboard over cluster. Samples arrive through h from w;
// ctx bounds every worker run the dashboard starts.
func NewModel(ctx context.Context, cluster *Cluster, w Worker, h *telemetry.Handoff, opts Options) Model {
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	if opts.TrendMax <= 0 {
		opts.TrendMax = DefaultTrendMax
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{Frames: ConnectingSpinnerFrames, FPS: 150 * time.Millisecond}
	sp.Style = lipgloss.NewStyle().Foreground(ColorWarning)

	hm := help.New()
	hm.Styles.ShortKey = hm.Styles.ShortKey.Foreground(ColorTextSecondary)
	hm.Styles.ShortDesc = hm.Styles.ShortDesc.Foreground(ColorTextMuted)

	return Model{
		ctx:         ctx,
		cluster:     cluster,
		worker:      w,
		handoff:     h,
		sink:        opts.Sink,
		log:         opts.Logger,
		keys:        DefaultKeyMap(),
		help:        hm,
		spinner:     sp,
		trend:       NewTrend(opts.TrendPoints),
		trendMax:    opts.TrendMax,
		trip:        &Trip{},
		status:      w.Status(),
		tick:        opts.Tick,
		autoConnect: opts.AutoConnect,
		profile:     opts.Profile,
		cache:       &renderCache{},
	}
}

// Init starts the drain tick, the spinner and, if configured, the worker.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tickCmd(), m.spinner.Tick}
	if m.autoConnect {
		cmds = append(cmds, m.startCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.drain()
		m.refreshStatus()
		if m.quitting {
			return m, nil
		}
		return m, m.tickCmd()

	case stoppedMsg:
		m.refreshStatus()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// Cluster returns the gauges the dashboard drives.
func (m Model) Cluster() *Cluster {
	return m.cluster
}

// Trip returns the running charge and energy totals.
func (m Model) Trip() *Trip {
	return m.trip
}

// Trend returns the volts window.
func (m Model) Trend() *Trend {
	return m.trend
}

// drain consumes the latest sample, if any, on the UI goroutine.
func (m *Model) drain() {
	s, ok := m.handoff.Take()
	if !ok {
		return
	}
	m.consume(s)
}

func (m *Model) consume(s telemetry.Sample) {
	m.cluster.Apply(s.Reading)
	m.trend.Push(s.Volts)
	m.trip.Add(s)
	m.last = s
	m.hasSample = true

	if m.sink == nil {
		return
	}
	if err := m.sink.Record(s); err != nil {
		if m.sinkErr == "" {
			m.log.Error("Recording sample %d failed: %v", s.Seq, err)
		}
		m.sinkErr = err.Error()
		return
	}
	m.sinkErr = ""
}

func (m *Model) refreshStatus() {
	m.status = m.worker.Status()
	m.stats = m.worker.Stats()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// toggleConnection starts an idle worker or stops a running one.
func (m *Model) toggleConnection() tea.Cmd {
	if m.worker.Running() {
		m.log.Info("Disconnect requested")
		return m.stopCmd()
	}
	m.log.Info("Connect requested")
	return m.startCmd()
}

func (m Model) startCmd() tea.Cmd {
	w, ctx := m.worker, m.ctx
	return func() tea.Msg {
		w.Start(ctx)
		return nil
	}
}

// stopCmd joins the worker off the UI goroutine.
func (m Model) stopCmd() tea.Cmd {
	w := m.worker
	return func() tea.Msg {
		w.Stop()
		return stoppedMsg{}
	}
}

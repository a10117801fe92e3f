package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rileyhilliard/speedo/internal/chart"
	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/record"
	"github.com/rileyhilliard/speedo/internal/ui"
)

// exportOptions holds the export command's flags.
type exportOptions struct {
	List    bool
	Session string
	Metrics string
	Out     string
	Width   int
	Height  int
	DB      string
}

// exportCommand lists sessions or renders one to PNG.
func exportCommand(ctx context.Context, opts exportOptions) error {
	dbPath := opts.DB
	if dbPath == "" {
		cfg, _, err := loadConfig(nil)
		if err != nil {
			return err
		}
		dbPath = cfg.Recorder.Path
	} else {
		dbPath = config.ExpandPath(dbPath)
	}
	return runExport(ctx, os.Stdout, dbPath, opts)
}

// runExport does the work of exportCommand against an explicit database.
func runExport(ctx context.Context, w io.Writer, dbPath string, opts exportOptions) error {
	store, err := record.OpenStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.List {
		return listSessions(ctx, w, store)
	}

	info, err := store.Resolve(ctx, opts.Session)
	if err != nil {
		return err
	}

	samples, err := store.Samples(ctx, info.ID)
	if err != nil {
		return err
	}

	out := opts.Out
	if out == "" {
		out = fmt.Sprintf("speedo-%s.png", shortID(info.ID))
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExport,
			"Couldn't create "+out,
			"Check the directory exists and is writable")
	}

	renderErr := chart.Render(f, samples, chart.Options{
		Title:   fmt.Sprintf("%s %s (%s)", info.Link, info.Peer, info.StartedAt.Format("2006-01-02 15:04")),
		Metrics: parseMetrics(opts.Metrics),
		Width:   opts.Width,
		Height:  opts.Height,
	})
	closeErr := f.Close()
	if renderErr != nil {
		_ = os.Remove(out)
		return renderErr
	}
	if closeErr != nil {
		return errors.WrapWithCode(closeErr, errors.ErrExport, "Couldn't write "+out, "")
	}

	fmt.Fprintf(w, "%s Wrote %s (%d sample%s from session %s)\n",
		ui.SuccessStyle().Render(ui.SymbolSuccess), out, len(samples), pluralSuffix(len(samples)), shortID(info.ID))
	return nil
}

// listSessions prints recorded sessions, newest first.
func listSessions(ctx context.Context, w io.Writer, store *record.Store) error {
	sessions, err := store.Sessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded yet")
		return nil
	}

	columns := []ui.TableColumn{
		{Title: "SESSION", Width: 10},
		{Title: "STARTED", Width: 18},
		{Title: "DURATION", Width: 10},
		{Title: "LINK", Width: 8},
		{Title: "PEER", Width: 16},
		{Title: "SAMPLES", Width: 8},
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		duration := "-"
		if d := s.Duration(); d > 0 {
			duration = d.Round(time.Second).String()
		}
		rows = append(rows, []string{
			shortID(s.ID),
			s.StartedAt.Format("2006-01-02 15:04"),
			duration,
			s.Link,
			s.Peer,
			fmt.Sprintf("%d", s.Samples),
		})
	}

	fmt.Fprintln(w, ui.RenderSimpleTable(columns, rows))
	return nil
}

// parseMetrics splits a comma-separated metric list. Empty means defaults.
func parseMetrics(flag string) []string {
	var out []string
	for _, m := range strings.Split(flag, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, strings.ToLower(m))
		}
	}
	return out
}

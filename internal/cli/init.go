package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/doctor"
	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/link"
	"github.com/rileyhilliard/speedo/internal/telemetry"
	"github.com/rileyhilliard/speedo/internal/ui"
	"github.com/rileyhilliard/speedo/pkg/sshutil"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Link           LinkFlags // Pre-specified link settings
	Dir            string    // Where to write the config; defaults to the working directory
	Overwrite      bool      // Overwrite existing config without asking
	NonInteractive bool      // Skip prompts, use flags and defaults
	Record         bool      // Enable the recorder
	SkipDiscovery  bool      // Don't look for the relay before saving

	// Out receives progress and next steps. Defaults to stdout.
	Out io.Writer
}

const configHeader = `# speedo configuration
# Run 'speedo' to open the dashboard, 'speedo doctor' to check this file.
# See: https://github.com/rileyhilliard/speedo for all options

`

// Init creates a new .speedo.yaml configuration file.
func Init(ctx context.Context, opts InitOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	configPath := filepath.Join(dir, config.ConfigFileName)

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	defaults := config.DefaultConfig()
	linkCfg := defaults.Link
	opts.Link.Apply(&linkCfg)
	rec := defaults.Recorder
	rec.Enabled = opts.Record

	if opts.NonInteractive {
		if err := requireAddress(linkCfg); err != nil {
			return err
		}
	} else {
		ui.PrintHeader(out, ui.HeaderInfo{Version: formatVersion(version), Tagline: "Let's find your relay"})
		if err := promptLink(&linkCfg, &rec, opts.Link.Type != ""); err != nil {
			return err
		}
	}

	// Validate what we're about to write
	check := config.DefaultConfig()
	check.Link = linkCfg
	check.Recorder = rec
	check.Recorder.Path = config.ExpandPath(rec.Path)
	if err := config.Validate(check); err != nil {
		return err
	}

	if !opts.SkipDiscovery {
		if err := discoverPeer(ctx, out, linkCfg, opts.NonInteractive); err != nil {
			return err
		}
	}

	data, err := config.MarshalStarter(linkCfg, rec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, []byte(configHeader+string(data)), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  speedo          - Open the dashboard")
	fmt.Fprintln(out, "  speedo record   - Record without the dashboard")
	fmt.Fprintln(out, "  speedo doctor   - Check configuration")

	return nil
}

// requireAddress rejects links that can't work without an address.
func requireAddress(l config.LinkConfig) error {
	switch l.Type {
	case config.LinkTCP:
		if l.Address == "" {
			return errors.New(errors.ErrConfig,
				"A TCP link needs an address in non-interactive mode",
				"Provide --address host:port or run interactively")
		}
	case config.LinkSSH:
		if l.Address == "" {
			return errors.New(errors.ErrConfig,
				"An ssh link needs a host in non-interactive mode",
				"Provide --address with an ssh alias or user@host, or run interactively")
		}
	}
	return nil
}

// discoverPeer looks for the configured peer with a spinner. Failing to find
// it is fatal in non-interactive mode; otherwise the user may save anyway.
func discoverPeer(ctx context.Context, out io.Writer, l config.LinkConfig, nonInteractive bool) error {
	transport, err := link.New(l)
	if err != nil {
		return err
	}

	want := link.PeerName(l)
	fmt.Fprintln(out)
	spinner := ui.NewSpinner(out, fmt.Sprintf("Looking for %s over %s", displayPeer(want), l.Type))
	spinner.Start()

	lc := &doctor.LinkCheck{Transport: transport, Want: want, Type: l.Type, Timeout: l.Timeout}
	result := lc.Run(ctx)
	if result.Status == doctor.StatusPass {
		spinner.Success()
		fmt.Fprintf(out, "  %s\n\n", ui.MutedStyle().Render(result.Message))
		return nil
	}
	spinner.Fail()

	notFound := errors.New(errors.ErrTransport, result.Message, result.Suggestion+"\nOr skip this step with --skip-discovery")
	if nonInteractive {
		return notFound
	}

	fmt.Fprintf(out, "\n%s %s\n\n", ui.SymbolFail, result.Message)

	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save config anyway? (You can connect the relay later)").
				Value(&saveAnyway),
		),
	)
	if err := form.Run(); err != nil || !saveAnyway {
		return notFound
	}
	return nil
}

func displayPeer(name string) string {
	if name == "" {
		return "the relay"
	}
	return fmt.Sprintf("%q", name)
}

// promptLink walks through the link settings. When typeFixed is set the
// --link flag already chose the type.
func promptLink(l *config.LinkConfig, rec *config.RecorderConfig, typeFixed bool) error {
	if !typeFixed {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("How does the relay reach this machine?").
					Options(
						huh.NewOption("Serial / USB adapter", config.LinkSerial),
						huh.NewOption("TCP (relay on the network)", config.LinkTCP),
						huh.NewOption("SSH (relay attached to another computer)", config.LinkSSH),
						huh.NewOption("Simulated data (demo)", config.LinkSim),
					).
					Value(&l.Type),
			),
		)
		if err := form.Run(); err != nil {
			return inputError(err)
		}
	}

	switch l.Type {
	case config.LinkSerial:
		if err := promptSerial(l); err != nil {
			return err
		}
	case config.LinkTCP:
		if err := promptInput("Relay address", "host:port of the relay", "relay.local:9000", &l.Address, validateHostPort); err != nil {
			return err
		}
	case config.LinkSSH:
		if err := promptSSH(l); err != nil {
			return err
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Peer name").
				Description("The relay's advertised name, or its address").
				Placeholder(telemetry.DefaultPeerName).
				Value(&l.Peer),
			huh.NewConfirm().
				Title("Record rides to SQLite?").
				Description("Recordings can be charted with 'speedo export'").
				Value(&rec.Enabled),
		),
	)
	if err := form.Run(); err != nil {
		return inputError(err)
	}
	if strings.TrimSpace(l.Peer) == "" {
		l.Peer = telemetry.DefaultPeerName
	}
	return nil
}

// promptSerial picks a serial port, or leaves the address empty to match the
// relay by USB product name.
func promptSerial(l *config.LinkConfig) error {
	ports, err := listSerialPorts()
	if err != nil {
		ui.PrintWarning(fmt.Sprintf("Couldn't list serial ports: %s", err))
	}

	items := make([]ui.PickerItem, 0, len(ports)+1)
	items = append(items, ui.PickerItem{
		Value:  "",
		Label:  "Any port",
		Detail: "Match the relay by USB product name",
	})
	for _, p := range ports {
		detail := p.Detail()
		if p.Product != "" {
			detail = strings.TrimSpace(p.Product + "  " + detail)
		}
		items = append(items, ui.PickerItem{Value: p.Name, Detail: detail})
	}

	picked, cancelled, err := ui.Pick("Choose the relay's serial port", items)
	if err != nil {
		return inputError(err)
	}
	if cancelled {
		return errors.New(errors.ErrConfig, "Cancelled", "")
	}
	if picked != nil {
		l.Address = picked.Value
		return nil
	}
	return promptInput("Serial port", "Device path of the relay's port", "/dev/ttyUSB0", &l.Address, nil)
}

// promptSSH picks an ssh alias and the relay command to run there.
func promptSSH(l *config.LinkConfig) error {
	hosts, err := sshutil.Hosts("")
	if err != nil {
		ui.PrintWarning(fmt.Sprintf("Couldn't read ~/.ssh/config: %s", err))
	}

	items := make([]ui.PickerItem, len(hosts))
	for i, h := range hosts {
		items[i] = ui.PickerItem{Value: h.Alias, Detail: h.Description()}
	}

	picked, cancelled, err := ui.Pick("Choose the ssh host the relay is attached to", items)
	if err != nil {
		return inputError(err)
	}
	if cancelled {
		return errors.New(errors.ErrConfig, "Cancelled", "")
	}
	if picked != nil {
		l.Address = picked.Value
	} else if err := promptInput("SSH host", "Alias from ~/.ssh/config, or user@host", "pi@bike.local", &l.Address, required("ssh host")); err != nil {
		return err
	}

	return promptInput("Relay command", "Runs on the ssh host and prints records to stdout", l.Command, &l.Command, required("relay command"))
}

// promptInput asks for one value. An empty answer keeps the current value.
func promptInput(title, description, placeholder string, value *string, validate func(string) error) error {
	answer := *value
	input := huh.NewInput().
		Title(title).
		Description(description).
		Placeholder(placeholder).
		Value(&answer)
	if validate != nil {
		input = input.Validate(validate)
	}
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return inputError(err)
	}
	*value = strings.TrimSpace(answer)
	return nil
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func validateHostPort(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("address is required")
	}
	if !strings.Contains(s, ":") {
		return fmt.Errorf("include a port, like relay.local:9000")
	}
	return nil
}

func inputError(err error) error {
	return errors.WrapWithCode(err, errors.ErrConfig,
		"Failed to get user input",
		"Check terminal compatibility or use --non-interactive flag")
}

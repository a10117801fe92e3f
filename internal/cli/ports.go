package cli

import (
	"fmt"
	"io"

	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/link"
	"github.com/rileyhilliard/speedo/internal/ui"
)

// listSerialPorts is swapped out in tests.
var listSerialPorts = link.ListSerialPorts

// portsOptions holds the ports command's flags.
type portsOptions struct {
	Use  string
	JSON bool
}

// PortOutput is one port in --json output.
type PortOutput struct {
	Name         string `json:"name"`
	USB          bool   `json:"usb"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	Product      string `json:"product,omitempty"`
	Peer         string `json:"peer"`
	Active       bool   `json:"active"`
}

// portsCommand lists serial ports, or pins one with --use.
func portsCommand(w io.Writer, opts portsOptions) error {
	cfg, cfgPath, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}

	ports, err := listSerialPorts()
	if err != nil {
		if opts.JSON {
			return WriteJSONFromError(w, err)
		}
		return err
	}

	if opts.Use != "" {
		return usePort(w, cfgPath, ports, opts.Use)
	}

	out := portOutputs(ports, cfg.Link)

	if opts.JSON {
		return WriteJSONSuccess(w, out)
	}

	rows := make([]ui.PortRow, len(out))
	for i, p := range out {
		rows[i] = ui.PortRow{
			Name:   p.Name,
			Detail: ports[i].Detail(),
			Peer:   p.Peer,
			Active: p.Active,
		}
	}
	fmt.Fprint(w, ui.RenderPortsTable(rows))
	if len(rows) == 0 {
		fmt.Fprintln(w)
	}
	return nil
}

// portOutputs names each port the way the serial transport advertises it.
func portOutputs(ports []link.PortInfo, l config.LinkConfig) []PortOutput {
	out := make([]PortOutput, len(ports))
	for i, p := range ports {
		active := l.Type == config.LinkSerial && l.Address != "" && p.Name == l.Address
		peer := p.Product
		if active {
			peer = l.Peer
		}
		out[i] = PortOutput{
			Name:         p.Name,
			USB:          p.USB,
			VID:          p.VID,
			PID:          p.PID,
			SerialNumber: p.SerialNumber,
			Product:      p.Product,
			Peer:         peer,
			Active:       active,
		}
	}
	return out
}

// usePort writes port as link.address, switching the link to serial.
func usePort(w io.Writer, cfgPath string, ports []link.PortInfo, port string) error {
	if cfgPath == "" {
		return errors.New(errors.ErrConfig,
			"No config file to update",
			"Create one first: speedo init --link serial --address "+port)
	}

	found := false
	for _, p := range ports {
		if p.Name == port {
			found = true
			break
		}
	}
	if !found {
		return errors.New(errors.ErrTransport,
			fmt.Sprintf("No serial port named '%s'", port),
			"Run 'speedo ports' to see what's connected")
	}

	if err := config.SetValue(cfgPath, "link.type", config.LinkSerial); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't update "+cfgPath, "Check the file is writable")
	}
	if err := config.SetValue(cfgPath, "link.address", port); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't update "+cfgPath, "Check the file is writable")
	}

	fmt.Fprintf(w, "%s Pinned %s in %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), port, cfgPath)
	return nil
}

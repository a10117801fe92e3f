package link

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/telemetry"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// PortInfo describes a serial port found on this machine.
type PortInfo struct {
	Name         string
	USB          bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// Detail renders the USB identity for listings.
func (p PortInfo) Detail() string {
	if !p.USB {
		return ""
	}
	s := fmt.Sprintf("USB %s:%s", p.VID, p.PID)
	if p.SerialNumber != "" {
		s += " sn " + p.SerialNumber
	}
	return s
}

// ListSerialPorts enumerates serial ports with USB details where available.
func ListSerialPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			"Couldn't enumerate serial ports",
			"Check that you can read /dev (on Linux, join the dialout group)")
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Name:         d.Name,
			USB:          d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })
	return ports, nil
}

// Serial reaches the relay through a serial port, usually a USB adapter.
type Serial struct {
	// Address pins a port path; that port is advertised under PeerName.
	Address  string
	PeerName string
	Baud     int

	listPorts func() ([]PortInfo, error)
	openPort  func(name string, baud int) (io.ReadCloser, error)
}

// NewSerial returns a serial transport at the given line rate.
func NewSerial(address, peerName string, baud int) *Serial {
	return &Serial{
		Address:   address,
		PeerName:  peerName,
		Baud:      baud,
		listPorts: ListSerialPorts,
		openPort:  openSerial,
	}
}

func openSerial(name string, baud int) (io.ReadCloser, error) {
	return serial.Open(name, &serial.Mode{BaudRate: baud})
}

// Discover lists ports as peers. A port advertises its USB product name,
// falling back to its path.
func (s *Serial) Discover(ctx context.Context) ([]telemetry.Peer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ports, err := s.listPorts()
	if err != nil {
		return nil, err
	}

	peers := make([]telemetry.Peer, 0, len(ports))
	for _, p := range ports {
		name := p.Product
		if s.Address != "" && p.Name == s.Address {
			name = s.PeerName
		}
		if name == "" {
			name = p.Name
		}
		peers = append(peers, telemetry.Peer{Name: name, Address: p.Name, Detail: p.Detail()})
	}
	return peers, nil
}

// Dial opens the peer's port.
func (s *Serial) Dial(ctx context.Context, p telemetry.Peer) (telemetry.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	port, err := s.openPort(p.Address, s.Baud)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Couldn't open serial port %s", p.Address),
			"Check the adapter is plugged in and not held by another program")
	}
	return port, nil
}

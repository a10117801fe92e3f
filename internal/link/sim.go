package link

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rileyhilliard/speedo/internal/telemetry"
)

// SimAddress is the address of the simulated peer.
const SimAddress = "sim"

// Sim produces a synthetic record stream for demos and bench testing.
type Sim struct {
	PeerName string
	Interval time.Duration
}

// Discover advertises the simulated peer.
func (s *Sim) Discover(ctx context.Context) ([]telemetry.Peer, error) {
	return []telemetry.Peer{{Name: s.PeerName, Address: SimAddress, Detail: "simulated"}}, ctx.Err()
}

// Dial starts a generator that writes one record per interval.
func (s *Sim) Dial(ctx context.Context, _ telemetry.Peer) (telemetry.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	interval := s.Interval
	if interval <= 0 {
		interval = time.Second
	}

	pr, pw := io.Pipe()
	l := &simLink{pr: pr, stop: make(chan struct{}), done: make(chan struct{})}
	go l.generate(pw, interval)
	return l, nil
}

// SimReading is the synthetic reading for step x: values sweep each gauge's
// range and wrap.
func SimReading(x int) telemetry.Reading {
	return telemetry.Reading{
		Volts:           float64(x % 140),
		Amps:            float64((x % 50) * 5),
		RPM:             float64((x % 100) * 2),
		MotorTempF:      float64(x % 200),
		ControllerTempF: float64(x % 200),
	}
}

type simLink struct {
	pr   *io.PipeReader
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func (l *simLink) Read(p []byte) (int, error) {
	return l.pr.Read(p)
}

// Close stops the generator and unblocks pending reads.
func (l *simLink) Close() error {
	l.once.Do(func() {
		close(l.stop)
		l.pr.Close()
	})
	<-l.done
	return nil
}

func (l *simLink) generate(pw *io.PipeWriter, interval time.Duration) {
	defer close(l.done)
	defer pw.Close()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for x := 0; ; x++ {
		if _, err := io.WriteString(pw, telemetry.FormatLine(SimReading(x))); err != nil {
			return
		}
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}
	}
}

// Package sshutil opens SSH connections to telemetry relays that expose the
// record stream on a remote command's stdout.
package sshutil

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"time"

	"github.com/rileyhilliard/speedo/internal/errors"
	"golang.org/x/crypto/ssh"
)

// DefaultTimeout bounds the TCP connect and handshake when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Options tunes a Dial.
type Options struct {
	Timeout time.Duration
	// IdentityFile is tried before the keys named in ~/.ssh/config.
	IdentityFile string
	// InsecureHostKey skips known_hosts verification.
	InsecureHostKey bool
	// ConfigPath overrides ~/.ssh/config.
	ConfigPath string
	// KnownHostsPath overrides ~/.ssh/known_hosts.
	KnownHostsPath string
}

// Client is an established SSH connection.
type Client struct {
	*ssh.Client
	Host    string // alias or host as given to Dial
	Address string // resolved host:port
}

// Dial connects to host, which may be an ssh config alias, a hostname,
// user@hostname, or hostname:port. Settings are resolved from the ssh config.
// Cancelling ctx aborts the connect and the handshake.
func Dial(ctx context.Context, host string, opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	settings := resolveSettings(host, opts.ConfigPath)
	if opts.IdentityFile != "" {
		settings.identityFile = expandPath(opts.IdentityFile)
	}

	config, err := clientConfig(settings, opts)
	if err != nil {
		var se *errors.Error
		if stderrors.As(err, &se) {
			return nil, err
		}
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Couldn't set up SSH for '%s'", host),
			"Check your keys are loaded: ssh-add -l")
	}

	dialCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	address := settings.address()
	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", address)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Can't reach '%s' at %s", host, address),
			suggestionForDialError(err))
	}

	// The handshake has no context of its own.
	stop := context.AfterFunc(dialCtx, func() { _ = conn.Close() })
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	stop()
	if err != nil {
		conn.Close()

		var mismatch *HostKeyMismatchError
		if stderrors.As(err, &mismatch) {
			return nil, errors.New(errors.ErrTransport, mismatch.Error(), mismatch.Suggestion())
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("SSH handshake with '%s' didn't go through", host),
			suggestionForHandshakeError(err, settings.encryptedKeys))
	}

	return &Client{
		Client:  ssh.NewClient(sshConn, chans, reqs),
		Host:    host,
		Address: address,
	}, nil
}

// Close closes the connection. It is safe on a zero Client.
func (c *Client) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

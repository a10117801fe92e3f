package sshutil

import (
	"fmt"
	"io"
	"sync"

	"github.com/rileyhilliard/speedo/internal/errors"
	"golang.org/x/crypto/ssh"
)

// Stream runs command on the relay and returns its stdout. Closing the
// returned reader ends the session and the connection, which unblocks any
// pending Read.
func (c *Client) Stream(command string) (io.ReadCloser, error) {
	session, err := c.Client.NewSession()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Couldn't open a session on '%s'", c.Host), "")
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		return nil, errors.WrapWithCode(err, errors.ErrTransport, "Couldn't attach to relay output", "")
	}

	if err := session.Start(command); err != nil {
		session.Close()
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Couldn't start '%s' on '%s'", command, c.Host),
			"Check link.ssh.command in your config")
	}

	return &sessionReader{Reader: stdout, session: session, client: c}, nil
}

type sessionReader struct {
	io.Reader
	session *ssh.Session
	client  *Client

	once sync.Once
	err  error
}

func (r *sessionReader) Close() error {
	r.once.Do(func() {
		_ = r.session.Close()
		r.err = r.client.Close()
	})
	return r.err
}

package transport

import (
	"bufio"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// TCP denotes a raw SCPI-over-socket connection, one newline-terminated
// command or reply per line in both directions
type TCP struct {
	addr    string
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
	closed  bool
}

// DialTCP opens a raw socket connection to the instrument at addr
// ("host:port"). A timeout of zero blocks indefinitely
func DialTCP(addr string, timeout time.Duration) (*TCP, error) {
	var (
		conn net.Conn
		err  error
	)
	if timeout > 0 {
		conn, err = net.DialTimeout("tcp", addr, timeout)
	} else {
		conn, err = net.Dial("tcp", addr)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial instrument at %s", addr)
	}

	return &TCP{
		addr:    addr,
		conn:    conn,
		reader:  bufio.NewReader(conn),
		timeout: timeout,
	}, nil
}

// Write sends one command line, expecting no reply
func (t *TCP) Write(cmd string) error {
	if err := t.applyDeadline(); err != nil {
		return errors.Wrap(err, "failed to set connection deadline")
	}

	_, err := t.conn.Write([]byte(cmd + "\n"))
	return errors.Wrapf(err, "failed to send command %q", cmd)
}

// Query sends one command line and blocks until one reply line (or a timeout)
// is received
func (t *TCP) Query(cmd string) (string, error) {
	if err := t.Write(cmd); err != nil {
		return "", err
	}

	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", errors.Wrapf(err, "failed to read reply to %q", cmd)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// SetTimeout adjusts the read / write timeout for subsequent commands
func (t *TCP) SetTimeout(timeout time.Duration) {
	t.timeout = timeout
}

// Close terminates the connection (idempotently)
func (t *TCP) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	return t.conn.Close()
}

// String fulfils the Stringer interface
func (t *TCP) String() string {
	return "tcp://" + t.addr
}

func (t *TCP) applyDeadline() error {
	if t.timeout <= 0 {
		return t.conn.SetDeadline(time.Time{})
	}
	return t.conn.SetDeadline(time.Now().Add(t.timeout))
}

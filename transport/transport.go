// Package transport provides line-oriented command connections to SCPI
// instruments, either over a raw TCP socket or via HiSLIP
package transport

import (
	"net"
	"time"
)

// Transport denotes a synchronous command / response connection to an
// instrument. Exactly one logical owner may issue commands at a time;
// concurrent callers must serialize externally
type Transport interface {

	// Write sends one command line, expecting no reply
	Write(cmd string) error

	// Query sends one command line and blocks until one reply line (or a
	// timeout) is received
	Query(cmd string) (string, error)

	// SetTimeout adjusts the read / write timeout for subsequent commands
	SetTimeout(timeout time.Duration)

	// Close terminates the connection (idempotently)
	Close() error
}

// ListAvailableDevices probes the given connection identifiers ("host:port")
// and returns the ones accepting a TCP connection within the timeout
func ListAvailableDevices(timeout time.Duration, candidates ...string) []string {
	available := make([]string, 0, len(candidates))
	for _, addr := range candidates {
		conn, err := net.DialTimeout("tcp", addr, timeout)
		if err != nil {
			continue
		}
		_ = conn.Close()

		available = append(available, addr)
	}

	return available
}

package k2700

import (
	"time"

	"github.com/phys-lab/k2700/transport"
)

// WithTransport sets the instrument connection (e.g. a HiSLIP session instead
// of the default raw socket)
func WithTransport(device transport.Transport) func(*Multimeter) {
	return func(m *Multimeter) {
		m.device = device
	}
}

// WithTimeout sets the transport read / write timeout
func WithTimeout(timeout time.Duration) func(*Multimeter) {
	return func(m *Multimeter) {
		m.timeout = timeout
	}
}

// WithTimestampRounding sets the number of decimals measurement timestamps
// are rounded to
func WithTimestampRounding(decimals int) func(*Multimeter) {
	return func(m *Multimeter) {
		m.rounding = decimals
	}
}

// WithDisconnectDelay sets how long Disconnect() lets the display render its
// closing message before disarming it
func WithDisconnectDelay(delay time.Duration) func(*Multimeter) {
	return func(m *Multimeter) {
		m.disconnectDelay = delay
	}
}

// WithLogger sets a logger
func WithLogger(logger Logger) func(*Multimeter) {
	return func(m *Multimeter) {
		m.logger = logger
	}
}

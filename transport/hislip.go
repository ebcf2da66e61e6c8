package transport

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/xiabin827/gohislip"
)

const defaultHiSLIPSubAddress = "hislip0"

// HiSLIP denotes an instrument connection over the HiSLIP LAN protocol
type HiSLIP struct {
	addr   string
	client *gohislip.Client
	closed bool
}

// DialHiSLIP opens a HiSLIP session to the instrument at addr
// ("host:port", conventionally port 4880). An empty subAddress selects the
// default "hislip0" sub-address
func DialHiSLIP(addr, subAddress string, timeout time.Duration) (*HiSLIP, error) {
	if subAddress == "" {
		subAddress = defaultHiSLIPSubAddress
	}

	client, err := gohislip.Dial(context.Background(), addr, &gohislip.ClientConfig{
		SubAddress: subAddress,
		Timeout:    timeout,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to establish HiSLIP session with %s/%s", addr, subAddress)
	}

	return &HiSLIP{
		addr:   addr,
		client: client,
	}, nil
}

// Write sends one command line, expecting no reply
func (h *HiSLIP) Write(cmd string) error {
	return errors.Wrapf(h.client.Write(cmd), "failed to send command %q", cmd)
}

// Query sends one command line and blocks until one reply line (or a timeout)
// is received
func (h *HiSLIP) Query(cmd string) (string, error) {
	reply, err := h.client.Query(cmd)
	if err != nil {
		return "", errors.Wrapf(err, "failed to query %q", cmd)
	}

	return reply, nil
}

// SetTimeout fulfils the Transport interface. The HiSLIP session timeout is
// fixed at dial time, so later adjustments are ignored
func (h *HiSLIP) SetTimeout(timeout time.Duration) {}

// Close terminates the session (idempotently)
func (h *HiSLIP) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	h.client.Close()
	return nil
}

// String fulfils the Stringer interface
func (h *HiSLIP) String() string {
	return "hislip://" + h.addr
}

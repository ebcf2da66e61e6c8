package k2700

import (
	"errors"
	"fmt"
)

var (

	// ErrInvalidUnit is returned when a temperature unit other than C, F or K
	// is requested
	ErrInvalidUnit = errors.New("invalid temperature unit (must be C, F or K)")

	// ErrNoChannels is returned when Setup() is called without any channels
	// having been defined
	ErrNoChannels = errors.New("no channels have been defined to set up")

	// ErrNotConfigured is returned when a scan is attempted before Setup()
	ErrNotConfigured = errors.New("multimeter has not been set up")

	// ErrConfigurationLocked is returned when channels are defined after
	// Setup() has already locked the channel list
	ErrConfigurationLocked = errors.New("channel configuration is locked after setup")
)

// DecodeError denotes a failure to decode the reply to a scan query. The scan
// result it occurred in is discarded as a whole
type DecodeError struct {
	Token    string
	Position int
	Reason   string
}

// Error fulfils the error interface
func (e *DecodeError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("failed to decode scan reply: %s", e.Reason)
	}
	return fmt.Sprintf("failed to decode scan reply: %s (token %q at position %d)", e.Reason, e.Token, e.Position)
}

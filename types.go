package k2700

import (
	"fmt"
)

// State denotes the lifecycle state of a Multimeter
type State int

const (

	// StateDisconnected is active before a connection has been established
	// (and again after Disconnect())
	StateDisconnected State = iota

	// StateConnected is active once the instrument has been reset and its
	// display armed
	StateConnected

	// StateChannelsDefined is active once at least one channel has been defined
	StateChannelsDefined

	// StateConfigured is active once Setup() has pushed the channel
	// configuration to the instrument
	StateConfigured

	// StateScanning is active from the first scan onwards
	StateScanning
)

// String fulfils the Stringer interface
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnected:
		return "Connected"
	case StateChannelsDefined:
		return "ChannelsDefined"
	case StateConfigured:
		return "Configured"
	case StateScanning:
		return "Scanning"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Supported temperature units
const (
	UnitCelsius    = "C"
	UnitFahrenheit = "F"
	UnitKelvin     = "K"
)

// Measurement denotes a single reading taken from a particular channel during
// one scan
type Measurement struct {
	ChannelID int
	Time      float64
	Value     float64
	Unit      string
}

// String fulfils the Stringer interface
func (m Measurement) String() string {
	return fmt.Sprintf("channel %d: %g %s @ %gs", m.ChannelID, m.Value, m.Unit, m.Time)
}

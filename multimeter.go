package k2700

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/phys-lab/k2700/transport"
)

const (
	defaultRounding        = 2
	defaultDisconnectDelay = 3 * time.Second
)

// Multimeter drives a scanning digital multimeter over a synchronous
// command / response connection: channel configuration, one-time scan setup
// and repeated scan execution. All operations block until the instrument
// replies (or the transport times out); a single instance owns the connection
type Multimeter struct {
	addr  string
	state State

	temperatureUnit string
	channels        []Channel

	lastResult *ScanResult

	rounding        int
	timeout         time.Duration
	disconnectDelay time.Duration

	device transport.Transport

	logger Logger
}

// New instantiates a new Multimeter, executing functional options, if any,
// and resets the instrument. Unless a transport is provided as option, a raw
// socket connection to addr is opened
func New(addr string, options ...func(*Multimeter)) (*Multimeter, error) {

	// Initialize a new instance of a Multimeter
	m := &Multimeter{
		addr:            addr,
		temperatureUnit: UnitCelsius,
		rounding:        defaultRounding,
		disconnectDelay: defaultDisconnectDelay,
		logger:          &NullLogger{},
	}

	// Execute functional options (if any), see options.go for implementation
	for _, option := range options {
		option(m)
	}

	// Open a raw socket connection (if not provided as option)
	if m.device == nil {
		device, err := transport.DialTCP(addr, m.timeout)
		if err != nil {
			return nil, err
		}
		m.device = device
	} else if m.timeout > 0 {
		m.device.SetTimeout(m.timeout)
	}

	if err := m.reset(); err != nil {
		return nil, fmt.Errorf("failed to reset instrument: %w", err)
	}

	m.state = StateConnected
	m.logger.Debugf("connected instrument at `%s`", m.addr)

	return m, nil
}

// State returns the current lifecycle state
func (m *Multimeter) State() State {
	return m.state
}

// Channels returns the currently defined channels in definition order
func (m *Multimeter) Channels() []Channel {
	return m.channels
}

// LastResult returns the most recent scan result (nil before the first scan)
func (m *Multimeter) LastResult() *ScanResult {
	return m.lastResult
}

// TemperatureUnit returns the currently configured temperature unit
func (m *Multimeter) TemperatureUnit() string {
	return m.temperatureUnit
}

// SetTemperatureUnit configures the unit used for temperature channels (C, F
// or K, case-insensitive) and forwards the change to the instrument. Channels
// that are already defined keep the unit captured at definition time
func (m *Multimeter) SetTemperatureUnit(unit string) error {
	unit = strings.ToUpper(unit)
	if unit != UnitCelsius && unit != UnitFahrenheit && unit != UnitKelvin {
		return fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}

	if err := m.device.Write("UNIT:TEMP " + unit); err != nil {
		return err
	}
	m.temperatureUnit = unit

	return nil
}

// DefineChannels builds and appends one channel per id, all sharing the given
// measurement type. Ids are assumed caller-unique. Definition is legal until
// Setup() locks the channel list
func (m *Multimeter) DefineChannels(ids []int, measurementType MeasurementType) error {
	if m.state == StateConfigured || m.state == StateScanning {
		return ErrConfigurationLocked
	}

	unit := unitFor(measurementType.Function, m.temperatureUnit)
	for _, id := range ids {
		m.channels = append(m.channels, buildChannel(id, measurementType, unit))
	}

	if len(m.channels) > 0 && m.state == StateConnected {
		m.state = StateChannelsDefined
	}

	return nil
}

// Setup completes the scan configuration: it emits every channel's setup
// commands in channel order, declares the sample count and the channel scan
// list and arms the internal scan trigger. Must be called before scanning
func (m *Multimeter) Setup() error {
	if len(m.channels) == 0 {
		return ErrNoChannels
	}

	commands := []string{
		"TRAC:CLE",
		"INIT:CONT OFF",
		"TRIG:COUN 1",
	}
	for _, ch := range m.channels {
		commands = append(commands, ch.SetupCommands...)
	}
	commands = append(commands,
		"SAMP:COUN "+strconv.Itoa(len(m.channels)),
		"ROUT:SCAN (@"+m.channelList()+")",
		"ROUT:SCAN:TSO IMM",
		"ROUT:SCAN:LSEL INT",
	)

	for _, cmd := range commands {
		if err := m.device.Write(cmd); err != nil {
			return err
		}
	}

	m.state = StateConfigured
	m.logger.Debugf("configured %d channels (@%s)", len(m.channels), m.channelList())

	return nil
}

// Scan triggers one scan and decodes its reply in automatic timing mode: all
// measurements of the scan share one elapsed time derived from the device
// clock and the rolling baseline established by the previous scan
func (m *Multimeter) Scan() (*ScanResult, error) {
	return m.runScan(0, false)
}

// ScanAt triggers one scan, stamping every measurement with the given
// timestamp instead of the device clock. A timestamp of zero falls back to
// automatic timing mode
func (m *Multimeter) ScanAt(timestamp float64) (*ScanResult, error) {
	if timestamp == 0 {
		return m.runScan(0, false)
	}
	return m.runScan(timestamp, true)
}

func (m *Multimeter) runScan(timestamp float64, explicit bool) (*ScanResult, error) {
	if m.state != StateConfigured && m.state != StateScanning {
		return nil, fmt.Errorf("cannot scan in state %s: %w", m.state, ErrNotConfigured)
	}

	reply, err := m.device.Query("READ?")
	if err != nil {
		return nil, err
	}

	// The baseline projects the previous scan's device clock back to the
	// device's own clock origin; the very first scan measures against zero
	var baseline float64
	if !explicit && m.lastResult != nil {
		baseline = m.lastResult.DeviceClock - m.lastResult.scanTime
	}

	tokens := splitTokens(reply)
	readings, deviceClock, scanTime, err := decodeScan(m.channels, tokens, baseline, m.rounding, timestamp, explicit)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{
		Channels:    append([]Channel(nil), m.channels...),
		RawTokens:   tokens,
		Readings:    readings,
		DeviceClock: deviceClock,
		scanTime:    scanTime,
	}

	m.lastResult = result
	m.state = StateScanning

	return result, nil
}

// CSVHeader returns the CSV header row for the configured channels. Fails
// unless Setup() has completed
func (m *Multimeter) CSVHeader() (string, error) {
	if m.state != StateConfigured && m.state != StateScanning {
		return "", fmt.Errorf("cannot build CSV header in state %s: %w", m.state, ErrNotConfigured)
	}

	return csvHeader(m.channels), nil
}

// Identify queries the instrument identification string
func (m *Multimeter) Identify() (string, error) {
	return m.device.Query("*IDN?")
}

// Display writes a text message to the instrument's front panel display
func (m *Multimeter) Display(text string) error {
	return m.device.Write("DISP:TEXT:DATA '" + text + "'")
}

// WriteCommand passes a raw command through to the instrument
func (m *Multimeter) WriteCommand(cmd string) error {
	return m.device.Write(cmd)
}

// QueryCommand passes a raw query through to the instrument and returns its
// reply
func (m *Multimeter) QueryCommand(cmd string) (string, error) {
	return m.device.Query(cmd)
}

// SetTimeout adjusts the transport read / write timeout
func (m *Multimeter) SetTimeout(timeout time.Duration) {
	m.timeout = timeout
	m.device.SetTimeout(timeout)
}

// Disconnect restores the instrument display, opens all relay channels and
// terminates the connection. Safe to call more than once; the connection is
// released even if one of the teardown commands fails
func (m *Multimeter) Disconnect() error {
	if m.state == StateDisconnected {
		return nil
	}

	defer func() {
		if err := m.device.Close(); err != nil {
			m.logger.Warnf("failed to close instrument connection: %s", err)
		}
		m.state = StateDisconnected
	}()

	if err := m.Display("CLOSING"); err != nil {
		return err
	}

	// Give the display a moment to render before it is disarmed
	time.Sleep(m.disconnectDelay)

	for _, cmd := range []string{"DISP:TEXT:STAT OFF", "ROUT:OPEN:ALL"} {
		if err := m.device.Write(cmd); err != nil {
			return err
		}
	}

	m.logger.Debugf("disconnected instrument at `%s`", m.addr)

	return nil
}

// String fulfils the Stringer interface
func (m *Multimeter) String() string {
	if m.state == StateDisconnected {
		return fmt.Sprintf("device %s is not connected", m.addr)
	}

	idn, err := m.Identify()
	if err != nil {
		return fmt.Sprintf("connected to device %s", m.addr)
	}
	return fmt.Sprintf("connected to device %s: %s", m.addr, idn)
}

////////////////////////////////////////////////////////////////////////////////

// reset clears the instrument and its trace buffer and arms the front panel
// display
func (m *Multimeter) reset() error {
	for _, cmd := range []string{
		"*RST",
		"*CLS",
		"TRAC:CLE",
		"DISP:TEXT:STAT ON",
	} {
		if err := m.device.Write(cmd); err != nil {
			return err
		}
	}

	return m.Display("READY")
}

func (m *Multimeter) channelList() string {
	ids := make([]string, 0, len(m.channels))
	for _, ch := range m.channels {
		ids = append(ids, strconv.Itoa(ch.ID))
	}
	return strings.Join(ids, ",")
}

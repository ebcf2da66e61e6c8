package k2700

import (
	"strings"
)

// Function denotes the kind of quantity a channel measures. The set is closed,
// matching the measurement functions of the instrument
type Function int

const (

	// FunctionTemperature covers thermocouple temperature measurements
	FunctionTemperature Function = iota

	// FunctionVoltage covers DC / AC voltage measurements
	FunctionVoltage

	// FunctionCurrent covers DC / AC current measurements
	FunctionCurrent

	// FunctionResistance covers 2- and 4-wire resistance measurements
	FunctionResistance
)

// String fulfils the Stringer interface
func (f Function) String() string {
	switch f {
	case FunctionTemperature:
		return "TEMP"
	case FunctionVoltage:
		return "VOLT"
	case FunctionCurrent:
		return "CURR"
	case FunctionResistance:
		return "RES"
	}
	return "UNKNOWN"
}

// MeasurementType denotes an abstract measurement kind together with the
// ordered configuration commands required to put a channel into that mode.
// The commands are templates still missing the trailing channel-list
// qualifier, which is appended per channel (see Channel)
type MeasurementType struct {
	Function      Function
	SetupCommands []string
}

// Thermocouple returns a MeasurementType for a thermocouple of the given type
// (e.g. "K", "J", "T"), using the internal reference junction
func Thermocouple(tcType string) MeasurementType {
	return MeasurementType{
		Function: FunctionTemperature,
		SetupCommands: []string{
			"SENS:FUNC 'TEMP'",
			"SENS:TEMP:TRAN TC",
			"SENS:TEMP:TC:TYPE " + strings.ToUpper(tcType),
			"SENS:TEMP:TC:RJUN:RSEL INT",
		},
	}
}

// DCVoltage returns a MeasurementType for DC voltage measurements
func DCVoltage() MeasurementType {
	return MeasurementType{
		Function:      FunctionVoltage,
		SetupCommands: []string{"SENS:FUNC 'VOLT:DC'"},
	}
}

// ACVoltage returns a MeasurementType for AC voltage measurements
func ACVoltage() MeasurementType {
	return MeasurementType{
		Function:      FunctionVoltage,
		SetupCommands: []string{"SENS:FUNC 'VOLT:AC'"},
	}
}

// DCCurrent returns a MeasurementType for DC current measurements
func DCCurrent() MeasurementType {
	return MeasurementType{
		Function:      FunctionCurrent,
		SetupCommands: []string{"SENS:FUNC 'CURR:DC'"},
	}
}

// ACCurrent returns a MeasurementType for AC current measurements
func ACCurrent() MeasurementType {
	return MeasurementType{
		Function:      FunctionCurrent,
		SetupCommands: []string{"SENS:FUNC 'CURR:AC'"},
	}
}

// Resistance2Wire returns a MeasurementType for 2-wire resistance measurements
func Resistance2Wire() MeasurementType {
	return MeasurementType{
		Function:      FunctionResistance,
		SetupCommands: []string{"SENS:FUNC 'RES'"},
	}
}

// Resistance4Wire returns a MeasurementType for 4-wire resistance measurements
func Resistance4Wire() MeasurementType {
	return MeasurementType{
		Function:      FunctionResistance,
		SetupCommands: []string{"SENS:FUNC 'FRES'"},
	}
}

// unitFor resolves the unit string reported for a measurement function. The
// temperature unit is captured at channel definition time
func unitFor(f Function, temperatureUnit string) string {
	switch f {
	case FunctionTemperature:
		return temperatureUnit
	case FunctionVoltage:
		return "V"
	case FunctionCurrent:
		return "A"
	case FunctionResistance:
		return "Ohms"
	}
	return ""
}

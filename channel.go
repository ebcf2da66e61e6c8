package k2700

import (
	"fmt"
)

// Channel binds a physical multimeter input to a MeasurementType and the unit
// its readings are reported in. The configuration commands are materialized at
// build time by appending the channel-list qualifier to every template of the
// measurement type, preserving template order
type Channel struct {
	ID            int
	Type          MeasurementType
	Unit          string
	SetupCommands []string
}

func buildChannel(id int, measurementType MeasurementType, unit string) Channel {
	qualifier := fmt.Sprintf(",(@%d)", id)

	commands := make([]string, 0, len(measurementType.SetupCommands))
	for _, template := range measurementType.SetupCommands {
		commands = append(commands, template+qualifier)
	}

	return Channel{
		ID:            id,
		Type:          measurementType,
		Unit:          unit,
		SetupCommands: commands,
	}
}

// String fulfils the Stringer interface
func (c Channel) String() string {
	return fmt.Sprintf("%d", c.ID)
}

package main

import (
	"os"
	"strings"
	"time"

	"github.com/phys-lab/k2700"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "10s" decode
type Duration time.Duration

// UnmarshalYAML fulfils the yaml.Unmarshaler interface
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", value.Value)
	}
	*d = Duration(parsed)

	return nil
}

// Config describes one logging session: how to reach the instrument, which
// channels to scan and where the readings go
type Config struct {
	Address    string   `yaml:"address"`
	Protocol   string   `yaml:"protocol"` // tcp (default) or hislip
	SubAddress string   `yaml:"sub_address"`
	Timeout    Duration `yaml:"timeout"`

	TemperatureUnit string `yaml:"temperature_unit"`
	Rounding        int    `yaml:"rounding"`

	Interval Duration `yaml:"interval"`
	Count    int      `yaml:"count"` // 0 scans until interrupted

	Output string `yaml:"output"`

	Channels []ChannelGroup `yaml:"channels"`

	Influx *InfluxConfig `yaml:"influx,omitempty"`
}

// ChannelGroup defines a set of channels sharing one measurement type
type ChannelGroup struct {
	IDs          []int  `yaml:"ids"`
	Measure      string `yaml:"measure"`
	Thermocouple string `yaml:"thermocouple"`
}

// InfluxConfig enables pushing readings to an InfluxDB bucket
type InfluxConfig struct {
	URL         string `yaml:"url"`
	Org         string `yaml:"org"`
	Token       string `yaml:"token"`
	Bucket      string `yaml:"bucket"`
	Measurement string `yaml:"measurement"`
}

// LoadConfig reads and validates a session configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := defaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if config.Address == "" {
		return nil, errors.New("no instrument address configured")
	}
	if len(config.Channels) == 0 {
		return nil, errors.New("no channels configured")
	}
	for _, group := range config.Channels {
		if _, err := group.measurementType(); err != nil {
			return nil, err
		}
	}
	if config.Influx != nil && config.Influx.Measurement == "" {
		config.Influx.Measurement = "dmm"
	}

	return config, nil
}

func defaultConfig() *Config {
	return &Config{
		Protocol:        "tcp",
		Timeout:         Duration(10 * time.Second),
		TemperatureUnit: k2700.UnitCelsius,
		Rounding:        2,
		Interval:        Duration(time.Second),
		Output:          "scan.csv",
	}
}

// measurementType resolves the configured measure name into a MeasurementType
func (g ChannelGroup) measurementType() (k2700.MeasurementType, error) {
	switch strings.ToLower(g.Measure) {
	case "thermocouple", "temperature":
		tcType := g.Thermocouple
		if tcType == "" {
			tcType = "K"
		}
		return k2700.Thermocouple(tcType), nil
	case "dc_voltage", "voltage":
		return k2700.DCVoltage(), nil
	case "ac_voltage":
		return k2700.ACVoltage(), nil
	case "dc_current", "current":
		return k2700.DCCurrent(), nil
	case "ac_current":
		return k2700.ACCurrent(), nil
	case "resistance":
		return k2700.Resistance2Wire(), nil
	case "resistance_4wire":
		return k2700.Resistance4Wire(), nil
	}

	return k2700.MeasurementType{}, errors.Errorf("unknown measurement type %q", g.Measure)
}

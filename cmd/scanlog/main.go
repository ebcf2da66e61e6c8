package main

import (
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/phys-lab/k2700"
	"github.com/phys-lab/k2700/transport"
)

func main() {

	// Parse command line options
	var (
		configPath string
		debug      bool
	)
	flag.StringVar(&configPath, "config", "scanlog.yml", "path of the session configuration file")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()

	logger := k2700.NewDefaultLogger(debug)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration: %s", err)
	}

	device, err := dial(cfg)
	if err != nil {
		logger.Fatalf("failed to connect to instrument: %s", err)
	}

	m, err := k2700.New(cfg.Address,
		k2700.WithTransport(device),
		k2700.WithTimeout(time.Duration(cfg.Timeout)),
		k2700.WithTimestampRounding(cfg.Rounding),
		k2700.WithLogger(logger),
	)
	if err != nil {
		logger.Fatalf("failed to initialize multimeter: %s", err)
	}

	if idn, err := m.Identify(); err == nil {
		logger.Infof("connected to %s", idn)
	}

	if err := m.SetTemperatureUnit(cfg.TemperatureUnit); err != nil {
		logger.Fatalf("failed to set temperature unit: %s", err)
	}

	for _, group := range cfg.Channels {
		measurementType, err := group.measurementType()
		if err != nil {
			logger.Fatalf("invalid channel group: %s", err)
		}
		if err := m.DefineChannels(group.IDs, measurementType); err != nil {
			logger.Fatalf("failed to define channels %v: %s", group.IDs, err)
		}
	}

	if err := m.Setup(); err != nil {
		logger.Fatalf("failed to set up scan: %s", err)
	}

	out, err := os.Create(cfg.Output)
	if err != nil {
		logger.Fatalf("failed to create output file %s: %s", cfg.Output, err)
	}
	defer out.Close()

	header, err := m.CSVHeader()
	if err != nil {
		logger.Fatalf("failed to build CSV header: %s", err)
	}
	if _, err := out.WriteString(header); err != nil {
		logger.Fatalf("failed to write CSV header: %s", err)
	}

	var influxWriteAPI api.WriteAPI
	if cfg.Influx != nil {
		influxClient := influxdb2.NewClient(cfg.Influx.URL, cfg.Influx.Token)
		defer influxClient.Close()
		influxWriteAPI = influxClient.WriteAPI(cfg.Influx.Org, cfg.Influx.Bucket)
	}

	sigChan := make(chan os.Signal, 32)
	signal.Notify(sigChan, syscall.SIGTERM)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		logger.Infof("got signal, disconnecting instrument")
		if err := m.Disconnect(); err != nil {
			logger.Errorf("failed to disconnect instrument: %s", err)
		}
		os.Exit(0)
	}()

	for n := 0; cfg.Count == 0 || n < cfg.Count; n++ {
		if n > 0 {
			time.Sleep(time.Duration(cfg.Interval))
		}

		result, err := m.Scan()
		if err != nil {
			logger.Errorf("scan failed: %s", err)
			continue
		}

		if _, err := out.WriteString(result.MakeCSVRow()); err != nil {
			logger.Errorf("failed to write CSV row: %s", err)
		}

		if influxWriteAPI != nil {
			writeInflux(influxWriteAPI, cfg.Influx.Measurement, result)
		}

		logger.Infof("scan %d: %s", n+1, result)
	}

	if err := m.Disconnect(); err != nil {
		logger.Errorf("failed to disconnect instrument: %s", err)
	}
}

func dial(cfg *Config) (transport.Transport, error) {
	if cfg.Protocol == "hislip" {
		return transport.DialHiSLIP(cfg.Address, cfg.SubAddress, time.Duration(cfg.Timeout))
	}
	return transport.DialTCP(cfg.Address, time.Duration(cfg.Timeout))
}

func writeInflux(writeAPI api.WriteAPI, measurement string, result *k2700.ScanResult) {
	now := time.Now().UTC()
	for _, ch := range result.Channels {
		reading := result.Readings[ch.ID]
		point := influxdb2.NewPoint(measurement,
			map[string]string{
				"channel":  strconv.Itoa(ch.ID),
				"function": ch.Type.Function.String(),
				"unit":     reading.Unit,
			},
			map[string]interface{}{
				"value":   reading.Value,
				"elapsed": reading.Time,
			},
			now)
		writeAPI.WritePoint(point)
	}
	writeAPI.Flush()
}

package k2700

import (
	"strings"
	"testing"
)

func testScanResult() *ScanResult {
	channels := []Channel{
		buildChannel(101, Thermocouple("K"), "C"),
		buildChannel(102, DCVoltage(), "V"),
	}
	return &ScanResult{
		Channels: channels,
		Readings: map[int]Measurement{
			101: {ChannelID: 101, Time: 1.5, Value: 23.4, Unit: "C"},
			102: {ChannelID: 102, Time: 1.5, Value: -0.0032, Unit: "V"},
		},
		DeviceClock: 1.5,
	}
}

func TestMakeCSVHeader(t *testing.T) {
	result := testScanResult()

	want := "Channel 101 Time (s),Channel 101 Value (C),Channel 102 Time (s),Channel 102 Value (V)\n"
	if got := result.MakeCSVHeader(); got != want {
		t.Errorf("got header %q, want %q", got, want)
	}
}

func TestMakeCSVRow(t *testing.T) {
	result := testScanResult()

	want := "1.5,23.4,1.5,-0.0032\n"
	if got := result.MakeCSVRow(); got != want {
		t.Errorf("got row %q, want %q", got, want)
	}
}

func TestCSVStableUnderRepeatedCalls(t *testing.T) {
	result := testScanResult()

	if result.MakeCSVHeader() != result.MakeCSVHeader() {
		t.Error("MakeCSVHeader is not stable under repeated calls")
	}
	if result.MakeCSVRow() != result.MakeCSVRow() {
		t.Error("MakeCSVRow is not stable under repeated calls")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	result := testScanResult()

	file := result.MakeCSVHeader() + result.MakeCSVRow() + result.MakeCSVRow()

	lines := strings.Split(strings.TrimRight(file, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	wantColumns := 2 * len(result.Channels)
	for i, line := range lines {
		if got := len(strings.Split(line, ",")); got != wantColumns {
			t.Errorf("line %d: got %d columns, want %d", i, got, wantColumns)
		}
	}

	// Header columns follow channel definition order
	header := strings.Split(lines[0], ",")
	if !strings.HasPrefix(header[0], "Channel 101 ") || !strings.HasPrefix(header[2], "Channel 102 ") {
		t.Errorf("unexpected header column order: %v", header)
	}
}

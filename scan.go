package k2700

import (
	"strconv"
	"strings"
)

// ScanResult denotes the immutable outcome of a single scan: the channel list
// as configured at scan time, the raw reply tokens, one Measurement per
// channel and the device clock observed during the scan. A new result is
// created on every scan; the previous one is superseded, never mutated
type ScanResult struct {
	Channels    []Channel
	RawTokens   []string
	Readings    map[int]Measurement
	DeviceClock float64

	// unrounded time stamp shared by this scan's measurements, kept for the
	// baseline handoff to the next automatic-mode scan
	scanTime float64
}

// MakeCSVRow returns one newline-terminated CSV row holding the time / value
// pair of every channel in configured order
func (r *ScanResult) MakeCSVRow() string {
	var sb strings.Builder
	for i, ch := range r.Channels {
		if i > 0 {
			sb.WriteByte(',')
		}
		reading := r.Readings[ch.ID]
		sb.WriteString(formatFloat(reading.Time))
		sb.WriteByte(',')
		sb.WriteString(formatFloat(reading.Value))
	}
	sb.WriteByte('\n')

	return sb.String()
}

// MakeCSVHeader returns the newline-terminated CSV header row matching
// MakeCSVRow's column layout
func (r *ScanResult) MakeCSVHeader() string {
	return csvHeader(r.Channels)
}

// String fulfils the Stringer interface
func (r *ScanResult) String() string {
	return strings.Join(r.RawTokens, ",")
}

func csvHeader(channels []Channel) string {
	var sb strings.Builder
	for i, ch := range channels {
		if i > 0 {
			sb.WriteByte(',')
		}
		id := strconv.Itoa(ch.ID)
		sb.WriteString("Channel " + id + " Time (s),Channel " + id + " Value (" + ch.Unit + ")")
	}
	sb.WriteByte('\n')

	return sb.String()
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

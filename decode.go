package k2700

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// minDeviceClock is substituted when the instrument reports a device clock of
// exactly zero, keeping elapsed-time deltas strictly informative
const minDeviceClock = 1e-6

// The instrument injects unit markers into its numeric tokens (e.g.
// "+1.2345E+00VDC" or "+123.456SECS"), so decoding scans each token for the
// first numeric literal, optionally signed, fractional or exponential
var numberPattern = regexp.MustCompile(`[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?`)

// extractFloat parses the first numeric literal contained in a token
func extractFloat(token string) (float64, error) {
	literal := numberPattern.FindString(token)
	if literal == "" {
		return 0, fmt.Errorf("no numeric literal found in %q", token)
	}

	return strconv.ParseFloat(literal, 64)
}

// decodeScan reconstructs one Measurement per channel from the flat token
// sequence of a scan reply. Tokens arrive as consecutive
// (value, device-time, echo) triples, one per channel, in channel order.
//
// In explicit mode every measurement is stamped with explicitTime and the last
// device-time token is recorded as the device clock. In automatic mode a
// single elapsed time (first device-time token minus baseline) is applied to
// every channel and the first device-time token becomes the device clock.
//
// The returned scanTime is the unrounded stamp shared by all channels of this
// scan; the caller derives the next baseline from it
func decodeScan(channels []Channel, tokens []string, baseline float64, rounding int, explicitTime float64, explicit bool) (readings map[int]Measurement, deviceClock float64, scanTime float64, err error) {
	want := 3 * len(channels)
	if len(tokens) != want {
		return nil, 0, 0, &DecodeError{
			Position: -1,
			Reason:   fmt.Sprintf("expected %d tokens for %d channels, got %d", want, len(channels), len(tokens)),
		}
	}

	configured := make(map[int]struct{}, len(channels))
	for _, ch := range channels {
		configured[ch.ID] = struct{}{}
	}

	readings = make(map[int]Measurement, len(channels))
	scanTime = explicitTime

	for i, ch := range channels {
		valueToken := tokens[3*i]
		timeToken := tokens[3*i+1]
		echoToken := tokens[3*i+2]

		value, verr := extractFloat(valueToken)
		if verr != nil {
			return nil, 0, 0, &DecodeError{Token: valueToken, Position: 3 * i, Reason: verr.Error()}
		}

		deviceTime, terr := extractFloat(timeToken)
		if terr != nil {
			return nil, 0, 0, &DecodeError{Token: timeToken, Position: 3*i + 1, Reason: terr.Error()}
		}

		echo, eerr := extractFloat(echoToken)
		if eerr != nil {
			return nil, 0, 0, &DecodeError{Token: echoToken, Position: 3*i + 2, Reason: eerr.Error()}
		}

		// The reply order must match the configured channel order. The echo
		// token usually carries a plain reading counter, but when it names a
		// configured channel it must name the expected one
		if echoID := int(echo); echoID != ch.ID {
			if _, known := configured[echoID]; known {
				return nil, 0, 0, &DecodeError{
					Token:    echoToken,
					Position: 3*i + 2,
					Reason:   fmt.Sprintf("reply order mismatch: got channel %d, expected channel %d", echoID, ch.ID),
				}
			}
		}

		if explicit {
			// Keep recording the device clock so a later automatic-mode scan
			// can still derive a baseline; the last token wins
			deviceClock = deviceTime
		} else if i == 0 {
			scanTime = deviceTime - baseline
			deviceClock = deviceTime
			if deviceClock == 0 {
				deviceClock = minDeviceClock
			}
		}

		readings[ch.ID] = Measurement{
			ChannelID: ch.ID,
			Time:      roundTo(scanTime, rounding),
			Value:     value,
			Unit:      ch.Unit,
		}
	}

	return readings, deviceClock, scanTime, nil
}

// splitTokens splits a raw scan reply into its comma-separated tokens,
// trimming surrounding whitespace
func splitTokens(reply string) []string {
	parts := strings.Split(reply, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		tokens = append(tokens, strings.TrimSpace(part))
	}
	return tokens
}

func roundTo(value float64, decimals int) float64 {
	factor := math.Pow10(decimals)
	return math.Round(value*factor) / factor
}

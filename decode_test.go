package k2700

import (
	"errors"
	"testing"
)

func assertFloats(t testing.TB, got, want float64) {
	t.Helper()

	if got != want {
		t.Errorf("got: %f, want: %f", got, want)
	}
}

func assertNoError(t testing.TB, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func testChannels(ids ...int) []Channel {
	channels := make([]Channel, 0, len(ids))
	for _, id := range ids {
		channels = append(channels, buildChannel(id, DCVoltage(), "V"))
	}
	return channels
}

func TestExtractFloat(t *testing.T) {
	cases := []struct {
		token string
		want  float64
	}{
		{"12.5C", 12.5},
		{"-3.2E-03V", -0.0032},
		{"+1e6", 1000000.0},
		{"+1.234567E+01SECS", 12.34567},
		{".5", 0.5},
		{"+00101RDNG#", 101},
	}

	for _, c := range cases {
		got, err := extractFloat(c.token)
		assertNoError(t, err)
		assertFloats(t, got, c.want)
	}
}

func TestExtractFloatNoNumber(t *testing.T) {
	for _, token := range []string{"", "NAN", "volts", "+-"} {
		if _, err := extractFloat(token); err == nil {
			t.Errorf("expected error extracting from %q, got none", token)
		}
	}
}

func TestDecodeAutomaticFirstScan(t *testing.T) {
	channels := testChannels(101)
	tokens := []string{"+1.5VDC", "+1.000000SECS", "+00001RDNG#"}

	readings, deviceClock, scanTime, err := decodeScan(channels, tokens, 0, 2, 0, false)
	assertNoError(t, err)

	// With a zero baseline the elapsed time is the raw device clock itself
	assertFloats(t, readings[101].Time, 1.0)
	assertFloats(t, readings[101].Value, 1.5)
	assertFloats(t, deviceClock, 1.0)
	assertFloats(t, scanTime, 1.0)
}

func TestDecodeAutomaticSharedBaseline(t *testing.T) {
	channels := testChannels(101, 102, 103)
	tokens := []string{
		"+1.0VDC", "+9.000000SECS", "+00001RDNG#",
		"+2.0VDC", "+9.010000SECS", "+00002RDNG#",
		"+3.0VDC", "+9.020000SECS", "+00003RDNG#",
	}

	readings, deviceClock, _, err := decodeScan(channels, tokens, 6.0, 2, 0, false)
	assertNoError(t, err)

	// One elapsed time per scan, derived from the first channel only
	for _, id := range []int{101, 102, 103} {
		assertFloats(t, readings[id].Time, 3.0)
	}
	assertFloats(t, deviceClock, 9.0)
}

func TestDecodeExplicitTime(t *testing.T) {
	channels := testChannels(101, 102)
	tokens := []string{
		"+1.0VDC", "+7.000000SECS", "+00001RDNG#",
		"+2.0VDC", "+8.000000SECS", "+00002RDNG#",
	}

	readings, deviceClock, scanTime, err := decodeScan(channels, tokens, 0, 2, 5.0, true)
	assertNoError(t, err)

	// Device time tokens are ignored for stamping, but the last one is still
	// recorded as the device clock
	assertFloats(t, readings[101].Time, 5.0)
	assertFloats(t, readings[102].Time, 5.0)
	assertFloats(t, deviceClock, 8.0)
	assertFloats(t, scanTime, 5.0)
}

func TestDecodeZeroDeviceClock(t *testing.T) {
	channels := testChannels(101)
	tokens := []string{"+1.0VDC", "+0.000000SECS", "+00001RDNG#"}

	_, deviceClock, _, err := decodeScan(channels, tokens, 0, 2, 0, false)
	assertNoError(t, err)

	assertFloats(t, deviceClock, minDeviceClock)
}

func TestDecodeRounding(t *testing.T) {
	channels := testChannels(101)
	tokens := []string{"+1.0VDC", "+1.234567SECS", "+00001RDNG#"}

	readings, _, scanTime, err := decodeScan(channels, tokens, 0, 2, 0, false)
	assertNoError(t, err)

	assertFloats(t, readings[101].Time, 1.23)
	assertFloats(t, scanTime, 1.234567)
}

func TestDecodeTokenCountMismatch(t *testing.T) {
	channels := testChannels(101, 102)
	tokens := []string{"+1.0VDC", "+1.0SECS", "+00001RDNG#"}

	_, _, _, err := decodeScan(channels, tokens, 0, 2, 0, false)

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if decodeErr.Position != -1 {
		t.Errorf("expected position -1 for count mismatch, got %d", decodeErr.Position)
	}
}

func TestDecodeMalformedToken(t *testing.T) {
	channels := testChannels(101)
	tokens := []string{"+1.0VDC", "SECS", "+00001RDNG#"}

	_, _, _, err := decodeScan(channels, tokens, 0, 2, 0, false)

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if decodeErr.Position != 1 || decodeErr.Token != "SECS" {
		t.Errorf("expected failure naming token %q at position 1, got %q at %d", "SECS", decodeErr.Token, decodeErr.Position)
	}
}

func TestDecodeEchoOrderMismatch(t *testing.T) {
	channels := testChannels(101, 102)

	// The instrument reports channel 102 first, i.e. the reply order does not
	// match the configured order
	tokens := []string{
		"+1.0VDC", "+1.0SECS", "102INTCHAN",
		"+2.0VDC", "+1.1SECS", "101INTCHAN",
	}

	_, _, _, err := decodeScan(channels, tokens, 0, 2, 0, false)

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if decodeErr.Position != 2 {
		t.Errorf("expected mismatch at position 2, got %d", decodeErr.Position)
	}
}

func TestSplitTokens(t *testing.T) {
	tokens := splitTokens(" +1.0VDC , +2.0SECS ,+3RDNG#")

	want := []string{"+1.0VDC", "+2.0SECS", "+3RDNG#"}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, tok := range tokens {
		if tok != want[i] {
			t.Errorf("token %d: got %q, want %q", i, tok, want[i])
		}
	}
}

package transport

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"
)

// fakeInstrument runs a line-oriented SCPI endpoint on a loopback socket:
// commands ending in '?' are answered from the replies map, everything else
// is swallowed
func fakeInstrument(t testing.TB, replies map[string]string) (addr string, received chan string) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to open loopback listener: %s", err)
	}
	t.Cleanup(func() { listener.Close() })

	received = make(chan string, 64)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			cmd := scanner.Text()
			received <- cmd
			if strings.HasSuffix(cmd, "?") {
				reply, ok := replies[cmd]
				if !ok {
					reply = "ERROR"
				}
				if _, err := conn.Write([]byte(reply + "\n")); err != nil {
					return
				}
			}
		}
	}()

	return listener.Addr().String(), received
}

func TestTCPWriteAndQuery(t *testing.T) {
	addr, received := fakeInstrument(t, map[string]string{
		"*IDN?": "KEITHLEY INSTRUMENTS INC.,MODEL 2700,1234567,B09",
		"READ?": "+1.5VDC,+1.0SECS,+00001RDNG#",
	})

	conn, err := DialTCP(addr, time.Second)
	if err != nil {
		t.Fatalf("failed to dial fake instrument: %s", err)
	}
	defer conn.Close()

	if err := conn.Write("*RST"); err != nil {
		t.Fatalf("write failed: %s", err)
	}
	if got := <-received; got != "*RST" {
		t.Errorf("instrument received %q, want *RST", got)
	}

	idn, err := conn.Query("*IDN?")
	if err != nil {
		t.Fatalf("query failed: %s", err)
	}
	if !strings.HasPrefix(idn, "KEITHLEY") {
		t.Errorf("unexpected reply: %q", idn)
	}
	if strings.ContainsAny(idn, "\r\n") {
		t.Errorf("reply not trimmed: %q", idn)
	}

	reading, err := conn.Query("READ?")
	if err != nil {
		t.Fatalf("scan query failed: %s", err)
	}
	if got := len(strings.Split(reading, ",")); got != 3 {
		t.Errorf("got %d reply tokens, want 3", got)
	}
}

func TestTCPQueryTimeout(t *testing.T) {
	// Endpoint without replies: a query must run into the read deadline
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to open loopback listener: %s", err)
	}
	defer listener.Close()
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		time.Sleep(time.Second)
	}()

	conn, err := DialTCP(listener.Addr().String(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("failed to dial: %s", err)
	}
	defer conn.Close()

	if _, err := conn.Query("READ?"); err == nil {
		t.Error("expected timeout error, got none")
	}
}

func TestTCPCloseIdempotent(t *testing.T) {
	addr, _ := fakeInstrument(t, nil)

	conn, err := DialTCP(addr, time.Second)
	if err != nil {
		t.Fatalf("failed to dial: %s", err)
	}

	if err := conn.Close(); err != nil {
		t.Errorf("first close failed: %s", err)
	}
	if err := conn.Close(); err != nil {
		t.Errorf("repeated close failed: %s", err)
	}
}

func TestListAvailableDevices(t *testing.T) {
	addr, _ := fakeInstrument(t, nil)

	available := ListAvailableDevices(250*time.Millisecond, addr, "127.0.0.1:1")

	if len(available) != 1 || available[0] != addr {
		t.Errorf("got %v, want [%s]", available, addr)
	}
}

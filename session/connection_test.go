package session

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/openhlx/hlx/herr"
	"github.com/openhlx/hlx/proto"
)

type recordingDelegate struct {
	NopDelegate
	mu     sync.Mutex
	events []string
	frames []proto.Match
}

func (r *recordingDelegate) record(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *recordingDelegate) WillConnect(string)       { r.record("WillConnect") }
func (r *recordingDelegate) DidConnect(string)        { r.record("DidConnect") }
func (r *recordingDelegate) DidNotConnect(string, error) { r.record("DidNotConnect") }
func (r *recordingDelegate) WillDisconnect(string)    { r.record("WillDisconnect") }
func (r *recordingDelegate) DidDisconnect(string)     { r.record("DidDisconnect") }
func (r *recordingDelegate) DidReceiveData(m proto.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, m)
}

func (r *recordingDelegate) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

func newEchoListener(t *testing.T, reply []byte) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		if reply != nil {
			conn.Write(reply)
		}
		buf := make([]byte, 1024)
		for {
			if _, err := conn.Read(buf); err != nil {
				return
			}
		}
	}()
	return ln
}

func TestConnectDidConnect(t *testing.T) {
	ln := newEchoListener(t, nil)
	defer ln.Close()

	d := &recordingDelegate{}
	c := New(Config{}, d)
	if err := c.Connect(ln.Addr().String(), time.Second); err != nil {
		t.Fatal(err)
	}
	if c.State() != Connected {
		t.Fatalf("state = %v, want Connected", c.State())
	}
	if !d.has("DidConnect") {
		t.Fatal("expected DidConnect event")
	}
	c.Disconnect(nil)
	if c.State() != Disconnected {
		t.Fatalf("state after Disconnect = %v, want Disconnected", c.State())
	}
	if !d.has("DidDisconnect") {
		t.Fatal("expected DidDisconnect event")
	}
}

func TestConnectWhileConnectedIsAlready(t *testing.T) {
	ln := newEchoListener(t, nil)
	defer ln.Close()

	c := New(Config{}, nil)
	if err := c.Connect(ln.Addr().String(), time.Second); err != nil {
		t.Fatal(err)
	}
	defer c.Disconnect(nil)

	if err := c.Connect(ln.Addr().String(), time.Second); err != herr.ErrAlready {
		t.Fatalf("err = %v, want ErrAlready", err)
	}
}

func TestConnectRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close() // nothing listening now

	d := &recordingDelegate{}
	c := New(Config{ConnectTimeout: time.Second}, d)
	if err := c.Connect(addr, time.Second); err == nil {
		t.Fatal("expected connect error")
	}
	if c.State() != Disconnected {
		t.Fatalf("state = %v, want Disconnected", c.State())
	}
}

func TestDisconnectIdempotent(t *testing.T) {
	c := New(Config{}, nil)
	if err := c.Disconnect(nil); err != nil {
		t.Fatalf("Disconnect on Ready: %v", err)
	}
	if err := c.Disconnect(nil); err != nil {
		t.Fatalf("second Disconnect: %v", err)
	}
}

func TestSendReceivesEchoedFrame(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		// wrap whatever the client sent in the inbound frame
		// morphology and echo it straight back.
		conn.Write([]byte("(" + string(buf[:n-1]) + ")"))
		time.Sleep(50 * time.Millisecond)
	}()

	d := &recordingDelegate{}
	c := New(Config{}, d)
	if err := c.Connect(ln.Addr().String(), time.Second); err != nil {
		t.Fatal(err)
	}
	defer c.Disconnect(nil)

	frame, err := proto.SetScalar(proto.PropVolume, proto.KindZone, 3, -20)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Send(frame); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		d.mu.Lock()
		got := len(d.frames) > 0
		d.mu.Unlock()
		if got {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.frames) == 0 {
		t.Fatal("expected at least one received frame")
	}
}

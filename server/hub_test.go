package server

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/openhlx/hlx/proto"
	"github.com/openhlx/hlx/session"
)

// acceptedConnection dials a throwaway TCP listener and wraps the
// accepted side in a Connected session.Connection via Accept, so Hub can
// be exercised without a full Dispatcher/Listener. A real socket is used
// rather than net.Pipe because net.Pipe's unbuffered Write would
// deadlock against Hub.Broadcast's synchronous fan-out in this test.
func acceptedConnection(t *testing.T) (*session.Connection, *bufio.Reader) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })

	server := <-accepted
	t.Cleanup(func() { server.Close() })

	conn := session.Accept(session.Config{}, nil, server, proto.RequestRegistry)
	return conn, bufio.NewReader(client)
}

func TestHubBroadcastReachesJoinedPeers(t *testing.T) {
	hub := NewHub()
	a, ra := acceptedConnection(t)
	b, rb := acceptedConnection(t)
	hub.Join(a)
	hub.Join(b)

	hub.Broadcast(proto.Frame("(VO3-20)"))

	for _, r := range []*bufio.Reader{ra, rb} {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if line[:len(line)-1] != "(VO3-20)" {
			t.Fatalf("got %q", line)
		}
	}
}

func TestHubLeaveRemovesPeerFromBroadcast(t *testing.T) {
	hub := NewHub()
	a, _ := acceptedConnection(t)
	hub.Join(a)
	hub.Leave(a)

	hub.Broadcast(proto.Frame("(VO3-20)"))

	b, rb := acceptedConnection(t)
	hub.Join(b)
	hub.Broadcast(proto.Frame("(VO4-10)"))
	line, err := rb.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if line[:len(line)-1] != "(VO4-10)" {
		t.Fatalf("got %q, want only the second broadcast", line)
	}
}

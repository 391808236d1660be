package server

import (
	"net"
	"testing"

	"github.com/openhlx/hlx/model"
)

func TestListenerCloseStopsAccepting(t *testing.T) {
	store := model.NewStore()
	hub := NewHub()
	dispatcher := NewDispatcher(store, hub, nil)

	ln, err := NewListener("127.0.0.1:0", dispatcher, hub, nil)
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() { done <- ln.Serve() }()

	addr := ln.Addr().String()
	if _, err := net.Dial("tcp", addr); err != nil {
		t.Fatalf("dial before close: %v", err)
	}

	if err := ln.Close(); err != nil {
		t.Fatal(err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Serve returned %v after Close, want nil", err)
	}

	if _, err := net.Dial("tcp", addr); err == nil {
		t.Fatal("expected dial to fail after Close")
	}
}

// Package server implements the server half of the protocol engine
//: a Listener accepts
// inbound connections, each driven by a Dispatcher that recognises bare
// request frames, mutates the shared model.Store, and replies or
// broadcasts the resulting wire state to every connected peer.
package server

import (
	"sync"

	"github.com/openhlx/hlx/proto"
	"github.com/openhlx/hlx/session"
)

// Hub tracks every currently connected peer so a state-changing request
// from one can be broadcast to all of them — the real amplifier has
// exactly one data model shared by every open telnet session, and a
// change one client makes must appear to every other as an unsolicited
// notification.
type Hub struct {
	mu    sync.Mutex
	peers map[*session.Connection]struct{}
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{peers: make(map[*session.Connection]struct{})}
}

// Join registers conn as an active peer.
func (h *Hub) Join(conn *session.Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[conn] = struct{}{}
}

// Leave removes conn from the active peer set.
func (h *Hub) Leave(conn *session.Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, conn)
}

// Broadcast sends frame to every currently connected peer. Send errors
// on an individual peer are not fatal to the broadcast — a peer mid
// teardown simply misses it, the same way -ECONNRESET is non-fatal to
// the containing program.
func (h *Hub) Broadcast(frame proto.Frame) {
	h.mu.Lock()
	peers := make([]*session.Connection, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	for _, p := range peers {
		_ = p.Send(frame)
	}
}

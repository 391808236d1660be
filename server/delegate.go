package server

import (
	"go.uber.org/zap"

	"github.com/openhlx/hlx/proto"
	"github.com/openhlx/hlx/session"
)

// connDelegate is the per-connection session.Delegate for one accepted
// peer: it joins the Hub on connect, routes every matched request frame
// to the Dispatcher, and leaves the Hub on disconnect. Modeled on
// hlx.Manager's own delegate-implementation style (embed NopDelegate,
// override only the events this role cares about).
type connDelegate struct {
	session.NopDelegate

	dispatcher *Dispatcher
	hub        *Hub
	log        *zap.Logger
	conn       *session.Connection
}

// SetConnection implements session.ConnectionAware: session.Accept calls
// this before DidConnect and before its loop goroutine starts, so conn
// is always usable by the time a frame can arrive. The delegate's logger
// is re-tagged with conn's correlation ID so every line logged for this
// peer carries it.
func (d *connDelegate) SetConnection(conn *session.Connection) {
	d.conn = conn
	d.log = d.log.With(zap.String("conn_id", conn.ID().String()))
}

func (d *connDelegate) DidConnect(addr string) {
	d.hub.Join(d.conn)
	d.log.Info("peer connected", zap.String("addr", addr))
}

func (d *connDelegate) DidReceiveData(match proto.Match) {
	d.dispatcher.Handle(d.conn, match)
}

func (d *connDelegate) DidDisconnect(addr string) {
	d.hub.Leave(d.conn)
	d.log.Info("peer disconnected", zap.String("addr", addr))
}

func (d *connDelegate) Error(err error) {
	d.log.Warn("peer connection error", zap.Error(err))
}

var _ session.Delegate = (*connDelegate)(nil)
var _ session.ConnectionAware = (*connDelegate)(nil)

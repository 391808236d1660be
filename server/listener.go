package server

import (
	"errors"
	"net"

	"go.uber.org/zap"

	"github.com/openhlx/hlx/proto"
	"github.com/openhlx/hlx/session"
)

// Listener accepts inbound TCP connections and wraps each in a
// session.Connection driven by a Dispatcher: the server is symmetric
// with the client's own Connection type, one goroutine per accepted
// net.Conn.
type Listener struct {
	ln         net.Listener
	hub        *Hub
	dispatcher *Dispatcher
	log        *zap.Logger
	config     session.Config
}

// NewListener binds addr (host:port) on the "tcp" network (either
// family) and returns a Listener ready to Serve. A nil logger falls back
// to zap.NewNop().
func NewListener(addr string, dispatcher *Dispatcher, hub *Hub, log *zap.Logger) (*Listener, error) {
	return NewListenerNetwork("tcp", addr, dispatcher, hub, log)
}

// NewListenerNetwork is NewListener with an explicit network ("tcp",
// "tcp4" or "tcp6"), letting a caller honour a -4/-6 address-family
// restriction.
func NewListenerNetwork(network, addr string, dispatcher *Dispatcher, hub *Hub, log *zap.Logger) (*Listener, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ln, err := net.Listen(network, addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln, hub: hub, dispatcher: dispatcher, log: log}, nil
}

// Addr reports the bound address, useful when addr was passed as
// "host:0" to let the kernel pick a port (tests do this).
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Close stops accepting new connections. Already-accepted connections
// run until their own Disconnect.
func (l *Listener) Close() error { return l.ln.Close() }

// Serve accepts connections until the listener is closed, handing each
// one to its own connDelegate/session.Connection pair. A per-accept
// error is logged and non-fatal to the loop — only Close ends it.
func (l *Listener) Serve() error {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			l.log.Warn("accept failed", zap.Error(err))
			continue
		}
		delegate := &connDelegate{dispatcher: l.dispatcher, hub: l.hub, log: l.log}
		session.Accept(l.config, delegate, conn, proto.RequestRegistry)
	}
}

package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openhlx/hlx/herr"
	"github.com/openhlx/hlx/proto"
)

// State names a point in the connection lifecycle:
//
//	Ready --connect()--> Connecting --success--> Connected
//	  ^                     |                        |
//	  |                     +--failure/timeout--> Disconnecting
//	  |                                               |
//	  +----------------  Disconnected  <--------------+
type State int

const (
	Ready State = iota
	Connecting
	Connected
	Disconnecting
	Disconnected
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Disconnecting:
		return "disconnecting"
	case Disconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config holds the tunables for a Connection. The zero value is usable;
// check fills in the defaults for any field left zero.
type Config struct {
	// ConnectTimeout bounds one connect() call. Default 10s.
	ConnectTimeout time.Duration

	// Versions filters DNS resolution. Default IPAny.
	Versions VersionSet
}

func (c *Config) check() *Config {
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.Versions == 0 {
		c.Versions = IPAny
	}
	return c
}

// readResult is what the reader goroutine forwards: a chunk of bytes or
// a terminal error. It never touches Connection state directly.
type readResult struct {
	data []byte
	err  error
}

// Connection owns one TCP socket and the single loop goroutine driving
// it. All exported methods are safe to call
// from any goroutine; they communicate with the loop over channels, they
// never touch the socket or codec directly.
type Connection struct {
	Config
	delegate Delegate
	codec    *proto.Codec

	// id is a per-connection correlation identifier, generated once at
	// construction, meant to be attached to every log line a delegate
	// emits about this connection.
	id uuid.UUID

	mu    sync.Mutex
	state State
	addr  string
	conn  net.Conn

	outbound chan outboundWrite
	stop     chan struct{}
	done     chan struct{}
}

type outboundWrite struct {
	frame proto.Frame
	done  chan error
}

// New returns a Connection in state Ready. A nil delegate is replaced
// with NopDelegate.
func New(config Config, delegate Delegate) *Connection {
	config.check()
	if delegate == nil {
		delegate = NopDelegate{}
	}
	return &Connection{
		Config:   config,
		delegate: delegate,
		codec:    proto.NewCodec(),
		id:       uuid.New(),
		state:    Ready,
		outbound: make(chan outboundWrite),
	}
}

// ID returns this connection's correlation identifier, stable for its
// whole lifetime (across reconnects, for a client Connection reused via
// Connect).
func (c *Connection) ID() uuid.UUID { return c.id }

// ConnectionAware is implemented by a server delegate that needs a
// handle back to the Connection wrapping it (to Send replies or register
// itself with a Hub) but must exist before that Connection does. Accept
// calls SetConnection synchronously, before DidConnect and before the
// loop goroutine starts, so there is no window in which an inbound frame
// could reach the delegate ahead of it having a usable Connection.
type ConnectionAware interface {
	SetConnection(*Connection)
}

// Accept wraps an already-established inbound socket (one a Listener has
// just accepted) in a Connection that is immediately Connected and
// running its loop goroutine: the server side is symmetric to the
// client, surfacing inbound frames to a request dispatcher. The registry
// parameter lets a server recognise the bare
// request frames frame.go builds (proto.RequestRegistry) rather than the
// parenthesised response/notification shapes a client's Connect expects.
func Accept(config Config, delegate Delegate, conn net.Conn, registry []proto.Pattern) *Connection {
	config.check()
	if delegate == nil {
		delegate = NopDelegate{}
	}
	c := &Connection{
		Config:   config,
		delegate: delegate,
		codec:    proto.NewCodecWithRegistry(registry),
		id:       uuid.New(),
		state:    Connected,
		addr:     conn.RemoteAddr().String(),
		conn:     conn,
		outbound: make(chan outboundWrite),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if aware, ok := delegate.(ConnectionAware); ok {
		aware.SetConnection(c)
	}
	delegate.DidConnect(c.addr)
	go c.loop()
	return c
}

// State reports the current lifecycle state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect dials raw, honouring timeout. Calling Connect while already
// Connecting or Connected returns -EALREADY or -EINPROGRESS and never
// touches the socket.
func (c *Connection) Connect(raw string, timeout time.Duration) error {
	c.mu.Lock()
	switch c.state {
	case Connected:
		c.mu.Unlock()
		return herr.ErrAlready
	case Connecting:
		c.mu.Unlock()
		return herr.ErrInProgress
	}
	c.state = Connecting
	c.mu.Unlock()

	if timeout <= 0 {
		timeout = c.ConnectTimeout
	}

	addr, err := ParseAddress(raw)
	if err != nil {
		c.toDisconnected()
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c.delegate.WillConnect(raw)
	c.delegate.IsConnecting(raw)

	ip, err := resolve(ctx, addr, c.Versions, c.delegate)
	if err != nil {
		c.delegate.DidNotConnect(raw, err)
		c.toDisconnected()
		return herr.ErrHostUnreach
	}

	dialer := net.Dialer{}
	target := net.JoinHostPort(ip, fmt.Sprintf("%d", addr.Port))
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		c.toDisconnected()
		if ctx.Err() == context.DeadlineExceeded {
			c.delegate.DidNotConnect(raw, herr.ErrTimedOut)
			return herr.ErrTimedOut
		}
		c.delegate.DidNotConnect(raw, err)
		return herr.ErrConnRefused
	}

	c.mu.Lock()
	c.conn = conn
	c.addr = target
	c.state = Connected
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	c.mu.Unlock()

	c.delegate.DidConnect(target)

	go c.loop()
	return nil
}

// Send enqueues frame for transmission. It blocks until the loop has
// accepted it for writing or the connection is not Connected.
func (c *Connection) Send(frame proto.Frame) error {
	c.mu.Lock()
	if c.state != Connected {
		c.mu.Unlock()
		return herr.ErrNotConn
	}
	stop := c.stop
	c.mu.Unlock()

	w := outboundWrite{frame: frame, done: make(chan error, 1)}
	select {
	case c.outbound <- w:
		return <-w.done
	case <-stop:
		return herr.ErrNotConn
	}
}

// Disconnect requests a graceful teardown and waits for the loop
// goroutine to settle into Disconnected. It is idempotent on
// Disconnected (and on Ready, where there is nothing to tear down). The
// terminal WillDisconnect/DidDisconnect pair is
// always fired by the loop itself (see onLoopExit) so that a connection
// lost to a read error reports through the same path as one the caller
// asked to close.
func (c *Connection) Disconnect(cause error) error {
	c.mu.Lock()
	if c.state == Disconnected || c.state == Ready || c.state == Disconnecting {
		c.mu.Unlock()
		return nil
	}
	stop := c.stop
	done := c.done
	c.mu.Unlock()

	if cause != nil {
		c.delegate.Error(cause)
	}
	if stop != nil {
		select {
		case <-stop:
		default:
			close(stop)
		}
	}
	if done != nil {
		<-done
	}
	return nil
}

// toDisconnected settles a failed connect attempt in Disconnected. No
// socket or loop exists yet, so no WillDisconnect/DidDisconnect pair is
// fired.
func (c *Connection) toDisconnected() {
	c.mu.Lock()
	c.state = Disconnected
	c.mu.Unlock()
}

// onLoopExit runs exactly once per connection, however the loop ended
// (explicit Disconnect, read error, or protocol error), and performs the
// single WillDisconnect/DidDisconnect transition.
func (c *Connection) onLoopExit() {
	c.mu.Lock()
	if c.state == Disconnected {
		c.mu.Unlock()
		return
	}
	c.state = Disconnecting
	addr := c.addr
	c.mu.Unlock()

	c.delegate.WillDisconnect(addr)

	c.mu.Lock()
	c.state = Disconnected
	c.mu.Unlock()

	c.delegate.DidDisconnect(addr)
}

// loop is the single-goroutine reactor for this connection: one select
// over inbound bytes, outbound writes and the stop signal.
func (c *Connection) loop() {
	defer close(c.done)
	defer c.conn.Close()
	defer c.onLoopExit()

	reads := make(chan readResult, 1)
	go c.readLoop(reads)

	for {
		select {
		case <-c.stop:
			return

		case w := <-c.outbound:
			_, err := c.conn.Write(append([]byte(w.frame), '\n'))
			w.done <- err
			if err != nil {
				c.delegate.Error(err)
			}

		case r, ok := <-reads:
			if !ok {
				return
			}
			if r.err != nil {
				if !errors.Is(r.err, net.ErrClosed) {
					// -ECONNRESET and friends are non-fatal to the
					// *containing program* —
					// the caller logs and carries on — but they are
					// always fatal to this one socket, which the
					// defers above tear down.
					c.delegate.Error(r.err)
				}
				return
			}

			matches, err := c.codec.Feed(r.data)
			for _, m := range matches {
				c.delegate.DidReceiveData(m)
			}
			if err != nil {
				c.delegate.Error(err)
				return
			}
		}
	}
}

// readLoop only ever forwards bytes or a terminal error; it never
// touches Connection state directly, leaving all state transitions to
// loop.
func (c *Connection) readLoop(out chan<- readResult) {
	defer close(out)
	buf := make([]byte, 4096)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			cp := make([]byte, n)
			copy(cp, buf[:n])
			out <- readResult{data: cp}
		}
		if err != nil {
			out <- readResult{err: err}
			return
		}
	}
}

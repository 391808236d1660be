// Package hlx implements the command manager: it
// serialises requests through a session.Connection, correlates inbound
// matched frames to the waiter that is expecting a response, and routes
// everything else to registered notification handlers.
package hlx

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/openhlx/hlx/herr"
	"github.com/openhlx/hlx/metrics"
	"github.com/openhlx/hlx/proto"
	"github.com/openhlx/hlx/session"
)

// DefaultExchangeTimeout bounds one exchange absent an explicit timeout.
const DefaultExchangeTimeout = 5 * time.Second

// Handler is a notification callback: invoked synchronously from the
// connection's loop goroutine for any matched frame that is not
// currently claimed by a pending exchange. It must run to completion
// without blocking.
type Handler func(proto.Match)

type pendingExchange struct {
	pattern proto.PatternID
	since   time.Time
	resultC chan exchangeResult
	timer   *time.Timer
}

type exchangeResult struct {
	match proto.Match
	err   error
}

type queuedExchange struct {
	frame   proto.Frame
	pattern proto.PatternID
	timeout time.Duration
	resultC chan exchangeResult
}

// Manager is the command manager for one connection. It implements
// session.Delegate by embedding session.NopDelegate; install it as the
// Connection's delegate, or wrap it inside a richer delegate that
// forwards DidReceiveData, DidDisconnect and Error to it.
type Manager struct {
	session.NopDelegate

	conn    *session.Connection
	log     *zap.Logger
	metrics *metrics.Recorder

	mu       sync.Mutex
	current  *pendingExchange
	queue    []*queuedExchange
	handlers map[proto.PatternID]Handler
	closed   bool
}

// NewManager returns a Manager driving conn. A nil logger falls back to
// zap.NewNop(); a nil recorder makes metrics a no-op.
func NewManager(conn *session.Connection, log *zap.Logger, rec *metrics.Recorder) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	if conn != nil {
		log = log.With(zap.String("conn_id", conn.ID().String()))
	}
	return &Manager{
		conn:     conn,
		log:      log,
		metrics:  rec,
		handlers: make(map[proto.PatternID]Handler),
	}
}

// SetConn attaches the Connection the Manager sends exchanges through.
// NewManager accepts a nil Connection so the two can be constructed in
// either order (the Connection's own constructor requires a Delegate,
// i.e. this Manager, up front); call SetConn once, before the
// Connection's Connect, and never concurrently with Exchange.
func (m *Manager) SetConn(conn *session.Connection) {
	m.conn = conn
	if conn != nil {
		m.log = m.log.With(zap.String("conn_id", conn.ID().String()))
	}
}

// Handle registers the unsolicited-notification callback for a pattern
// id. It is not safe to call concurrently with delivery; register every
// handler before the connection starts receiving.
func (m *Manager) Handle(id proto.PatternID, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[id] = h
}

// Exchange sends frame and blocks until a frame matching responsePattern
// arrives, the exchange times out, or the connection fails. Only one
// exchange is outstanding per connection at a time; concurrent callers
// enqueue FIFO.
func (m *Manager) Exchange(frame proto.Frame, responsePattern proto.PatternID, timeout time.Duration) (proto.Match, error) {
	if timeout <= 0 {
		timeout = DefaultExchangeTimeout
	}

	q := &queuedExchange{
		frame:   frame,
		pattern: responsePattern,
		timeout: timeout,
		resultC: make(chan exchangeResult, 1),
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return proto.Match{}, herr.ErrNotConn
	}
	if m.current == nil {
		m.mu.Unlock()
		m.dispatch(q)
	} else {
		m.queue = append(m.queue, q)
		m.mu.Unlock()
	}

	result := <-q.resultC
	return result.match, result.err
}

// dispatch starts q as the current exchange and sends its frame. It must
// not be called while holding m.mu.
func (m *Manager) dispatch(q *queuedExchange) {
	m.mu.Lock()
	pe := &pendingExchange{pattern: q.pattern, since: time.Now(), resultC: q.resultC}
	pe.timer = time.AfterFunc(q.timeout, func() { m.completeTimeout(pe) })
	m.current = pe
	m.mu.Unlock()

	if err := m.conn.Send(q.frame); err != nil {
		m.completeError(pe, err)
	}
}

// complete finishes the current exchange with match, cancels its timer,
// and asynchronously dispatches the next queued exchange. Dispatch is
// asynchronous because complete is reached from the connection's own
// loop goroutine (DidReceiveData); calling conn.Send synchronously here
// would deadlock against that same goroutine waiting to accept the
// outbound write.
func (m *Manager) complete(pe *pendingExchange, result exchangeResult) {
	pe.timer.Stop()

	m.mu.Lock()
	if m.current != pe {
		m.mu.Unlock()
		return
	}
	m.current = nil
	var next *queuedExchange
	if len(m.queue) > 0 {
		next, m.queue = m.queue[0], m.queue[1:]
	}
	m.mu.Unlock()

	outcome := metrics.OutcomeOK
	switch {
	case result.err == herr.ErrTimedOut:
		outcome = metrics.OutcomeTimeout
	case result.err != nil:
		outcome = metrics.OutcomeError
	}
	m.metrics.Observe(outcome, time.Since(pe.since))

	pe.resultC <- result

	if next != nil {
		go m.dispatch(next)
	}
}

func (m *Manager) completeTimeout(pe *pendingExchange) {
	m.complete(pe, exchangeResult{err: herr.ErrTimedOut})
}

func (m *Manager) completeError(pe *pendingExchange, err error) {
	m.complete(pe, exchangeResult{err: err})
}

// DidReceiveData implements session.Delegate's receive path: a waiter for the matched pattern claims it first;
// otherwise it is routed to a registered notification handler; otherwise
// it is logged and dropped, never silently swallowed.
func (m *Manager) DidReceiveData(match proto.Match) {
	m.mu.Lock()
	pe := m.current
	if pe != nil && pe.pattern == match.Pattern.ID {
		m.mu.Unlock()
		m.complete(pe, exchangeResult{match: match})
		return
	}
	h, ok := m.handlers[match.Pattern.ID]
	m.mu.Unlock()

	if ok {
		h(match)
		return
	}
	m.log.Warn("unrouted frame", zap.Int("pattern", int(match.Pattern.ID)), zap.ByteString("raw", match.Raw))
}

// DidDisconnect implements session.Delegate: every outstanding and
// queued exchange is completed with herr.ErrNotConn, on connection
// error.
func (m *Manager) DidDisconnect(addr string) {
	m.mu.Lock()
	m.closed = true
	current := m.current
	m.current = nil
	queued := m.queue
	m.queue = nil
	m.mu.Unlock()

	if current != nil {
		current.timer.Stop()
		current.resultC <- exchangeResult{err: herr.ErrNotConn}
	}
	for _, q := range queued {
		q.resultC <- exchangeResult{err: herr.ErrNotConn}
	}
}

// Error implements session.Delegate: logged, never fatal to the
// manager itself.
func (m *Manager) Error(err error) {
	m.log.Info("connection error", zap.Error(err))
}

package session

import "github.com/openhlx/hlx/proto"

// VersionSet filters DNS resolution results: hostnames are resolved to
// an IP-address list filtered by a caller-supplied VersionSet ⊆ {IPv4,
// IPv6}.
type VersionSet uint8

const (
	IPv4 VersionSet = 1 << iota
	IPv6

	// IPAny accepts either family, preferring whatever the resolver
	// returns first.
	IPAny = IPv4 | IPv6
)

// Delegate receives connection lifecycle and resolution events, always
// synchronously. DidReceiveData, WillDisconnect, DidDisconnect and socket
// errors are reported from the connection's own loop goroutine, so a
// Delegate implementation must not block there or it stalls that
// connection. The resolution and connect events fire on the goroutine
// calling Connect (DidConnect on the goroutine calling Accept, for an
// accepted socket), and Disconnect reports its cause through Error on
// the caller's goroutine.
type Delegate interface {
	// WillResolve fires just before hostname resolution begins.
	WillResolve(host string)
	// IsResolving fires once, just before the DNS lookup; it does not
	// fire when the host is already an IP literal.
	IsResolving(host string)
	// DidResolve fires once resolution yields an address to dial.
	DidResolve(host string, addr string)
	// DidNotResolve fires when resolution exhausts its candidates.
	DidNotResolve(host string, err error)

	// WillConnect fires just before the dial begins.
	WillConnect(addr string)
	// IsConnecting fires while the dial is in flight.
	IsConnecting(addr string)
	// DidConnect fires once the socket is established and the
	// connection enters Connected.
	DidConnect(addr string)
	// DidNotConnect fires when the dial fails or times out.
	DidNotConnect(addr string, err error)

	// DidReceiveData fires once per matched frame, carrying the pattern
	// that recognised it and its capture groups.
	DidReceiveData(match proto.Match)

	// WillDisconnect fires just before a graceful or error-driven
	// teardown begins.
	WillDisconnect(addr string)
	// DidDisconnect fires once the socket is closed and the connection
	// settles into Disconnected.
	DidDisconnect(addr string)

	// Error reports a non-fatal condition, e.g. -ECONNRESET.
	Error(err error)
}

// NopDelegate implements Delegate with no-op methods. Embed it to
// implement only the events a caller cares about, the usual
// default-fallback idiom for a partial listener implementation.
type NopDelegate struct{}

func (NopDelegate) WillResolve(string)          {}
func (NopDelegate) IsResolving(string)           {}
func (NopDelegate) DidResolve(string, string)    {}
func (NopDelegate) DidNotResolve(string, error)  {}
func (NopDelegate) WillConnect(string)           {}
func (NopDelegate) IsConnecting(string)          {}
func (NopDelegate) DidConnect(string)            {}
func (NopDelegate) DidNotConnect(string, error)  {}
func (NopDelegate) DidReceiveData(proto.Match)   {}
func (NopDelegate) WillDisconnect(string)        {}
func (NopDelegate) DidDisconnect(string)         {}
func (NopDelegate) Error(error)                  {}

var _ Delegate = NopDelegate{}

package client

import (
	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/proto"
)

// nameRoute applies a decoded name-set notification to the owning
// controller's store entry.
type nameRoute func(id proto.Identifier, name string)

// Names is the shared dispatcher for PatternName. The set-name frame
// shape (`N<obj><id>"<name>"`) is used by five kinds
// (zone, source, group, favorite, equalizer preset), but the pattern
// registry (proto/pattern.go) has exactly one PatternName entry — the
// object-code character sits in a shared, non-capturing character
// class, so only one handler can ever be registered for it with
// hlx.Manager. Names recovers the addressed Kind from the matched
// frame's raw bytes (proto.KindFromCode) and fans out to whichever
// controller registered a route for that Kind.
type Names struct {
	routes map[proto.Kind]nameRoute
}

// newNames constructs the dispatcher and registers it as the sole
// PatternName handler on manager.
func newNames(manager *hlx.Manager) *Names {
	n := &Names{routes: make(map[proto.Kind]nameRoute)}
	manager.Handle(proto.PatternName, n.handle)
	return n
}

// register installs the route for k. Called once per nameable
// controller during App construction.
func (n *Names) register(k proto.Kind, route nameRoute) {
	n.routes[k] = route
}

// handle parses a PatternName match and dispatches it. The matched raw
// bytes are "(N<obj><id>\"<name>\")"; byte 0 is '(', byte 1 is 'N', byte
// 2 is the object code.
func (n *Names) handle(match proto.Match) {
	if len(match.Raw) < 3 {
		return
	}
	k, ok := proto.KindFromCode(match.Raw[2])
	if !ok {
		return
	}
	route, ok := n.routes[k]
	if !ok {
		return
	}
	route(parseID(match.Captures[0]), match.Captures[1])
}

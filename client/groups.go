package client

import (
	"time"

	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/proto"
)

// Groups is the object controller for groups. Groups carry no wire-level
// volume/mute state of their own: the pattern
// registry deliberately excludes KindGroup from the volume/mute object
// class, so Groups' only wire traffic is membership and naming; its
// aggregate state is derived by App (client/app.go).
type Groups struct {
	store   *model.Store
	manager *hlx.Manager
	emit    StateChangeHandler
}

// NewGroups constructs a Groups controller. It registers no notification
// handlers of its own: group membership changes have no wire shape in
// this implementation (see DESIGN.md) and
// naming is routed through the shared Names dispatcher.
func NewGroups(store *model.Store, manager *hlx.Manager, emit StateChangeHandler) *Groups {
	return &Groups{store: store, manager: manager, emit: emit}
}

func (g *Groups) Name() string { return "groups" }

// Refresh issues a per-group query (name only; membership and derived
// state are not wire properties).
func (g *Groups) Refresh(timeout time.Duration, onProgress RefreshHandler) error {
	return refreshByID(g.manager, g.store.GroupIDs(), timeout,
		func(id proto.Identifier) (proto.Frame, proto.PatternID, error) {
			f, err := proto.QueryObject(proto.KindGroup, id)
			return f, proto.PatternName, err
		}, onProgress)
}

func (g *Groups) handleName(id proto.Identifier, name string) {
	group, err := g.store.Group(id)
	if err != nil {
		return
	}
	if err := group.SetName(name); err == nil {
		g.emit(StateChange{Controller: g.Name(), Property: "name", ID: id})
	}
}

// AddZone adds zone to group id and emits a "zones" StateChange, on
// which App re-derives the group's state. Adding a zone that is already
// a member emits nothing.
func (g *Groups) AddZone(id, zone proto.Identifier) error {
	group, err := g.store.Group(id)
	if err != nil {
		return err
	}
	if err := group.AddZone(zone); err == nil {
		g.emit(StateChange{Controller: g.Name(), Property: "zones", ID: id})
		return nil
	}
	return nil
}

// RemoveZone removes zone from group id.
func (g *Groups) RemoveZone(id, zone proto.Identifier) error {
	group, err := g.store.Group(id)
	if err != nil {
		return err
	}
	if err := group.RemoveZone(zone); err == nil {
		g.emit(StateChange{Controller: g.Name(), Property: "zones", ID: id})
		return nil
	}
	return nil
}

package client

import (
	"time"

	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/proto"
)

// Sources is the object controller for sources. It is one of two
// exceptions to the iterate-and-query refresh pattern: the peer exposes
// no per-source query; source state arrives as part of
// the one-shot configuration query owned by a sibling controller
// (Zones, here — a zone's query response can carry its source's name).
// Sources' Refresh therefore completes immediately.
type Sources struct {
	store   *model.Store
	manager *hlx.Manager
	emit    StateChangeHandler
}

// NewSources constructs a Sources controller. It registers no handlers
// of its own: KindSource name matches reach handleName through the
// shared Names dispatcher.
func NewSources(store *model.Store, manager *hlx.Manager, emit StateChangeHandler) *Sources {
	return &Sources{store: store, manager: manager, emit: emit}
}

func (s *Sources) Name() string { return "sources" }

// Refresh completes immediately.
func (s *Sources) Refresh(timeout time.Duration, onProgress RefreshHandler) error {
	if onProgress != nil {
		onProgress(100)
	}
	return nil
}

// handleName updates a source's name from a routed PatternName match;
// invoked by the shared Names dispatcher (client/names.go), never
// registered directly with the manager.
func (s *Sources) handleName(id proto.Identifier, name string) {
	src, err := s.store.Source(id)
	if err != nil {
		return
	}
	if err := src.SetName(name); err == nil {
		s.emit(StateChange{Controller: s.Name(), Property: "name", ID: id})
	}
}

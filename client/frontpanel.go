package client

import (
	"time"

	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/proto"
)

// FrontPanel is the object controller for the singleton front-panel
// lock. No other front-panel property appears anywhere in the wire
// alphabet (see DESIGN.md).
type FrontPanel struct {
	store   *model.Store
	manager *hlx.Manager
	emit    StateChangeHandler
}

// NewFrontPanel constructs a FrontPanel controller and registers its
// notification handler.
func NewFrontPanel(store *model.Store, manager *hlx.Manager, emit StateChangeHandler) *FrontPanel {
	f := &FrontPanel{store: store, manager: manager, emit: emit}
	manager.Handle(proto.PatternFrontPanelLock, f.handleLocked)
	return f
}

func (f *FrontPanel) Name() string { return "front-panel" }

// Refresh issues the single locked-state query for the singleton
// front-panel.
func (f *FrontPanel) Refresh(timeout time.Duration, onProgress RefreshHandler) error {
	frame, err := proto.QueryObject(proto.KindFrontPanel, 1)
	if err != nil {
		return err
	}
	if _, err := f.manager.Exchange(frame, proto.PatternFrontPanelLock, timeout); err != nil {
		return err
	}
	if onProgress != nil {
		onProgress(100)
	}
	return nil
}

func (f *FrontPanel) handleLocked(match proto.Match) {
	locked := match.Captures[1] == "E"
	panel := f.store.FrontPanel()
	if err := panel.SetLocked(locked); err == nil {
		f.emit(StateChange{Controller: f.Name(), Property: "locked", ID: 1})
	}
}

// SetLocked submits a locked-state write for the front panel.
func (f *FrontPanel) SetLocked(locked bool, timeout time.Duration) error {
	frame, err := proto.FrontPanelSetLocked(1, locked)
	if err != nil {
		return err
	}
	_, err = f.manager.Exchange(frame, proto.PatternFrontPanelLock, timeout)
	return err
}

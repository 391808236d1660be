package client

import (
	"time"

	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/proto"
)

// Infrared is the object controller for the singleton infrared receiver.
// It is the second exception to the iterate-and-query pattern: due to a
// known peer quirk, the response to the "query infrared disabled"
// command is shaped identically to an unsolicited "disabled changed"
// notification, and the handler treats them interchangeably. Concretely,
// PatternInfraredDisabled is both the
// notification pattern and the response Refresh waits on, so the same
// handleDisabled callback both satisfies the query exchange and updates the store — there is no separate
// "is this a response or a notification" branch to write.
type Infrared struct {
	store   *model.Store
	manager *hlx.Manager
	emit    StateChangeHandler
}

// NewInfrared constructs an Infrared controller and registers its
// notification handler.
func NewInfrared(store *model.Store, manager *hlx.Manager, emit StateChangeHandler) *Infrared {
	i := &Infrared{store: store, manager: manager, emit: emit}
	manager.Handle(proto.PatternInfraredDisabled, i.handleDisabled)
	return i
}

func (i *Infrared) Name() string { return "infrared" }

// Refresh issues the single disabled-state query for the singleton
// infrared receiver.
func (i *Infrared) Refresh(timeout time.Duration, onProgress RefreshHandler) error {
	frame, err := proto.QueryObject(proto.KindInfrared, 1)
	if err != nil {
		return err
	}
	if _, err := i.manager.Exchange(frame, proto.PatternInfraredDisabled, timeout); err != nil {
		return err
	}
	if onProgress != nil {
		onProgress(100)
	}
	return nil
}

func (i *Infrared) handleDisabled(match proto.Match) {
	disabled := match.Captures[1] == "E"
	ir := i.store.Infrared()
	if err := ir.SetDisabled(disabled); err == nil {
		i.emit(StateChange{Controller: i.Name(), Property: "disabled", ID: 1})
	}
}

// SetDisabled submits a disabled-state write for the infrared receiver.
func (i *Infrared) SetDisabled(disabled bool, timeout time.Duration) error {
	frame, err := proto.InfraredSetDisabled(1, disabled)
	if err != nil {
		return err
	}
	_, err = i.manager.Exchange(frame, proto.PatternInfraredDisabled, timeout)
	return err
}

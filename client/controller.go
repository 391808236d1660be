// Package client implements the object controllers and the
// application controller: a thin,
// per-aspect façade over hlx.Manager and model.Store for each of zones,
// sources, groups, favorites, equalizer presets, infrared, network and
// front panel, composed by App into one eventually-consistent view of
// amplifier state.
package client

import (
	"time"

	"github.com/openhlx/hlx/proto"
)

// Controller is implemented by every object controller. Name identifies
// it in the ordered controller-container and in
// StateChange events; Refresh reconstructs its portion of the data model
// from the peer.
type Controller interface {
	Name() string
	// Refresh reconstructs this controller's portion of the data model
	// from the peer. onProgress, if non-nil, fires after each completed
	// identifier with the running percentage.
	Refresh(timeout time.Duration, onProgress RefreshHandler) error
}

// StateChange is what a notification handler dispatches to the
// application controller on a successful model mutation: tagged with
// the controller, the property, and the affected identifier(s).
type StateChange struct {
	Controller string
	Property   string
	ID         proto.Identifier

	// GroupID is set instead of ID for group-derivation events; zero
	// otherwise.
	GroupID proto.Identifier
}

// StateChangeHandler receives every StateChange an object controller
// emits. The application controller's own handler additionally drives
// zone-to-group fan-out.
type StateChangeHandler func(StateChange)

// RefreshHandler receives the per-controller progress events the
// application controller aggregates into IsRefreshing.
type RefreshHandler func(percent int)

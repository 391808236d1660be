package client

import (
	"sync"
	"time"

	clientmetrics "github.com/openhlx/hlx/client/metrics"
	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/proto"
	"github.com/openhlx/hlx/session"
)

// App is the application controller: it owns the
// connection, the command manager, the data store, and the ordered
// container of object controllers, and drives bulk refresh and
// cross-controller group-state derivation.
type App struct {
	store   *model.Store
	conn    *session.Connection
	manager *hlx.Manager
	names   *Names

	container *container
	metrics   *clientmetrics.Recorder

	Zones      *Zones
	Sources    *Sources
	Groups     *Groups
	Favorites  *Favorites
	Equalizer  *EqualizerPresets
	Infrared   *Infrared
	Network    *Network
	FrontPanel *FrontPanel

	mu       sync.Mutex
	deriving bool
	derived  map[proto.Identifier]model.DerivedGroupState

	willRefresh   func()
	isRefreshing  func(percent int)
	didRefresh    func()
	onStateChange StateChangeHandler
}

// NewApp constructs the application controller and every object
// controller in refresh order, wiring each to the shared store and
// command manager.
func NewApp(conn *session.Connection, manager *hlx.Manager) *App {
	a := &App{
		store:     model.NewStore(),
		conn:      conn,
		manager:   manager,
		container: newContainer(),
		derived:   make(map[proto.Identifier]model.DerivedGroupState),
	}
	a.names = newNames(manager)

	emit := func(sc StateChange) { a.handleStateChange(sc) }

	a.Zones = NewZones(a.store, manager, emit)
	a.names.register(proto.KindZone, a.Zones.handleName)

	a.Sources = NewSources(a.store, manager, emit)
	a.names.register(proto.KindSource, a.Sources.handleName)

	a.Groups = NewGroups(a.store, manager, emit)
	a.names.register(proto.KindGroup, a.Groups.handleName)

	a.Favorites = NewFavorites(a.store, manager, emit)
	a.names.register(proto.KindFavorite, a.Favorites.handleName)

	a.Equalizer = NewEqualizerPresets(a.store, manager, emit)
	a.names.register(proto.KindEqualizerPreset, a.Equalizer.handleName)

	a.Infrared = NewInfrared(a.store, manager, emit)
	a.Network = NewNetwork(a.store, manager, emit)
	a.FrontPanel = NewFrontPanel(a.store, manager, emit)

	a.container.add(a.Zones)
	a.container.add(a.Sources)
	a.container.add(a.Groups)
	a.container.add(a.Favorites)
	a.container.add(a.Equalizer)
	a.container.add(a.Infrared)
	a.container.add(a.Network)
	a.container.add(a.FrontPanel)

	return a
}

// Store exposes the underlying data store for read-only observers.
func (a *App) Store() *model.Store { return a.store }

// SetMetrics installs the Recorder Refresh and state-change events are
// reported to. A nil Recorder (the default) makes reporting a no-op.
func (a *App) SetMetrics(rec *clientmetrics.Recorder) { a.metrics = rec }

// OnWillRefresh sets the delegate fired once at the start of Refresh.
func (a *App) OnWillRefresh(fn func()) { a.willRefresh = fn }

// OnIsRefreshing sets the delegate fired on every child progress tick
// with the aggregate percentage across all children.
func (a *App) OnIsRefreshing(fn func(percent int)) { a.isRefreshing = fn }

// OnDidRefresh sets the delegate fired once after the last child
// completes and the group-derivation pass has run.
func (a *App) OnDidRefresh(fn func()) { a.didRefresh = fn }

// OnStateChange sets the delegate fired for every state-change event
// from any object controller, including group derivation.
func (a *App) OnStateChange(fn StateChangeHandler) { a.onStateChange = fn }

// Refresh drives every object controller's refresh in insertion order,
// firing WillRefresh, a running IsRefreshing(aggregate), and finally
// DidRefresh after the group-state derivation pass runs. Refresh is synchronous: each child's Exchange blocks the
// calling goroutine until its response or timeout, so children complete
// strictly one after another — satisfying "inbound frames delivered in
// the order they arrive" without needing a scheduler of its own.
func (a *App) Refresh(timeout time.Duration) error {
	started := time.Now()
	total := a.container.len()
	if a.willRefresh != nil {
		a.willRefresh()
	}
	if total == 0 {
		a.deriveAllGroups()
		if a.didRefresh != nil {
			a.didRefresh()
		}
		a.metrics.ObserveRefresh(clientmetrics.OutcomeOK, time.Since(started))
		return nil
	}

	completed := 0
	var firstErr error
	a.container.each(func(i int, ctrl Controller) {
		if firstErr != nil {
			return
		}
		err := ctrl.Refresh(timeout, func(childPercent int) {
			aggregate := (completed*100 + childPercent) / total
			if a.isRefreshing != nil {
				a.isRefreshing(aggregate)
			}
		})
		a.container.setRefreshed(ctrl.Name(), err == nil)
		if err != nil {
			firstErr = err
			return
		}
		completed++
	})
	if firstErr != nil {
		a.metrics.ObserveRefresh(clientmetrics.OutcomeError, time.Since(started))
		return firstErr
	}

	a.deriveAllGroups()
	if a.didRefresh != nil {
		a.didRefresh()
	}
	a.metrics.ObserveRefresh(clientmetrics.OutcomeOK, time.Since(started))
	return nil
}

// handleStateChange is the single entry point every object controller's
// emit callback funnels through. It forwards the event to the
// application-level delegate and, for zone and group-membership
// changes, runs the zone-to-group fan-out.
func (a *App) handleStateChange(sc StateChange) {
	a.metrics.ObserveStateChange(sc.Controller)
	if a.onStateChange != nil {
		a.onStateChange(sc)
	}

	a.mu.Lock()
	deriving := a.deriving
	a.mu.Unlock()
	if deriving {
		return
	}

	switch {
	case sc.Controller == a.Zones.Name() && (sc.Property == "mute" || sc.Property == "volume" || sc.Property == "source"):
		a.deriveGroupsContaining(sc.ID)
	case sc.Controller == a.Groups.Name() && sc.Property == "zones":
		a.deriveGroup(sc.ID)
	}
}

// deriveGroupsContaining re-derives every group that currently lists
// zone as a member.
func (a *App) deriveGroupsContaining(zone proto.Identifier) {
	for _, id := range a.store.GroupIDs() {
		group, err := a.store.Group(id)
		if err != nil {
			continue
		}
		if _, ok := group.Zones[zone]; ok {
			a.deriveGroup(id)
		}
	}
}

// deriveAllGroups re-derives every group, used after a full refresh.
func (a *App) deriveAllGroups() {
	for _, id := range a.store.GroupIDs() {
		a.deriveGroup(id)
	}
}

// deriveGroup recomputes group id's aggregate state and emits change
// events for whichever of mute/volume/sources differ from the
// previously-derived values. The deriving flag
// prevents the emitted events from re-entering this same pass.
func (a *App) deriveGroup(id proto.Identifier) {
	a.mu.Lock()
	if a.deriving {
		a.mu.Unlock()
		return
	}
	a.deriving = true
	prev, hadPrev := a.derived[id]
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.deriving = false
		a.mu.Unlock()
	}()

	next, err := a.store.DeriveGroupState(id)
	if err != nil {
		return
	}

	a.mu.Lock()
	a.derived[id] = next
	a.mu.Unlock()

	if !hadPrev || prev.Mute != next.Mute {
		a.handleStateChange(StateChange{Controller: a.Groups.Name(), Property: "derived-mute", GroupID: id})
	}
	if !hadPrev || prev.VolumeLevel != next.VolumeLevel {
		a.handleStateChange(StateChange{Controller: a.Groups.Name(), Property: "derived-volume", GroupID: id})
	}
	if !hadPrev || !sameSourceSet(prev.SourcesInUse, next.SourcesInUse) {
		a.handleStateChange(StateChange{Controller: a.Groups.Name(), Property: "derived-sources", GroupID: id})
	}
}

func sameSourceSet(a, b map[proto.Identifier]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

// DerivedGroupState returns the last-computed aggregate state for group
// id, if any derivation pass has run for it yet.
func (a *App) DerivedGroupState(id proto.Identifier) (model.DerivedGroupState, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.derived[id]
	return s, ok
}

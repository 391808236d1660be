package client

import (
	"time"

	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/proto"
)

// Favorites is the object controller for favorites: named, recallable
// combinations of zone/source selections.
type Favorites struct {
	store   *model.Store
	manager *hlx.Manager
	emit    StateChangeHandler
}

// NewFavorites constructs a Favorites controller and registers the
// favorite-applied notification handler.
func NewFavorites(store *model.Store, manager *hlx.Manager, emit StateChangeHandler) *Favorites {
	f := &Favorites{store: store, manager: manager, emit: emit}
	manager.Handle(proto.PatternFavoriteApplied, f.handleApplied)
	return f
}

func (f *Favorites) Name() string { return "favorites" }

// Refresh issues a per-favorite name query.
func (f *Favorites) Refresh(timeout time.Duration, onProgress RefreshHandler) error {
	return refreshByID(f.manager, f.store.FavoriteIDs(), timeout,
		func(id proto.Identifier) (proto.Frame, proto.PatternID, error) {
			frame, err := proto.QueryObject(proto.KindFavorite, id)
			return frame, proto.PatternName, err
		}, onProgress)
}

func (f *Favorites) handleName(id proto.Identifier, name string) {
	fav, err := f.store.Favorite(id)
	if err != nil {
		return
	}
	if err := fav.SetName(name); err == nil {
		f.emit(StateChange{Controller: f.Name(), Property: "name", ID: id})
	}
}

// handleApplied observes a favorite-applied notification
// ("AF<favoriteID><obj><zoneID>"); applying a favorite mutates the
// target zone's own properties (source, volume, etc. — each arriving as
// its own notification), so this handler only emits the "applied" event
// itself, tagged with the affected zone.
func (f *Favorites) handleApplied(match proto.Match) {
	zoneID := parseID(match.Captures[1])
	f.emit(StateChange{Controller: f.Name(), Property: "applied", ID: zoneID})
}

// Apply recalls favorite id onto zone.
func (f *Favorites) Apply(id proto.Identifier, zone proto.Identifier, timeout time.Duration) error {
	frame, err := proto.ApplyFavorite(id, proto.KindZone, zone)
	if err != nil {
		return err
	}
	_, err = f.manager.Exchange(frame, proto.PatternFavoriteApplied, timeout)
	return err
}

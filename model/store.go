package model

import (
	"sync"

	"github.com/openhlx/hlx/herr"
	"github.com/openhlx/hlx/proto"
)

// Store holds every addressable object, keyed by kind and identifier. It
// is the data model the client's object controllers mutate from notification handlers and the server simulator
// mutates from its request dispatcher. A Store is
// safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	zones      map[proto.Identifier]*Zone
	sources    map[proto.Identifier]*Source
	groups     map[proto.Identifier]*Group
	favorites  map[proto.Identifier]*Favorite
	presets    map[proto.Identifier]*EqualizerPreset
	infrared   Infrared
	network    Network
	frontPanel FrontPanel
}

// NewStore returns an empty Store with every per-kind collection
// pre-populated up to proto.Max: these are fixed-size hardware tables,
// never lazily grown.
func NewStore() *Store {
	s := &Store{
		zones:     make(map[proto.Identifier]*Zone, proto.Max[proto.KindZone]),
		sources:   make(map[proto.Identifier]*Source, proto.Max[proto.KindSource]),
		groups:    make(map[proto.Identifier]*Group, proto.Max[proto.KindGroup]),
		favorites: make(map[proto.Identifier]*Favorite, proto.Max[proto.KindFavorite]),
		presets:   make(map[proto.Identifier]*EqualizerPreset, proto.Max[proto.KindEqualizerPreset]),
	}
	for id := proto.Identifier(1); id <= proto.Max[proto.KindZone]; id++ {
		s.zones[id] = &Zone{}
	}
	for id := proto.Identifier(1); id <= proto.Max[proto.KindSource]; id++ {
		s.sources[id] = &Source{}
	}
	for id := proto.Identifier(1); id <= proto.Max[proto.KindGroup]; id++ {
		s.groups[id] = &Group{}
	}
	for id := proto.Identifier(1); id <= proto.Max[proto.KindFavorite]; id++ {
		s.favorites[id] = &Favorite{}
	}
	for id := proto.Identifier(1); id <= proto.Max[proto.KindEqualizerPreset]; id++ {
		s.presets[id] = &EqualizerPreset{}
	}
	return s
}

// Zone returns the zone addressed by id. Every identifier carried in a
// frame is expected to lie in [1, MaxForKind].
func (s *Store) Zone(id proto.Identifier) (*Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	z, ok := s.zones[id]
	if !ok {
		return nil, herr.ErrInval
	}
	return z, nil
}

// Source returns the source addressed by id.
func (s *Store) Source(id proto.Identifier) (*Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.sources[id]
	if !ok {
		return nil, herr.ErrInval
	}
	return v, nil
}

// Group returns the group addressed by id.
func (s *Store) Group(id proto.Identifier) (*Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, herr.ErrInval
	}
	return g, nil
}

// Favorite returns the favorite addressed by id.
func (s *Store) Favorite(id proto.Identifier) (*Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.favorites[id]
	if !ok {
		return nil, herr.ErrInval
	}
	return f, nil
}

// EqualizerPreset returns the preset addressed by id.
func (s *Store) EqualizerPreset(id proto.Identifier) (*EqualizerPreset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presets[id]
	if !ok {
		return nil, herr.ErrInval
	}
	return p, nil
}

// Infrared returns the singleton infrared receiver state.
func (s *Store) Infrared() *Infrared {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &s.infrared
}

// Network returns the singleton network interface state.
func (s *Store) Network() *Network {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &s.network
}

// FrontPanel returns the singleton front-panel state.
func (s *Store) FrontPanel() *FrontPanel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &s.frontPanel
}

// ZoneIDs returns every valid zone identifier in ascending order, for
// the iterate-and-query refresh pattern a controller's Refresh uses.
func (s *Store) ZoneIDs() []proto.Identifier {
	return idRange(proto.Max[proto.KindZone])
}

// SourceIDs returns every valid source identifier in ascending order.
func (s *Store) SourceIDs() []proto.Identifier {
	return idRange(proto.Max[proto.KindSource])
}

// GroupIDs returns every valid group identifier in ascending order.
func (s *Store) GroupIDs() []proto.Identifier {
	return idRange(proto.Max[proto.KindGroup])
}

// FavoriteIDs returns every valid favorite identifier in ascending order.
func (s *Store) FavoriteIDs() []proto.Identifier {
	return idRange(proto.Max[proto.KindFavorite])
}

// EqualizerPresetIDs returns every valid preset identifier in ascending
// order.
func (s *Store) EqualizerPresetIDs() []proto.Identifier {
	return idRange(proto.Max[proto.KindEqualizerPreset])
}

func idRange(max proto.Identifier) []proto.Identifier {
	ids := make([]proto.Identifier, 0, max)
	for id := proto.Identifier(1); id <= max; id++ {
		ids = append(ids, id)
	}
	return ids
}

// DerivedGroupState is the transient computed record of a group's
// aggregate state: never persisted, recomputed on demand from the current
// state of a group's member zones.
type DerivedGroupState struct {
	MemberCount  int
	Mute         bool
	VolumeLevel  int
	SourcesInUse map[proto.Identifier]struct{}
}

// DeriveGroupState computes group's transient aggregate state from its
// member zones. The derivation is a pure function of current per-zone
// state, idempotent and
// order-independent.
func (s *Store) DeriveGroupState(groupID proto.Identifier) (DerivedGroupState, error) {
	g, err := s.Group(groupID)
	if err != nil {
		return DerivedGroupState{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	d := DerivedGroupState{SourcesInUse: make(map[proto.Identifier]struct{})}
	if len(g.Zones) == 0 {
		return d, nil
	}

	mute := true
	sum := 0
	for id := range g.Zones {
		z, ok := s.zones[id]
		if !ok {
			continue
		}
		d.MemberCount++
		mute = mute && z.Volume.Mute
		sum += z.Volume.Level
		if z.Source != proto.Invalid {
			d.SourcesInUse[z.Source] = struct{}{}
		}
	}
	d.Mute = mute
	if d.MemberCount > 0 {
		// Round to nearest, ties away from zero, matching the mean the
		// simulator and the client must agree on bit-for-bit.
		if sum >= 0 {
			d.VolumeLevel = (sum + d.MemberCount/2) / d.MemberCount
		} else {
			d.VolumeLevel = -((-sum + d.MemberCount/2) / d.MemberCount)
		}
	}
	return d, nil
}

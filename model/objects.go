package model

import (
	"github.com/openhlx/hlx/herr"
	"github.com/openhlx/hlx/proto"
)

// Identifier is an alias of proto.Identifier so model code can name the
// type without every caller importing proto directly.
type Identifier = proto.Identifier

// Named carries the name field every object kind exposes. Embedded
// rather than duplicated, favoring composition over inheritance.
type Named struct {
	Name string
}

// SetName validates and writes name. Byte-length enforcement lives in
// proto.SetName (the wire-frame builder); the model layer only owns the
// ValueAlreadySet contract.
func (n *Named) SetName(name string) error {
	if n.Name == name {
		return herr.ValueAlreadySet
	}
	n.Name = name
	return nil
}

// Zone is one addressable output: a room or zone driven by the
// amplifier.
type Zone struct {
	Named
	Volume    Volume
	Balance   Balance
	Tone      Tone
	Crossover [2]CrossoverFrequency // indexed by CrossoverChannel
	SoundMode SoundMode
	Preset    Identifier // valid when SoundMode == SoundModePreset
	Source    Identifier // currently selected input source
	Locked    bool
}

// SetSource validates and writes the currently selected source.
func (z *Zone) SetSource(id Identifier, max Identifier) error {
	if !id.Valid(max) {
		return herr.ErrInval
	}
	if z.Source == id {
		return herr.ValueAlreadySet
	}
	z.Source = id
	return nil
}

// SetPreset validates and writes the equalizer preset this zone follows
// while SoundMode is SoundModePreset.
func (z *Zone) SetPreset(id Identifier, max Identifier) error {
	if !id.Valid(max) {
		return herr.ErrInval
	}
	if z.Preset == id {
		return herr.ValueAlreadySet
	}
	z.Preset = id
	return nil
}

// SetLocked validates and writes the zone's front-panel lock state.
func (z *Zone) SetLocked(locked bool) error {
	if z.Locked == locked {
		return herr.ValueAlreadySet
	}
	z.Locked = locked
	return nil
}

// Source is one addressable input: a tuner, a streamer, a line input.
type Source struct {
	Named
}

// Group is a named set of zones that are driven together; its
// volume/mute/source state is derived, never stored directly.
type Group struct {
	Named
	Zones map[Identifier]struct{}
}

// AddZone adds id to the group's membership.
func (g *Group) AddZone(id Identifier) error {
	if g.Zones == nil {
		g.Zones = make(map[Identifier]struct{})
	}
	if _, ok := g.Zones[id]; ok {
		return herr.ValueAlreadySet
	}
	g.Zones[id] = struct{}{}
	return nil
}

// RemoveZone removes id from the group's membership.
func (g *Group) RemoveZone(id Identifier) error {
	if _, ok := g.Zones[id]; !ok {
		return herr.ValueAlreadySet
	}
	delete(g.Zones, id)
	return nil
}

// Favorite is a named, recallable combination of zone/source selections.
type Favorite struct {
	Named
}

// EqualizerPreset is a named, shareable set of per-band equalizer
// levels.
type EqualizerPreset struct {
	Named
	Bands [MaxEqualizerBandIndex]EqualizerBand
}

// MaxEqualizerBandIndex is the fixed band count per preset, mirroring
// proto.MaxEqualizerBand.
const MaxEqualizerBandIndex = 10

// SetBandLevel validates band (1-based) and writes lvl.
func (p *EqualizerPreset) SetBandLevel(band int, lvl int) error {
	if band < 1 || band > MaxEqualizerBandIndex {
		return herr.ErrInval
	}
	return p.Bands[band-1].SetLevel(lvl)
}

// Infrared is the singleton remote-control receiver, whose sole
// observable state is whether it is disabled. Its refresh is special
// cased: the peer's response to a disabled-state
// query is shaped identically to an unsolicited "disabled changed"
// notification.
type Infrared struct {
	Disabled bool
}

// SetDisabled validates and writes disabled.
func (i *Infrared) SetDisabled(disabled bool) error {
	if i.Disabled == disabled {
		return herr.ValueAlreadySet
	}
	i.Disabled = disabled
	return nil
}

// Network is the singleton Ethernet network interface.
type Network struct {
	Info NetworkInfo
}

// FrontPanel is the singleton physical front-panel control surface. Its
// sole observable state is the lock flag; no further front-panel
// fields are documented anywhere, so none are invented.
type FrontPanel struct {
	Locked bool
}

// SetLocked validates and writes the front panel's lock state.
func (f *FrontPanel) SetLocked(locked bool) error {
	if f.Locked == locked {
		return herr.ValueAlreadySet
	}
	f.Locked = locked
	return nil
}

package client

import (
	"strconv"
	"time"

	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/proto"
)

// Zones is the object controller for zones: every
// per-zone wire property (volume, mute, balance, tone, source select,
// sound mode, crossover) is owned here, since the pattern registry
// scopes those patterns to KindZone alone.
type Zones struct {
	store   *model.Store
	manager *hlx.Manager
	emit    StateChangeHandler
}

// NewZones constructs a Zones controller and registers its notification
// handlers with manager at construction.
func NewZones(store *model.Store, manager *hlx.Manager, emit StateChangeHandler) *Zones {
	z := &Zones{store: store, manager: manager, emit: emit}
	manager.Handle(proto.PatternVolume, z.handleVolume)
	manager.Handle(proto.PatternMute, z.handleMute)
	manager.Handle(proto.PatternBalance, z.handleBalance)
	manager.Handle(proto.PatternBass, z.handleBass)
	manager.Handle(proto.PatternTreble, z.handleTreble)
	manager.Handle(proto.PatternSource, z.handleSource)
	manager.Handle(proto.PatternMode, z.handleMode)
	manager.Handle(proto.PatternCrossover, z.handleCrossover)
	return z
}

func (z *Zones) Name() string { return "zones" }

// Refresh iterates zone identifiers 1..MaxForKind, querying each. Volume is used as the representative per-zone query
// response: any property frame the peer returns for the queried zone
// still updates the store via this controller's own handlers, since the
// command manager routes every matched frame regardless of which query
// provoked it.
func (z *Zones) Refresh(timeout time.Duration, onProgress RefreshHandler) error {
	return refreshByID(z.manager, z.store.ZoneIDs(), timeout,
		func(id proto.Identifier) (proto.Frame, proto.PatternID, error) {
			f, err := proto.QueryObject(proto.KindZone, id)
			return f, proto.PatternVolume, err
		}, onProgress)
}

func parseID(s string) proto.Identifier {
	n, _ := strconv.ParseUint(s, 10, 64)
	return proto.Identifier(n)
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func (z *Zones) handleVolume(match proto.Match) {
	id := parseID(match.Captures[0])
	level := parseInt(match.Captures[1])

	zone, err := z.store.Zone(id)
	if err != nil {
		return
	}
	if err := zone.Volume.SetLevel(level); err == nil {
		z.emit(StateChange{Controller: z.Name(), Property: "volume", ID: id})
	}
}

// handleMute implements the inbound mute-token inversion quirk
// documented in DESIGN.md: a bare "M" token reports unmuted, "MU"
// reports muted, the opposite of the two tokens' meaning in an outbound
// request.
func (z *Zones) handleMute(match proto.Match) {
	id := parseID(match.Captures[1])
	muted := match.Captures[0] == "MU"

	zone, err := z.store.Zone(id)
	if err != nil {
		return
	}
	if err := zone.Volume.SetMute(muted); err == nil {
		z.emit(StateChange{Controller: z.Name(), Property: "mute", ID: id})
	}
}

func (z *Zones) handleBalance(match proto.Match) {
	id := parseID(match.Captures[0])
	level := parseInt(match.Captures[1])

	zone, err := z.store.Zone(id)
	if err != nil {
		return
	}
	if err := zone.Balance.SetLevel(level); err == nil {
		z.emit(StateChange{Controller: z.Name(), Property: "balance", ID: id})
	}
}

func (z *Zones) handleBass(match proto.Match) {
	id := parseID(match.Captures[0])
	level := parseInt(match.Captures[1])

	zone, err := z.store.Zone(id)
	if err != nil {
		return
	}
	if err := zone.Tone.SetBass(level); err == nil {
		z.emit(StateChange{Controller: z.Name(), Property: "bass", ID: id})
	}
}

func (z *Zones) handleTreble(match proto.Match) {
	id := parseID(match.Captures[0])
	level := parseInt(match.Captures[1])

	zone, err := z.store.Zone(id)
	if err != nil {
		return
	}
	if err := zone.Tone.SetTreble(level); err == nil {
		z.emit(StateChange{Controller: z.Name(), Property: "treble", ID: id})
	}
}

func (z *Zones) handleSource(match proto.Match) {
	id := parseID(match.Captures[0])
	source := parseID(match.Captures[1])

	zone, err := z.store.Zone(id)
	if err != nil {
		return
	}
	if err := zone.SetSource(source, proto.Max[proto.KindSource]); err == nil {
		z.emit(StateChange{Controller: z.Name(), Property: "source", ID: id})
	}
}

func (z *Zones) handleMode(match proto.Match) {
	id := parseID(match.Captures[0])
	mode := model.SoundMode(parseInt(match.Captures[1]))

	zone, err := z.store.Zone(id)
	if err != nil {
		return
	}
	if err := zone.SoundMode.SetMode(mode); err == nil {
		z.emit(StateChange{Controller: z.Name(), Property: "sound-mode", ID: id})
	}
}

func (z *Zones) handleCrossover(match proto.Match) {
	id := parseID(match.Captures[0])
	highPass := match.Captures[1] == "HP"
	freq := uint(parseInt(match.Captures[2]))

	zone, err := z.store.Zone(id)
	if err != nil {
		return
	}
	channel := model.LowPass
	if highPass {
		channel = model.HighPass
	}
	if err := zone.Crossover[channel].SetFrequency(freq); err == nil {
		z.emit(StateChange{Controller: z.Name(), Property: "crossover", ID: id})
	}
}

// handleName updates a zone's name from a routed PatternName match;
// invoked by the shared Names dispatcher (client/names.go).
func (z *Zones) handleName(id proto.Identifier, name string) {
	zone, err := z.store.Zone(id)
	if err != nil {
		return
	}
	if err := zone.SetName(name); err == nil {
		z.emit(StateChange{Controller: z.Name(), Property: "name", ID: id})
	}
}

// SetVolume submits a volume write for zone id.
func (z *Zones) SetVolume(id proto.Identifier, level int, timeout time.Duration) error {
	f, err := proto.SetScalar(proto.PropVolume, proto.KindZone, id, level)
	if err != nil {
		return err
	}
	_, err = z.manager.Exchange(f, proto.PatternVolume, timeout)
	return err
}

// SetMute submits a mute request for zone id.
func (z *Zones) SetMute(id proto.Identifier, op proto.MuteOp, timeout time.Duration) error {
	f, err := proto.Mute(proto.KindZone, id, op)
	if err != nil {
		return err
	}
	_, err = z.manager.Exchange(f, proto.PatternMute, timeout)
	return err
}

// SetBalance submits a balance write for zone id.
func (z *Zones) SetBalance(id proto.Identifier, level int, timeout time.Duration) error {
	f, err := proto.SetScalar(proto.PropBalance, proto.KindZone, id, level)
	if err != nil {
		return err
	}
	_, err = z.manager.Exchange(f, proto.PatternBalance, timeout)
	return err
}

// SetSource submits a source-select write for zone id.
func (z *Zones) SetSource(id proto.Identifier, source proto.Identifier, timeout time.Duration) error {
	f, err := proto.SetScalar(proto.PropSource, proto.KindZone, id, int(source))
	if err != nil {
		return err
	}
	_, err = z.manager.Exchange(f, proto.PatternSource, timeout)
	return err
}

package server

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/openhlx/hlx/herr"
	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/proto"
	"github.com/openhlx/hlx/session"
)

// Dispatcher recognises bare request frames (proto.RequestRegistry),
// mutates the shared model.Store accordingly, and either replies
// directly to the requesting peer (read-only queries) or broadcasts the
// resulting state through the Hub (writes) — the two are wire-identical,
// so a broadcast that reaches the requester doubles as its response and
// every other peer's notification: responses and notifications are
// indistinguishable on the wire.
type Dispatcher struct {
	store *model.Store
	hub   *Hub
	log   *zap.Logger
}

// NewDispatcher returns a Dispatcher serving store and broadcasting
// through hub. A nil logger falls back to zap.NewNop().
func NewDispatcher(store *model.Store, hub *Hub, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{store: store, hub: hub, log: log}
}

// Handle implements one connection's request-side routing, called from
// that connection's delegate on every matched frame.
func (d *Dispatcher) Handle(conn *session.Connection, match proto.Match) {
	switch match.Pattern.ID {
	case proto.PatternQueryObject:
		d.handleQueryObject(conn, match)
	case proto.PatternQueryAll:
		d.handleQueryAll(conn, match)
	case proto.PatternMuteRequest:
		d.handleMute(match)
	case proto.PatternVolumeRequest:
		d.handleVolume(match)
	case proto.PatternBalanceRequest:
		d.handleBalance(match)
	case proto.PatternBassRequest:
		d.handleBass(match)
	case proto.PatternTrebleRequest:
		d.handleTreble(match)
	case proto.PatternSourceRequest:
		d.handleSource(match)
	case proto.PatternModeRequest:
		d.handleMode(match)
	case proto.PatternNameRequest:
		d.handleName(match)
	case proto.PatternEqualizerBandRequest:
		d.handleEqualizerBand(match)
	case proto.PatternCrossoverRequest:
		d.handleCrossover(match)
	case proto.PatternFavoriteApplyRequest:
		d.handleFavoriteApply(match)
	case proto.PatternInfraredRequest:
		d.handleInfrared(match)
	case proto.PatternNetworkRequest:
		d.handleNetwork(match)
	case proto.PatternFrontPanelRequest:
		d.handleFrontPanel(match)
	default:
		d.log.Warn("unrouted request", zap.Int("pattern", int(match.Pattern.ID)), zap.ByteString("raw", match.Raw))
	}
}

func parseID(s string) proto.Identifier {
	n, _ := strconv.ParseUint(s, 10, 64)
	return proto.Identifier(n)
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// applyScalarOrStep resolves the scalarOrStep capture ("-20", "U" or
// "D") against current, clamped to [min, max].
func applyScalarOrStep(current int, capture string, min, max int) int {
	switch capture {
	case "U":
		return clamp(current+1, min, max)
	case "D":
		return clamp(current-1, min, max)
	default:
		v, _ := strconv.Atoi(capture)
		return clamp(v, min, max)
	}
}

// mutated reports whether err signals a real failure: herr.ValueAlreadySet
// is a no-op status, not a failure, and a response is still broadcast for
// it so the requester gets an acknowledgement of the current state.
func mutated(err error) bool {
	return err == nil || err == herr.ValueAlreadySet
}

func (d *Dispatcher) warn(action string, err error) {
	d.log.Warn("request rejected", zap.String("action", action), zap.Error(err))
}

func (d *Dispatcher) handleVolume(match proto.Match) {
	id := parseID(match.Captures[0])
	zone, err := d.store.Zone(id)
	if err != nil {
		d.warn("volume", err)
		return
	}
	level := applyScalarOrStep(zone.Volume.Level, match.Captures[1], model.MinVolume, model.MaxVolume)
	if err := zone.Volume.SetLevel(level); !mutated(err) {
		d.warn("volume", err)
		return
	}
	frame, err := proto.SetScalar(proto.PropVolume, proto.KindZone, id, zone.Volume.Level)
	if err != nil {
		d.warn("volume", err)
		return
	}
	d.hub.Broadcast(proto.Respond(frame))
}

func (d *Dispatcher) handleMute(match proto.Match) {
	id := parseID(match.Captures[1])
	zone, err := d.store.Zone(id)
	if err != nil {
		d.warn("mute", err)
		return
	}
	muted := zone.Volume.Mute
	switch match.Captures[0] {
	case "M":
		muted = true
	case "MU":
		muted = false
	case "MT":
		muted = !zone.Volume.Mute
	}
	if err := zone.Volume.SetMute(muted); !mutated(err) {
		d.warn("mute", err)
		return
	}
	frame, err := proto.MuteResponse(proto.KindZone, id, zone.Volume.Mute)
	if err != nil {
		d.warn("mute", err)
		return
	}
	d.hub.Broadcast(proto.Respond(frame))
}

func (d *Dispatcher) handleBalance(match proto.Match) {
	id := parseID(match.Captures[0])
	zone, err := d.store.Zone(id)
	if err != nil {
		d.warn("balance", err)
		return
	}
	level := applyScalarOrStep(zone.Balance.Level, match.Captures[1], model.MinBalance, model.MaxBalance)
	if err := zone.Balance.SetLevel(level); !mutated(err) {
		d.warn("balance", err)
		return
	}
	frame, err := proto.SetScalar(proto.PropBalance, proto.KindZone, id, zone.Balance.Level)
	if err != nil {
		d.warn("balance", err)
		return
	}
	d.hub.Broadcast(proto.Respond(frame))
}

func (d *Dispatcher) handleBass(match proto.Match) {
	id := parseID(match.Captures[0])
	zone, err := d.store.Zone(id)
	if err != nil {
		d.warn("bass", err)
		return
	}
	level := applyScalarOrStep(zone.Tone.Bass, match.Captures[1], model.MinTone, model.MaxTone)
	if err := zone.Tone.SetBass(level); !mutated(err) {
		d.warn("bass", err)
		return
	}
	frame, err := proto.SetScalar(proto.PropBass, proto.KindZone, id, zone.Tone.Bass)
	if err != nil {
		d.warn("bass", err)
		return
	}
	d.hub.Broadcast(proto.Respond(frame))
}

func (d *Dispatcher) handleTreble(match proto.Match) {
	id := parseID(match.Captures[0])
	zone, err := d.store.Zone(id)
	if err != nil {
		d.warn("treble", err)
		return
	}
	level := applyScalarOrStep(zone.Tone.Treble, match.Captures[1], model.MinTone, model.MaxTone)
	if err := zone.Tone.SetTreble(level); !mutated(err) {
		d.warn("treble", err)
		return
	}
	frame, err := proto.SetScalar(proto.PropTreble, proto.KindZone, id, zone.Tone.Treble)
	if err != nil {
		d.warn("treble", err)
		return
	}
	d.hub.Broadcast(proto.Respond(frame))
}

func (d *Dispatcher) handleSource(match proto.Match) {
	id := parseID(match.Captures[0])
	zone, err := d.store.Zone(id)
	if err != nil {
		d.warn("source", err)
		return
	}
	max := proto.Max[proto.KindSource]
	source := proto.Identifier(applyScalarOrStep(int(zone.Source), match.Captures[1], 1, int(max)))
	if err := zone.SetSource(source, max); !mutated(err) {
		d.warn("source", err)
		return
	}
	frame, err := proto.SetScalar(proto.PropSource, proto.KindZone, id, int(zone.Source))
	if err != nil {
		d.warn("source", err)
		return
	}
	d.hub.Broadcast(proto.Respond(frame))
}

func (d *Dispatcher) handleMode(match proto.Match) {
	id := parseID(match.Captures[0])
	zone, err := d.store.Zone(id)
	if err != nil {
		d.warn("mode", err)
		return
	}
	mode := model.SoundMode(applyScalarOrStep(int(zone.SoundMode), match.Captures[1], int(model.SoundModeDisabled), int(model.SoundModePreset)))
	if err := zone.SoundMode.SetMode(mode); !mutated(err) {
		d.warn("mode", err)
		return
	}
	frame, err := proto.SetScalar(proto.PropMode, proto.KindZone, id, int(zone.SoundMode))
	if err != nil {
		d.warn("mode", err)
		return
	}
	d.hub.Broadcast(proto.Respond(frame))
}

func (d *Dispatcher) handleName(match proto.Match) {
	k, ok := proto.KindFromCode(match.Raw[1])
	if !ok {
		d.warn("name", herr.ErrInval)
		return
	}
	id := parseID(match.Captures[0])
	name := match.Captures[1]

	var err error
	switch k {
	case proto.KindZone:
		var zone *model.Zone
		if zone, err = d.store.Zone(id); err == nil {
			err = zone.SetName(name)
		}
	case proto.KindSource:
		var src *model.Source
		if src, err = d.store.Source(id); err == nil {
			err = src.SetName(name)
		}
	case proto.KindGroup:
		var g *model.Group
		if g, err = d.store.Group(id); err == nil {
			err = g.SetName(name)
		}
	case proto.KindFavorite:
		var f *model.Favorite
		if f, err = d.store.Favorite(id); err == nil {
			err = f.SetName(name)
		}
	case proto.KindEqualizerPreset:
		var p *model.EqualizerPreset
		if p, err = d.store.EqualizerPreset(id); err == nil {
			err = p.SetName(name)
		}
	default:
		err = herr.ErrInval
	}
	if !mutated(err) {
		d.warn("name", err)
		return
	}
	frame, err := proto.SetName(k, id, name)
	if err != nil {
		d.warn("name", err)
		return
	}
	d.hub.Broadcast(proto.Respond(frame))
}

func (d *Dispatcher) handleEqualizerBand(match proto.Match) {
	id := parseID(match.Captures[0])
	band := parseInt(match.Captures[1])

	preset, err := d.store.EqualizerPreset(id)
	if err != nil {
		d.warn("equalizer-band", err)
		return
	}
	if band < 1 || band > model.MaxEqualizerBandIndex {
		d.warn("equalizer-band", herr.ErrInval)
		return
	}
	current := preset.Bands[band-1].Level
	var level int
	if match.Captures[2] == "S" {
		level = parseInt(match.Captures[3])
	} else {
		level = applyScalarOrStep(current, match.Captures[2], model.MinBandLevel, model.MaxBandLevel)
	}
	if err := preset.SetBandLevel(band, level); !mutated(err) {
		d.warn("equalizer-band", err)
		return
	}
	frame, err := proto.EqualizerBandSet(proto.KindEqualizerPreset, id, proto.Identifier(band), preset.Bands[band-1].Level)
	if err != nil {
		d.warn("equalizer-band", err)
		return
	}
	d.hub.Broadcast(proto.Respond(frame))
}

func (d *Dispatcher) handleCrossover(match proto.Match) {
	id := parseID(match.Captures[0])
	highPass := match.Captures[1] == "HP"
	freq := uint(parseInt(match.Captures[2]))

	zone, err := d.store.Zone(id)
	if err != nil {
		d.warn("crossover", err)
		return
	}
	channel := model.LowPass
	if highPass {
		channel = model.HighPass
	}
	if err := zone.Crossover[channel].SetFrequency(freq); !mutated(err) {
		d.warn("crossover", err)
		return
	}
	frame, err := proto.Crossover(proto.KindZone, id, highPass, zone.Crossover[channel].Frequency)
	if err != nil {
		d.warn("crossover", err)
		return
	}
	d.hub.Broadcast(proto.Respond(frame))
}

func (d *Dispatcher) handleFavoriteApply(match proto.Match) {
	favoriteID := parseID(match.Captures[0])
	zoneID := parseID(match.Captures[1])

	if _, err := d.store.Favorite(favoriteID); err != nil {
		d.warn("favorite-apply", err)
		return
	}
	if _, err := d.store.Zone(zoneID); err != nil {
		d.warn("favorite-apply", err)
		return
	}
	frame, err := proto.ApplyFavorite(favoriteID, proto.KindZone, zoneID)
	if err != nil {
		d.warn("favorite-apply", err)
		return
	}
	d.hub.Broadcast(proto.Respond(frame))
}

func (d *Dispatcher) handleInfrared(match proto.Match) {
	id := parseID(match.Captures[0])
	disabled := match.Captures[1] == "E"

	ir := d.store.Infrared()
	if err := ir.SetDisabled(disabled); !mutated(err) {
		d.warn("infrared", err)
		return
	}
	frame, err := proto.InfraredSetDisabled(id, ir.Disabled)
	if err != nil {
		d.warn("infrared", err)
		return
	}
	d.hub.Broadcast(proto.Respond(frame))
}

func (d *Dispatcher) handleNetwork(match proto.Match) {
	id := parseID(match.Captures[0])
	enabled := match.Captures[1] == "E"

	net := d.store.Network()
	if err := net.Info.SetDHCP(enabled); !mutated(err) {
		d.warn("network", err)
		return
	}
	frame, err := proto.NetworkSetDHCP(id, net.Info.DHCP)
	if err != nil {
		d.warn("network", err)
		return
	}
	d.hub.Broadcast(proto.Respond(frame))
}

func (d *Dispatcher) handleFrontPanel(match proto.Match) {
	id := parseID(match.Captures[0])
	locked := match.Captures[1] == "E"

	fp := d.store.FrontPanel()
	if err := fp.SetLocked(locked); !mutated(err) {
		d.warn("front-panel", err)
		return
	}
	frame, err := proto.FrontPanelSetLocked(id, fp.Locked)
	if err != nil {
		d.warn("front-panel", err)
		return
	}
	d.hub.Broadcast(proto.Respond(frame))
}

// representative returns the one wire-frame property that stands in for
// object k/id in a query response, mirroring the property each client
// object controller treats as authoritative for its own Refresh
// (client/zones.go uses Volume, client/groups.go, client/favorites.go
// and client/equalizer.go all use Name, the singleton controllers use
// their respective enabled/disabled frame).
func (d *Dispatcher) representative(k proto.Kind, id proto.Identifier) (proto.Frame, error) {
	switch k {
	case proto.KindZone:
		zone, err := d.store.Zone(id)
		if err != nil {
			return nil, err
		}
		return proto.SetScalar(proto.PropVolume, proto.KindZone, id, zone.Volume.Level)
	case proto.KindSource:
		src, err := d.store.Source(id)
		if err != nil {
			return nil, err
		}
		return proto.SetName(proto.KindSource, id, src.Name)
	case proto.KindGroup:
		g, err := d.store.Group(id)
		if err != nil {
			return nil, err
		}
		return proto.SetName(proto.KindGroup, id, g.Name)
	case proto.KindFavorite:
		f, err := d.store.Favorite(id)
		if err != nil {
			return nil, err
		}
		return proto.SetName(proto.KindFavorite, id, f.Name)
	case proto.KindEqualizerPreset:
		p, err := d.store.EqualizerPreset(id)
		if err != nil {
			return nil, err
		}
		return proto.SetName(proto.KindEqualizerPreset, id, p.Name)
	case proto.KindInfrared:
		ir := d.store.Infrared()
		return proto.InfraredSetDisabled(id, ir.Disabled)
	case proto.KindNetwork:
		net := d.store.Network()
		return proto.NetworkSetDHCP(id, net.Info.DHCP)
	case proto.KindFrontPanel:
		fp := d.store.FrontPanel()
		return proto.FrontPanelSetLocked(id, fp.Locked)
	default:
		return nil, herr.ErrInval
	}
}

func (d *Dispatcher) handleQueryObject(conn *session.Connection, match proto.Match) {
	k, ok := proto.KindFromCode(match.Raw[1])
	if !ok {
		d.warn("query-object", herr.ErrInval)
		return
	}
	id := parseID(match.Captures[0])
	frame, err := d.representative(k, id)
	if err != nil {
		d.warn("query-object", err)
		return
	}
	_ = conn.Send(proto.Respond(frame))
}

func (d *Dispatcher) handleQueryAll(conn *session.Connection, match proto.Match) {
	k, ok := proto.KindFromCode(match.Raw[1])
	if !ok {
		d.warn("query-all", herr.ErrInval)
		return
	}

	var ids []proto.Identifier
	switch k {
	case proto.KindZone:
		ids = d.store.ZoneIDs()
	case proto.KindSource:
		ids = d.store.SourceIDs()
	case proto.KindGroup:
		ids = d.store.GroupIDs()
	case proto.KindFavorite:
		ids = d.store.FavoriteIDs()
	case proto.KindEqualizerPreset:
		ids = d.store.EqualizerPresetIDs()
	default:
		ids = []proto.Identifier{1} // the three singleton kinds
	}

	for _, id := range ids {
		frame, err := d.representative(k, id)
		if err != nil {
			continue
		}
		_ = conn.Send(proto.Respond(frame))
	}
}

package client

import (
	"time"

	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/proto"
)

// EqualizerPresets is the object controller for equalizer presets: named,
// shareable sets of per-band levels.
type EqualizerPresets struct {
	store   *model.Store
	manager *hlx.Manager
	emit    StateChangeHandler
}

// NewEqualizerPresets constructs an EqualizerPresets controller and
// registers the per-band notification handler.
func NewEqualizerPresets(store *model.Store, manager *hlx.Manager, emit StateChangeHandler) *EqualizerPresets {
	p := &EqualizerPresets{store: store, manager: manager, emit: emit}
	manager.Handle(proto.PatternEqualizerBand, p.handleBand)
	return p
}

func (p *EqualizerPresets) Name() string { return "equalizer-presets" }

// Refresh issues a per-preset name query; per-band levels arrive
// unsolicited via handleBand as the peer reports them.
func (p *EqualizerPresets) Refresh(timeout time.Duration, onProgress RefreshHandler) error {
	return refreshByID(p.manager, p.store.EqualizerPresetIDs(), timeout,
		func(id proto.Identifier) (proto.Frame, proto.PatternID, error) {
			frame, err := proto.QueryObject(proto.KindEqualizerPreset, id)
			return frame, proto.PatternName, err
		}, onProgress)
}

func (p *EqualizerPresets) handleName(id proto.Identifier, name string) {
	preset, err := p.store.EqualizerPreset(id)
	if err != nil {
		return
	}
	if err := preset.SetName(name); err == nil {
		p.emit(StateChange{Controller: p.Name(), Property: "name", ID: id})
	}
}

// handleBand applies "E<obj><id>B<band>[SUD]<level>" to the addressed
// preset's band. A set ('S') frame carries the absolute level; a step
// ('U'/'D') frame that carries the resulting level is applied the same
// way, and one with no level is ignored.
func (p *EqualizerPresets) handleBand(match proto.Match) {
	if match.Captures[3] == "" {
		// A bare step ('U'/'D') notification with no explicit resulting
		// level: nothing to apply without re-querying the preset.
		return
	}
	id := parseID(match.Captures[0])
	band := parseInt(match.Captures[1])
	level := parseInt(match.Captures[3])

	preset, err := p.store.EqualizerPreset(id)
	if err != nil {
		return
	}
	if err := preset.SetBandLevel(band, level); err == nil {
		p.emit(StateChange{Controller: p.Name(), Property: "band", ID: id})
	}
}

// SetBandLevel submits an absolute band-level write for preset id.
func (p *EqualizerPresets) SetBandLevel(id proto.Identifier, band proto.Identifier, level int, timeout time.Duration) error {
	frame, err := proto.EqualizerBandSet(proto.KindEqualizerPreset, id, band, level)
	if err != nil {
		return err
	}
	_, err = p.manager.Exchange(frame, proto.PatternEqualizerBand, timeout)
	return err
}

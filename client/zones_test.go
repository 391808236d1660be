package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/proto"
)

func TestZonesHandleVolume(t *testing.T) {
	store := model.NewStore()
	var got []StateChange
	z := NewZones(store, hlx.NewManager(nil, nil, nil), func(sc StateChange) { got = append(got, sc) })

	z.handleVolume(proto.Match{Captures: []string{"3", "-20"}})

	zone, err := store.Zone(3)
	require.NoError(t, err)
	assert.Equal(t, -20, zone.Volume.Level)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "volume", got[0].Property)
		assert.Equal(t, proto.Identifier(3), got[0].ID)
	}
}

func TestZonesHandleMuteTokenInversion(t *testing.T) {
	store := model.NewStore()
	z := NewZones(store, hlx.NewManager(nil, nil, nil), func(StateChange) {})

	z.handleMute(proto.Match{Captures: []string{"MU", "2"}})
	zone, _ := store.Zone(2)
	assert.True(t, zone.Volume.Mute, "expected muted after MU token")

	z.handleMute(proto.Match{Captures: []string{"M", "2"}})
	zone, _ = store.Zone(2)
	assert.False(t, zone.Volume.Mute, "expected unmuted after bare M token")
}

func TestZonesHandleVolumeNoChangeEmitsNoEvent(t *testing.T) {
	store := model.NewStore()
	var got []StateChange
	z := NewZones(store, hlx.NewManager(nil, nil, nil), func(sc StateChange) { got = append(got, sc) })

	zone, _ := store.Zone(1)
	zone.Volume.SetLevel(-40)
	got = nil

	z.handleVolume(proto.Match{Captures: []string{"1", "-40"}})
	assert.Empty(t, got, "expected no event for unchanged volume")
}

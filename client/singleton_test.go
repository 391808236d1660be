package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/proto"
)

func TestInfraredHandleDisabled(t *testing.T) {
	store := model.NewStore()
	var got []StateChange
	ir := NewInfrared(store, hlx.NewManager(nil, nil, nil), func(sc StateChange) { got = append(got, sc) })

	ir.handleDisabled(proto.Match{Captures: []string{"1", "E"}})

	assert.True(t, store.Infrared().Disabled, "expected infrared disabled after E token")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "disabled", got[0].Property)
	}
}

func TestNetworkHandleDHCP(t *testing.T) {
	store := model.NewStore()
	var got []StateChange
	n := NewNetwork(store, hlx.NewManager(nil, nil, nil), func(sc StateChange) { got = append(got, sc) })

	n.handleDHCP(proto.Match{Captures: []string{"1", "E"}})

	assert.True(t, store.Network().Info.DHCP, "expected DHCP enabled after E token")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "dhcp", got[0].Property)
	}
}

func TestFrontPanelHandleLocked(t *testing.T) {
	store := model.NewStore()
	var got []StateChange
	f := NewFrontPanel(store, hlx.NewManager(nil, nil, nil), func(sc StateChange) { got = append(got, sc) })

	f.handleLocked(proto.Match{Captures: []string{"1", "E"}})

	assert.True(t, store.FrontPanel().Locked, "expected front panel locked after E token")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "locked", got[0].Property)
	}
}

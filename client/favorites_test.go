package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/proto"
)

func TestFavoritesHandleAppliedTagsAffectedZone(t *testing.T) {
	store := model.NewStore()
	var got []StateChange
	f := NewFavorites(store, hlx.NewManager(nil, nil, nil), func(sc StateChange) { got = append(got, sc) })

	f.handleApplied(proto.Match{Captures: []string{"3", "5"}})

	if assert.Len(t, got, 1) {
		assert.Equal(t, "applied", got[0].Property)
		assert.Equal(t, proto.Identifier(5), got[0].ID)
	}
}

func TestGroupsAddRemoveZoneEmitsOnChangeOnly(t *testing.T) {
	store := model.NewStore()
	var got []StateChange
	g := NewGroups(store, hlx.NewManager(nil, nil, nil), func(sc StateChange) { got = append(got, sc) })

	require.NoError(t, g.AddZone(1, 4))
	require.NoError(t, g.AddZone(1, 4))
	assert.Len(t, got, 1, "want exactly one add event")

	require.NoError(t, g.RemoveZone(1, 4))
	assert.Len(t, got, 2, "want an add and a remove event")
}

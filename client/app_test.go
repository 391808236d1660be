package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhlx/hlx/hlx"
	"github.com/openhlx/hlx/model"
	"github.com/openhlx/hlx/proto"
	"github.com/openhlx/hlx/session"
)

// newTestAppWithControllers builds an App around an arbitrary set of
// controllers instead of the real Zones/Sources/... set NewApp wires,
// so a test can control each controller's refresh "size" (the number of
// identifiers it iterates, per refreshByID) independently of any live
// connection.
func newTestAppWithControllers(ctrls ...Controller) *App {
	a := &App{
		store:     model.NewStore(),
		container: newContainer(),
		derived:   make(map[proto.Identifier]model.DerivedGroupState),
	}
	for _, c := range ctrls {
		a.container.add(c)
	}
	return a
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	manager := hlx.NewManager(nil, nil, nil)
	conn := session.New(session.Config{}, manager)
	manager.SetConn(conn)
	return NewApp(conn, manager)
}

func TestAppGroupDerivationOnZoneVolume(t *testing.T) {
	a := newTestApp(t)

	group, err := a.Store().Group(1)
	require.NoError(t, err)
	require.NoError(t, group.AddZone(1))
	require.NoError(t, group.AddZone(2))

	var derivedEvents []StateChange
	a.OnStateChange(func(sc StateChange) {
		if sc.Controller == a.Groups.Name() {
			derivedEvents = append(derivedEvents, sc)
		}
	})

	a.Zones.handleVolume(proto.Match{Captures: []string{"1", "-20"}})
	a.Zones.handleVolume(proto.Match{Captures: []string{"2", "-40"}})

	state, ok := a.DerivedGroupState(1)
	require.True(t, ok, "expected a derived state after zone volume changes")
	assert.Equal(t, -30, state.VolumeLevel)
	assert.NotEmpty(t, derivedEvents, "expected at least one derived-volume event")
}

func TestAppDeriveGroupDoesNotReenter(t *testing.T) {
	a := newTestApp(t)
	group, _ := a.Store().Group(1)
	group.AddZone(1)

	a.deriveGroup(1)
	assert.False(t, a.deriving, "deriving flag should be cleared once deriveGroup returns")

	// A state change delivered while deriving is set must not recurse
	// back into the derivation pass.
	a.deriving = true
	a.handleStateChange(StateChange{Controller: a.Zones.Name(), Property: "mute", ID: 1})
	a.deriving = false
}

func TestAppRefreshFiresWillRefreshThenFailsFastWhenDisconnected(t *testing.T) {
	a := newTestApp(t)

	var will, did bool
	a.OnWillRefresh(func() { will = true })
	a.OnDidRefresh(func() { did = true })

	// The test manager has no live connection, so the first exchange of
	// the first controller's refresh fails immediately with ErrNotConn;
	// Refresh propagates that error and never reaches DidRefresh.
	err := a.Refresh(time.Second)
	assert.Error(t, err, "expected Refresh to fail against a disconnected manager")
	assert.True(t, will, "expected WillRefresh to fire before the failing exchange")
	assert.False(t, did, "DidRefresh must not fire when a child controller's refresh fails")
}

func TestAppRefreshAggregatesWeightedChildProgress(t *testing.T) {
	// Four controllers of heterogeneous size (1/1/8/1 identifiers),
	// matching a refresh across controllers where most are singletons
	// but one (e.g. zones) iterates many identifiers. The aggregate
	// reported to IsRefreshing is (completed*100 + childPercent) / total
	// and must climb smoothly across the large controller's ticks rather
	// than jumping straight from 25 to 50.
	a := newTestAppWithControllers(
		&fakeController{name: "a", steps: 1},
		&fakeController{name: "b", steps: 1},
		&fakeController{name: "c", steps: 8},
		&fakeController{name: "d", steps: 1},
	)

	var progress []int
	a.OnIsRefreshing(func(percent int) { progress = append(progress, percent) })
	var didCount int
	a.OnDidRefresh(func() { didCount++ })

	err := a.Refresh(time.Second)
	require.NoError(t, err)

	require.NotEmpty(t, progress, "expected at least one IsRefreshing tick")
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1], "progress must be monotonically non-decreasing")
	}
	assert.Equal(t, 100, progress[len(progress)-1], "progress must end at 100")
	assert.Equal(t, 1, didCount, "DidRefresh must fire exactly once")
}

package model

import (
	"testing"

	"github.com/openhlx/hlx/proto"
)

func TestNewStorePopulatesFullRange(t *testing.T) {
	s := NewStore()
	if len(s.ZoneIDs()) != int(proto.Max[proto.KindZone]) {
		t.Fatalf("zone count = %d, want %d", len(s.ZoneIDs()), proto.Max[proto.KindZone])
	}
	if _, err := s.Zone(proto.Max[proto.KindZone]); err != nil {
		t.Fatalf("Zone(max): %v", err)
	}
	if _, err := s.Zone(proto.Max[proto.KindZone] + 1); err == nil {
		t.Fatal("Zone(max+1) should be out of range")
	}
}

func TestDeriveGroupStateEmptyGroup(t *testing.T) {
	s := NewStore()
	d, err := s.DeriveGroupState(1)
	if err != nil {
		t.Fatalf("DeriveGroupState: %v", err)
	}
	if d.MemberCount != 0 || d.Mute {
		t.Fatalf("empty group derived state = %+v", d)
	}
}

func TestDeriveGroupStateAggregatesMembers(t *testing.T) {
	s := NewStore()
	g, err := s.Group(1)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []proto.Identifier{1, 2, 3} {
		if err := g.AddZone(id); err != nil {
			t.Fatal(err)
		}
	}

	z1, _ := s.Zone(1)
	z2, _ := s.Zone(2)
	z3, _ := s.Zone(3)
	z1.Volume.Level, z1.Volume.Mute = -10, true
	z2.Volume.Level, z2.Volume.Mute = -20, true
	z3.Volume.Level, z3.Volume.Mute = -30, false
	z1.Source, z2.Source, z3.Source = 1, 1, 2

	d, err := s.DeriveGroupState(1)
	if err != nil {
		t.Fatal(err)
	}
	if d.MemberCount != 3 {
		t.Fatalf("member count = %d, want 3", d.MemberCount)
	}
	if d.Mute {
		t.Fatal("mute should be false: not every member is muted")
	}
	if d.VolumeLevel != -20 {
		t.Fatalf("volume level = %d, want -20", d.VolumeLevel)
	}
	if _, ok := d.SourcesInUse[1]; !ok {
		t.Fatal("source 1 should be in use")
	}
	if _, ok := d.SourcesInUse[2]; !ok {
		t.Fatal("source 2 should be in use")
	}
}

func TestDeriveGroupStateIsIdempotent(t *testing.T) {
	s := NewStore()
	g, _ := s.Group(1)
	g.AddZone(1)
	z1, _ := s.Zone(1)
	z1.Volume.Level = -40

	first, err := s.DeriveGroupState(1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.DeriveGroupState(1)
	if err != nil {
		t.Fatal(err)
	}
	if first.VolumeLevel != second.VolumeLevel || first.Mute != second.Mute {
		t.Fatalf("derivation not idempotent: %+v != %+v", first, second)
	}
}

func TestGroupAddZoneAlreadySet(t *testing.T) {
	g := &Group{}
	if err := g.AddZone(1); err != nil {
		t.Fatalf("AddZone: %v", err)
	}
	if err := g.AddZone(1); err == nil {
		t.Fatal("repeat AddZone should report ValueAlreadySet")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := NewStore()
	z, _ := s.Zone(5)
	z.Name = "Living Room"
	z.Volume.Level = -15
	z.Volume.Mute = true
	z.Crossover[HighPass].Frequency = 80

	snap := s.Snapshot()
	if snap.Zones[5].Name != "Living Room" || snap.Zones[5].VolumeLevel != -15 {
		t.Fatalf("zone snapshot = %+v", snap.Zones[5])
	}

	loaded := NewStore()
	loaded.LoadSnapshot(snap)
	lz, _ := loaded.Zone(5)
	if lz.Name != "Living Room" || lz.Volume.Level != -15 || !lz.Volume.Mute {
		t.Fatalf("loaded zone = %+v", lz)
	}
	if lz.Crossover[HighPass].Frequency != 80 {
		t.Fatalf("crossover not restored: %+v", lz.Crossover)
	}
}

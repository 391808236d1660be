package proto

import "testing"

func TestSetScalarVolumeScenario(t *testing.T) {
	// client sends "VO3-20".
	f, err := SetScalar(PropVolume, KindZone, 3, -20)
	if err != nil {
		t.Fatal(err)
	}
	if f.String() != "VO3-20" {
		t.Fatalf("got %q, want %q", f, "VO3-20")
	}
}

func TestMuteToggleScenario(t *testing.T) {
	// client sends "VMTO1".
	f, err := Mute(KindZone, 1, MuteToggle)
	if err != nil {
		t.Fatal(err)
	}
	if f.String() != "VMTO1" {
		t.Fatalf("got %q, want %q", f, "VMTO1")
	}
}

func TestIdentifierOutOfRange(t *testing.T) {
	if _, err := SetScalar(PropVolume, KindZone, 0, -20); err == nil {
		t.Fatal("expected error for Identifier 0")
	}
	if _, err := SetScalar(PropVolume, KindZone, Max[KindZone]+1, -20); err == nil {
		t.Fatal("expected error for Identifier beyond Max")
	}
}

func TestSetNameTooLong(t *testing.T) {
	_, err := SetName(KindZone, 1, "this name is definitely longer than sixteen bytes")
	if err == nil {
		t.Fatal("expected ErrNameTooLong")
	}
}

func TestSetNameRoundTrip(t *testing.T) {
	f, err := SetName(KindZone, 2, "Living Room")
	if err != nil {
		t.Fatal(err)
	}
	want := `NO2"Living Room"`
	if f.String() != want {
		t.Fatalf("got %q, want %q", f, want)
	}
}

func TestEqualizerBandSet(t *testing.T) {
	f, err := EqualizerBandSet(KindEqualizerPreset, 2, 3, -4)
	if err != nil {
		t.Fatal(err)
	}
	if f.String() != "EP2B3S-4" {
		t.Fatalf("got %q", f)
	}
}

func TestCrossover(t *testing.T) {
	f, err := Crossover(KindZone, 3, true, 80)
	if err != nil {
		t.Fatal(err)
	}
	if f.String() != "EO3HP80" {
		t.Fatalf("got %q", f)
	}
}

func TestInfraredSetDisabled(t *testing.T) {
	f, err := InfraredSetDisabled(1, true)
	if err != nil {
		t.Fatal(err)
	}
	if f.String() != "IR1E" {
		t.Fatalf("got %q, want %q", f, "IR1E")
	}
	if !Registry[PatternInfraredDisabled].Expr.Match([]byte("(" + f.String() + ")")) {
		t.Fatalf("built frame %q does not match PatternInfraredDisabled", f)
	}
}

func TestNetworkSetDHCP(t *testing.T) {
	f, err := NetworkSetDHCP(1, true)
	if err != nil {
		t.Fatal(err)
	}
	if f.String() != "XX1E" {
		t.Fatalf("got %q, want %q", f, "XX1E")
	}
	if !Registry[PatternNetworkDHCP].Expr.Match([]byte("(" + f.String() + ")")) {
		t.Fatalf("built frame %q does not match PatternNetworkDHCP", f)
	}
}

func TestFrontPanelSetLocked(t *testing.T) {
	f, err := FrontPanelSetLocked(1, true)
	if err != nil {
		t.Fatal(err)
	}
	if f.String() != "KK1E" {
		t.Fatalf("got %q, want %q", f, "KK1E")
	}
	if !Registry[PatternFrontPanelLock].Expr.Match([]byte("(" + f.String() + ")")) {
		t.Fatalf("built frame %q does not match PatternFrontPanelLock", f)
	}
}

func TestQueryAllOrdering(t *testing.T) {
	all, err := QueryAll(KindZone)
	if err != nil {
		t.Fatal(err)
	}
	one, err := QueryObject(KindZone, 3)
	if err != nil {
		t.Fatal(err)
	}
	if all.String() != "QOA" {
		t.Fatalf("got %q", all)
	}
	if one.String() != "QO3" {
		t.Fatalf("got %q", one)
	}
}

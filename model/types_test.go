package model

import (
	"errors"
	"net"
	"testing"

	"github.com/openhlx/hlx/herr"
)

func TestVolumeSetLevelAlreadySet(t *testing.T) {
	var v Volume
	if err := v.SetLevel(-20); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := v.SetLevel(-20); err != herr.ValueAlreadySet {
		t.Fatalf("repeat set = %v, want ValueAlreadySet", err)
	}
}

func TestVolumeSetLevelRange(t *testing.T) {
	var v Volume
	if err := v.SetLevel(1); !errors.Is(err, herr.ErrInval) {
		t.Fatalf("SetLevel(1) = %v, want ErrInval", err)
	}
	if err := v.SetLevel(MinVolume - 1); !errors.Is(err, herr.ErrInval) {
		t.Fatalf("SetLevel(below min) = %v, want ErrInval", err)
	}
}

func TestVolumeSetMuteAlreadySet(t *testing.T) {
	var v Volume
	if err := v.SetMute(false); err != herr.ValueAlreadySet {
		t.Fatalf("SetMute(false) on zero value = %v, want ValueAlreadySet", err)
	}
	if err := v.SetMute(true); err != nil {
		t.Fatalf("SetMute(true): %v", err)
	}
}

func TestBalanceRange(t *testing.T) {
	var b Balance
	if err := b.SetLevel(MaxBalance); err != nil {
		t.Fatalf("SetLevel(max): %v", err)
	}
	if err := b.SetLevel(MaxBalance + 1); !errors.Is(err, herr.ErrInval) {
		t.Fatalf("SetLevel(max+1) = %v, want ErrInval", err)
	}
}

func TestToneIndependentBounds(t *testing.T) {
	var tn Tone
	if err := tn.SetBass(MinTone); err != nil {
		t.Fatalf("SetBass(min): %v", err)
	}
	if err := tn.SetTreble(MaxTone); err != nil {
		t.Fatalf("SetTreble(max): %v", err)
	}
	if tn.Bass != MinTone || tn.Treble != MaxTone {
		t.Fatalf("tone = %+v", tn)
	}
	if err := tn.SetBass(MaxTone + 1); !errors.Is(err, herr.ErrInval) {
		t.Fatalf("SetBass(out of range) = %v, want ErrInval", err)
	}
}

func TestEqualizerBandRange(t *testing.T) {
	var b EqualizerBand
	if err := b.SetLevel(MinBandLevel - 1); !errors.Is(err, herr.ErrInval) {
		t.Fatalf("SetLevel(below min) = %v, want ErrInval", err)
	}
	if err := b.SetLevel(3); err != nil {
		t.Fatalf("SetLevel(3): %v", err)
	}
	if err := b.SetLevel(3); err != herr.ValueAlreadySet {
		t.Fatalf("repeat SetLevel(3) = %v, want ValueAlreadySet", err)
	}
}

func TestSoundModeSetMode(t *testing.T) {
	m := SoundModeDisabled
	if err := m.SetMode(SoundModePreset); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if err := m.SetMode(SoundModePreset); err != herr.ValueAlreadySet {
		t.Fatalf("repeat SetMode = %v, want ValueAlreadySet", err)
	}
	if err := m.SetMode(SoundMode(99)); !errors.Is(err, herr.ErrInval) {
		t.Fatalf("SetMode(invalid) = %v, want ErrInval", err)
	}
}

func TestCrossoverFrequencyLadder(t *testing.T) {
	var c CrossoverFrequency
	if err := c.SetFrequency(80); err != nil {
		t.Fatalf("SetFrequency(80): %v", err)
	}
	if err := c.SetFrequency(81); !errors.Is(err, herr.ErrInval) {
		t.Fatalf("SetFrequency(81) = %v, want ErrInval", err)
	}
	if err := c.SetFrequency(80); err != herr.ValueAlreadySet {
		t.Fatalf("repeat SetFrequency(80) = %v, want ValueAlreadySet", err)
	}
}

func TestNetworkInfoSetters(t *testing.T) {
	var n NetworkInfo
	ip := net.ParseIP("192.168.1.50")
	if err := n.SetIPAddress(ip); err != nil {
		t.Fatalf("SetIPAddress: %v", err)
	}
	if err := n.SetIPAddress(ip); err != herr.ValueAlreadySet {
		t.Fatalf("repeat SetIPAddress = %v, want ValueAlreadySet", err)
	}
	if err := n.SetIPAddress(nil); !errors.Is(err, herr.ErrInval) {
		t.Fatalf("SetIPAddress(nil) = %v, want ErrInval", err)
	}

	mac, _ := net.ParseMAC("00:11:22:33:44:55")
	if err := n.SetEthernetHWAddress(mac); err != nil {
		t.Fatalf("SetEthernetHWAddress: %v", err)
	}
	if err := n.SetEthernetHWAddress(mac); err != herr.ValueAlreadySet {
		t.Fatalf("repeat SetEthernetHWAddress = %v, want ValueAlreadySet", err)
	}
}

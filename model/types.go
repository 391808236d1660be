// Package model implements the typed per-property data classes carried
// as fields by protocol messages. Every setter follows the same
// invariant: writing the value already present returns
// herr.ValueAlreadySet and the caller must not emit a derived
// state-change event for it; any other successful write returns nil.
package model

import (
	"fmt"
	"net"

	"github.com/openhlx/hlx/herr"
)

// Volume carries an output's loudness level and mute flag. Level 0 is
// loudest; MinVolume is the quietest representable level.
type Volume struct {
	Level int
	Mute  bool
}

// MinVolume and MaxVolume bound Volume.Level.
const (
	MinVolume = -80
	MaxVolume = 0
)

// SetLevel validates and writes lvl. It returns herr.ValueAlreadySet
// without mutating v if lvl already equals v.Level.
func (v *Volume) SetLevel(lvl int) error {
	if lvl < MinVolume || lvl > MaxVolume {
		return fmt.Errorf("%w: volume level %d outside [%d, %d]", herr.ErrInval, lvl, MinVolume, MaxVolume)
	}
	if v.Level == lvl {
		return herr.ValueAlreadySet
	}
	v.Level = lvl
	return nil
}

// SetMute writes mute. It returns herr.ValueAlreadySet without mutating
// v if mute already equals v.Mute.
func (v *Volume) SetMute(mute bool) error {
	if v.Mute == mute {
		return herr.ValueAlreadySet
	}
	v.Mute = mute
	return nil
}

// Balance carries an output's left/right balance: negative is left,
// positive is right, 0 is centered.
type Balance struct {
	Level int
}

// MinBalance and MaxBalance bound Balance.Level.
const (
	MinBalance = -80
	MaxBalance = 80
)

// SetLevel validates and writes lvl.
func (b *Balance) SetLevel(lvl int) error {
	if lvl < MinBalance || lvl > MaxBalance {
		return fmt.Errorf("%w: balance level %d outside [%d, %d]", herr.ErrInval, lvl, MinBalance, MaxBalance)
	}
	if b.Level == lvl {
		return herr.ValueAlreadySet
	}
	b.Level = lvl
	return nil
}

// Tone carries an output's bass and treble adjustment, each independently
// bounded.
type Tone struct {
	Bass   int
	Treble int
}

// MinTone and MaxTone bound Tone.Bass and Tone.Treble.
const (
	MinTone = -10
	MaxTone = 10
)

// SetBass validates and writes lvl.
func (t *Tone) SetBass(lvl int) error {
	if lvl < MinTone || lvl > MaxTone {
		return fmt.Errorf("%w: bass level %d outside [%d, %d]", herr.ErrInval, lvl, MinTone, MaxTone)
	}
	if t.Bass == lvl {
		return herr.ValueAlreadySet
	}
	t.Bass = lvl
	return nil
}

// SetTreble validates and writes lvl.
func (t *Tone) SetTreble(lvl int) error {
	if lvl < MinTone || lvl > MaxTone {
		return fmt.Errorf("%w: treble level %d outside [%d, %d]", herr.ErrInval, lvl, MinTone, MaxTone)
	}
	if t.Treble == lvl {
		return herr.ValueAlreadySet
	}
	t.Treble = lvl
	return nil
}

// EqualizerBand carries one band's level within an equalizer preset.
type EqualizerBand struct {
	Level int
}

// MinBandLevel and MaxBandLevel bound EqualizerBand.Level.
const (
	MinBandLevel = -10
	MaxBandLevel = 10
)

// SetLevel validates and writes lvl.
func (e *EqualizerBand) SetLevel(lvl int) error {
	if lvl < MinBandLevel || lvl > MaxBandLevel {
		return fmt.Errorf("%w: band level %d outside [%d, %d]", herr.ErrInval, lvl, MinBandLevel, MaxBandLevel)
	}
	if e.Level == lvl {
		return herr.ValueAlreadySet
	}
	e.Level = lvl
	return nil
}

// SoundMode selects how a zone derives its equalizer curve.
type SoundMode int

const (
	// SoundModeDisabled applies no equalizer curve.
	SoundModeDisabled SoundMode = iota
	// SoundModeZone applies the zone's own per-band equalizer.
	SoundModeZone
	// SoundModePreset applies a shared EqualizerPreset by identifier.
	SoundModePreset
)

func (m SoundMode) String() string {
	switch m {
	case SoundModeDisabled:
		return "disabled"
	case SoundModeZone:
		return "zone"
	case SoundModePreset:
		return "preset"
	default:
		return fmt.Sprintf("sound-mode(%d)", int(m))
	}
}

// SetMode validates and writes mode onto *m.
func (m *SoundMode) SetMode(mode SoundMode) error {
	if mode != SoundModeDisabled && mode != SoundModeZone && mode != SoundModePreset {
		return fmt.Errorf("%w: sound mode %d", herr.ErrInval, int(mode))
	}
	if *m == mode {
		return herr.ValueAlreadySet
	}
	*m = mode
	return nil
}

// CrossoverChannel names which half of a crossover pair a
// CrossoverFrequency value belongs to.
type CrossoverChannel int

const (
	// HighPass is the high-pass crossover channel.
	HighPass CrossoverChannel = iota
	// LowPass is the low-pass crossover channel.
	LowPass
)

// CrossoverLadder is the fixed set of frequencies (Hz) a crossover may be
// set to.
var CrossoverLadder = []uint{40, 60, 80, 100, 120, 150, 180, 220}

// CrossoverFrequency carries one channel (high-pass or low-pass) of an
// output's crossover setting.
type CrossoverFrequency struct {
	Channel   CrossoverChannel
	Frequency uint
}

// onLadder reports whether hz is one of CrossoverLadder's steps.
func onLadder(hz uint) bool {
	for _, step := range CrossoverLadder {
		if step == hz {
			return true
		}
	}
	return false
}

// SetFrequency validates hz against CrossoverLadder and writes it.
func (c *CrossoverFrequency) SetFrequency(hz uint) error {
	if !onLadder(hz) {
		return fmt.Errorf("%w: crossover frequency %d Hz not on the ladder", herr.ErrInval, hz)
	}
	if c.Frequency == hz {
		return herr.ValueAlreadySet
	}
	c.Frequency = hz
	return nil
}

// NetworkInfo carries the Ethernet network interface's configuration.
type NetworkInfo struct {
	DHCP              bool
	IPAddress         net.IP
	Netmask           net.IP
	Gateway           net.IP
	EthernetHWAddress net.HardwareAddr
}

// SetDHCP validates and writes dhcp.
func (n *NetworkInfo) SetDHCP(dhcp bool) error {
	if n.DHCP == dhcp {
		return herr.ValueAlreadySet
	}
	n.DHCP = dhcp
	return nil
}

// SetIPAddress validates and writes ip. A nil or unparsed ip is rejected.
func (n *NetworkInfo) SetIPAddress(ip net.IP) error {
	if ip == nil {
		return fmt.Errorf("%w: nil IP address", herr.ErrInval)
	}
	if n.IPAddress.Equal(ip) {
		return herr.ValueAlreadySet
	}
	n.IPAddress = ip
	return nil
}

// SetNetmask validates and writes mask.
func (n *NetworkInfo) SetNetmask(mask net.IP) error {
	if mask == nil {
		return fmt.Errorf("%w: nil netmask", herr.ErrInval)
	}
	if n.Netmask.Equal(mask) {
		return herr.ValueAlreadySet
	}
	n.Netmask = mask
	return nil
}

// SetGateway validates and writes gw.
func (n *NetworkInfo) SetGateway(gw net.IP) error {
	if gw == nil {
		return fmt.Errorf("%w: nil gateway", herr.ErrInval)
	}
	if n.Gateway.Equal(gw) {
		return herr.ValueAlreadySet
	}
	n.Gateway = gw
	return nil
}

// SetEthernetHWAddress validates and writes mac.
func (n *NetworkInfo) SetEthernetHWAddress(mac net.HardwareAddr) error {
	if len(mac) == 0 {
		return fmt.Errorf("%w: empty hardware address", herr.ErrInval)
	}
	if bytesEqual(n.EthernetHWAddress, mac) {
		return herr.ValueAlreadySet
	}
	n.EthernetHWAddress = mac
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

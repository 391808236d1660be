package model

import (
	"net"

	"github.com/openhlx/hlx/proto"
)

// Snapshot is a direct YAML projection of a Store: cmd/hlxsimd loads
// and saves its data model through this shape via gopkg.in/yaml.v3, the
// library the
// rest of the corpus (the rbn-client band-plan loader in
// other_examples, ka9q_ubersdr's configuration loader) uses for the same
// kind of on-disk domain-struct marshaling.
type Snapshot struct {
	Zones      map[uint]ZoneSnapshot      `yaml:"zones"`
	Sources    map[uint]SourceSnapshot    `yaml:"sources"`
	Groups     map[uint]GroupSnapshot     `yaml:"groups,omitempty"`
	Favorites  map[uint]FavoriteSnapshot  `yaml:"favorites,omitempty"`
	Presets    map[uint]PresetSnapshot    `yaml:"equalizer_presets,omitempty"`
	Infrared   InfraredSnapshot           `yaml:"infrared"`
	Network    NetworkSnapshot            `yaml:"network"`
	FrontPanel FrontPanelSnapshot         `yaml:"front_panel"`
}

// ZoneSnapshot is Zone's YAML projection.
type ZoneSnapshot struct {
	Name          string `yaml:"name"`
	VolumeLevel   int    `yaml:"volume_level"`
	Mute          bool   `yaml:"mute"`
	Balance       int    `yaml:"balance"`
	Bass          int    `yaml:"bass"`
	Treble        int    `yaml:"treble"`
	CrossoverHP   uint   `yaml:"crossover_hp_hz"`
	CrossoverLP   uint   `yaml:"crossover_lp_hz"`
	SoundMode     int    `yaml:"sound_mode"`
	Preset        uint   `yaml:"preset,omitempty"`
	Source        uint   `yaml:"source"`
	Locked        bool   `yaml:"locked"`
}

// SourceSnapshot is Source's YAML projection.
type SourceSnapshot struct {
	Name string `yaml:"name"`
}

// GroupSnapshot is Group's YAML projection. Membership is persisted;
// derived aggregate state is
// deliberately not, since it is recomputed on load.
type GroupSnapshot struct {
	Name  string `yaml:"name"`
	Zones []uint `yaml:"zones,omitempty"`
}

// FavoriteSnapshot is Favorite's YAML projection.
type FavoriteSnapshot struct {
	Name string `yaml:"name"`
}

// PresetSnapshot is EqualizerPreset's YAML projection.
type PresetSnapshot struct {
	Name  string `yaml:"name"`
	Bands [MaxEqualizerBandIndex]int `yaml:"bands"`
}

// InfraredSnapshot is Infrared's YAML projection.
type InfraredSnapshot struct {
	Disabled bool `yaml:"disabled"`
}

// NetworkSnapshot is Network's YAML projection. Addresses are persisted
// as their string form since net.IP/net.HardwareAddr do not round-trip
// through yaml.v3's default scalar encoding.
type NetworkSnapshot struct {
	DHCP      bool   `yaml:"dhcp"`
	IPAddress string `yaml:"ip_address,omitempty"`
	Netmask   string `yaml:"netmask,omitempty"`
	Gateway   string `yaml:"gateway,omitempty"`
	EUI48     string `yaml:"ethernet_hw_address,omitempty"`
}

// FrontPanelSnapshot is FrontPanel's YAML projection.
type FrontPanelSnapshot struct {
	Locked bool `yaml:"locked"`
}

// Snapshot renders s's current state as a Snapshot suitable for
// yaml.Marshal.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Zones:     make(map[uint]ZoneSnapshot, len(s.zones)),
		Sources:   make(map[uint]SourceSnapshot, len(s.sources)),
		Groups:    make(map[uint]GroupSnapshot, len(s.groups)),
		Favorites: make(map[uint]FavoriteSnapshot, len(s.favorites)),
		Presets:   make(map[uint]PresetSnapshot, len(s.presets)),
	}

	for id, z := range s.zones {
		zs := ZoneSnapshot{
			Name:        z.Name,
			VolumeLevel: z.Volume.Level,
			Mute:        z.Volume.Mute,
			Balance:     z.Balance.Level,
			Bass:        z.Tone.Bass,
			Treble:      z.Tone.Treble,
			CrossoverHP: z.Crossover[HighPass].Frequency,
			CrossoverLP: z.Crossover[LowPass].Frequency,
			SoundMode:   int(z.SoundMode),
			Preset:      uint(z.Preset),
			Source:      uint(z.Source),
			Locked:      z.Locked,
		}
		snap.Zones[uint(id)] = zs
	}
	for id, src := range s.sources {
		snap.Sources[uint(id)] = SourceSnapshot{Name: src.Name}
	}
	for id, g := range s.groups {
		gs := GroupSnapshot{Name: g.Name}
		for zid := range g.Zones {
			gs.Zones = append(gs.Zones, uint(zid))
		}
		snap.Groups[uint(id)] = gs
	}
	for id, f := range s.favorites {
		snap.Favorites[uint(id)] = FavoriteSnapshot{Name: f.Name}
	}
	for id, p := range s.presets {
		ps := PresetSnapshot{Name: p.Name}
		for i, b := range p.Bands {
			ps.Bands[i] = b.Level
		}
		snap.Presets[uint(id)] = ps
	}

	snap.Infrared = InfraredSnapshot{Disabled: s.infrared.Disabled}
	snap.Network = NetworkSnapshot{
		DHCP:      s.network.Info.DHCP,
		IPAddress: ipString(s.network.Info.IPAddress),
		Netmask:   ipString(s.network.Info.Netmask),
		Gateway:   ipString(s.network.Info.Gateway),
		EUI48:     hwString(s.network.Info.EthernetHWAddress),
	}
	snap.FrontPanel = FrontPanelSnapshot{
		Locked: s.frontPanel.Locked,
	}
	return snap
}

// LoadSnapshot replaces s's state with snap's. Entries in snap for zone,
// source, group, favorite or preset identifiers that NewStore did not
// allocate are ignored; nothing new is constructed.
func (s *Store) LoadSnapshot(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, zs := range snap.Zones {
		z, ok := s.zones[proto.Identifier(id)]
		if !ok {
			continue
		}
		z.Name = zs.Name
		z.Volume.Level = zs.VolumeLevel
		z.Volume.Mute = zs.Mute
		z.Balance.Level = zs.Balance
		z.Tone.Bass = zs.Bass
		z.Tone.Treble = zs.Treble
		z.Crossover[HighPass] = CrossoverFrequency{Channel: HighPass, Frequency: zs.CrossoverHP}
		z.Crossover[LowPass] = CrossoverFrequency{Channel: LowPass, Frequency: zs.CrossoverLP}
		z.SoundMode = SoundMode(zs.SoundMode)
		z.Preset = proto.Identifier(zs.Preset)
		z.Source = proto.Identifier(zs.Source)
		z.Locked = zs.Locked
	}
	for id, ss := range snap.Sources {
		if src, ok := s.sources[proto.Identifier(id)]; ok {
			src.Name = ss.Name
		}
	}
	for id, gs := range snap.Groups {
		g, ok := s.groups[proto.Identifier(id)]
		if !ok {
			continue
		}
		g.Name = gs.Name
		g.Zones = make(map[proto.Identifier]struct{}, len(gs.Zones))
		for _, zid := range gs.Zones {
			g.Zones[proto.Identifier(zid)] = struct{}{}
		}
	}
	for id, fs := range snap.Favorites {
		if f, ok := s.favorites[proto.Identifier(id)]; ok {
			f.Name = fs.Name
		}
	}
	for id, ps := range snap.Presets {
		p, ok := s.presets[proto.Identifier(id)]
		if !ok {
			continue
		}
		p.Name = ps.Name
		for i, lvl := range ps.Bands {
			p.Bands[i].Level = lvl
		}
	}

	s.infrared.Disabled = snap.Infrared.Disabled
	s.network.Info.DHCP = snap.Network.DHCP
	s.network.Info.IPAddress = parseIP(snap.Network.IPAddress)
	s.network.Info.Netmask = parseIP(snap.Network.Netmask)
	s.network.Info.Gateway = parseIP(snap.Network.Gateway)
	s.network.Info.EthernetHWAddress = parseMAC(snap.Network.EUI48)
	s.frontPanel.Locked = snap.FrontPanel.Locked
}

func ipString(ip net.IP) string {
	if ip == nil {
		return ""
	}
	return ip.String()
}

func hwString(mac net.HardwareAddr) string {
	if len(mac) == 0 {
		return ""
	}
	return mac.String()
}

func parseIP(s string) net.IP {
	if s == "" {
		return nil
	}
	return net.ParseIP(s)
}

func parseMAC(s string) net.HardwareAddr {
	if s == "" {
		return nil
	}
	mac, err := net.ParseMAC(s)
	if err != nil {
		return nil
	}
	return mac
}

// Package proto implements the HLX wire protocol: frame construction (C1),
// the regular-expression pattern registry that recognises inbound frames
// (C2), and the byte-buffer tokenizer that turns a TCP stream into frames.
package proto

import "fmt"

// Identifier names one instance within a Kind: zone 1..Z, source 1..S, and
// so on. The zero value, Invalid, marks "unset".
type Identifier uint

// Invalid is the reserved "unset" identifier.
const Invalid Identifier = 0

// Valid reports whether id lies in [1, max].
func (id Identifier) Valid(max Identifier) bool {
	return id >= 1 && id <= max
}

// String renders the decimal form used on the wire.
func (id Identifier) String() string {
	return fmt.Sprintf("%d", uint(id))
}

// Kind names a class of addressable object in the data model.
type Kind byte

// The eight object kinds, matching the eight object controllers.
const (
	KindZone Kind = iota
	KindSource
	KindGroup
	KindFavorite
	KindEqualizerPreset
	KindInfrared
	KindNetwork
	KindFrontPanel
)

// code is the single-letter wire token that names a Kind in a frame, e.g.
// the "O" in "VO3-20".
var code = map[Kind]byte{
	KindZone:            'O', // "output"
	KindSource:          'S',
	KindGroup:           'G',
	KindFavorite:        'F',
	KindEqualizerPreset: 'P',
	KindInfrared:        'R',
	KindNetwork:         'X',
	KindFrontPanel:      'K',
}

var kindByCode = func() map[byte]Kind {
	m := make(map[byte]Kind, len(code))
	for k, c := range code {
		m[c] = k
	}
	return m
}()

// Max is the table of hardware identifier ceilings: the maximum
// identifier per kind is a hardware constant, surfaced here as a single
// table of (kind -> max) constants rather than scattered literals.
// Infrared,
// Network and FrontPanel are singletons addressed at Identifier 1.
var Max = map[Kind]Identifier{
	KindZone:            20,
	KindSource:          10,
	KindGroup:           20,
	KindFavorite:        20,
	KindEqualizerPreset: 10,
	KindInfrared:        1,
	KindNetwork:         1,
	KindFrontPanel:      1,
}

// MaxEqualizerBand is the per-preset band count ceiling.
const MaxEqualizerBand Identifier = 10

// KindFromCode reverses the Kind -> wire-letter mapping, used by callers
// that must recover which kind a frame addresses from a raw byte rather
// than a capture group — notably the shared name-set pattern (§4.1),
// whose object-code letter sits in a non-capturing character class.
func KindFromCode(b byte) (Kind, bool) {
	k, ok := kindByCode[b]
	return k, ok
}

// String names the kind, e.g. for log messages.
func (k Kind) String() string {
	switch k {
	case KindZone:
		return "zone"
	case KindSource:
		return "source"
	case KindGroup:
		return "group"
	case KindFavorite:
		return "favorite"
	case KindEqualizerPreset:
		return "equalizer-preset"
	case KindInfrared:
		return "infrared"
	case KindNetwork:
		return "network"
	case KindFrontPanel:
		return "front-panel"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

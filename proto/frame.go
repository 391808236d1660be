package proto

import (
	"errors"
	"fmt"
	"strings"
)

// Frame is a variable-length sequence of printable ASCII bytes carrying one
// protocol message. It carries no length prefix and no explicit
// terminator beyond what a Pattern consumes.
type Frame []byte

// String renders the frame for logging.
func (f Frame) String() string { return string(f) }

// Respond wraps f in the literal parentheses that distinguish an inbound
// response or notification from an outbound request of the same
// property (a "VO3-20" request is acknowledged as "(VO3-20)"). Used by
// a server to turn a request-shaped
// frame into the reply/notification it sends back.
func Respond(f Frame) Frame {
	out := make(Frame, 0, len(f)+2)
	out = append(out, '(')
	out = append(out, f...)
	out = append(out, ')')
	return out
}

// maxNameBytes bounds the payload of a Set-name request: names are
// bounded at 16 bytes of payload, longer names are rejected before
// transmission.
const maxNameBytes = 16

// ErrNameTooLong is a construction-time error: returned to the caller,
// never raised as an event.
var ErrNameTooLong = errors.New("proto: name exceeds 16 bytes")

// ErrIdentifier is a construction-time error for an out-of-range
// Identifier.
var ErrIdentifier = errors.New("proto: identifier out of range")

// ErrFrequency signals a crossover frequency outside the supported ladder.
var ErrFrequency = errors.New("proto: unsupported crossover frequency")

func checkID(k Kind, id Identifier) error {
	max, ok := Max[k]
	if !ok || !id.Valid(max) {
		return fmt.Errorf("%w: %s %d not in [1, %d]", ErrIdentifier, k, id, max)
	}
	return nil
}

// Prop names the short alphabetic property code that prefixes a request,
// e.g. "V" for volume. Two-letter codes (tone) are supported.
type Prop string

// The property codes in use.
const (
	PropVolume  Prop = "V"
	PropBalance Prop = "B"
	PropBass    Prop = "TB"
	PropTreble  Prop = "TT"
	PropSource  Prop = "C" // current source selection of a zone
	PropMode    Prop = "M" // sound mode
)

// QueryObject returns "Q<obj><id>", a request for the current state of one
// object.
func QueryObject(k Kind, id Identifier) (Frame, error) {
	if err := checkID(k, id); err != nil {
		return nil, err
	}
	return Frame(fmt.Sprintf("Q%c%s", code[k], id)), nil
}

// QueryAll returns "Q<obj>A", a request for the current state of every
// object of kind k.
func QueryAll(k Kind) (Frame, error) {
	if _, ok := code[k]; !ok {
		return nil, fmt.Errorf("%w: unknown kind %s", ErrIdentifier, k)
	}
	return Frame(fmt.Sprintf("Q%cA", code[k])), nil
}

// SetScalar returns "<prop><obj><id><op><value>" for a signed integer
// property write, e.g. SetScalar(PropVolume, KindZone, 3, -20) ==
// "VO3-20".
func SetScalar(p Prop, k Kind, id Identifier, value int) (Frame, error) {
	if err := checkID(k, id); err != nil {
		return nil, err
	}
	return Frame(fmt.Sprintf("%s%c%s%d", p, code[k], id, value)), nil
}

// IncreaseDecrease returns "<prop><obj><id>U" or "<prop><obj><id>D".
func IncreaseDecrease(p Prop, k Kind, id Identifier, increase bool) (Frame, error) {
	if err := checkID(k, id); err != nil {
		return nil, err
	}
	op := byte('D')
	if increase {
		op = 'U'
	}
	return Frame(fmt.Sprintf("%s%c%s%c", p, code[k], id, op)), nil
}

// SetName returns `N<obj><id>"<utf8-name>"`. Names longer than 16 bytes of
// UTF-8 payload are rejected before transmission.
func SetName(k Kind, id Identifier, name string) (Frame, error) {
	if err := checkID(k, id); err != nil {
		return nil, err
	}
	if len(name) > maxNameBytes {
		return nil, fmt.Errorf("%w: %q is %d bytes", ErrNameTooLong, name, len(name))
	}
	return Frame(fmt.Sprintf("N%c%s%q", code[k], id, name)), nil
}

// MuteResponse returns "V<token><obj><id>" encoding the resulting mute
// state using the inverted-token convention inbound frames carry: the token is "MU" when the zone ends
// up muted and "M" when it does not — the opposite of what the same two
// tokens mean in an outbound Mute request. Used by a server turning a
// mute write into its reply/notification.
func MuteResponse(k Kind, id Identifier, muted bool) (Frame, error) {
	if err := checkID(k, id); err != nil {
		return nil, err
	}
	token := "M"
	if muted {
		token = "MU"
	}
	return Frame(fmt.Sprintf("V%s%c%s", token, code[k], id)), nil
}

// MuteOp names a mute request operation.
type MuteOp byte

const (
	MuteOn MuteOp = iota
	MuteOff
	MuteToggle
)

func (op MuteOp) requestToken() string {
	switch op {
	case MuteOn:
		return "M"
	case MuteOff:
		return "MU"
	case MuteToggle:
		return "MT"
	default:
		panic("proto: unknown MuteOp")
	}
}

// Mute returns "V<op><obj><id>" where op in {M, MU, MT}.
func Mute(k Kind, id Identifier, op MuteOp) (Frame, error) {
	if err := checkID(k, id); err != nil {
		return nil, err
	}
	return Frame(fmt.Sprintf("V%s%c%s", op.requestToken(), code[k], id)), nil
}

// EqualizerBandSet returns "E<obj><id>B<band>S<level>", setting an
// equalizer band to an absolute level.
func EqualizerBandSet(k Kind, id, band Identifier, level int) (Frame, error) {
	if err := checkID(k, id); err != nil {
		return nil, err
	}
	if !band.Valid(MaxEqualizerBand) {
		return nil, fmt.Errorf("%w: band %d not in [1, %d]", ErrIdentifier, band, MaxEqualizerBand)
	}
	return Frame(fmt.Sprintf("E%c%sB%sS%d", code[k], id, band, level)), nil
}

// EqualizerBandStep returns "E<obj><id>B<band>U" or "...D", stepping a
// band up or down by one.
func EqualizerBandStep(k Kind, id, band Identifier, increase bool) (Frame, error) {
	if err := checkID(k, id); err != nil {
		return nil, err
	}
	if !band.Valid(MaxEqualizerBand) {
		return nil, fmt.Errorf("%w: band %d not in [1, %d]", ErrIdentifier, band, MaxEqualizerBand)
	}
	op := byte('D')
	if increase {
		op = 'U'
	}
	return Frame(fmt.Sprintf("E%c%sB%s%c", code[k], id, band, op)), nil
}

// Crossover returns "E<obj><id>HP<freq>" or "E<obj><id>LP<freq>".
func Crossover(k Kind, id Identifier, highPass bool, freqHz uint) (Frame, error) {
	if err := checkID(k, id); err != nil {
		return nil, err
	}
	slope := "LP"
	if highPass {
		slope = "HP"
	}
	return Frame(fmt.Sprintf("E%c%s%s%d", code[k], id, slope, freqHz)), nil
}

// ApplyFavorite returns "AF<favoriteID><obj><zoneID>", recalling a
// favorite onto a zone.
func ApplyFavorite(favoriteID Identifier, k Kind, zoneID Identifier) (Frame, error) {
	if err := checkID(KindFavorite, favoriteID); err != nil {
		return nil, err
	}
	if err := checkID(k, zoneID); err != nil {
		return nil, err
	}
	return Frame(fmt.Sprintf("AF%s%c%s", favoriteID, code[k], zoneID)), nil
}

// enabledDisabledToken renders the "E"/"D" suffix shared by the infrared,
// network and front-panel singleton toggles.
func enabledDisabledToken(enabled bool) byte {
	if enabled {
		return 'E'
	}
	return 'D'
}

// InfraredSetDisabled returns "I<obj><id><E|D>", setting the singleton
// infrared receiver's disabled state (object code `R`, matching
// PatternInfraredDisabled).
func InfraredSetDisabled(id Identifier, disabled bool) (Frame, error) {
	if err := checkID(KindInfrared, id); err != nil {
		return nil, err
	}
	return Frame(fmt.Sprintf("I%c%s%c", code[KindInfrared], id, enabledDisabledToken(disabled))), nil
}

// NetworkSetDHCP returns "X<obj><id><E|D>", setting the singleton network
// interface's DHCP enabled state, matching PatternNetworkDHCP.
func NetworkSetDHCP(id Identifier, enabled bool) (Frame, error) {
	if err := checkID(KindNetwork, id); err != nil {
		return nil, err
	}
	return Frame(fmt.Sprintf("X%c%s%c", code[KindNetwork], id, enabledDisabledToken(enabled))), nil
}

// FrontPanelSetLocked returns "K<obj><id><E|D>", setting the singleton
// front panel's lock state, matching PatternFrontPanelLock.
func FrontPanelSetLocked(id Identifier, locked bool) (Frame, error) {
	if err := checkID(KindFrontPanel, id); err != nil {
		return nil, err
	}
	return Frame(fmt.Sprintf("K%c%s%c", code[KindFrontPanel], id, enabledDisabledToken(locked))), nil
}

// quoteContents strips the surrounding quotes %q adds, recovering a
// human-readable name from a built frame.
func quoteContents(quoted string) string {
	return strings.Trim(quoted, `"`)
}

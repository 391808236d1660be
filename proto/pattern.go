package proto

import (
	"fmt"
	"regexp"
)

// Purpose classifies a Pattern's usual role: exchange-response versus
// unsolicited notification. It is metadata only — actual routing in the
// command manager is positional: any inbound frame that matches a
// pattern with an outstanding waiter completes that exchange regardless
// of the pattern's declared Purpose.
type Purpose int

const (
	// PurposeEither matches both response and notification contexts,
	// which covers the overwhelming majority of HLX property frames —
	// a volume-changed frame looks identical whether it is echoing a
	// client's own request or announcing somebody else's.
	PurposeEither Purpose = iota
	// PurposeNotificationOnly is reserved for frames that can never
	// complete a pending exchange.
	PurposeNotificationOnly
)

// PatternID stably names a registered Pattern.
type PatternID int

// The pattern identifiers. Their values are stable names, not registry
// positions: patterns are tried in the order of the slice buildRegistry
// returns. That order matters: more
// specific patterns must precede less specific ones to avoid ambiguity
// (query-all before query-one), which here
// means the equalizer-band and crossover patterns (which share the "E"
// prefix with nothing else) must precede any catch-all, and multi-token
// mute patterns must precede the plain volume-scalar pattern so "VMO1"
// is never swallowed by the volume pattern's digit-first expectation.
const (
	PatternVolume PatternID = iota
	PatternMute
	PatternBalance
	PatternBass
	PatternTreble
	PatternSource
	PatternMode
	PatternName
	PatternEqualizerBand
	PatternCrossover
	PatternFavoriteApplied
	PatternInfraredDisabled
	PatternNetworkDHCP
	PatternFrontPanelLock
)

// Pattern is one compiled registry entry: a stable id, the expression,
// its declared capture count, and its usual Purpose.
type Pattern struct {
	ID       PatternID
	Expr     *regexp.Regexp
	Captures int
	Purpose  Purpose
}

// objClass builds a `[...]` character class from the object codes that
// carry the given kinds, preserving the Kind -> code mapping in object.go
// as the single source of truth for wire letters.
func objClass(kinds ...Kind) string {
	s := "["
	for _, k := range kinds {
		s += string(code[k])
	}
	return s + "]"
}

func mustCompile(expr string) *regexp.Regexp {
	re, err := regexp.Compile("^" + expr)
	if err != nil {
		// Fatal: compilation happens once at startup.
		panic(fmt.Sprintf("proto: pattern compile: %v", err))
	}
	return re
}

// Registry is the process-wide, append-only (during a connection's
// lifetime) ordered pattern set the client codec matches inbound frames
// against.
var Registry = buildRegistry()

// wrap brackets an inbound property expression in the literal parentheses
// that distinguish an inbound (response or notification) frame from an
// outbound request of the same property: a "VO3-20" request is
// acknowledged as "(VO3-20)". The parentheses are morphology shared by
// responses AND notifications alike — the two remain indistinguishable
// from each other; only requests (built in frame.go, never parsed here)
// go out bare.
func wrap(inner string) string {
	return `\(` + inner + `\)`
}

func buildRegistry() []Pattern {
	// Volume and mute are wire properties of zones only: a group's
	// aggregate volume/mute are derived client-side and never appear on the wire.
	volumeObjs := objClass(KindZone)
	nameObjs := objClass(KindZone, KindSource, KindGroup, KindFavorite, KindEqualizerPreset)

	return []Pattern{
		{PatternMute, mustCompile(wrap(`V(MU?)` + volumeObjs + `(\d+)`)), 2, PurposeEither},
		{PatternVolume, mustCompile(wrap(`V` + volumeObjs + `(\d+)(-?\d+)`)), 2, PurposeEither},
		{PatternBalance, mustCompile(wrap(`B` + objClass(KindZone) + `(\d+)(-?\d+)`)), 2, PurposeEither},
		{PatternBass, mustCompile(wrap(`TB` + objClass(KindZone) + `(\d+)(-?\d+)`)), 2, PurposeEither},
		{PatternTreble, mustCompile(wrap(`TT` + objClass(KindZone) + `(\d+)(-?\d+)`)), 2, PurposeEither},
		{PatternSource, mustCompile(wrap(`C` + objClass(KindZone) + `(\d+)(\d+)`)), 2, PurposeEither},
		{PatternMode, mustCompile(wrap(`M` + objClass(KindZone) + `(\d+)(\d+)`)), 2, PurposeEither},
		{PatternEqualizerBand, mustCompile(wrap(`E` + objClass(KindEqualizerPreset) + `(\d+)B(\d+)([SUD])(-?\d*)`)), 4, PurposeEither},
		{PatternCrossover, mustCompile(wrap(`E` + objClass(KindZone) + `(\d+)(HP|LP)(\d+)`)), 3, PurposeEither},
		{PatternName, mustCompile(wrap(`N` + nameObjs + `(\d+)"([^"]*)"`)), 2, PurposeEither},
		{PatternFavoriteApplied, mustCompile(wrap(`AF(\d+)` + objClass(KindZone) + `(\d+)`)), 2, PurposeEither},
		{PatternInfraredDisabled, mustCompile(wrap(`I` + objClass(KindInfrared) + `(\d+)([ED])`)), 2, PurposeEither},
		{PatternNetworkDHCP, mustCompile(wrap(`X` + objClass(KindNetwork) + `(\d+)([ED])`)), 2, PurposeEither},
		{PatternFrontPanelLock, mustCompile(wrap(`K` + objClass(KindFrontPanel) + `(\d+)([ED])`)), 2, PurposeEither},
	}
}

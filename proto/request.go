package proto

// Request-side pattern identifiers, offset well clear of the
// response/notification PatternIDs in pattern.go so the two enumerations
// can never collide if ever compared by value. These recognise the BARE
// frames frame.go builds — the
// half of the wire alphabet a server, not a client, receives.
const (
	PatternQueryObject PatternID = iota + 100
	PatternQueryAll
	PatternMuteRequest
	PatternVolumeRequest
	PatternBalanceRequest
	PatternBassRequest
	PatternTrebleRequest
	PatternSourceRequest
	PatternModeRequest
	PatternNameRequest
	PatternEqualizerBandRequest
	PatternCrossoverRequest
	PatternFavoriteApplyRequest
	PatternInfraredRequest
	PatternNetworkRequest
	PatternFrontPanelRequest
)

// scalarOrStep is the capture alternation shared by every signed-integer
// property request: either an absolute value ("-20") or a step operator
// ("U"/"D"), matching SetScalar and IncreaseDecrease respectively.
const scalarOrStep = `(-?\d+|[UD])`

// RequestRegistry is the server-side counterpart to Registry: ordered,
// compiled once, matched against bare (unwrapped) inbound bytes. Order
// follows the same specificity rule as Registry:
// the equalizer/crossover "E"-prefixed patterns and the multi-token mute
// forms precede the single-letter scalar patterns they would otherwise
// be swallowed by.
var RequestRegistry = buildRequestRegistry()

func buildRequestRegistry() []Pattern {
	volumeObjs := objClass(KindZone)
	nameObjs := objClass(KindZone, KindSource, KindGroup, KindFavorite, KindEqualizerPreset)
	anyObj := objClass(KindZone, KindSource, KindGroup, KindFavorite, KindEqualizerPreset,
		KindInfrared, KindNetwork, KindFrontPanel)

	return []Pattern{
		{PatternMuteRequest, mustCompile(`V(M|MU|MT)` + volumeObjs + `(\d+)`), 2, PurposeEither},
		{PatternEqualizerBandRequest, mustCompile(`E` + objClass(KindEqualizerPreset) + `(\d+)B(\d+)([SUD])(-?\d*)`), 4, PurposeEither},
		{PatternCrossoverRequest, mustCompile(`E` + objClass(KindZone) + `(\d+)(HP|LP)(\d+)`), 3, PurposeEither},
		{PatternVolumeRequest, mustCompile(`V` + volumeObjs + `(\d+)` + scalarOrStep), 2, PurposeEither},
		{PatternBalanceRequest, mustCompile(`B` + objClass(KindZone) + `(\d+)` + scalarOrStep), 2, PurposeEither},
		{PatternBassRequest, mustCompile(`TB` + objClass(KindZone) + `(\d+)` + scalarOrStep), 2, PurposeEither},
		{PatternTrebleRequest, mustCompile(`TT` + objClass(KindZone) + `(\d+)` + scalarOrStep), 2, PurposeEither},
		{PatternSourceRequest, mustCompile(`C` + objClass(KindZone) + `(\d+)` + scalarOrStep), 2, PurposeEither},
		{PatternModeRequest, mustCompile(`M` + objClass(KindZone) + `(\d+)` + scalarOrStep), 2, PurposeEither},
		{PatternNameRequest, mustCompile(`N` + nameObjs + `(\d+)"([^"]*)"`), 2, PurposeEither},
		{PatternFavoriteApplyRequest, mustCompile(`AF(\d+)` + objClass(KindZone) + `(\d+)`), 2, PurposeEither},
		{PatternInfraredRequest, mustCompile(`I` + objClass(KindInfrared) + `(\d+)([ED])`), 2, PurposeEither},
		{PatternNetworkRequest, mustCompile(`X` + objClass(KindNetwork) + `(\d+)([ED])`), 2, PurposeEither},
		{PatternFrontPanelRequest, mustCompile(`K` + objClass(KindFrontPanel) + `(\d+)([ED])`), 2, PurposeEither},
		{PatternQueryAll, mustCompile(`Q` + anyObj + `A`), 0, PurposeEither},
		{PatternQueryObject, mustCompile(`Q` + anyObj + `(\d+)`), 1, PurposeEither},
	}
}

package domain

import "time"

// Direction represents the side of a trading signal.
type Direction string

const (
	// Long indicates a bullish signal.
	Long Direction = "LONG"
	// Short indicates a bearish signal.
	Short Direction = "SHORT"
)

// Signal notes describing how the entry/stop levels were derived.
const (
	// NoteZoneConfirmed marks a signal whose levels come from an aligned
	// supply/demand zone.
	NoteZoneConfirmed = "zone-confirmed"
	// NoteNoDemandZone marks a LONG signal that fell back to a fixed
	// percentage stop because no demand zone was available.
	NoteNoDemandZone = "no-demand-zone"
	// NoteNoSupplyZone marks a SHORT signal that fell back to a fixed
	// percentage stop because no supply zone was available.
	NoteNoSupplyZone = "no-supply-zone"
)

// Signal is a confirmed multi-timeframe trading signal for one symbol.
// It is produced at most once per evaluation cycle and is either turned
// into an alert or discarded; it is never stored.
type Signal struct {
	Symbol      string    // Instrument symbol
	Direction   Direction // LONG or SHORT
	Timeframes  []string  // Timeframe labels that voted for the direction
	Price       float64   // Reference (entry) price
	TakeProfit  float64   // Target price
	StopLoss    float64   // Protective stop price
	Note        string    // Confidence note (see Note* constants)
	GeneratedAt time.Time // Evaluation time (UTC)
}

// ZoneConfirmed reports whether the signal's levels were derived from an
// aligned supply/demand zone rather than the fixed-percentage fallback.
func (s *Signal) ZoneConfirmed() bool {
	return s.Note == NoteZoneConfirmed
}

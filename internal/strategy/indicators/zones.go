package indicators

import (
	"fmt"

	"signalSniper/internal/domain"
)

// Zone is a supply/demand price band derived from rolling extremes of
// recent highs and lows.
type Zone struct {
	Supply float64 // Highest high over the lookback window
	Demand float64 // Lowest low over the lookback window
}

// ExtractZone derives a zone from the last lookback candles. When fewer
// candles than the lookback are available, the extremes over the whole
// series are used instead of failing.
func ExtractZone(candles []*domain.Candle, lookback int) (Zone, error) {
	if len(candles) == 0 {
		return Zone{}, fmt.Errorf("cannot extract zone from empty candle series")
	}
	if lookback <= 0 {
		return Zone{}, fmt.Errorf("zone lookback must be positive, got %d", lookback)
	}

	start := len(candles) - lookback
	if start < 0 {
		start = 0
	}

	zone := Zone{
		Supply: candles[start].High,
		Demand: candles[start].Low,
	}
	for _, c := range candles[start+1:] {
		if c.High > zone.Supply {
			zone.Supply = c.High
		}
		if c.Low < zone.Demand {
			zone.Demand = c.Low
		}
	}
	return zone, nil
}

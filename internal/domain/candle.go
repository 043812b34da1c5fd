package domain

import "time"

// Candle represents a single OHLC price bar.
type Candle struct {
	OpenTime  time.Time // Start time of the interval
	CloseTime time.Time // End time of the interval
	Symbol    string    // Instrument symbol
	Interval  string    // Timeframe label (e.g., "1m", "15m")
	Open      float64   // Opening price
	High      float64   // Highest price
	Low       float64   // Lowest price
	Close     float64   // Closing price
	Volume    float64   // Traded volume (zero for providers that omit it)
}

package indicators

import (
	"context"
	"fmt"

	"signalSniper/internal/domain"
)

// MACDConfig holds configuration for the MACD indicator
type MACDConfig struct {
	FastPeriod   int // e.g., 12
	SlowPeriod   int // e.g., 26
	SignalPeriod int // e.g., 9
}

// MACD implements the Moving Average Convergence Divergence indicator.
// The MACD line is the difference of the fast and slow EMAs; the signal
// line is an EMA of the MACD line itself.
type MACD struct {
	config MACDConfig
}

// NewMACD creates a new MACD indicator instance
func NewMACD(config MACDConfig) *MACD {
	return &MACD{config: config}
}

// Name returns the name of the indicator
func (m *MACD) Name() string {
	return "MACD"
}

// RequiredDataPoints returns the minimum number of candles needed for calculation
func (m *MACD) RequiredDataPoints() int {
	return m.config.SlowPeriod + m.config.SignalPeriod
}

// Calculate computes the latest MACD line value
func (m *MACD) Calculate(ctx context.Context, candles []*domain.Candle) (float64, error) {
	macdLine, _, err := m.Lines(ctx, candles)
	return macdLine, err
}

// Lines computes the latest MACD line and signal line values
func (m *MACD) Lines(ctx context.Context, candles []*domain.Candle) (macdLine, signalLine float64, err error) {
	if m.config.FastPeriod <= 0 || m.config.SlowPeriod <= 0 || m.config.SignalPeriod <= 0 {
		return 0, 0, fmt.Errorf("MACD periods must be positive")
	}
	if m.config.FastPeriod >= m.config.SlowPeriod {
		return 0, 0, fmt.Errorf("MACD fast period (%d) must be less than slow period (%d)", m.config.FastPeriod, m.config.SlowPeriod)
	}
	if len(candles) < m.RequiredDataPoints() {
		return 0, 0, fmt.Errorf("not enough data (%d) to calculate MACD, need %d", len(candles), m.RequiredDataPoints())
	}

	prices := closes(candles)
	fast := emaSeries(prices, m.config.FastPeriod)
	slow := emaSeries(prices, m.config.SlowPeriod)

	macdSeries := make([]float64, len(prices))
	for i := range prices {
		macdSeries[i] = fast[i] - slow[i]
	}
	signalSeries := emaSeries(macdSeries, m.config.SignalPeriod)

	return macdSeries[len(macdSeries)-1], signalSeries[len(signalSeries)-1], nil
}

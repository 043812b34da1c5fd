package indicators

import (
	"context"
	"fmt"

	"signalSniper/internal/domain"
)

// RSIConfig holds configuration for the RSI indicator
type RSIConfig struct {
	IndicatorConfig
}

// RSI implements the Relative Strength Index indicator using a simple
// rolling average of gains and losses over the last Period price changes.
type RSI struct {
	BaseIndicator
	config RSIConfig
}

// NewRSI creates a new RSI indicator instance
func NewRSI(config RSIConfig) *RSI {
	return &RSI{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator
func (r *RSI) Name() string {
	return "RSI"
}

// RequiredDataPoints returns the minimum number of candles needed for calculation.
// RSI looks one bar further back than its period to form the first delta.
func (r *RSI) RequiredDataPoints() int {
	return r.Config.Period + 1
}

// Calculate computes the RSI value for the most recent bar
func (r *RSI) Calculate(ctx context.Context, candles []*domain.Candle) (float64, error) {
	period := r.Config.Period
	if len(candles) <= period {
		return 0, fmt.Errorf("not enough data (%d) to calculate RSI for period %d", len(candles), period)
	}

	prices := closes(candles)

	// Average gains and losses over the last 'period' price changes
	var avgGain, avgLoss float64
	for i := len(prices) - period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// A zero loss average must not produce NaN: saturate to 100 when gains
	// exist, stay neutral when the series is flat.
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50, nil
		}
		return 100, nil
	}

	rs := avgGain / avgLoss
	rsi := 100 - (100 / (1 + rs))

	// Keep RSI within bounds
	if rsi > 100 {
		rsi = 100
	} else if rsi < 0 {
		rsi = 0
	}

	return rsi, nil
}

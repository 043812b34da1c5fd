package indicators

import (
	"context"
	"fmt"
	"math"

	"signalSniper/internal/domain"
)

// VolatilityConfig holds configuration for the return-volatility indicator
type VolatilityConfig struct {
	IndicatorConfig
}

// Volatility measures the standard deviation of bar-over-bar percentage
// returns, expressed as a percentage.
type Volatility struct {
	BaseIndicator
	config VolatilityConfig
}

// NewVolatility creates a new volatility indicator instance
func NewVolatility(config VolatilityConfig) *Volatility {
	return &Volatility{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator
func (v *Volatility) Name() string {
	return "Volatility"
}

// Calculate computes the return volatility over the candle closes
func (v *Volatility) Calculate(ctx context.Context, candles []*domain.Candle) (float64, error) {
	if len(candles) < 2 {
		return 0, fmt.Errorf("not enough data (%d) to calculate volatility, need at least 2", len(candles))
	}

	prices := closes(candles)
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}
	if len(returns) == 0 {
		return 0, fmt.Errorf("no valid returns in series of %d candles", len(candles))
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * 100, nil
}

package indicators

import (
	"context"
	"fmt"

	"signalSniper/internal/domain"
)

// EMAConfig holds configuration for the exponential moving average indicator
type EMAConfig struct {
	IndicatorConfig
}

// EMA implements the exponential moving average indicator.
// The smoothing factor is 2/(period+1) and the average is seeded from the
// first value of the series, so every bar contributes to the result.
type EMA struct {
	BaseIndicator
	config EMAConfig
}

// NewEMA creates a new EMA indicator instance
func NewEMA(config EMAConfig) *EMA {
	return &EMA{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator
func (e *EMA) Name() string {
	return "EMA"
}

// Calculate computes the latest EMA value over the candle closes
func (e *EMA) Calculate(ctx context.Context, candles []*domain.Candle) (float64, error) {
	if len(candles) < e.Config.Period {
		return 0, fmt.Errorf("not enough data (%d) to calculate EMA for period %d", len(candles), e.Config.Period)
	}
	series := emaSeries(closes(candles), e.Config.Period)
	return series[len(series)-1], nil
}

// emaSeries computes the full EMA series over values, seeded from the first
// element. The returned slice has the same length as the input.
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	multiplier := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}

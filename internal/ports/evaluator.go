package ports

import (
	"context"

	"signalSniper/internal/domain"
)

// SignalEvaluator defines the interface for deciding whether a symbol's
// per-timeframe candle data confirms a trading signal.
type SignalEvaluator interface {
	// RequiredDataPoints returns the minimum number of candles a timeframe
	// needs before it can contribute a vote.
	RequiredDataPoints() int

	// Evaluate inspects the candle sequences for one symbol, keyed by
	// timeframe label, and returns at most one confirmed signal.
	// A nil result means no signal this cycle; missing or empty timeframes
	// are skip conditions, never errors.
	Evaluate(ctx context.Context, symbol string, candlesByTimeframe map[string][]*domain.Candle) *domain.Signal
}

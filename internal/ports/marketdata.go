package ports

import (
	"context"
	"time"

	"signalSniper/internal/domain"
)

// MarketDataClient defines the interface for fetching historical price data.
// This abstraction allows decoupling the evaluation logic from a specific
// provider; any HTTP or socket-based source that can return an ordered
// candle sequence is acceptable.
type MarketDataClient interface {
	// GetCandles retrieves up to limit historical candles for the given
	// symbol and timeframe interval, ordered oldest first.
	GetCandles(ctx context.Context, symbol string, interval string, limit int) ([]*domain.Candle, error)

	// Ping checks connectivity to the provider.
	Ping(ctx context.Context) error

	// GetServerTime retrieves the provider's current time.
	GetServerTime(ctx context.Context) (time.Time, error)
}

package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard
// errors so callers can branch with errors.Is without knowing the provider.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Market Data Errors
	ErrProviderUnavailable  = errors.New("market data provider is unavailable")
	ErrConnectionFailed     = errors.New("failed to connect to the market data provider")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("market data authentication failed (check API token)")
	ErrNoData               = errors.New("provider returned no candle data")

	// Alert Channel Errors
	ErrNotificationFailed = errors.New("failed to deliver notification")
)

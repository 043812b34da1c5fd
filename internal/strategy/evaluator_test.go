package strategy

import (
	"context"
	"testing"
	"time"

	"signalSniper/internal/domain"
	"signalSniper/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct {
	debugMsgs []string
	infoMsgs  []string
	warnMsgs  []string
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.debugMsgs = append(m.debugMsgs, msg)
}

func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.infoMsgs = append(m.infoMsgs, msg)
}

func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.warnMsgs = append(m.warnMsgs, msg)
}

func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.errorMsgs = append(m.errorMsgs, msg)
}

func testConfig() Config {
	return Config{
		FastEMAPeriod:       9,
		SlowEMAPeriod:       21,
		RSIPeriod:           14,
		LongRSIMin:          40,
		LongRSIMax:          70,
		ShortRSIMin:         30,
		ShortRSIMax:         60,
		MinVolatilityPct:    0.15,
		MinConfirmations:    2,
		Timeframes:          []string{"1m", "3m", "5m", "15m"},
		ZoneLookbacks:       map[string]int{},
		ZoneTolerance:       0.005,
		RewardFraction:      0.5,
		FallbackStopPct:     0.002,
		FallbackRewardRatio: 1.5,
	}
}

func seriesFromCloses(closes []float64) []*domain.Candle {
	now := time.Now()
	candles := make([]*domain.Candle, len(closes))
	for i, c := range closes {
		candles[i] = &domain.Candle{
			OpenTime: now.Add(time.Duration(i-len(closes)) * time.Minute),
			Open:     c,
			High:     c + 1,
			Low:      c - 1,
			Close:    c,
		}
	}
	return candles
}

// bullishSeries trends up with pullbacks: +2, -1 alternating. Keeps RSI in
// the bullish band while the fast EMA leads the slow EMA.
func bullishSeries(n int) []*domain.Candle {
	closes := make([]float64, n)
	closes[0] = 100
	for i := 1; i < n; i++ {
		if i%2 == 1 {
			closes[i] = closes[i-1] + 2
		} else {
			closes[i] = closes[i-1] - 1
		}
	}
	return seriesFromCloses(closes)
}

// bearishSeries mirrors bullishSeries: -2, +1 alternating.
func bearishSeries(n int) []*domain.Candle {
	closes := make([]float64, n)
	closes[0] = 200
	for i := 1; i < n; i++ {
		if i%2 == 1 {
			closes[i] = closes[i-1] - 2
		} else {
			closes[i] = closes[i-1] + 1
		}
	}
	return seriesFromCloses(closes)
}

func flatSeries(n int) []*domain.Candle {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100
	}
	return seriesFromCloses(closes)
}

// zoneSeries produces flat closes with a fixed high/low band for zone
// extraction. Flat closes carry zero volatility, so it never votes.
func zoneSeries(n int, high, low float64) []*domain.Candle {
	candles := flatSeries(n)
	for _, c := range candles {
		c.High = high
		c.Low = low
		c.Close = (high + low) / 2
	}
	return candles
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		logger  ports.Logger
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}, logger: &mockLogger{}, wantErr: false},
		{name: "nil logger", mutate: func(c *Config) {}, logger: nil, wantErr: true},
		{name: "non-positive period", mutate: func(c *Config) { c.RSIPeriod = 0 }, logger: &mockLogger{}, wantErr: true},
		{name: "fast EMA not below slow EMA", mutate: func(c *Config) { c.FastEMAPeriod = 21 }, logger: &mockLogger{}, wantErr: true},
		{name: "zero confirmations", mutate: func(c *Config) { c.MinConfirmations = 0 }, logger: &mockLogger{}, wantErr: true},
		{name: "no timeframes", mutate: func(c *Config) { c.Timeframes = nil }, logger: &mockLogger{}, wantErr: true},
		{name: "non-positive reward fraction", mutate: func(c *Config) { c.RewardFraction = 0 }, logger: &mockLogger{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			e, err := New(cfg, tt.logger)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, e)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, e)
			}
		})
	}
}

func TestEvaluate_TwoVotesConfirmDirection(t *testing.T) {
	e, err := New(testConfig(), &mockLogger{})
	require.NoError(t, err)

	// Two timeframes vote LONG, one votes SHORT: LONG must be confirmed.
	candles := map[string][]*domain.Candle{
		"1m": bullishSeries(40),
		"3m": bullishSeries(40),
		"5m": bearishSeries(40),
	}

	sig := e.Evaluate(context.Background(), "BTCUSDT", candles)
	require.NotNil(t, sig)
	assert.Equal(t, domain.Long, sig.Direction)
	assert.Equal(t, []string{"1m", "3m"}, sig.Timeframes)
	assert.Equal(t, "BTCUSDT", sig.Symbol)

	// No zone timeframes configured, so the fixed-percentage fallback is
	// used and flagged as lower confidence.
	assert.Equal(t, domain.NoteNoDemandZone, sig.Note)
	assert.False(t, sig.ZoneConfirmed())

	oneMinute := candles["1m"]
	price := oneMinute[len(oneMinute)-1].Close
	assert.InDelta(t, price, sig.Price, 1e-9)
	assert.InDelta(t, price*(1-0.002), sig.StopLoss, 1e-9)
	assert.InDelta(t, price+(price-sig.StopLoss)*1.5, sig.TakeProfit, 1e-9)
}

func TestEvaluate_SingleVoteIsNotEnough(t *testing.T) {
	e, err := New(testConfig(), &mockLogger{})
	require.NoError(t, err)

	candles := map[string][]*domain.Candle{
		"1m": bullishSeries(40),
		"3m": flatSeries(40),
	}

	assert.Nil(t, e.Evaluate(context.Background(), "BTCUSDT", candles))
}

func TestEvaluate_FlatMarketNeverSignals(t *testing.T) {
	e, err := New(testConfig(), &mockLogger{})
	require.NoError(t, err)

	candles := map[string][]*domain.Candle{
		"1m":  flatSeries(40),
		"3m":  flatSeries(40),
		"5m":  flatSeries(40),
		"15m": flatSeries(40),
	}

	assert.Nil(t, e.Evaluate(context.Background(), "BTCUSDT", candles))
}

func TestEvaluate_AllFetchesFailedIsSkipNotError(t *testing.T) {
	e, err := New(testConfig(), &mockLogger{})
	require.NoError(t, err)

	assert.Nil(t, e.Evaluate(context.Background(), "BTCUSDT", map[string][]*domain.Candle{}))
	assert.Nil(t, e.Evaluate(context.Background(), "BTCUSDT", map[string][]*domain.Candle{
		"1m": {}, "3m": {},
	}))
}

func TestEvaluate_ShortConfirmation(t *testing.T) {
	e, err := New(testConfig(), &mockLogger{})
	require.NoError(t, err)

	candles := map[string][]*domain.Candle{
		"1m": bearishSeries(40),
		"3m": bearishSeries(40),
	}

	sig := e.Evaluate(context.Background(), "ETHUSDT", candles)
	require.NotNil(t, sig)
	assert.Equal(t, domain.Short, sig.Direction)
	assert.Equal(t, domain.NoteNoSupplyZone, sig.Note)

	oneMinute := candles["1m"]
	price := oneMinute[len(oneMinute)-1].Close
	assert.InDelta(t, price*(1+0.002), sig.StopLoss, 1e-9)
	assert.InDelta(t, price-(sig.StopLoss-price)*1.5, sig.TakeProfit, 1e-9)
}

func TestEvaluate_LongWinsDeterministicTieBreak(t *testing.T) {
	e, err := New(testConfig(), &mockLogger{})
	require.NoError(t, err)

	candles := map[string][]*domain.Candle{
		"1m":  bullishSeries(40),
		"3m":  bullishSeries(40),
		"5m":  bearishSeries(40),
		"15m": bearishSeries(40),
	}

	sig := e.Evaluate(context.Background(), "BTCUSDT", candles)
	require.NotNil(t, sig)
	assert.Equal(t, domain.Long, sig.Direction)
}

func TestEvaluate_ZoneConfirmedLong(t *testing.T) {
	cfg := testConfig()
	cfg.ZoneLookbacks = map[string]int{"5m": 40}
	e, err := New(cfg, &mockLogger{})
	require.NoError(t, err)

	voting := bullishSeries(40)
	price := voting[len(voting)-1].Close

	// Demand pinned at the current price so the tolerance check passes.
	candles := map[string][]*domain.Candle{
		"1m": voting,
		"3m": bullishSeries(40),
		"5m": zoneSeries(40, price+10, price),
	}

	sig := e.Evaluate(context.Background(), "BTCUSDT", candles)
	require.NotNil(t, sig)
	assert.Equal(t, domain.Long, sig.Direction)
	assert.Equal(t, domain.NoteZoneConfirmed, sig.Note)
	assert.True(t, sig.ZoneConfirmed())
	assert.InDelta(t, price, sig.StopLoss, 1e-9)
	assert.InDelta(t, price+10*0.5, sig.TakeProfit, 1e-9)
}

func TestEvaluate_PriceOutsideZoneToleranceRejects(t *testing.T) {
	cfg := testConfig()
	cfg.ZoneLookbacks = map[string]int{"5m": 40}
	e, err := New(cfg, &mockLogger{})
	require.NoError(t, err)

	// Demand far below the current price: the LONG must be rejected.
	candles := map[string][]*domain.Candle{
		"1m": bullishSeries(40),
		"3m": bullishSeries(40),
		"5m": zoneSeries(40, 60, 50),
	}

	assert.Nil(t, e.Evaluate(context.Background(), "BTCUSDT", candles))
}

func TestEvaluate_ZoneFallbackWithShortHistory(t *testing.T) {
	cfg := testConfig()
	cfg.ZoneLookbacks = map[string]int{"5m": 500} // far more than available
	e, err := New(cfg, &mockLogger{})
	require.NoError(t, err)

	voting := bullishSeries(40)
	price := voting[len(voting)-1].Close

	candles := map[string][]*domain.Candle{
		"1m": voting,
		"3m": bullishSeries(40),
		"5m": zoneSeries(40, price+10, price),
	}

	// Zone extraction must use the extremes of the available bars instead
	// of failing on the oversized lookback.
	sig := e.Evaluate(context.Background(), "BTCUSDT", candles)
	require.NotNil(t, sig)
	assert.Equal(t, domain.NoteZoneConfirmed, sig.Note)
	assert.InDelta(t, price, sig.StopLoss, 1e-9)
}

func TestRequiredDataPoints(t *testing.T) {
	e, err := New(testConfig(), &mockLogger{})
	require.NoError(t, err)
	// Slow EMA period 21 dominates the 20-bar floor and RSI+1.
	assert.Equal(t, 21, e.RequiredDataPoints())
}

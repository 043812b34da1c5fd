package strategy

import (
	"context"
	"fmt"
	"time"

	"signalSniper/internal/domain"
	"signalSniper/internal/ports"
	"signalSniper/internal/strategy/indicators"
)

// minBarsPerVote is the minimum candle history a timeframe needs before it
// may contribute a directional vote.
const minBarsPerVote = 20

// Config holds parameters for the multi-timeframe signal evaluator.
type Config struct {
	FastEMAPeriod int     // e.g., 9
	SlowEMAPeriod int     // e.g., 21
	RSIPeriod     int     // e.g., 14
	LongRSIMin    float64 // lower bound of the bullish RSI band, e.g., 40
	LongRSIMax    float64 // upper bound of the bullish RSI band, e.g., 70
	ShortRSIMin   float64 // lower bound of the bearish RSI band, e.g., 30
	ShortRSIMax   float64 // upper bound of the bearish RSI band, e.g., 60

	// MinVolatilityPct is the minimum return volatility (in percent) a
	// timeframe must show before it may vote. Filters out dead markets.
	MinVolatilityPct float64

	// MinConfirmations is the number of agreeing timeframes required to
	// confirm a direction. Two is the default policy; one disables the
	// multi-timeframe requirement.
	MinConfirmations int

	// Timeframes lists the timeframe labels in order of granularity,
	// finest first. The reference price is taken from the first entry
	// that has data.
	Timeframes []string

	// ZoneLookbacks maps the timeframe labels used for supply/demand zone
	// extraction to their lookback window sizes (e.g., 15m:50, 5m:40).
	ZoneLookbacks map[string]int

	// ZoneTolerance is the relative band around a zone edge within which
	// the current price still counts as "at the zone", e.g., 0.005.
	ZoneTolerance float64

	// RewardFraction scales the zone height into the take-profit distance
	// when a zone is available, e.g., 0.5.
	RewardFraction float64

	// FallbackStopPct is the relative stop distance used when no zone is
	// available, e.g., 0.002.
	FallbackStopPct float64

	// FallbackRewardRatio is the reward multiple applied to the fallback
	// stop distance, e.g., 1.5.
	FallbackRewardRatio float64
}

// Evaluator confirms trading signals from per-timeframe candle data.
// Evaluation is a pure function of its input; the evaluator holds no
// mutable state and is safe for concurrent use across symbols.
type Evaluator struct {
	cfg    Config
	logger ports.Logger

	fastEMA    *indicators.EMA
	slowEMA    *indicators.EMA
	rsi        *indicators.RSI
	volatility *indicators.Volatility
}

// New creates a new Evaluator instance.
func New(cfg Config, logger ports.Logger) (*Evaluator, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for evaluator")
	}
	if cfg.FastEMAPeriod <= 0 || cfg.SlowEMAPeriod <= 0 || cfg.RSIPeriod <= 0 {
		return nil, fmt.Errorf("evaluator periods must be positive")
	}
	if cfg.FastEMAPeriod >= cfg.SlowEMAPeriod {
		return nil, fmt.Errorf("fast EMA period (%d) must be less than slow EMA period (%d)", cfg.FastEMAPeriod, cfg.SlowEMAPeriod)
	}
	if cfg.MinConfirmations < 1 {
		return nil, fmt.Errorf("MinConfirmations must be at least 1")
	}
	if len(cfg.Timeframes) == 0 {
		return nil, fmt.Errorf("at least one timeframe is required")
	}
	if cfg.ZoneTolerance < 0 || cfg.RewardFraction <= 0 || cfg.FallbackStopPct <= 0 || cfg.FallbackRewardRatio <= 0 {
		return nil, fmt.Errorf("zone tolerance must be non-negative and reward/stop parameters positive")
	}

	return &Evaluator{
		cfg:        cfg,
		logger:     logger,
		fastEMA:    indicators.NewEMA(indicators.EMAConfig{IndicatorConfig: indicators.IndicatorConfig{Period: cfg.FastEMAPeriod}}),
		slowEMA:    indicators.NewEMA(indicators.EMAConfig{IndicatorConfig: indicators.IndicatorConfig{Period: cfg.SlowEMAPeriod}}),
		rsi:        indicators.NewRSI(indicators.RSIConfig{IndicatorConfig: indicators.IndicatorConfig{Period: cfg.RSIPeriod}}),
		volatility: indicators.NewVolatility(indicators.VolatilityConfig{}),
	}, nil
}

// RequiredDataPoints returns the minimum number of candles a timeframe needs
// before it can contribute a vote.
func (e *Evaluator) RequiredDataPoints() int {
	required := minBarsPerVote
	if e.cfg.SlowEMAPeriod > required {
		required = e.cfg.SlowEMAPeriod
	}
	if e.cfg.RSIPeriod+1 > required {
		required = e.cfg.RSIPeriod + 1
	}
	return required
}

// snapshot holds the scalar indicator values derived from one timeframe's
// candle series at its most recent bar. Recomputed fresh on every evaluation.
type snapshot struct {
	fastEMA    float64
	slowEMA    float64
	rsi        float64
	volatility float64
}

// Evaluate inspects the candle sequences for one symbol, keyed by timeframe
// label, and returns at most one confirmed signal. A nil result means no
// signal this cycle; missing timeframe data is a skip condition, not an error.
func (e *Evaluator) Evaluate(ctx context.Context, symbol string, candlesByTimeframe map[string][]*domain.Candle) *domain.Signal {
	votes := map[domain.Direction][]string{}
	for _, tf := range e.cfg.Timeframes {
		candles := candlesByTimeframe[tf]
		dir, ok := e.classify(ctx, symbol, tf, candles)
		if ok {
			votes[dir] = append(votes[dir], tf)
		}
	}

	// Fixed direction order makes the tie-break deterministic when both
	// directions somehow collect enough votes.
	for _, dir := range []domain.Direction{domain.Long, domain.Short} {
		tfs := votes[dir]
		if len(tfs) < e.cfg.MinConfirmations {
			continue
		}
		sig := e.buildSignal(ctx, symbol, dir, tfs, candlesByTimeframe)
		if sig != nil {
			return sig
		}
	}
	return nil
}

// classify produces a directional vote for a single timeframe, or no vote
// when the indicator conditions are not met or data is insufficient.
func (e *Evaluator) classify(ctx context.Context, symbol, tf string, candles []*domain.Candle) (domain.Direction, bool) {
	if len(candles) < minBarsPerVote || len(candles) < e.RequiredDataPoints() {
		e.logger.Debug(ctx, "Skipping timeframe with insufficient data", map[string]interface{}{
			"symbol": symbol, "timeframe": tf, "available": len(candles), "required": e.RequiredDataPoints(),
		})
		return "", false
	}

	snap, err := e.snapshot(ctx, candles)
	if err != nil {
		e.logger.Error(ctx, err, "Failed to compute indicator snapshot", map[string]interface{}{"symbol": symbol, "timeframe": tf})
		return "", false
	}

	if snap.volatility <= e.cfg.MinVolatilityPct {
		return "", false
	}
	if snap.fastEMA > snap.slowEMA && snap.rsi > e.cfg.LongRSIMin && snap.rsi < e.cfg.LongRSIMax {
		return domain.Long, true
	}
	if snap.fastEMA < snap.slowEMA && snap.rsi > e.cfg.ShortRSIMin && snap.rsi < e.cfg.ShortRSIMax {
		return domain.Short, true
	}
	return "", false
}

// snapshot computes the indicator snapshot for one candle series.
func (e *Evaluator) snapshot(ctx context.Context, candles []*domain.Candle) (snapshot, error) {
	fast, err := e.fastEMA.Calculate(ctx, candles)
	if err != nil {
		return snapshot{}, fmt.Errorf("fast EMA: %w", err)
	}
	slow, err := e.slowEMA.Calculate(ctx, candles)
	if err != nil {
		return snapshot{}, fmt.Errorf("slow EMA: %w", err)
	}
	rsi, err := e.rsi.Calculate(ctx, candles)
	if err != nil {
		return snapshot{}, fmt.Errorf("RSI: %w", err)
	}
	vol, err := e.volatility.Calculate(ctx, candles)
	if err != nil {
		return snapshot{}, fmt.Errorf("volatility: %w", err)
	}
	return snapshot{fastEMA: fast, slowEMA: slow, rsi: rsi, volatility: vol}, nil
}

// buildSignal computes the entry/stop/target levels for a confirmed
// direction. Returns nil when the price sits outside the zone tolerance.
func (e *Evaluator) buildSignal(ctx context.Context, symbol string, dir domain.Direction, tfs []string, candlesByTimeframe map[string][]*domain.Candle) *domain.Signal {
	price, ok := e.referencePrice(candlesByTimeframe)
	if !ok {
		return nil
	}

	supply, demand, hasZone := e.combinedZone(ctx, symbol, candlesByTimeframe)

	sig := &domain.Signal{
		Symbol:      symbol,
		Direction:   dir,
		Timeframes:  tfs,
		Price:       price,
		GeneratedAt: time.Now().UTC(),
	}

	if dir == domain.Long {
		if !hasZone {
			// Fixed-percentage fallback, flagged so the caller can tell it
			// apart from a zone-confirmed entry.
			sig.StopLoss = price * (1 - e.cfg.FallbackStopPct)
			sig.TakeProfit = price + (price-sig.StopLoss)*e.cfg.FallbackRewardRatio
			sig.Note = domain.NoteNoDemandZone
			return sig
		}
		if price > demand*(1+e.cfg.ZoneTolerance) {
			e.logger.Debug(ctx, "Price too far from demand zone, rejecting LONG", map[string]interface{}{
				"symbol": symbol, "price": price, "demand": demand,
			})
			return nil
		}
		sig.StopLoss = demand
		sig.TakeProfit = price + (supply-demand)*e.cfg.RewardFraction
		sig.Note = domain.NoteZoneConfirmed
		return sig
	}

	// SHORT, mirrored
	if !hasZone {
		sig.StopLoss = price * (1 + e.cfg.FallbackStopPct)
		sig.TakeProfit = price - (sig.StopLoss-price)*e.cfg.FallbackRewardRatio
		sig.Note = domain.NoteNoSupplyZone
		return sig
	}
	if price < supply*(1-e.cfg.ZoneTolerance) {
		e.logger.Debug(ctx, "Price too far from supply zone, rejecting SHORT", map[string]interface{}{
			"symbol": symbol, "price": price, "supply": supply,
		})
		return nil
	}
	sig.StopLoss = supply
	sig.TakeProfit = price - (supply-demand)*e.cfg.RewardFraction
	sig.Note = domain.NoteZoneConfirmed
	return sig
}

// referencePrice picks the latest close from the finest-granularity
// timeframe that has data, following the configured order.
func (e *Evaluator) referencePrice(candlesByTimeframe map[string][]*domain.Candle) (float64, bool) {
	for _, tf := range e.cfg.Timeframes {
		candles := candlesByTimeframe[tf]
		if len(candles) > 0 {
			return candles[len(candles)-1].Close, true
		}
	}
	return 0, false
}

// combinedZone merges the zones of the configured zone timeframes
// conservatively: the lowest demand and the highest supply win.
func (e *Evaluator) combinedZone(ctx context.Context, symbol string, candlesByTimeframe map[string][]*domain.Candle) (supply, demand float64, ok bool) {
	for tf, lookback := range e.cfg.ZoneLookbacks {
		candles := candlesByTimeframe[tf]
		if len(candles) == 0 {
			continue
		}
		zone, err := indicators.ExtractZone(candles, lookback)
		if err != nil {
			e.logger.Error(ctx, err, "Zone extraction failed", map[string]interface{}{"symbol": symbol, "timeframe": tf})
			continue
		}
		if !ok {
			supply, demand, ok = zone.Supply, zone.Demand, true
			continue
		}
		if zone.Supply > supply {
			supply = zone.Supply
		}
		if zone.Demand < demand {
			demand = zone.Demand
		}
	}
	return supply, demand, ok
}

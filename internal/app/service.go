package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"signalSniper/config"
	"signalSniper/internal/alert"
	"signalSniper/internal/domain"
	"signalSniper/internal/ports"
)

// workerErrorBackoff is the pause after an unexpected per-symbol failure
// before the worker resumes its cycle.
const workerErrorBackoff = 10 * time.Second

// SignalService orchestrates the alerting loop: one worker per symbol
// fetches candle history for every timeframe, runs the evaluator, and
// pushes confirmed signals through the alert gate.
type SignalService struct {
	cfg       *config.Config
	logger    ports.Logger
	market    ports.MarketDataClient
	evaluator ports.SignalEvaluator
	gate      *alert.Gate
	notifier  ports.Notifier
	retry     RetryPolicy

	// State fields
	mu              sync.Mutex // Protects the notification flags below
	authNotified    bool
	fetchFailOnce   map[string]bool // (symbol/timeframe) -> already notified
	startupNotified bool
}

// NewSignalService creates a new application service instance.
func NewSignalService(
	cfg *config.Config,
	logger ports.Logger,
	market ports.MarketDataClient,
	evaluator ports.SignalEvaluator,
	gate *alert.Gate,
	notifier ports.Notifier,
) (*SignalService, error) {

	// Validate dependencies
	if cfg == nil || logger == nil || market == nil || evaluator == nil || gate == nil || notifier == nil {
		return nil, fmt.Errorf("missing required dependencies for SignalService")
	}
	if len(cfg.Symbols) == 0 {
		return nil, fmt.Errorf("configuration must include at least one symbol")
	}
	if len(cfg.Timeframes) == 0 {
		return nil, fmt.Errorf("configuration must include at least one timeframe")
	}
	if cfg.FetchMaxAttempts < 1 {
		return nil, fmt.Errorf("configuration FetchMaxAttempts must be at least 1")
	}

	return &SignalService{
		cfg:       cfg,
		logger:    logger,
		market:    market,
		evaluator: evaluator,
		gate:      gate,
		notifier:  notifier,
		retry: RetryPolicy{
			MaxAttempts: cfg.FetchMaxAttempts,
			Backoff:     cfg.FetchBackoff,
		},
		fetchFailOnce: make(map[string]bool),
	}, nil
}

// Start begins the signal service's main loop and blocks until the context
// is cancelled or a shutdown signal arrives.
func (s *SignalService) Start(ctx context.Context) error {
	s.logger.Info(ctx, "Starting Signal Service...")

	// Create a context that can be canceled by signals
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		s.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	// Check provider connectivity before spawning workers. A failure here is
	// fatal; transient errors during the run are handled per fetch.
	if err := s.market.Ping(ctx); err != nil {
		s.logger.Error(ctx, err, "Market data provider unreachable")
		return fmt.Errorf("market data provider unreachable: %w", err)
	}
	serverTime, err := s.market.GetServerTime(ctx)
	if err != nil {
		s.logger.Warn(ctx, "Could not read provider server time", map[string]interface{}{"error": err.Error()})
	} else {
		s.logger.Info(ctx, "Provider reachable", map[string]interface{}{"serverTime": serverTime.UTC()})
	}

	s.sendStartupNotification(ctx)

	// One worker per symbol; evaluation is a pure function of its own
	// fetched data, so workers share nothing but the gate and the
	// notification flags.
	var wg sync.WaitGroup
	for _, symbol := range s.cfg.Symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			s.runSymbolWorker(ctx, sym)
		}(symbol)
	}

	<-ctx.Done()
	s.logger.Info(ctx, "Main context cancelled, waiting for workers to finish...")
	wg.Wait()

	s.logger.Info(ctx, "Signal Service stopped.")
	return nil
}

// sendStartupNotification announces the monitored universe once per process.
func (s *SignalService) sendStartupNotification(ctx context.Context) {
	s.mu.Lock()
	already := s.startupNotified
	s.startupNotified = true
	s.mu.Unlock()
	if already {
		return
	}

	msg := fmt.Sprintf("✅ Signal sniper connected. Monitoring %d symbols on %d timeframes.",
		len(s.cfg.Symbols), len(s.cfg.Timeframes))
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Warn(ctx, "Startup notification failed", map[string]interface{}{"error": err.Error()})
	}
}

// runSymbolWorker runs evaluation cycles for one symbol until the context
// is cancelled. Failures inside a cycle are isolated: they are logged,
// backed off, and never propagate to other symbols.
func (s *SignalService) runSymbolWorker(ctx context.Context, symbol string) {
	s.logger.Info(ctx, "Starting symbol worker", map[string]interface{}{"symbol": symbol})

	for {
		if err := s.safeCycle(ctx, symbol); err != nil {
			s.logger.Error(ctx, err, "Evaluation cycle failed", map[string]interface{}{"symbol": symbol})
			if !sleepCtx(ctx, workerErrorBackoff) {
				return
			}
			continue
		}
		if !sleepCtx(ctx, s.cfg.CycleInterval) {
			return
		}
	}
}

// safeCycle runs one evaluation cycle, converting panics into errors so a
// single symbol's failure cannot terminate the process.
func (s *SignalService) safeCycle(ctx context.Context, symbol string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in evaluation cycle: %v", r)
		}
	}()
	return s.runCycle(ctx, symbol)
}

// runCycle fetches every timeframe for the symbol, evaluates, and publishes
// a confirmed signal through the gate.
func (s *SignalService) runCycle(ctx context.Context, symbol string) error {
	candlesByTimeframe := make(map[string][]*domain.Candle, len(s.cfg.Timeframes))
	for _, tf := range s.cfg.Timeframes {
		candles, err := s.fetchWithRetry(ctx, symbol, tf)
		if err != nil {
			// Absence of data is a skip condition: the evaluator works with
			// whatever timeframes succeeded.
			s.noteFetchFailure(ctx, symbol, tf, err)
			continue
		}
		candlesByTimeframe[tf] = candles

		if s.cfg.CandleWait > 0 && !sleepCtx(ctx, s.cfg.CandleWait) {
			return ctx.Err()
		}
	}

	sig := s.evaluator.Evaluate(ctx, symbol, candlesByTimeframe)
	if sig == nil {
		s.logger.Debug(ctx, "No confirmed signal this cycle", map[string]interface{}{"symbol": symbol})
		return nil
	}

	if err := s.gate.Publish(ctx, sig); err != nil {
		// Delivery failures are retried next cycle; the gate left the
		// cooldown window open.
		s.logger.Warn(ctx, "Alert not delivered, will retry next cycle", map[string]interface{}{
			"symbol": symbol, "direction": sig.Direction,
		})
	}
	return nil
}

// fetchWithRetry fetches one timeframe's history under the retry policy.
// Authentication failures abort the retries immediately: repeating the call
// cannot fix a credential problem.
func (s *SignalService) fetchWithRetry(ctx context.Context, symbol, timeframe string) ([]*domain.Candle, error) {
	var lastErr error
	for attempt := 1; attempt <= s.retry.MaxAttempts; attempt++ {
		candles, err := s.market.GetCandles(ctx, symbol, timeframe, s.cfg.CandleCount)
		if err == nil {
			return candles, nil
		}
		lastErr = err

		if errors.Is(err, ports.ErrAuthenticationFailed) {
			s.notifyAuthFailure(ctx, err)
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		s.logger.Warn(ctx, "Candle fetch attempt failed", map[string]interface{}{
			"symbol": symbol, "timeframe": timeframe, "attempt": attempt, "error": err.Error(),
		})
		if attempt < s.retry.MaxAttempts {
			if !sleepCtx(ctx, s.retry.Delay(attempt)) {
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("fetch failed after %d attempts: %w", s.retry.MaxAttempts, lastErr)
}

// noteFetchFailure logs a fetch failure and notifies the alert channel once
// per (symbol, timeframe) key, preventing alert storms on persistent
// provider trouble.
func (s *SignalService) noteFetchFailure(ctx context.Context, symbol, timeframe string, err error) {
	s.logger.Error(ctx, err, "Skipping timeframe for this cycle", map[string]interface{}{
		"symbol": symbol, "timeframe": timeframe,
	})

	key := symbol + "/" + timeframe
	s.mu.Lock()
	already := s.fetchFailOnce[key]
	s.fetchFailOnce[key] = true
	s.mu.Unlock()
	if already {
		return
	}

	msg := fmt.Sprintf("⚠️ Failed to fetch %s %s: %v", symbol, timeframe, err)
	if sendErr := s.notifier.Send(ctx, msg); sendErr != nil {
		s.logger.Warn(ctx, "Fetch-failure notification not delivered", map[string]interface{}{"error": sendErr.Error()})
	}
}

// notifyAuthFailure sends a single process-wide notification for a
// credential problem. Repeating it every cycle would only spam the channel.
func (s *SignalService) notifyAuthFailure(ctx context.Context, err error) {
	s.mu.Lock()
	already := s.authNotified
	s.authNotified = true
	s.mu.Unlock()
	if already {
		return
	}

	s.logger.Error(ctx, err, "Market data authentication failed")
	msg := fmt.Sprintf("❌ Market data auth error: %v", err)
	if sendErr := s.notifier.Send(ctx, msg); sendErr != nil {
		s.logger.Warn(ctx, "Auth-failure notification not delivered", map[string]interface{}{"error": sendErr.Error()})
	}
}

// sleepCtx pauses for d unless the context ends first. Returns false when
// the context ended.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

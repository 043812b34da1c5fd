package alert

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"signalSniper/internal/domain"
	"signalSniper/internal/ports"
)

// cooldownKey identifies one alert stream: repeated signals for the same
// symbol and direction share a cooldown window.
type cooldownKey struct {
	symbol    string
	direction domain.Direction
}

// Config holds configuration for the alert gate.
type Config struct {
	// Cooldown is the minimum elapsed time between emitted alerts for the
	// same (symbol, direction) pair.
	Cooldown time.Duration

	// Now returns the current time; defaults to time.Now. Injectable for
	// deterministic tests.
	Now func() time.Time
}

// Gate deduplicates repeated signals and forwards the survivors to the
// notifier as formatted messages. The cooldown state lives in process
// memory only and is serialized by an internal mutex.
type Gate struct {
	cfg      Config
	logger   ports.Logger
	notifier ports.Notifier

	mu        sync.Mutex
	lastAlert map[cooldownKey]time.Time
}

// NewGate creates a new alert gate.
func NewGate(cfg Config, notifier ports.Notifier, logger ports.Logger) (*Gate, error) {
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required for alert gate")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for alert gate")
	}
	if cfg.Cooldown <= 0 {
		return nil, fmt.Errorf("cooldown must be positive")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Gate{
		cfg:       cfg,
		logger:    logger,
		notifier:  notifier,
		lastAlert: make(map[cooldownKey]time.Time),
	}, nil
}

// Publish emits the signal unless its (symbol, direction) pair is still in
// cooldown. The cooldown timestamp is recorded only after a successful send,
// so a delivery failure leaves the window open for a retry next cycle.
func (g *Gate) Publish(ctx context.Context, sig *domain.Signal) error {
	key := cooldownKey{symbol: sig.Symbol, direction: sig.Direction}
	now := g.cfg.Now()

	g.mu.Lock()
	last, seen := g.lastAlert[key]
	g.mu.Unlock()

	if seen && now.Sub(last) < g.cfg.Cooldown {
		g.logger.Info(ctx, "Alert suppressed by cooldown", map[string]interface{}{
			"symbol":    sig.Symbol,
			"direction": sig.Direction,
			"sinceLast": now.Sub(last).String(),
			"cooldown":  g.cfg.Cooldown.String(),
		})
		return nil
	}

	if err := g.notifier.Send(ctx, FormatSignal(sig)); err != nil {
		g.logger.Error(ctx, err, "Failed to deliver alert, cooldown left open for retry", map[string]interface{}{
			"symbol":    sig.Symbol,
			"direction": sig.Direction,
		})
		return fmt.Errorf("alert delivery failed: %w", err)
	}

	g.mu.Lock()
	g.lastAlert[key] = now
	g.mu.Unlock()

	g.logger.Info(ctx, "Alert emitted", map[string]interface{}{
		"symbol":    sig.Symbol,
		"direction": sig.Direction,
		"note":      sig.Note,
	})
	return nil
}

// FormatSignal renders a signal into the human-readable alert body.
// The body is plain text; channel-specific markup escaping is the
// notifier's responsibility.
func FormatSignal(sig *domain.Signal) string {
	return fmt.Sprintf(
		"🎯 %s SIGNAL for %s\n"+
			"Timeframes: %s\n"+
			"Price: %.5f\nTP: %.5f\nSL: %.5f\n"+
			"Note: %s\n"+
			"Time: %s",
		sig.Direction,
		sig.Symbol,
		strings.Join(sig.Timeframes, ", "),
		sig.Price,
		sig.TakeProfit,
		sig.StopLoss,
		sig.Note,
		sig.GeneratedAt.Format("2006-01-02 15:04:05 UTC"),
	)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"signalSniper/internal/adapters/logger" // Import the logger package for LogLevel
)

// Config holds all application configuration.
type Config struct {
	// Market data provider
	APIKey     string
	SecretKey  string
	IsTestnet  bool
	CandleWait time.Duration // Pause between per-timeframe fetches to avoid rate limits

	// Telegram
	TelegramBotToken string
	TelegramChatID   string

	// Universe
	Symbols     []string
	Timeframes  []string // Ordered finest-first; labels double as provider intervals
	CandleCount int      // History depth requested per timeframe

	// Evaluator parameters
	FastEMAPeriod       int
	SlowEMAPeriod       int
	RSIPeriod           int
	LongRSIMin          float64
	LongRSIMax          float64
	ShortRSIMin         float64
	ShortRSIMax         float64
	MinVolatilityPct    float64
	MinConfirmations    int
	ZoneLookbacks       map[string]int // timeframe label -> lookback bars
	ZoneTolerance       float64
	RewardFraction      float64
	FallbackStopPct     float64
	FallbackRewardRatio float64

	// Alerting
	AlertCooldown time.Duration

	// Fetch retry policy
	FetchMaxAttempts int
	FetchBackoff     []time.Duration

	// Loop
	CycleInterval time.Duration

	// Logging
	LogLevel logger.LogLevel
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string // Collect validation errors

	// Market data provider. Credentials are optional: historical klines are
	// a public endpoint.
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)
	cfg.CandleWait = time.Duration(getEnvAsInt("CANDLE_WAIT_MS", 400)) * time.Millisecond

	// Telegram
	cfg.TelegramBotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", "")
	if cfg.TelegramBotToken == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN must be set")
	}
	if cfg.TelegramChatID == "" {
		errs = append(errs, "TELEGRAM_CHAT_ID must be set")
	}

	// Universe
	cfg.Symbols = getEnvAsList("SYMBOLS", []string{"BTCUSDT", "ETHUSDT", "SOLUSDT", "BNBUSDT"})
	if len(cfg.Symbols) == 0 {
		errs = append(errs, "SYMBOLS must contain at least one symbol")
	}
	cfg.Timeframes = getEnvAsList("TIMEFRAMES", []string{"1m", "3m", "5m", "15m"})
	if len(cfg.Timeframes) == 0 {
		errs = append(errs, "TIMEFRAMES must contain at least one timeframe")
	}
	cfg.CandleCount = getEnvAsInt("CANDLE_COUNT", 150)
	if cfg.CandleCount <= 0 {
		errs = append(errs, "CANDLE_COUNT must be positive")
	}

	// Evaluator parameters (policy constants, all overridable)
	cfg.FastEMAPeriod = getEnvAsInt("EMA_FAST_PERIOD", 9)
	cfg.SlowEMAPeriod = getEnvAsInt("EMA_SLOW_PERIOD", 21)
	cfg.RSIPeriod = getEnvAsInt("RSI_PERIOD", 14)
	if cfg.FastEMAPeriod <= 0 || cfg.SlowEMAPeriod <= 0 || cfg.RSIPeriod <= 0 {
		errs = append(errs, "indicator periods (EMA, RSI) must be positive")
	}
	if cfg.FastEMAPeriod >= cfg.SlowEMAPeriod {
		errs = append(errs, "EMA_FAST_PERIOD must be less than EMA_SLOW_PERIOD")
	}

	cfg.LongRSIMin = getEnvAsFloat("LONG_RSI_MIN", 40.0)
	cfg.LongRSIMax = getEnvAsFloat("LONG_RSI_MAX", 70.0)
	cfg.ShortRSIMin = getEnvAsFloat("SHORT_RSI_MIN", 30.0)
	cfg.ShortRSIMax = getEnvAsFloat("SHORT_RSI_MAX", 60.0)
	if cfg.LongRSIMin >= cfg.LongRSIMax || cfg.LongRSIMin < 0 || cfg.LongRSIMax > 100 {
		errs = append(errs, "invalid LONG RSI band (min must be < max, within 0-100)")
	}
	if cfg.ShortRSIMin >= cfg.ShortRSIMax || cfg.ShortRSIMin < 0 || cfg.ShortRSIMax > 100 {
		errs = append(errs, "invalid SHORT RSI band (min must be < max, within 0-100)")
	}

	cfg.MinVolatilityPct = getEnvAsFloat("MIN_VOLATILITY_PCT", 0.15)
	if cfg.MinVolatilityPct < 0 {
		errs = append(errs, "MIN_VOLATILITY_PCT cannot be negative")
	}

	cfg.MinConfirmations = getEnvAsInt("MIN_CONFIRMING_TIMEFRAMES", 2)
	if cfg.MinConfirmations < 1 {
		errs = append(errs, "MIN_CONFIRMING_TIMEFRAMES must be at least 1")
	}

	var err error
	cfg.ZoneLookbacks, err = parseZoneLookbacks(getEnv("ZONE_LOOKBACKS", "15m:50,5m:40"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid ZONE_LOOKBACKS: %v", err))
	}

	cfg.ZoneTolerance = getEnvAsFloat("ZONE_TOLERANCE", 0.005)
	cfg.RewardFraction = getEnvAsFloat("REWARD_FRACTION", 0.5)
	cfg.FallbackStopPct = getEnvAsFloat("FALLBACK_STOP_PCT", 0.002)
	cfg.FallbackRewardRatio = getEnvAsFloat("FALLBACK_REWARD_RATIO", 1.5)
	if cfg.ZoneTolerance < 0 {
		errs = append(errs, "ZONE_TOLERANCE cannot be negative")
	}
	if cfg.RewardFraction <= 0 || cfg.FallbackStopPct <= 0 || cfg.FallbackRewardRatio <= 0 {
		errs = append(errs, "REWARD_FRACTION, FALLBACK_STOP_PCT and FALLBACK_REWARD_RATIO must be positive")
	}

	// Alerting
	cooldownMinutes := getEnvAsInt("ALERT_COOLDOWN_MINUTES", 30)
	if cooldownMinutes <= 0 {
		errs = append(errs, "ALERT_COOLDOWN_MINUTES must be positive")
	}
	cfg.AlertCooldown = time.Duration(cooldownMinutes) * time.Minute

	// Fetch retry policy
	cfg.FetchMaxAttempts = getEnvAsInt("FETCH_MAX_ATTEMPTS", 3)
	if cfg.FetchMaxAttempts < 1 {
		errs = append(errs, "FETCH_MAX_ATTEMPTS must be at least 1")
	}
	cfg.FetchBackoff, err = parseBackoffSchedule(getEnv("FETCH_BACKOFF_SECONDS", "1,2,4"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid FETCH_BACKOFF_SECONDS: %v", err))
	}

	// Loop
	cycleSeconds := getEnvAsInt("CYCLE_INTERVAL_SECONDS", 5)
	if cycleSeconds <= 0 {
		errs = append(errs, "CYCLE_INTERVAL_SECONDS must be positive")
	}
	cfg.CycleInterval = time.Duration(cycleSeconds) * time.Second

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr)

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// parseZoneLookbacks parses a "label:bars,label:bars" list.
func parseZoneLookbacks(raw string) (map[string]int, error) {
	out := make(map[string]int)
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("entry %q must be label:bars", entry)
		}
		bars, err := strconv.Atoi(parts[1])
		if err != nil || bars <= 0 {
			return nil, fmt.Errorf("entry %q has invalid bar count", entry)
		}
		out[parts[0]] = bars
	}
	return out, nil
}

// parseBackoffSchedule parses a comma-separated list of delays in seconds.
func parseBackoffSchedule(raw string) ([]time.Duration, error) {
	var out []time.Duration
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		secs, err := strconv.ParseFloat(entry, 64)
		if err != nil || secs < 0 {
			return nil, fmt.Errorf("delay %q must be a non-negative number of seconds", entry)
		}
		out = append(out, time.Duration(secs*float64(time.Second)))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("schedule must contain at least one delay")
	}
	return out, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, entry := range strings.Split(valueStr, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

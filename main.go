package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"signalSniper/config"
	"signalSniper/internal/adapters/binanceclient"
	"signalSniper/internal/adapters/logger"
	"signalSniper/internal/adapters/telegram"
	"signalSniper/internal/alert"
	"signalSniper/internal/app"
	"signalSniper/internal/strategy"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Market Data Client (Binance Adapter)
	marketClient, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}
	appLogger.Info(context.Background(), "Binance client initialized")

	// 4. Initialize Notifier (Telegram Adapter)
	notifier, err := telegram.New(telegram.Config{
		BotToken: cfg.TelegramBotToken,
		ChatID:   cfg.TelegramChatID,
		Logger:   appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Telegram notifier")
		log.Fatalf("FATAL: Failed to initialize Telegram notifier: %v", err)
	}
	appLogger.Info(context.Background(), "Telegram notifier initialized")

	// 5. Initialize Evaluator
	evaluator, err := strategy.New(strategy.Config{
		FastEMAPeriod:       cfg.FastEMAPeriod,
		SlowEMAPeriod:       cfg.SlowEMAPeriod,
		RSIPeriod:           cfg.RSIPeriod,
		LongRSIMin:          cfg.LongRSIMin,
		LongRSIMax:          cfg.LongRSIMax,
		ShortRSIMin:         cfg.ShortRSIMin,
		ShortRSIMax:         cfg.ShortRSIMax,
		MinVolatilityPct:    cfg.MinVolatilityPct,
		MinConfirmations:    cfg.MinConfirmations,
		Timeframes:          cfg.Timeframes,
		ZoneLookbacks:       cfg.ZoneLookbacks,
		ZoneTolerance:       cfg.ZoneTolerance,
		RewardFraction:      cfg.RewardFraction,
		FallbackStopPct:     cfg.FallbackStopPct,
		FallbackRewardRatio: cfg.FallbackRewardRatio,
	}, appLogger)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize signal evaluator")
		log.Fatalf("FATAL: Failed to initialize signal evaluator: %v", err)
	}
	appLogger.Info(context.Background(), "Signal evaluator initialized")

	// 6. Initialize Alert Gate
	gate, err := alert.NewGate(alert.Config{
		Cooldown: cfg.AlertCooldown,
	}, notifier, appLogger)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize alert gate")
		log.Fatalf("FATAL: Failed to initialize alert gate: %v", err)
	}
	appLogger.Info(context.Background(), "Alert gate initialized")

	// 7. Initialize Application Service
	signalService, err := app.NewSignalService(
		cfg,
		appLogger,
		marketClient,
		evaluator,
		gate,
		notifier,
	)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize signal service")
		log.Fatalf("FATAL: Failed to initialize signal service: %v", err)
	}
	appLogger.Info(context.Background(), "Signal service initialized")

	// 8. Start the Service
	if err := signalService.Start(context.Background()); err != nil {
		appLogger.Error(context.Background(), err, "Signal service exited with error")
		log.Fatalf("FATAL: Signal service exited with error: %v", err)
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}

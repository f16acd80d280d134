package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutor_insights_bot/internal/app"
	"tutor_insights_bot/internal/domain/classifier"
	"tutor_insights_bot/internal/domain/insights"
	"tutor_insights_bot/internal/infra/config"
	idb "tutor_insights_bot/internal/infra/database"
	"tutor_insights_bot/internal/infra/fallback"
	applogger "tutor_insights_bot/internal/infra/logger"
	"tutor_insights_bot/internal/infra/scheduler"
	"tutor_insights_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		applogger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	applogger.Init(cfg)
	mainLogger := applogger.Log.WithField("component", "main")
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Admin ID: %d", cfg.LogLevel, cfg.Environment, cfg.AdminTelegramID)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	// Initialize Repositories
	lessonRepo := idb.NewPostgresLessonRepository(db)
	mainLogger.Info("Lesson repository initialized.")
	studentRepo := idb.NewPostgresStudentRepository(db)
	mainLogger.Info("Student repository initialized.")

	// Initialize the optional LLM fallback classifier. When no URL is
	// configured the service runs fully deterministic.
	var fallbackClassifier classifier.Classifier
	if cfg.FallbackClassifierURL != "" {
		fallbackClassifier = fallback.NewHTTPClient(cfg.FallbackClassifierURL, cfg.FallbackClassifierKey)
		mainLogger.Info("Fallback classifier client initialized.")
	} else {
		mainLogger.Info("No fallback classifier configured; running deterministic-only.")
	}

	// Initialize InsightsService
	insightsService := app.NewInsightsService(
		lessonRepo,
		studentRepo,
		fallbackClassifier,
		applogger.Log.WithField("component", "insights_service"),
	)
	mainLogger.Info("Insights service initialized.")

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := applogger.Log.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(map[string]interface{}{
					"message":   c.Text(),
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
				})
			}
			entry.Error("Telebot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}

	// Initialize DigestService and its scheduler
	telegramClient := telegram.NewTelebotAdapter(bot)
	digestService := app.NewDigestService(
		lessonRepo,
		studentRepo,
		telegramClient,
		applogger.Log.WithField("component", "digest_service"),
		cfg.DigestChatID,
		cfg.AdminTelegramID,
	)
	mainLogger.Info("Digest service initialized.")

	digestScheduler := scheduler.NewDigestScheduler(
		digestService,
		applogger.Log.WithField("component", "scheduler"),
		cfg.CronSpecWeeklyDigest,
	)
	digestScheduler.Start()

	// Register Handlers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telegram.RegisterBotCommands(bot, cfg, applogger.Log.WithField("component", "telegram_handlers"))
	telegram.RegisterInsightsHandlers(
		ctx,
		bot,
		insightsService,
		applogger.Log.WithField("component", "telegram_handlers"),
		insights.DebugOptions{Verbose: cfg.DebugTrace},
	)
	mainLogger.Info("Bot handlers registered.")

	mainLogger.Info("Application setup complete. Bot and Scheduler are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	cancel()
	digestScheduler.Stop()
	bot.Stop()
	mainLogger.Info("Application shut down gracefully.")
}

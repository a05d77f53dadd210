package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"
	"time"

	"reminder_assistant_bot/internal/app"
	"reminder_assistant_bot/internal/domain/activity"
	"reminder_assistant_bot/internal/domain/reminder"
	"reminder_assistant_bot/internal/infra/config"
	idb "reminder_assistant_bot/internal/infra/database"
	"reminder_assistant_bot/internal/infra/httpserver"
	"reminder_assistant_bot/internal/infra/llm"
	"reminder_assistant_bot/internal/infra/logger"
	"reminder_assistant_bot/internal/infra/memory"
	"reminder_assistant_bot/internal/infra/scheduler"
	"reminder_assistant_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Could not load application configuration")
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")

	mainLogger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"storage":     cfg.StorageDriver,
		"llm":         cfg.LLM.Provider,
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	var (
		reminderRepo reminder.Repository
		activityRepo activity.Repository
		db           *sql.DB
	)
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		db, err = idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not connect to database")
		}
		reminderRepo = idb.NewPostgresReminderRepository(db)
		activityRepo = idb.NewPostgresActivityRepository(db)
		mainLogger.Info("Database connection established successfully")
	default:
		store := memory.NewStore()
		reminderRepo, activityRepo = store, store
		mainLogger.Warn("Using in-memory storage; data is lost on restart")
	}

	// Generative provider; nil means fallbacks only.
	provider, err := llm.NewProvider(ctx, cfg.LLM)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create generative provider")
	}
	if provider == nil {
		mainLogger.Info("Generative provider disabled, deterministic messages only")
	} else {
		mainLogger.WithField("provider", provider.Name()).Info("Generative provider initialized")
	}

	// Application services
	perf := app.NewPerformanceAggregator(activityRepo)
	tone := app.NewToneEngine(provider, logger.Component("tone_engine"))
	lifecycle := app.NewLifecycle(reminderRepo, activityRepo, perf, cfg.SnoozeDelay, logger.Component("lifecycle"))
	dispatcher := app.NewDispatcher(lifecycle, reminderRepo, perf, tone, cfg.NewReminderOffset, logger.Component("dispatcher"))

	// Telegram bot
	botLogger := logger.Component("telebot")
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: newPoller(cfg),
		OnError: func(err error, c telebot.Context) {
			entry := botLogger.WithError(err)
			if c != nil && c.Sender() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID)
			}
			entry.Error("Telebot handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}

	handlersLogger := logger.Component("telegram")
	telegram.RegisterBotCommands(ctx, bot, dispatcher, handlersLogger)
	telegram.RegisterCallbackHandlers(ctx, bot, dispatcher, handlersLogger)
	mainLogger.Info("Telegram handlers registered")

	notifier := app.NewReminderNotifier(reminderRepo, perf, tone, telegram.NewTelebotAdapter(bot), cfg.SnoozeDelay, logger.Component("notifier"))
	reminderScheduler := scheduler.NewReminderScheduler(notifier, logger.Component("scheduler"), cfg.CronSpecDueCheck)
	if err := reminderScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start reminder scheduler")
	}

	healthServer := httpserver.NewServer(cfg.HTTPAddr, logger.Component("http"))
	go func() {
		if err := healthServer.Start(); err != nil {
			mainLogger.WithError(err).Error("Health server stopped")
		}
	}()

	mainLogger.Info("Application setup complete. Bot and scheduler are starting...")
	go bot.Start()

	<-ctx.Done()
	mainLogger.Info("Shutting down application...")

	bot.Stop()
	reminderScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		mainLogger.WithError(err).Warn("Health server shutdown failed")
	}
	if db != nil {
		if err := db.Close(); err != nil {
			mainLogger.WithError(err).Warn("Failed to close database")
		}
	}
	mainLogger.Info("Application shut down gracefully")
}

func newPoller(cfg *config.AppConfig) telebot.Poller {
	if cfg.TelegramWebhookURL != "" {
		return &telebot.Webhook{
			Listen:   cfg.TelegramWebhookListen,
			Endpoint: &telebot.WebhookEndpoint{PublicURL: cfg.TelegramWebhookURL},
		}
	}
	return &telebot.LongPoller{Timeout: 10 * time.Second}
}

package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/joho/godotenv"

	adrewards "github.com/risknai/adrewards"
	"github.com/risknai/adrewards/internal/config"
	"github.com/risknai/adrewards/internal/handler"
	"github.com/risknai/adrewards/internal/middleware"
	"github.com/risknai/adrewards/internal/repository"
	"github.com/risknai/adrewards/internal/service"
	"github.com/risknai/adrewards/internal/store"
	"github.com/risknai/adrewards/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(adrewards.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Storage layer
	st := store.NewPostgres(pool)
	defer st.Close()

	// Repositories
	accountRepo := repository.NewAccountRepo(st)
	watchRepo := repository.NewWatchRepo(st)
	txRepo := repository.NewTransactionRepo(st)
	referralRepo := repository.NewReferralRepo(st)
	systemRepo := repository.NewSystemRepo(st)
	providerRepo := repository.NewProviderRepo(st, config.DefaultProviders())
	defer providerRepo.Close()

	if err := providerRepo.Refresh(ctx); err != nil {
		slog.Error("failed to load provider overrides", "error", err)
		os.Exit(1)
	}

	// Completion adapters, one per provider
	registry := service.NewRegistry()
	for _, p := range config.DefaultProviders() {
		registry.Register(p.ID, service.NewCallbackProvider())
	}

	// Services
	accountService := service.NewAccountService(accountRepo)
	ledger := service.NewRewardLedger(st, accountRepo, watchRepo, txRepo)
	commissions := service.NewCommissionPropagator(st, accountRepo, referralRepo, txRepo)
	engine := service.NewEngine(providerRepo, watchRepo, ledger, commissions, registry)
	resetScheduler := service.NewResetScheduler(st, systemRepo, watchRepo)

	// Create bot
	b, err := bot.New(cfg.BotToken,
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.AccountLoader(accountService),
		),
	)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}
	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	// Telegram event log
	events := telegram.NewEventLog(b, cfg)
	resetScheduler.OnReset(events.LogDailyReset)

	// Daily reset loop
	if err := resetScheduler.Start(ctx); err != nil {
		slog.Error("failed to start reset scheduler", "error", err)
		os.Exit(1)
	}
	defer resetScheduler.Stop()

	// Handlers
	h := handler.New(handler.Deps{
		Bot:          b,
		Cfg:          cfg,
		Engine:       engine,
		Accounts:     accountService,
		Providers:    providerRepo,
		Referrals:    referralRepo,
		Transactions: txRepo,
		Events:       events,
		BotUsername:  me.Username,
	})
	h.Register()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}

package handler

import (
	"github.com/go-telegram/bot"

	"github.com/risknai/adrewards/internal/config"
	"github.com/risknai/adrewards/internal/repository"
	"github.com/risknai/adrewards/internal/service"
	"github.com/risknai/adrewards/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot          *bot.Bot
	cfg          *config.Config
	engine       *service.Engine
	accounts     *service.AccountService
	providers    *repository.ProviderRepo
	referrals    *repository.ReferralRepo
	transactions *repository.TransactionRepo
	events       *telegram.EventLog
	botUsername  string
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot          *bot.Bot
	Cfg          *config.Config
	Engine       *service.Engine
	Accounts     *service.AccountService
	Providers    *repository.ProviderRepo
	Referrals    *repository.ReferralRepo
	Transactions *repository.TransactionRepo
	Events       *telegram.EventLog
	BotUsername  string
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:          deps.Bot,
		cfg:          deps.Cfg,
		engine:       deps.Engine,
		accounts:     deps.Accounts,
		providers:    deps.Providers,
		referrals:    deps.Referrals,
		transactions: deps.Transactions,
		events:       deps.Events,
		botUsername:  deps.BotUsername,
	}
}

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/ads", bot.MatchTypePrefix, h.handleAds)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/balance", bot.MatchTypePrefix, h.handleBalance)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/referral", bot.MatchTypePrefix, h.handleReferral)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/adconfig", bot.MatchTypePrefix, h.handleAdConfig)

	// Watch lifecycle callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "watch_", bot.MatchTypePrefix, h.handleWatch)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "adok_", bot.MatchTypePrefix, h.handleAdSignal)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "adfail_", bot.MatchTypePrefix, h.handleAdSignal)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "ads_refresh", bot.MatchTypeExact, h.handleAdsRefresh)
}

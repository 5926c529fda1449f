package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"

	"github.com/risknai/adrewards/internal/config"
	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/middleware"
	"github.com/risknai/adrewards/internal/service"
	"github.com/risknai/adrewards/internal/telegram"
)

var commissionRate = decimal.NewFromFloat(config.CommissionPercent / 100)

func (h *Handler) handleAds(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	acct := middleware.GetAccount(ctx)
	if acct == nil {
		return
	}
	text, kb, err := h.adsView(ctx, acct.ID)
	if err != nil {
		slog.Error("failed to build ads view", "account", acct.ID, "error", err)
		return
	}
	if err := telegram.Send(ctx, b, update.Message.Chat.ID, text, kb); err != nil {
		slog.Error("failed to send ads view", "error", err)
	}
}

func (h *Handler) handleAdsRefresh(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	acct := middleware.GetAccount(ctx)
	if acct == nil {
		return
	}
	msg := cb.Message.Message
	text, kb, err := h.adsView(ctx, acct.ID)
	if err != nil {
		slog.Error("failed to build ads view", "account", acct.ID, "error", err)
		return
	}
	if err := telegram.Edit(ctx, b, msg.Chat.ID, msg.ID, text, kb); err != nil {
		slog.Warn("failed to refresh ads view", "error", err)
	}
}

func (h *Handler) adsView(ctx context.Context, accountID string) (string, *models.InlineKeyboardMarkup, error) {
	progress, err := h.engine.ProgressFor(ctx, accountID)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("🎬 *Watch Ads & Earn*\n\n")
	sb.WriteString(fmt.Sprintf("⏰ Daily reset in: *%s* (06:00 UTC+6)\n\n", formatCountdown(service.NextResetIn(time.Now()))))

	var rows [][]models.InlineKeyboardButton
	for _, p := range progress {
		sb.WriteString(fmt.Sprintf("*%s* — Earn $%s per ad\n", p.Config.Title, p.Config.Reward.StringFixed(2)))
		if p.Config.DailyLimit > 0 {
			sb.WriteString(fmt.Sprintf("▸ %d / %d watched\n", p.Watched, p.Config.DailyLimit))
		} else {
			sb.WriteString(fmt.Sprintf("▸ %d watched today\n", p.Watched))
		}
		rows = append(rows, telegram.ButtonRow(
			telegram.InlineButton(buttonLabel(p), "watch_"+string(p.Config.ID)),
		))
	}
	rows = append(rows, telegram.ButtonRow(telegram.InlineButton("🔄 Refresh", "ads_refresh")))

	return sb.String(), telegram.InlineKeyboard(rows...), nil
}

// buttonLabel mirrors the gate state so the user sees why a provider is
// unavailable before tapping it.
func buttonLabel(p service.Progress) string {
	var cooldown *domain.CooldownError
	switch {
	case p.Deny == nil:
		return "▶️ " + p.Config.Title + " — Watch Now"
	case errors.Is(p.Deny, domain.ErrProviderDisabled):
		return p.Config.Title + " — Temporarily Disabled"
	case errors.Is(p.Deny, domain.ErrDailyLimitReached):
		return p.Config.Title + " — Daily Limit Reached"
	case errors.Is(p.Deny, domain.ErrProviderNotReady):
		return p.Config.Title + " — Loading..."
	case errors.As(p.Deny, &cooldown):
		return fmt.Sprintf("%s — Wait %s", p.Config.Title, formatSeconds(cooldown.Remaining))
	case errors.Is(p.Deny, domain.ErrAnotherWatchInProgress):
		return p.Config.Title + " — Another Ad in Progress"
	}
	return p.Config.Title
}

func (h *Handler) handleWatch(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	acct := middleware.GetAccount(ctx)
	if acct == nil {
		return
	}
	providerID := domain.ProviderID(strings.TrimPrefix(cb.Data, "watch_"))

	// Acknowledge before the (possibly long) provider attempt; Telegram only
	// accepts callback answers for a few seconds.
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: cb.ID,
		Text:            "Preparing ad... Please wait",
	})

	var chatID int64
	if cb.Message.Message != nil {
		chatID = cb.Message.Message.Chat.ID
	} else {
		chatID = acct.TelegramID
	}

	result, err := h.engine.Watch(ctx, acct.ID, providerID)
	if err != nil {
		var persistence *domain.PersistenceError
		if errors.As(err, &persistence) {
			h.events.LogError(err, fmt.Sprintf("watch %s for account %s", providerID, acct.ID))
		}
		telegram.Send(ctx, b, chatID, denyText(err), nil)
		return
	}

	h.events.LogReward(acct.ID, string(result.Provider), result.Reward.InexactFloat64())
	if result.CommissionPaid {
		h.events.LogCommission(acct.ReferredBy, acct.ID, result.Reward.Mul(commissionRate).InexactFloat64())
	}

	msg := fmt.Sprintf("✅ +$%s earned! Balance updated.", result.Reward.StringFixed(2))
	if result.DailyLimit > 0 {
		msg += fmt.Sprintf("\n%d / %d watched today.", result.Watched, result.DailyLimit)
	}
	telegram.Send(ctx, b, chatID, msg, telegram.InlineKeyboard(
		telegram.ButtonRow(telegram.InlineButton("🔄 Back to ads", "ads_refresh")),
	))
}

// handleAdSignal feeds a provider's success or failure callback into the
// signalling account's own in-flight attempt. The mini-app webview fires
// these when the provider SDK reports back; a signal from an account with no
// matching attempt is dropped.
func (h *Handler) handleAdSignal(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	acct := middleware.GetAccount(ctx)
	if acct == nil {
		return
	}
	providerID := domain.ProviderID(strings.TrimPrefix(strings.TrimPrefix(cb.Data, "adok_"), "adfail_"))

	outcome := service.OutcomeFailed
	if strings.HasPrefix(cb.Data, "adok_") {
		outcome = service.OutcomeCompleted
	}
	if !h.engine.Signal(acct.ID, providerID, outcome) {
		slog.Debug("completion signal with no matching attempt",
			"account", acct.ID, "provider", providerID)
	}
}

func denyText(err error) string {
	var cooldown *domain.CooldownError
	switch {
	case errors.Is(err, domain.ErrProviderDisabled):
		return "❌ This ad provider is temporarily unavailable"
	case errors.Is(err, domain.ErrDailyLimitReached):
		return "ℹ️ Daily limit reached. Come back tomorrow for more ads!"
	case errors.Is(err, domain.ErrProviderNotReady):
		return "ℹ️ Ad provider is loading... Please wait a moment"
	case errors.As(err, &cooldown):
		return fmt.Sprintf("ℹ️ Please wait %s before watching another ad", formatSeconds(cooldown.Remaining))
	case errors.Is(err, domain.ErrAnotherWatchInProgress):
		return "ℹ️ Please complete the current ad first"
	case errors.Is(err, domain.ErrProviderTimedOut):
		return "❌ The ad timed out. Please try again."
	case errors.Is(err, domain.ErrIncompleteWatch):
		return "❌ Ad was not completed. Please watch the full ad without skipping."
	}
	return "❌ Something went wrong. Please try again."
}

// formatSeconds renders a wait the way users expect: "45s" or "1m 5s".
func formatSeconds(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

func formatCountdown(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

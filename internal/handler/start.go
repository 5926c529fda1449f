package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/risknai/adrewards/internal/middleware"
	"github.com/risknai/adrewards/internal/telegram"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	acct := middleware.GetAccount(ctx)
	if acct == nil {
		return
	}
	chatID := update.Message.Chat.ID

	// Referral deep link: /start r_<accountID>
	parts := strings.SplitN(update.Message.Text, " ", 2)
	if len(parts) > 1 && strings.HasPrefix(parts[1], "r_") {
		referrerID := strings.TrimPrefix(parts[1], "r_")
		attached, err := h.accounts.AttachReferrer(ctx, acct.ID, referrerID)
		if err != nil {
			slog.Error("failed to attach referrer", "account", acct.ID, "error", err)
		} else if attached {
			acct.ReferredBy = referrerID
			h.events.LogRegistration(acct.TelegramID, acct.FirstName, acct.Username, referrerID)
		}
	}

	welcome := fmt.Sprintf(
		"👋 Hi, *%s*!\n\n"+
			"Watch ads, earn cash, invite friends.\n\n"+
			"📋 *Commands:*\n"+
			"/ads — Watch ads and earn\n"+
			"/balance — Your balance and history\n"+
			"/referral — Invite friends, earn 10%% of their rewards\n\n"+
			"Tap /ads to get started!",
		acct.FirstName,
	)
	if err := telegram.Send(ctx, b, chatID, welcome, nil); err != nil {
		slog.Error("failed to send welcome", "error", err)
	}
}

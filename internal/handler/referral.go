package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/risknai/adrewards/internal/middleware"
	"github.com/risknai/adrewards/internal/telegram"
)

func (h *Handler) handleReferral(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	acct := middleware.GetAccount(ctx)
	if acct == nil {
		return
	}

	rec, err := h.referrals.Get(ctx, acct.ID)
	if err != nil {
		slog.Error("failed to load referral record", "account", acct.ID, "error", err)
		return
	}

	link := fmt.Sprintf("https://t.me/%s?start=r_%s", h.botUsername, acct.ID)
	text := fmt.Sprintf(
		"🤝 *Invite Friends*\n\n"+
			"Share your link and earn *10%%* of every reward your friends collect, forever.\n\n"+
			"🔗 Your link:\n`%s`\n\n"+
			"👥 Friends invited: *%d*\n"+
			"💵 Commission earned: *$%s*",
		link, rec.ReferredCount, rec.ReferralEarnings.StringFixed(2),
	)

	kb := telegram.InlineKeyboard(telegram.ButtonRow(
		telegram.URLButton("📤 Share link", fmt.Sprintf("https://t.me/share/url?url=%s", link)),
	))
	if err := telegram.Send(ctx, b, update.Message.Chat.ID, text, kb); err != nil {
		slog.Error("failed to send referral info", "error", err)
	}
}

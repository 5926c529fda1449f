package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/middleware"
	"github.com/risknai/adrewards/internal/telegram"
)

const recentTransactionLimit = 10

func (h *Handler) handleBalance(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	acct := middleware.GetAccount(ctx)
	if acct == nil {
		return
	}

	txs, err := h.transactions.ListByAccount(ctx, acct.ID)
	if err != nil {
		slog.Error("failed to list transactions", "account", acct.ID, "error", err)
		txs = nil
	}

	var sb strings.Builder
	sb.WriteString("💰 *Your Balance*\n\n")
	sb.WriteString(fmt.Sprintf("Available: *$%s*\n", acct.Balance.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Total earned: $%s\n", acct.TotalEarned.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Withdrawn: $%s\n", acct.TotalWithdrawn.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Ads watched today: %d\n", acct.AdsWatchedOn(time.Now())))

	if len(txs) > 0 {
		sb.WriteString("\n📜 *Recent activity:*\n")
		for i, tx := range txs {
			if i == recentTransactionLimit {
				break
			}
			sb.WriteString(fmt.Sprintf("%s +$%s — %s\n", txIcon(tx.Type), tx.Amount.StringFixed(2), tx.Description))
		}
	}

	if err := telegram.Send(ctx, b, update.Message.Chat.ID, sb.String(), nil); err != nil {
		slog.Error("failed to send balance", "error", err)
	}
}

func txIcon(t domain.TxType) string {
	if t == domain.TxTypeReferralCommission {
		return "🤝"
	}
	return "🎬"
}

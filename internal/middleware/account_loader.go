package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/service"
)

type ctxKey string

const AccountKey ctxKey = "account"

// GetAccount extracts the loaded account from context.
func GetAccount(ctx context.Context) *domain.Account {
	a, ok := ctx.Value(AccountKey).(*domain.Account)
	if !ok {
		return nil
	}
	return a
}

// AccountLoader returns middleware that finds or creates the earning account
// of the update's sender and puts it into context.
func AccountLoader(accounts *service.AccountService) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			if update.Message != nil {
				from = update.Message.From
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
			}
			if from == nil {
				next(ctx, b, update)
				return
			}

			acct, _, err := accounts.FindOrCreate(ctx, from.ID, from.FirstName, from.Username)
			if err != nil {
				slog.Error("failed to load account", "telegram_id", from.ID, "error", err)
				next(ctx, b, update)
				return
			}
			next(context.WithValue(ctx, AccountKey, acct), b, update)
		}
	}
}

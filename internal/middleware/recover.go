package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Recover returns middleware that keeps a panicking handler from taking the
// bot down. Nothing in the engine is fatal to the process.
func Recover() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					var from int64
					if update.Message != nil && update.Message.From != nil {
						from = update.Message.From.ID
					} else if update.CallbackQuery != nil {
						from = update.CallbackQuery.From.ID
					}
					slog.Error("panic recovered in handler",
						"panic", r,
						"from", from,
						"stack", string(debug.Stack()),
					)
				}
			}()
			next(ctx, b, update)
		}
	}
}

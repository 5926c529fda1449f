package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Send sends a Markdown message, falling back to plain text when Telegram
// rejects the formatting.
func Send(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	_, err := b.SendMessage(ctx, params)
	if err != nil {
		slog.Warn("markdown send failed, falling back to plain text", "error", err)
		params.ParseMode = ""
		if _, err = b.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

// Edit rewrites a previously sent message, with the same Markdown fallback.
func Edit(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, kb *models.InlineKeyboardMarkup) error {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	_, err := b.EditMessageText(ctx, params)
	if err != nil {
		params.ParseMode = ""
		if _, err = b.EditMessageText(ctx, params); err != nil {
			return fmt.Errorf("edit message: %w", err)
		}
	}
	return nil
}

package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"

	"github.com/risknai/adrewards/internal/config"
)

// EventLog mirrors notable engine events into an admin Telegram chat,
// one forum topic per event class. Disabled when no chat is configured.
type EventLog struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewEventLog(b *bot.Bot, cfg *config.Config) *EventLog {
	return &EventLog{bot: b, cfg: cfg}
}

type EventType string

const (
	EventError    EventType = "error"
	EventReward   EventType = "reward"
	EventReferral EventType = "referral"
	EventSystem   EventType = "system"
)

func (l *EventLog) log(event EventType, message string) {
	if l.cfg.LogTelegramChatID == 0 {
		return
	}
	topicID := l.topicID(event)

	if len([]rune(message)) > config.MaxTelegramMessageLen {
		message = string([]rune(message)[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send event log message", "event", event, "error", err)
	}
}

func (l *EventLog) topicID(event EventType) int {
	switch event {
	case EventError:
		return l.cfg.LogTopicError
	case EventReward:
		return l.cfg.LogTopicReward
	case EventReferral:
		return l.cfg.LogTopicReferral
	case EventSystem:
		return l.cfg.LogTopicSystem
	}
	return 0
}

func (l *EventLog) LogError(err error, context string) {
	l.log(EventError, fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`", context, err.Error()))
}

func (l *EventLog) LogRegistration(telegramID int64, name, username, referrerID string) {
	msg := fmt.Sprintf("👤 *New Account*\n\n*ID:* `%d`\n*Name:* %s\n*Username:* @%s",
		telegramID, name, username)
	if referrerID != "" {
		msg += fmt.Sprintf("\n*Referred by:* `%s`", referrerID)
	}
	l.log(EventSystem, msg)
}

func (l *EventLog) LogReward(accountID string, provider string, amount float64) {
	l.log(EventReward, fmt.Sprintf("🎬 *Ad Reward*\n\n*Account:* `%s`\n*Provider:* %s\n*Amount:* $%.2f",
		accountID, provider, amount))
}

func (l *EventLog) LogCommission(referrerID, referredID string, amount float64) {
	l.log(EventReferral, fmt.Sprintf("👥 *Referral Commission*\n\n*Referrer:* `%s`\n*From:* `%s`\n*Amount:* $%.2f",
		referrerID, referredID, amount))
}

func (l *EventLog) LogConfigChange(adminID int64, provider, field, value string) {
	l.log(EventSystem, fmt.Sprintf("⚙️ *Config Change*\n\n*Admin:* `%d`\n*Provider:* %s\n*%s* → `%s`",
		adminID, provider, field, value))
}

func (l *EventLog) LogDailyReset(date string) {
	l.log(EventSystem, fmt.Sprintf("🔄 *Daily Reset*\n\nCounters cleared for *%s*", date))
}

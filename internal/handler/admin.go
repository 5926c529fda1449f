package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/telegram"
)

// handleAdConfig lets operators inspect and tune provider settings at runtime:
//
//	/adconfig                          list effective configs
//	/adconfig <provider> <field> <val> set one override field
//
// Fields: reward, daily, hourly, cooldown, minwatch, enabled, activation.
func (h *Handler) handleAdConfig(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	if !h.cfg.IsAdmin(update.Message.From.ID) {
		return
	}

	args := strings.Fields(update.Message.Text)[1:]
	if len(args) == 0 {
		h.sendProviderOverview(ctx, b, chatID)
		return
	}
	if len(args) != 3 {
		telegram.Send(ctx, b, chatID, "Usage: /adconfig <provider> <field> <value>", nil)
		return
	}

	id := domain.ProviderID(args[0])
	if _, ok := h.providers.Config(id); !ok {
		telegram.Send(ctx, b, chatID, fmt.Sprintf("Unknown provider: %s", args[0]), nil)
		return
	}

	override, _ := h.providers.Override(id)
	if err := applyOverrideField(&override, args[1], args[2]); err != nil {
		telegram.Send(ctx, b, chatID, "⚠️ "+err.Error(), nil)
		return
	}
	if err := h.providers.SetOverride(ctx, id, override); err != nil {
		slog.Error("failed to save provider override", "provider", id, "error", err)
		telegram.Send(ctx, b, chatID, "❌ Failed to save override", nil)
		return
	}

	h.events.LogConfigChange(update.Message.From.ID, string(id), args[1], args[2])
	telegram.Send(ctx, b, chatID, fmt.Sprintf("✅ %s.%s = %s", id, args[1], args[2]), nil)
}

func (h *Handler) sendProviderOverview(ctx context.Context, b *bot.Bot, chatID int64) {
	var sb strings.Builder
	sb.WriteString("⚙️ *Provider configuration*\n\n")
	for _, cfg := range h.providers.All() {
		state := "enabled"
		if !cfg.Enabled {
			state = "disabled"
		}
		sb.WriteString(fmt.Sprintf(
			"*%s* (%s)\nreward $%s | daily %d | hourly %d | cooldown %ds | minwatch %ds\n\n",
			cfg.ID, state, cfg.Reward.StringFixed(2),
			cfg.DailyLimit, cfg.HourlyLimit, cfg.CooldownSeconds, cfg.MinimumWatchSeconds,
		))
	}
	if err := telegram.Send(ctx, b, chatID, sb.String(), nil); err != nil {
		slog.Error("failed to send provider overview", "error", err)
	}
}

func applyOverrideField(o *domain.ProviderOverride, field, value string) error {
	switch field {
	case "reward":
		d, err := decimal.NewFromString(value)
		if err != nil || d.IsNegative() {
			return fmt.Errorf("reward must be a non-negative amount, got %q", value)
		}
		o.Reward = &d
	case "daily":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("daily must be a non-negative integer, got %q", value)
		}
		o.DailyLimit = &n
	case "hourly":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("hourly must be a non-negative integer, got %q", value)
		}
		o.HourlyLimit = &n
	case "cooldown":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("cooldown must be non-negative seconds, got %q", value)
		}
		o.CooldownSeconds = &n
	case "minwatch":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("minwatch must be non-negative seconds, got %q", value)
		}
		o.MinimumWatchSeconds = &n
	case "enabled":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("enabled must be true or false, got %q", value)
		}
		o.Enabled = &v
	case "activation":
		o.ActivationID = &value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

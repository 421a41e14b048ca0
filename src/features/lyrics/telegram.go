package lyrics

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"yamubot/src/features/metrics"
	"yamubot/src/music"
)

// TelegramHandler handles Telegram commands for the lyrics feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the lyrics feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes lyrics commands
func (h *TelegramHandler) HandleCommand(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "lyrics":
		key := strings.TrimSpace(args)
		if key == "" {
			bot.Send(tgbotapi.NewMessage(chatID, "📝 Usage: /lyrics <track id>"))
			return nil
		}
		return h.sendLyrics(ctx, bot, chatID, key)
	default:
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Unknown lyrics command. Use /lyrics <track id>"))
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"lyrics": "Show track lyrics (/lyrics <track id>)",
	}
}

// HandleCallback handles the per-search-result lyrics buttons
func (h *TelegramHandler) HandleCallback(ctx context.Context, bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	key, ok := strings.CutPrefix(callback.Data, "lyrics:")
	if !ok {
		return false
	}
	chatID := callback.Message.Chat.ID
	if err := h.sendLyrics(ctx, bot, chatID, key); err != nil {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Could not fetch lyrics"))
	}
	return true
}

// sendLyrics fetches and sends the lyrics, one message per chunk
func (h *TelegramHandler) sendLyrics(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, key string) error {
	metrics.CountCommand("lyrics")

	result, err := h.service.Get(ctx, chatID, key)
	if err != nil {
		if err == music.ErrNotAuthorized {
			bot.Send(tgbotapi.NewMessage(chatID, "🔑 You are not authorized yet. Use /auth first."))
			return nil
		}
		return err
	}
	if result == nil {
		bot.Send(tgbotapi.NewMessage(chatID, "🤷 No lyrics available for this track"))
		return nil
	}

	header := tgbotapi.NewMessage(chatID, fmt.Sprintf("📝 *%s*", result.Title))
	header.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(header)

	for _, chunk := range result.Chunks {
		if _, err := bot.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			return err
		}
	}
	return nil
}

package search

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"yamubot/src/features/metrics"
	"yamubot/src/music"
)

// TelegramHandler handles Telegram commands for the search feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the search feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes search commands. The hosting dispatcher also
// routes every non-command text message here as a "search" with the
// message text as args.
func (h *TelegramHandler) HandleCommand(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "search":
		return h.handleSearch(ctx, bot, chatID, args)
	default:
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Unknown search command. Use /search <query>"))
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"search": "Search tracks (/search <artist - title>)",
	}
}

// HandleCallback handles callback queries for this feature (search has no callbacks)
func (h *TelegramHandler) HandleCallback(ctx context.Context, bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}

// handleSearch runs a search and renders the result list with per-result
// lyrics buttons.
func (h *TelegramHandler) handleSearch(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, query string) error {
	metrics.CountCommand("search")

	if strings.TrimSpace(query) == "" {
		bot.Send(tgbotapi.NewMessage(chatID, "🔍 Send a track name, e.g. `Artist - Title`"))
		return nil
	}

	tracks, err := h.service.Search(ctx, chatID, query)
	if err != nil {
		if err == music.ErrNotAuthorized {
			bot.Send(tgbotapi.NewMessage(chatID, "🔑 You are not authorized yet. Use /auth first."))
			return nil
		}
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Search failed, try again later"))
		return err
	}
	if len(tracks) == 0 {
		bot.Send(tgbotapi.NewMessage(chatID, "🤷 Nothing found for that query"))
		return nil
	}

	var b strings.Builder
	b.WriteString("🔍 *Search results*\n\n")
	var buttons [][]tgbotapi.InlineKeyboardButton
	for i, track := range tracks {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, FormatTrack(track)))
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("📝 Lyrics %d", i+1), "lyrics:"+track.Key()),
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("❤️ Like %d", i+1), "like:"+track.Key()),
		})
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err = bot.Send(msg)
	return err
}

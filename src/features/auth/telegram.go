package auth

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"yamubot/src/features/metrics"
)

// TelegramHandler handles Telegram commands for the auth feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the auth feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes auth-related Telegram commands
func (h *TelegramHandler) HandleCommand(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "start":
		return h.handleStart(ctx, bot, chatID)
	case "auth":
		return h.handleAuth(ctx, bot, chatID, args)
	case "logout":
		return h.handleLogout(ctx, bot, chatID)
	default:
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Unknown auth command. Use /auth or /logout"))
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"start":  "Welcome and authorization status",
		"auth":   "Link your Yandex Music account (/auth [token])",
		"logout": "Unlink your Yandex Music account",
	}
}

// HandleCallback handles callback queries for this feature (auth has no callbacks)
func (h *TelegramHandler) HandleCallback(ctx context.Context, bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}

// handleStart greets the user and points them at /auth if needed
func (h *TelegramHandler) handleStart(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64) error {
	metrics.CountCommand("start")

	text := "👋 *Welcome to Yamubot!*\n\n" +
		"I show statistics about your Yandex Music listening, search tracks, " +
		"fetch lyrics and manage your playlists.\n\n"
	if h.service.IsAuthorized(ctx, chatID) {
		text += "✅ Your account is linked. Try /stats or just send me a track name."
	} else {
		text += "🔑 Link your account first with /auth."
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := bot.Send(msg)
	return err
}

// handleAuth stores a pasted token or hands out the OAuth link
func (h *TelegramHandler) handleAuth(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, args string) error {
	metrics.CountCommand("auth")

	if strings.TrimSpace(args) != "" {
		token := ExtractToken(args)
		if token == "" {
			bot.Send(tgbotapi.NewMessage(chatID, "❌ That does not look like a token. Paste the full redirect URL or the token itself."))
			return nil
		}
		if err := h.service.SaveToken(ctx, chatID, token); err != nil {
			bot.Send(tgbotapi.NewMessage(chatID, "❌ Could not store the token, try again"))
			return err
		}
		bot.Send(tgbotapi.NewMessage(chatID, "✅ Account linked. Try /stats!"))
		return nil
	}

	text := fmt.Sprintf("🔑 *Link your Yandex Music account*\n\n"+
		"1. Open [this authorization link](%s)\n"+
		"2. Log in and allow access\n"+
		"3. If the browser flow does not finish on its own, paste the "+
		"resulting URL here as `/auth <url>`",
		h.service.AuthorizeURL(chatID))

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	_, err := bot.Send(msg)
	return err
}

// handleLogout unlinks the account
func (h *TelegramHandler) handleLogout(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64) error {
	metrics.CountCommand("logout")

	if err := h.service.Logout(ctx, chatID); err != nil {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Could not unlink the account"))
		return err
	}
	bot.Send(tgbotapi.NewMessage(chatID, "👋 Account unlinked. Use /auth to link it again."))
	return nil
}

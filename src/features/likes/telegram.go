package likes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"yamubot/src/features/metrics"
	"yamubot/src/features/search"
	"yamubot/src/music"
)

// TelegramHandler handles Telegram commands for the likes feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the likes feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes likes-related Telegram commands
func (h *TelegramHandler) HandleCommand(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "liked":
		return h.showPage(ctx, bot, chatID, 0, 0)
	case "like":
		return h.handleLike(ctx, bot, chatID, args)
	case "artists":
		return h.handleArtists(ctx, bot, chatID)
	case "albums":
		return h.handleAlbums(ctx, bot, chatID)
	default:
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Unknown likes command. Use /liked, /like, /artists or /albums"))
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"liked":   "Browse your liked tracks",
		"like":    "Like a track (/like <id or name>)",
		"artists": "Show your liked artists",
		"albums":  "Show your liked albums",
	}
}

// HandleCallback handles the browser's prev/next buttons and the
// per-search-result like buttons
func (h *TelegramHandler) HandleCallback(ctx context.Context, bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	chatID := callback.Message.Chat.ID

	if key, ok := strings.CutPrefix(callback.Data, "like:"); ok {
		metrics.CountCommand("like")
		if err := h.service.LikeByKey(ctx, chatID, key); err != nil {
			bot.Send(tgbotapi.NewMessage(chatID, "❌ Could not like the track"))
		} else {
			bot.Send(tgbotapi.NewMessage(chatID, "❤️ Added to your likes"))
		}
		return true
	}

	if data, ok := strings.CutPrefix(callback.Data, "liked:"); ok {
		index, err := strconv.Atoi(data)
		if err != nil {
			return true
		}
		h.showPage(ctx, bot, chatID, index, callback.Message.MessageID)
		return true
	}
	return false
}

// showPage renders one liked track with navigation buttons. A non-zero
// messageID edits the existing browser message in place.
func (h *TelegramHandler) showPage(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, index int, messageID int) error {
	metrics.CountCommand("liked")

	page, err := h.service.LikedPage(ctx, chatID, index)
	if err != nil {
		if err == music.ErrNotAuthorized {
			bot.Send(tgbotapi.NewMessage(chatID, "🔑 You are not authorized yet. Use /auth first."))
			return nil
		}
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Could not fetch your liked tracks"))
		return err
	}
	if page == nil {
		bot.Send(tgbotapi.NewMessage(chatID, "💔 You have no liked tracks yet"))
		return nil
	}

	text := fmt.Sprintf("❤️ *Liked track %d of %d*\n\n", page.Index+1, page.Total)
	if page.Track != nil {
		text += search.FormatTrack(page.Track)
	} else {
		text += "_track unavailable_"
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Prev", fmt.Sprintf("liked:%d", page.Index-1)),
			tgbotapi.NewInlineKeyboardButtonData("Next ➡️", fmt.Sprintf("liked:%d", page.Index+1)),
		),
	)

	if messageID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
		edit.ParseMode = tgbotapi.ModeMarkdown
		edit.ReplyMarkup = &keyboard
		_, err = bot.Send(edit)
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	_, err = bot.Send(msg)
	return err
}

// handleLike likes a track by id or free-text name
func (h *TelegramHandler) handleLike(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, args string) error {
	metrics.CountCommand("like")

	args = strings.TrimSpace(args)
	if args == "" {
		bot.Send(tgbotapi.NewMessage(chatID, "❤️ Usage: /like <track id or name>"))
		return nil
	}

	track, err := h.service.Like(ctx, chatID, args)
	if err != nil {
		if err == music.ErrNotAuthorized {
			bot.Send(tgbotapi.NewMessage(chatID, "🔑 You are not authorized yet. Use /auth first."))
			return nil
		}
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Could not like the track"))
		return err
	}
	if track == nil {
		bot.Send(tgbotapi.NewMessage(chatID, "🤷 No track matched that"))
		return nil
	}
	bot.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("❤️ Liked: %s", search.FormatTrack(track))))
	return nil
}

// handleArtists lists the liked artists
func (h *TelegramHandler) handleArtists(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64) error {
	metrics.CountCommand("artists")

	artists, err := h.service.LikedArtists(ctx, chatID)
	if err != nil {
		if err == music.ErrNotAuthorized {
			bot.Send(tgbotapi.NewMessage(chatID, "🔑 You are not authorized yet. Use /auth first."))
			return nil
		}
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Could not fetch your liked artists"))
		return err
	}
	if len(artists) == 0 {
		bot.Send(tgbotapi.NewMessage(chatID, "🤷 You have no liked artists yet"))
		return nil
	}

	var b strings.Builder
	b.WriteString("🎤 *Your liked artists*\n\n")
	for i, a := range artists {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, a.Artist.Name))
	}
	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err = bot.Send(msg)
	return err
}

// handleAlbums lists the liked albums
func (h *TelegramHandler) handleAlbums(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64) error {
	metrics.CountCommand("albums")

	albums, err := h.service.LikedAlbums(ctx, chatID)
	if err != nil {
		if err == music.ErrNotAuthorized {
			bot.Send(tgbotapi.NewMessage(chatID, "🔑 You are not authorized yet. Use /auth first."))
			return nil
		}
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Could not fetch your liked albums"))
		return err
	}
	if len(albums) == 0 {
		bot.Send(tgbotapi.NewMessage(chatID, "🤷 You have no liked albums yet"))
		return nil
	}

	var b strings.Builder
	b.WriteString("💿 *Your liked albums*\n\n")
	for i, a := range albums {
		line := a.Album.Title
		if len(a.Album.Artists) > 0 && a.Album.Artists[0].Name != "" {
			line = a.Album.Artists[0].Name + " - " + line
		}
		if a.Album.Year > 0 {
			line += fmt.Sprintf(" (%d)", a.Album.Year)
		}
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, line))
	}
	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err = bot.Send(msg)
	return err
}

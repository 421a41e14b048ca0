package playlists

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

// openTrackLimit bounds how many tracks the browser renders per playlist.
const openTrackLimit = 25

// TelegramHandler handles Telegram commands for the playlists feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the playlists feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes playlist-related Telegram commands
func (h *TelegramHandler) HandleCommand(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "playlists":
		return h.handleList(ctx, bot, chatID)
	case "newplaylist":
		return h.handleCreate(ctx, bot, chatID, args)
	case "addtracks":
		return h.handleAddTracks(ctx, bot, chatID, args)
	default:
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Unknown playlists command. Use /playlists, /newplaylist or /addtracks"))
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"playlists":   "Browse your playlists",
		"newplaylist": "Create a playlist (/newplaylist <title>)",
		"addtracks":   "Add tracks by name (/addtracks <playlist> | <name>, <name>...)",
	}
}

// HandleCallback opens a playlist picked from the browse keyboard
func (h *TelegramHandler) HandleCallback(ctx context.Context, bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	data, ok := strings.CutPrefix(callback.Data, "playlist:")
	if !ok {
		return false
	}
	chatID := callback.Message.Chat.ID
	kind, err := strconv.Atoi(data)
	if err != nil {
		return true
	}
	if err := h.openPlaylist(ctx, bot, chatID, kind); err != nil {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Could not open the playlist"))
	}
	return true
}

// handleList shows the playlists as an inline keyboard
func (h *TelegramHandler) handleList(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64) error {
	metrics.CountCommand("playlists")

	playlists, err := h.service.List(ctx, chatID)
	if err != nil {
		if err == music.ErrNotAuthorized {
			bot.Send(tgbotapi.NewMessage(chatID, "🔑 You are not authorized yet. Use /auth first."))
			return nil
		}
		return err
	}
	if len(playlists) == 0 {
		bot.Send(tgbotapi.NewMessage(chatID, "🤷 You have no playlists yet. Create one with /newplaylist <title>"))
		return nil
	}

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, p := range playlists {
		label := fmt.Sprintf("%s (%d)", p.Title, p.TrackCount)
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("playlist:%d", p.Kind)),
		})
	}

	msg := tgbotapi.NewMessage(chatID, "🗂 *Your playlists*")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err = bot.Send(msg)
	return err
}

// openPlaylist renders the first tracks of one playlist
func (h *TelegramHandler) openPlaylist(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, kind int) error {
	playlist, tracks, err := h.service.Open(ctx, chatID, kind, openTrackLimit)
	if err != nil {
		return err
	}
	if playlist == nil {
		bot.Send(tgbotapi.NewMessage(chatID, "🤷 That playlist does not exist anymore"))
		return nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 *%s* (%d tracks)\n\n", playlist.Title, playlist.TrackCount))
	if len(tracks) == 0 {
		b.WriteString("_empty_")
	}
	for i, track := range tracks {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, search.FormatTrack(track)))
	}
	if playlist.TrackCount > len(tracks) && len(tracks) > 0 {
		b.WriteString(fmt.Sprintf("\n_...and %d more_", playlist.TrackCount-len(tracks)))
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err = bot.Send(msg)
	return err
}

// handleCreate creates a new playlist
func (h *TelegramHandler) handleCreate(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, args string) error {
	metrics.CountCommand("newplaylist")

	title := strings.TrimSpace(args)
	if title == "" {
		bot.Send(tgbotapi.NewMessage(chatID, "🗂 Usage: /newplaylist <title>"))
		return nil
	}

	playlist, err := h.service.Create(ctx, chatID, title)
	if err != nil {
		if err == music.ErrNotAuthorized {
			bot.Send(tgbotapi.NewMessage(chatID, "🔑 You are not authorized yet. Use /auth first."))
			return nil
		}
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Could not create the playlist"))
		return err
	}
	bot.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Created playlist \"%s\"", playlist.Title)))
	return nil
}

// handleAddTracks parses "<playlist> | <name>, <name>..." and adds the
// resolved tracks
func (h *TelegramHandler) handleAddTracks(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, args string) error {
	metrics.CountCommand("addtracks")

	title, rest, ok := strings.Cut(args, "|")
	title = strings.TrimSpace(title)
	if !ok || title == "" || strings.TrimSpace(rest) == "" {
		bot.Send(tgbotapi.NewMessage(chatID, "🗂 Usage: /addtracks <playlist> | <name>, <name>..."))
		return nil
	}
	names := strings.Split(rest, ",")

	result, err := h.service.AddTracks(ctx, chatID, title, names)
	if err != nil {
		if err == music.ErrNotAuthorized {
			bot.Send(tgbotapi.NewMessage(chatID, "🔑 You are not authorized yet. Use /auth first."))
			return nil
		}
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Could not add the tracks"))
		return err
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 *%s*\n", result.Playlist.Title))
	if len(result.Added) > 0 {
		b.WriteString(fmt.Sprintf("\n✅ Added %d:\n", len(result.Added)))
		for _, track := range result.Added {
			b.WriteString(fmt.Sprintf("• %s\n", search.FormatTrack(track)))
		}
	}
	if len(result.Missed) > 0 {
		b.WriteString(fmt.Sprintf("\n🤷 Not found: %s\n", strings.Join(result.Missed, ", ")))
	}
	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err = bot.Send(msg)
	return err
}

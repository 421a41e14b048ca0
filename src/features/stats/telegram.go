package stats

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"yamubot/src/features/metrics"
)

// TelegramHandler handles Telegram commands for the statistics feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the statistics feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes statistics-related Telegram commands
func (h *TelegramHandler) HandleCommand(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "stats":
		return h.handleStats(ctx, bot, chatID)
	default:
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Unknown statistics command. Use /stats"))
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"stats": "Show your listening statistics",
	}
}

// HandleCallback recomputes the summary when the menu button is pressed
func (h *TelegramHandler) HandleCallback(ctx context.Context, bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	if callback.Data != "menu:stats" {
		return false
	}
	h.handleStats(ctx, bot, callback.Message.Chat.ID)
	return true
}

// handleStats computes and renders the user's statistics summary
func (h *TelegramHandler) handleStats(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64) error {
	metrics.CountCommand("stats")

	waiting := tgbotapi.NewMessage(chatID, "⏳ Crunching your listening data...")
	sent, _ := bot.Send(waiting)

	summary := h.service.GetUserStatistics(ctx, chatID)

	msg := tgbotapi.NewMessage(chatID, formatSummary(summary))
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := bot.Send(msg)

	if sent.MessageID != 0 {
		bot.Request(tgbotapi.NewDeleteMessage(chatID, sent.MessageID))
	}
	return err
}

// formatSummary renders a summary as a Telegram Markdown message
func formatSummary(s Summary) string {
	var b strings.Builder

	b.WriteString("📊 *Your Music Statistics*\n\n")
	b.WriteString(fmt.Sprintf("❤️ Liked tracks: `%d`\n", s.LikedCount))
	b.WriteString(fmt.Sprintf("🆕 Liked last 30 days: `%d`\n", s.RecentLikes))
	b.WriteString(fmt.Sprintf("⏱ Listening time: `%d min` this week, `%d min` this month\n",
		s.ListeningMinutes.Week, s.ListeningMinutes.Month))

	b.WriteString(formatTop("🎤 Top Artists", s.TopArtists, "plays"))
	b.WriteString(formatTop("🎧 Top Genres (history)", s.TopGenresFromHistory, "plays"))
	b.WriteString(formatTop("📚 Top Genres (library)", s.TopGenresFromLibrary, "tracks"))

	return b.String()
}

func formatTop(title string, top []NameCount, unit string) string {
	if len(top) == 0 {
		return fmt.Sprintf("\n*%s*\n_no data_\n", title)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n*%s*\n", title))
	for i, entry := range top {
		b.WriteString(fmt.Sprintf("%d. %s `%d %s`\n", i+1, entry.Name, entry.Count, unit))
	}
	return b.String()
}

package hosting

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"yamubot/src/features/auth"
	"yamubot/src/features/config"
	"yamubot/src/features/likes"
	"yamubot/src/features/lyrics"
	"yamubot/src/features/playlists"
	"yamubot/src/features/search"
	"yamubot/src/features/stats"
)

// TelegramCommandHandler interface that each feature implements
type TelegramCommandHandler interface {
	HandleCommand(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, command string, args string) error
	GetCommands() map[string]string                                                                  // Returns command -> description mapping
	HandleCallback(ctx context.Context, bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool // Handle feature-specific callbacks
}

// commandMap routes commands to features.
var commandMap = map[string]string{
	"start":       "auth",
	"auth":        "auth",
	"logout":      "auth",
	"stats":       "stats",
	"search":      "search",
	"liked":       "likes",
	"like":        "likes",
	"artists":     "likes",
	"albums":      "likes",
	"lyrics":      "lyrics",
	"playlists":   "playlists",
	"newplaylist": "playlists",
	"addtracks":   "playlists",
	"config":      "config",
}

// TelegramBot handles Telegram bot operations
type TelegramBot struct {
	bot      *tgbotapi.BotAPI
	config   *config.Manager
	handlers map[string]TelegramCommandHandler
	updates  tgbotapi.UpdatesChannel
	stopChan chan struct{}
}

// NewTelegramBot creates a new Telegram bot instance
func NewTelegramBot(cfg *config.Manager, authService *auth.Service, statsService *stats.Service, searchService *search.Service, likesService *likes.Service, lyricsService *lyrics.Service, playlistsService *playlists.Service) (*TelegramBot, error) {
	telegramConfig := cfg.Get().Telegram

	if !telegramConfig.Enabled {
		return nil, fmt.Errorf("telegram bot is disabled in configuration")
	}

	if telegramConfig.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}

	bot, err := tgbotapi.NewBotAPI(telegramConfig.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	slog.Info("Telegram bot initialized", "username", bot.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	updates := bot.GetUpdatesChan(updateConfig)

	telegramBot := &TelegramBot{
		bot:      bot,
		config:   cfg,
		handlers: make(map[string]TelegramCommandHandler),
		updates:  updates,
		stopChan: make(chan struct{}),
	}

	// Register feature handlers
	telegramBot.RegisterHandler("auth", auth.NewTelegramHandler(authService))
	telegramBot.RegisterHandler("stats", stats.NewTelegramHandler(statsService))
	telegramBot.RegisterHandler("search", search.NewTelegramHandler(searchService))
	telegramBot.RegisterHandler("likes", likes.NewTelegramHandler(likesService))
	telegramBot.RegisterHandler("lyrics", lyrics.NewTelegramHandler(lyricsService))
	telegramBot.RegisterHandler("playlists", playlists.NewTelegramHandler(playlistsService))
	telegramBot.RegisterHandler("config", config.NewTelegramHandler(cfg))

	return telegramBot, nil
}

// RegisterHandler registers a feature's command handler
func (t *TelegramBot) RegisterHandler(feature string, handler TelegramCommandHandler) {
	t.handlers[feature] = handler
	slog.Debug("Registered Telegram handler", "feature", feature)
}

// Start begins listening for Telegram updates
func (t *TelegramBot) Start() {
	slog.Info("Starting Telegram bot listener")

	// In-flight handlers share a context cancelled on Stop.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		select {
		case update := <-t.updates:
			if update.Message != nil {
				go t.handleMessage(ctx, update)
			}
			if update.CallbackQuery != nil {
				go t.handleCallbackQuery(ctx, update)
			}
		case <-t.stopChan:
			slog.Info("Stopping Telegram bot listener")
			return
		}
	}
}

// Stop gracefully stops the bot
func (t *TelegramBot) Stop() {
	close(t.stopChan)
}

// handleMessage processes incoming messages
func (t *TelegramBot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID

	if message.IsCommand() {
		t.handleCommand(ctx, update)
		return
	}

	// Non-command text is a track search.
	if strings.TrimSpace(message.Text) != "" {
		if handler, ok := t.handlers["search"]; ok {
			if err := handler.HandleCommand(ctx, t.bot, chatID, "search", message.Text); err != nil {
				slog.Error("Failed to handle text search", "error", err)
			}
			return
		}
	}

	t.sendMessage(chatID, "🤖 Send /help to see available commands")
}

// handleCommand processes bot commands
func (t *TelegramBot) handleCommand(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID
	command := message.Command()
	args := message.CommandArguments()

	slog.Debug("Processing command", "command", command, "chat_id", chatID)

	switch command {
	case "help", "menu":
		t.handleHelp(chatID)
	default:
		if err := t.routeCommand(ctx, command, args, chatID); err != nil {
			slog.Error("Failed to handle command", "command", command, "error", err)
			t.sendMessage(chatID, "❌ Failed to process command")
		}
	}
}

// routeCommand routes commands to the appropriate feature handler
func (t *TelegramBot) routeCommand(ctx context.Context, command, args string, chatID int64) error {
	feature, exists := commandMap[command]
	if !exists {
		t.sendMessage(chatID, "❌ Unknown command. Send /help to see available commands.")
		return nil
	}

	handler, exists := t.handlers[feature]
	if !exists {
		t.sendMessage(chatID, fmt.Sprintf("❌ %s feature not available", feature))
		return nil
	}

	return handler.HandleCommand(ctx, t.bot, chatID, command, args)
}

// sendMessage sends a message to the specified chat
func (t *TelegramBot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := t.bot.Send(msg)
	if err != nil {
		slog.Error("Failed to send message", "error", err, "chat_id", chatID)
	}
}

// handleCallbackQuery handles callback queries from inline keyboards
func (t *TelegramBot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	callback := update.CallbackQuery
	t.dispatchCallback(ctx, callback)

	// Answer callback to remove loading state
	callbackResp := tgbotapi.NewCallback(callback.ID, "")
	t.bot.Request(callbackResp)
}

// dispatchCallback routes a callback to the feature handler that claims it.
// Inline-mode and expired callbacks carry no message to act on and are dropped.
func (t *TelegramBot) dispatchCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) bool {
	if callback.Message == nil {
		return false
	}
	for _, handler := range t.handlers {
		if handler.HandleCallback(ctx, t.bot, callback) {
			return true
		}
	}
	return false
}

// handleHelp lists every registered command
func (t *TelegramBot) handleHelp(chatID int64) {
	commands := make(map[string]string)
	for _, handler := range t.handlers {
		for command, description := range handler.GetCommands() {
			commands[command] = description
		}
	}

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("*🤖 Yamubot*\n\nSend me a track name to search, or use a command:\n\n")
	for _, name := range names {
		b.WriteString(fmt.Sprintf("/%s - %s\n", name, commands[name]))
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My statistics", "menu:stats"),
		),
	)
	_, err := t.bot.Send(msg)
	if err != nil {
		slog.Error("Failed to send help", "error", err, "chat_id", chatID)
	}
}

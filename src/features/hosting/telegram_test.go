package hosting

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type recordingHandler struct {
	callbacks int
}

func (h *recordingHandler) HandleCommand(ctx context.Context, bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	return nil
}

func (h *recordingHandler) GetCommands() map[string]string { return nil }

func (h *recordingHandler) HandleCallback(ctx context.Context, bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	h.callbacks++
	// Feature handlers read the attached message unguarded.
	_ = callback.Message.Chat.ID
	return true
}

func TestDispatchCallbackDropsMessagelessCallbacks(t *testing.T) {
	handler := &recordingHandler{}
	bot := &TelegramBot{handlers: map[string]TelegramCommandHandler{"stats": handler}}

	if bot.dispatchCallback(context.Background(), &tgbotapi.CallbackQuery{ID: "1", Data: "menu:stats"}) {
		t.Error("expected a message-less callback to be dropped")
	}
	if handler.callbacks != 0 {
		t.Errorf("expected no handler invocations, got %d", handler.callbacks)
	}
}

func TestDispatchCallbackReachesHandler(t *testing.T) {
	handler := &recordingHandler{}
	bot := &TelegramBot{handlers: map[string]TelegramCommandHandler{"stats": handler}}

	callback := &tgbotapi.CallbackQuery{
		ID:      "2",
		Data:    "menu:stats",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}},
	}
	if !bot.dispatchCallback(context.Background(), callback) {
		t.Error("expected the callback to reach the handler")
	}
	if handler.callbacks != 1 {
		t.Errorf("expected 1 handler invocation, got %d", handler.callbacks)
	}
}

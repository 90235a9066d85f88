// internal/notify/telegram.go
package notify

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxTelegramMessage = 4096

// Telegram is a send-only adapter that pushes operator alerts to a chat.
// Channel keys have the form "telegram:<chat_id>".
type Telegram struct {
	bot *tgbotapi.BotAPI
}

// NewTelegram creates a Telegram adapter with the given bot token.
func NewTelegram(token string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Telegram{bot: bot}, nil
}

// Send delivers a message to the chat encoded in the channel key.
func (t *Telegram) Send(channelKey, message string) error {
	idPart := strings.TrimPrefix(channelKey, "telegram:")
	chatID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram channel key %q: %w", channelKey, err)
	}

	if len(message) > maxTelegramMessage {
		message = message[:maxTelegramMessage]
	}

	if _, err := t.bot.Send(tgbotapi.NewMessage(chatID, message)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

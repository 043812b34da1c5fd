// Package telegram implements the ports.Notifier interface on top of the
// Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signalSniper/internal/ports"
)

// Client delivers alert messages to a Telegram chat using MarkdownV2.
type Client struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger ports.Logger
}

// Config holds configuration specific to the Telegram adapter.
type Config struct {
	BotToken string
	ChatID   string
	Logger   ports.Logger
}

// New creates a new Telegram notifier.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Telegram client")
	}
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return nil, fmt.Errorf("bot token and chat ID are required for Telegram client")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID %q: %w", cfg.ChatID, err)
	}

	return &Client{
		bot:    bot,
		chatID: chatID,
		logger: cfg.Logger,
	}, nil
}

// Send delivers the message body to the configured chat. The body is escaped
// for MarkdownV2 before sending; delivery failures are wrapped so the caller
// can retry on the next cycle.
func (c *Client) Send(ctx context.Context, message string) error {
	msg := tgbotapi.NewMessage(c.chatID, EscapeMarkdownV2(message))
	msg.ParseMode = "MarkdownV2"

	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("%w: %w", ports.ErrNotificationFailed, err)
	}
	c.logger.Debug(ctx, "Telegram message sent", map[string]interface{}{"chatID": c.chatID})
	return nil
}

// EscapeMarkdownV2 escapes the characters Telegram's MarkdownV2 mode treats
// as markup, so arbitrary alert bodies survive the parse mode untouched.
func EscapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}

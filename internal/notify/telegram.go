// Package notify delivers buyer notifications over Telegram and RabbitMQ.
package notify

import (
	"context"
	"fmt"

	"gopkg.in/telebot.v4"
)

// Sender is the part of *telebot.Bot used to deliver messages.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Telegram sends notifications as private chat messages.
type Telegram struct {
	sender Sender
}

// NewTelegram creates a Telegram notifier over the given sender.
func NewTelegram(sender Sender) *Telegram {
	return &Telegram{sender: sender}
}

// Notify sends message to the user's private chat. The telebot API is not
// context-aware, so ctx is only checked before sending.
func (t *Telegram) Notify(ctx context.Context, userID int64, message string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("telegram notification to %d: %w", userID, err)
	}
	if _, err := t.sender.Send(telebot.ChatID(userID), message, telebot.NoPreview); err != nil {
		return fmt.Errorf("failed to send telegram notification to %d: %w", userID, err)
	}
	return nil
}

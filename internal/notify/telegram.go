// Package notify announces draft picks to a Telegram chat.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/units"
)

// Sender is the part of *tgbotapi.BotAPI the announcer uses
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

const queueSize = 32

// Announcer posts pick messages from a background goroutine so draft
// operations never wait on Telegram.
type Announcer struct {
	sender Sender
	chatID int64
	queue  chan string
}

// NewTelegram connects to the bot API with token
func NewTelegram(token string, chatID int64) (*Announcer, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	logger.Info("Telegram announcer authorized", "username", bot.Self.UserName)
	return New(bot, chatID), nil
}

// New creates an announcer over any sender
func New(sender Sender, chatID int64) *Announcer {
	return &Announcer{sender: sender, chatID: chatID, queue: make(chan string, queueSize)}
}

// Run sends queued messages until ctx is done
func (a *Announcer) Run(ctx context.Context) {
	for {
		select {
		case text := <-a.queue:
			if err := a.send(text); err != nil {
				logger.Error("Failed to send telegram message", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// AnnouncePick queues a pick message. Drops the message if the queue is full.
func (a *Announcer) AnnouncePick(session string, pick models.DraftedPlayer, number int) {
	text := FormatPick(pick, number)
	select {
	case a.queue <- text:
	default:
		logger.Warn("Telegram queue full, dropping announcement", "session", session, "pick", number)
	}
}

// FormatPick renders a pick as a Markdown message. Names are escaped.
func FormatPick(pick models.DraftedPlayer, number int) string {
	return fmt.Sprintf("*Pick %d*: %s selects %s (%s)", number,
		escape(pick.Team), escape(pick.Name), escape(units.FormatPosition(pick.Position)))
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func (a *Announcer) send(text string) error {
	if a.chatID == 0 {
		return fmt.Errorf("chat ID not set")
	}
	msg := tgbotapi.NewMessage(a.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := a.sender.Send(msg)
	return err
}

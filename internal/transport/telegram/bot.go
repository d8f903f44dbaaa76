// Package telegram exposes the chat service to the bot owner over
// Telegram long polling. Each chat maps to its own conversation.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/ragchat/internal/config"
	"github.com/sandevgo/ragchat/internal/core"
	"github.com/sandevgo/ragchat/pkg/log"
)

const baseContextKey = "base_context"

// Asker answers a question within a conversation.
type Asker interface {
	Ask(ctx context.Context, question, conversationID string) (string, error)
}

type Bot struct {
	bot     *tele.Bot
	chat    Asker
	ownerID int64
}

func NewBot(ctx context.Context, cfg *config.TelegramConfig, chat Asker) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		chat:    chat,
		ownerID: cfg.OwnerID,
	}

	// Hand the signal-aware base context with its logger to handlers.
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Only the owner may talk to the bot.
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(_ context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	conversationID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	_ = c.Notify(tele.Typing)

	answer, err := b.chat.Ask(ctx, c.Text(), conversationID)
	if err != nil {
		if errors.Is(err, core.ErrEmptyQuestion) {
			return nil
		}
		logger.Error().Err(err).Str("conversation_id", conversationID).Msg("ask failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	return c.Send(answer)
}

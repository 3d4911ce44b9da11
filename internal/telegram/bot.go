// Package telegram connects the game to the Telegram Bot API using long polling.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/cesargomez89/lyricbot/internal/constants"
	"github.com/cesargomez89/lyricbot/internal/domain"
	"github.com/cesargomez89/lyricbot/internal/logger"
)

// API is the subset of tgbotapi.BotAPI the bot uses.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetSelf() tgbotapi.User
}

type apiWrapper struct {
	bot *tgbotapi.BotAPI
}

func (w *apiWrapper) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return w.bot.GetUpdatesChan(config)
}

func (w *apiWrapper) StopReceivingUpdates() {
	w.bot.StopReceivingUpdates()
}

func (w *apiWrapper) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return w.bot.Send(c)
}

func (w *apiWrapper) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return w.bot.Request(c)
}

func (w *apiWrapper) GetSelf() tgbotapi.User {
	return w.bot.Self
}

// APIFactory creates API instances (allows mocking)
type APIFactory func(token string, client *http.Client) (API, error)

var defaultAPIFactory APIFactory = func(token string, client *http.Client) (API, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, err
	}
	return &apiWrapper{bot: bot}, nil
}

// Handler consumes inbound events.
type Handler interface {
	Handle(ctx context.Context, ev domain.Event) error
}

// Bot receives updates and delivers replies. Every update is handled in its
// own goroutine.
type Bot struct {
	api         API
	logger      *logger.Logger
	cancel      context.CancelFunc
	PollTimeout int
	wg          sync.WaitGroup
}

func New(token string, log *logger.Logger) (*Bot, error) {
	return NewWithFactory(token, log, defaultAPIFactory)
}

// NewWithFactory creates a Bot with a custom API factory (for testing)
func NewWithFactory(token string, log *logger.Logger, factory APIFactory) (*Bot, error) {
	if token == "" {
		return nil, errors.New("telegram token is required")
	}
	if log == nil {
		log = logger.Default()
	}

	api, err := factory(token, http.DefaultClient)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	b := &Bot{
		api:         api,
		logger:      log.WithComponent("telegram"),
		PollTimeout: constants.DefaultPollTimeout,
	}
	b.logger.Info("Authorized", "username", api.GetSelf().UserName)
	return b, nil
}

// Start begins polling and dispatches updates to handler until ctx is
// cancelled or Stop is called.
func (b *Bot) Start(ctx context.Context, handler Handler) {
	ctx, b.cancel = context.WithCancel(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.PollTimeout
	updates := b.api.GetUpdatesChan(u)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				b.wg.Add(1)
				go func(update tgbotapi.Update) {
					defer b.wg.Done()
					// In-flight events finish even when polling stops.
					b.dispatch(context.WithoutCancel(ctx), handler, update)
				}(update)
			}
		}
	}()

	b.logger.Info("Polling started")
}

// Stop stops polling and waits for in-flight events.
func (b *Bot) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.api.StopReceivingUpdates()
	b.wg.Wait()
	b.logger.Info("Stopped")
}

func (b *Bot) dispatch(ctx context.Context, handler Handler, update tgbotapi.Update) {
	if cq := update.CallbackQuery; cq != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			b.logger.Debug("Failed to answer callback", "error", err)
		}
	}

	ev, ok := toEvent(update)
	if !ok {
		return
	}
	if err := handler.Handle(ctx, ev); err != nil {
		b.logger.Debug("Event handled with error", "chat_id", ev.ChatID, "error", err)
	}
}

// toEvent maps text messages and known button presses. Everything else is
// ignored.
func toEvent(update tgbotapi.Update) (domain.Event, bool) {
	if m := update.Message; m != nil && m.Chat != nil {
		if strings.TrimSpace(m.Text) == "" {
			return domain.Event{}, false
		}
		return domain.Event{
			Kind:   domain.EventText,
			ChatID: m.Chat.ID,
			User:   toUser(m.From),
			Text:   m.Text,
		}, true
	}

	if cq := update.CallbackQuery; cq != nil && cq.Message != nil && cq.Message.Chat != nil {
		action, ok := domain.ParseAction(cq.Data)
		if !ok {
			return domain.Event{}, false
		}
		return domain.Event{
			Kind:   domain.EventAction,
			ChatID: cq.Message.Chat.ID,
			User:   toUser(cq.From),
			Action: action,
		}, true
	}

	return domain.Event{}, false
}

func toUser(u *tgbotapi.User) domain.User {
	if u == nil {
		return domain.User{}
	}
	return domain.User{
		ID:        u.ID,
		Username:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// Send delivers a Markdown message. When Telegram rejects the request as
// malformed the same text is resent without a parse mode. Other failures are
// returned as is, since the message may already have been delivered.
func (b *Bot) Send(ctx context.Context, reply domain.Reply) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(reply.ChatID, reply.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if len(reply.Actions) > 0 {
		msg.ReplyMarkup = keyboard(reply.Actions)
	}

	_, err := b.api.Send(msg)
	if err == nil {
		return nil
	}
	if !markupRejected(err) {
		return fmt.Errorf("send telegram message: %w", err)
	}

	b.logger.Debug("Markdown rejected, retrying as plain text", "chat_id", reply.ChatID, "error", err)
	msg.ParseMode = ""
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// markupRejected reports whether Telegram answered with 400 Bad Request,
// which is how it refuses entities it cannot parse.
func markupRejected(err error) bool {
	var apiErr *tgbotapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest
}

// Typing shows the typing indicator in the chat.
func (b *Bot) Typing(ctx context.Context, chatID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
	return err
}

func keyboard(actions []domain.Action) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(actions))
	for _, a := range actions {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(a.Label(), string(a)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(buttons...))
}

// Package bot is the Telegram front-end. It shares the ledger service
// with the HTTP API: first contact seeds a default profile, /reset
// wipes it after an inline confirmation.
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	applog "finguide/internal/log"
	"finguide/internal/services"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	svc       *services.Ledger
	logger    *applog.Logger
	webAppURL string
	currency  string
}

func New(token, webAppURL, currency string, svc *services.Ledger, logger *applog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Bot{
		api:       api,
		svc:       svc,
		logger:    logger.WithComponent(applog.ComponentBot),
		webAppURL: webAppURL,
		currency:  currency,
	}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.logger.InfoContext(ctx, "Bot polling started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, m *tgbotapi.Message) {
	userID := m.From.ID

	switch m.Command() {
	case "start":
		profile, created := b.svc.EnsureUser(ctx, userID, m.From.UserName, m.From.FirstName)
		if created {
			b.logger.InfoContext(ctx, "New user registered", applog.FieldUserID, userID)
		}
		msg := tgbotapi.NewMessage(m.Chat.ID, welcomeMessage(profile.FirstName))
		msg.ParseMode = tgbotapi.ModeMarkdown
		if b.webAppURL != "" {
			msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonWebApp(
						"📊 Open finance tracker",
						tgbotapi.WebAppInfo{URL: fmt.Sprintf("%s?user_id=%d", b.webAppURL, userID)},
					),
				),
			)
		}
		b.send(ctx, msg)

	case "help":
		msg := tgbotapi.NewMessage(m.Chat.ID, helpMessage())
		msg.ParseMode = tgbotapi.ModeMarkdown
		b.send(ctx, msg)

	case "stats":
		profile, err := b.svc.UserData(ctx, userID)
		var text string
		if err != nil {
			text = "❌ No data found. Send /start to begin."
		} else {
			text = statsMessage(profile.Profile, b.currency)
		}
		msg := tgbotapi.NewMessage(m.Chat.ID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		b.send(ctx, msg)

	case "reset":
		msg := tgbotapi.NewMessage(m.Chat.ID,
			"⚠️ *Careful!* This wipes all of your financial data and cannot be undone. Continue?")
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Yes, reset", fmt.Sprintf("reset_confirm_%d", userID)),
				tgbotapi.NewInlineKeyboardButtonData("❌ No, cancel", fmt.Sprintf("reset_cancel_%d", userID)),
			),
		)
		b.send(ctx, msg)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	data := cq.Data
	if !strings.HasPrefix(data, "reset_") {
		return
	}
	userID := cq.From.ID

	switch {
	case strings.HasPrefix(data, "reset_confirm_"):
		b.svc.ResetUser(ctx, userID)
		b.answer(ctx, cq.ID, "✅ Data has been reset")
		b.send(ctx, tgbotapi.NewMessage(cq.Message.Chat.ID,
			"🗑️ All of your data was deleted. Send /start to begin again."))
	case strings.HasPrefix(data, "reset_cancel_"):
		b.answer(ctx, cq.ID, "❌ Reset cancelled")
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(cq.Message.Chat.ID, cq.Message.MessageID)); err != nil {
			b.logger.WarnContext(ctx, "Failed to delete confirmation message", applog.FieldError, err)
		}
	}
}

func (b *Bot) send(ctx context.Context, msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.ErrorContext(ctx, "Failed to send message",
			applog.FieldError, err, "chat_id", msg.ChatID)
	}
}

func (b *Bot) answer(ctx context.Context, callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.WarnContext(ctx, "Failed to answer callback", applog.FieldError, err)
	}
}

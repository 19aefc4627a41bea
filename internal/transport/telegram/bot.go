// Package telegram is the Telegram channel adapter: it translates long-poll
// updates into engine actions and renders replies with the quiz keyboard.
package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"quizbot/internal/model"
	"quizbot/internal/service"
)

const (
	btnNewQuestion = "Новый вопрос"
	btnGiveUp      = "Сдаться"
	btnScore       = "Мой счёт"

	msgInternalError = "Что-то пошло не так. Попробуйте ещё раз позже."
)

type Bot struct {
	api  *tgbotapi.BotAPI
	quiz *service.QuizService
}

func NewBot(token string, quiz *service.QuizService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Bot{api: api, quiz: quiz}, nil
}

// Run polls for updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) {
	log.Printf("telegram: authorized as @%s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	key := model.SessionKey{
		Channel: model.ChannelTelegram,
		UserID:  strconv.FormatInt(msg.Chat.ID, 10),
	}
	action := mapAction(msg.Command(), msg.Text)

	reply, err := b.quiz.HandleAction(ctx, key, action)
	if err != nil {
		log.Printf("telegram: handle %s for %s: %v", action.Type, key, err)
		b.send(msg.Chat.ID, msgInternalError)
		return
	}
	b.send(msg.Chat.ID, reply.Text)
}

// mapAction translates one inbound message into an engine action: the
// /start command, the three keyboard buttons, and everything else as an
// answer attempt.
func mapAction(command, text string) model.Action {
	if command == "start" {
		return model.Action{Type: model.ActionStart}
	}
	switch text {
	case btnNewQuestion:
		return model.Action{Type: model.ActionNewQuestion}
	case btnGiveUp:
		return model.Action{Type: model.ActionGiveUp}
	case btnScore:
		return model.Action{Type: model.ActionShowScore}
	default:
		return model.Action{Type: model.ActionSubmitAnswer, Text: text}
	}
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = quizKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("telegram: send: %v", err)
	}
}

func quizKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnNewQuestion),
			tgbotapi.NewKeyboardButton(btnGiveUp),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnScore),
		),
	)
}

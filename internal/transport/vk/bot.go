package vk

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"quizbot/internal/model"
	"quizbot/internal/service"
)

const (
	btnNewQuestion = "Новый вопрос"
	btnGiveUp      = "Сдаться"
	btnScore       = "Мой счёт"

	// btnStart is the label VK sends for the standard conversation start
	// button.
	btnStart = "Начать"

	msgInternalError = "Что-то пошло не так. Попробуйте ещё раз позже."
)

type Bot struct {
	client   *Client
	quiz     *service.QuizService
	keyboard string
}

func NewBot(token string, quiz *service.QuizService) (*Bot, error) {
	keyboard, err := quizKeyboard()
	if err != nil {
		return nil, fmt.Errorf("vk: build keyboard: %w", err)
	}
	return &Bot{
		client:   NewClient(token),
		quiz:     quiz,
		keyboard: keyboard,
	}, nil
}

// Run polls the long poll stream until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	log.Println("vk: long poll started")
	return b.client.Poll(ctx, func(msg Message) {
		b.handleMessage(ctx, msg)
	})
}

func (b *Bot) handleMessage(ctx context.Context, msg Message) {
	key := model.SessionKey{
		Channel: model.ChannelVK,
		UserID:  strconv.FormatInt(msg.UserID, 10),
	}
	action := mapAction(msg.Text)

	reply, err := b.quiz.HandleAction(ctx, key, action)
	if err != nil {
		log.Printf("vk: handle %s for %s: %v", action.Type, key, err)
		b.send(ctx, msg.UserID, msgInternalError)
		return
	}
	b.send(ctx, msg.UserID, reply.Text)
}

// mapAction translates a message text into an engine action: the start
// button, the three quiz buttons, and everything else as an answer attempt.
func mapAction(text string) model.Action {
	switch text {
	case btnStart:
		return model.Action{Type: model.ActionStart}
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

func (b *Bot) send(ctx context.Context, userID int64, text string) {
	if err := b.client.SendMessage(ctx, userID, text, b.keyboard); err != nil {
		log.Printf("vk: send to %d: %v", userID, err)
	}
}

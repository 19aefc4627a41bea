package service

import "fmt"

// Reply texts shared by both channel adapters. Button labels referenced in
// the texts match the keyboards the adapters render.
const (
	msgGreeting        = "Привет! Нажмите «Новый вопрос» чтобы начать викторину."
	msgNoQuestions     = "Вопросы ещё не загружены. Попробуйте позже."
	msgPressNewButton  = "Нажмите «Новый вопрос» чтобы начать"
	msgCorrectAnswer   = "Правильно! +1 балл"
	msgIncorrectAnswer = "Неправильно. Попробуйте ещё раз"
)

func questionReply(question string) string {
	return "Вопрос:\n" + question
}

func revealReply(answer string) string {
	return "Правильный ответ:\n" + answer
}

func scoreReply(score int64) string {
	return fmt.Sprintf("Ваш текущий счёт: %d", score)
}

package app

import (
	"quizbot/internal/cache"
	"quizbot/internal/corpus"
	"quizbot/internal/repository"
	"quizbot/internal/service"
)

// App bundles the wired dependencies shared by the channel adapters and the
// admin API. Attempts is nil when the attempt log is disabled.
type App struct {
	Corpus   *corpus.Corpus
	Store    cache.SessionStore
	Attempts repository.AttemptRepo
	Quiz     *service.QuizService
	Auth     *service.AuthService
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"quizbot/internal/cache"
	"quizbot/internal/corpus"
	"quizbot/internal/model"
	"quizbot/internal/repository"
)

// ErrInvalidAction means an adapter sent an action outside the engine's
// contract. This is a programming error in the adapter, not a user-facing
// condition.
var ErrInvalidAction = errors.New("invalid action")

// QuizService is the session state machine driven by the channel adapters.
// It owns no state of its own: the corpus is read-only and all session state
// lives in the session store, so concurrent calls for distinct session keys
// need no engine-level locking. Two concurrent events for the same key are
// not serialized — the store's last-write-wins Set and atomic Incr are the
// only consistency guarantees, and a stale current_question read answered
// against a just-replaced question is an accepted benign lost update.
type QuizService struct {
	corpus   *corpus.Corpus
	store    cache.SessionStore
	attempts repository.AttemptRepo
}

// NewQuizService creates the engine. attempts may be nil to disable the
// attempt log.
func NewQuizService(c *corpus.Corpus, store cache.SessionStore, attempts repository.AttemptRepo) *QuizService {
	return &QuizService{
		corpus:   c,
		store:    store,
		attempts: attempts,
	}
}

// HandleAction runs one state transition for the given session. Any error
// means the transition was aborted by a store failure (or a contract
// violation); the adapter renders a generic apology and no retry happens
// here. Wrong answers and "no active question" are ordinary replies, never
// errors.
func (s *QuizService) HandleAction(ctx context.Context, key model.SessionKey, action model.Action) (model.Reply, error) {
	switch action.Type {
	case model.ActionStart:
		return s.handleStart()
	case model.ActionNewQuestion:
		return s.handleNewQuestion(ctx, key)
	case model.ActionSubmitAnswer:
		return s.handleAnswer(ctx, key, action.Text)
	case model.ActionGiveUp:
		return s.handleGiveUp(ctx, key)
	case model.ActionShowScore:
		return s.handleShowScore(ctx, key)
	default:
		return model.Reply{}, fmt.Errorf("%w: %q", ErrInvalidAction, action.Type)
	}
}

func (s *QuizService) handleStart() (model.Reply, error) {
	if s.corpus.Len() == 0 {
		return model.Reply{Text: msgNoQuestions, State: model.StateNewQuestion}, nil
	}
	return model.Reply{Text: msgGreeting, State: model.StateNewQuestion}, nil
}

func (s *QuizService) handleNewQuestion(ctx context.Context, key model.SessionKey) (model.Reply, error) {
	question, err := s.issueQuestion(ctx, key)
	if err != nil {
		return model.Reply{}, err
	}
	if question == "" {
		return model.Reply{Text: msgNoQuestions, State: model.StateNewQuestion}, nil
	}
	return model.Reply{Text: questionReply(question), State: model.StateAnswerAttempt}, nil
}

func (s *QuizService) handleAnswer(ctx context.Context, key model.SessionKey, text string) (model.Reply, error) {
	question, active, err := s.store.GetQuestion(ctx, key)
	if err != nil {
		return model.Reply{}, err
	}
	if !active {
		return model.Reply{Text: msgPressNewButton, State: model.StateNewQuestion}, nil
	}

	answer, ok := s.corpus.Answer(question)
	if !ok {
		// The stored question predates the current corpus (e.g. the
		// question files changed across a restart). Drop it and ask the
		// user to start over.
		if err := s.store.ClearQuestion(ctx, key); err != nil {
			return model.Reply{}, err
		}
		return model.Reply{Text: msgPressNewButton, State: model.StateNewQuestion}, nil
	}

	// Case-insensitive, otherwise exact: no trimming, no fuzzy matching.
	if !strings.EqualFold(text, answer) {
		s.logAttempt(ctx, key, question, text, model.OutcomeIncorrect)
		return model.Reply{Text: msgIncorrectAnswer, State: model.StateAnswerAttempt}, nil
	}

	if _, err := s.store.IncrScore(ctx, key); err != nil {
		return model.Reply{}, err
	}
	if err := s.store.ClearQuestion(ctx, key); err != nil {
		return model.Reply{}, err
	}
	s.logAttempt(ctx, key, question, text, model.OutcomeCorrect)
	return model.Reply{Text: msgCorrectAnswer, State: model.StateNewQuestion}, nil
}

// handleGiveUp reveals the current answer and immediately issues a fresh
// question in the same turn. With no active question it degrades to a plain
// new-question request. The score is not penalized.
func (s *QuizService) handleGiveUp(ctx context.Context, key model.SessionKey) (model.Reply, error) {
	question, active, err := s.store.GetQuestion(ctx, key)
	if err != nil {
		return model.Reply{}, err
	}
	if !active {
		return s.handleNewQuestion(ctx, key)
	}

	answer, ok := s.corpus.Answer(question)
	if !ok {
		return s.handleNewQuestion(ctx, key)
	}
	s.logAttempt(ctx, key, question, "", model.OutcomeGaveUp)

	next, err := s.issueQuestion(ctx, key)
	if err != nil {
		return model.Reply{}, err
	}
	if next == "" {
		return model.Reply{Text: revealReply(answer), State: model.StateNewQuestion}, nil
	}
	return model.Reply{
		Text:  revealReply(answer) + "\n\n" + questionReply(next),
		State: model.StateAnswerAttempt,
	}, nil
}

// handleShowScore is side-effect-free: it reads the score and the session
// state and mutates nothing.
func (s *QuizService) handleShowScore(ctx context.Context, key model.SessionKey) (model.Reply, error) {
	score, err := s.store.GetScore(ctx, key)
	if err != nil {
		return model.Reply{}, err
	}
	_, active, err := s.store.GetQuestion(ctx, key)
	if err != nil {
		return model.Reply{}, err
	}

	state := model.StateNewQuestion
	if active {
		state = model.StateAnswerAttempt
	}
	return model.Reply{Text: scoreReply(score), State: state}, nil
}

// issueQuestion picks a random question and stores it as the session's
// current one, unconditionally replacing any prior question. Returns "" for
// an empty corpus without touching the store.
func (s *QuizService) issueQuestion(ctx context.Context, key model.SessionKey) (string, error) {
	question := s.corpus.Random()
	if question == "" {
		return "", nil
	}
	if err := s.store.SetQuestion(ctx, key, question); err != nil {
		return "", err
	}
	return question, nil
}

func (s *QuizService) logAttempt(ctx context.Context, key model.SessionKey, question, given string, outcome model.AttemptOutcome) {
	if s.attempts == nil {
		return
	}
	record := &model.AttemptRecord{
		Channel:     key.Channel,
		UserID:      key.UserID,
		Question:    question,
		GivenAnswer: given,
		Outcome:     outcome,
	}
	if err := s.attempts.Create(ctx, record); err != nil {
		log.Printf("attempt log: create: %v", err)
	}
}

package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"quizbot/internal/model"
)

// SessionStore holds the per-user quiz state: the active question and the
// cumulative score. An absent key is not an error — it reads as "no active
// question" and score 0. Any returned error is an infrastructure fault and
// aborts the current transition only; the process keeps serving.
type SessionStore interface {
	GetQuestion(ctx context.Context, key model.SessionKey) (string, bool, error)
	SetQuestion(ctx context.Context, key model.SessionKey, question string) error
	ClearQuestion(ctx context.Context, key model.SessionKey) error
	IncrScore(ctx context.Context, key model.SessionKey) (int64, error)
	GetScore(ctx context.Context, key model.SessionKey) (int64, error)
}

type sessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(client *redis.Client) SessionStore {
	return &sessionStore{client: client}
}

// Key scheme: <channel>-quiz:<user_id>:current_question and
// <channel>-quiz:<user_id>:score. Wire-compatible with earlier deployments
// of the quiz, so existing scores survive an upgrade.
func questionKey(key model.SessionKey) string {
	return fmt.Sprintf("%s-quiz:%s:current_question", key.Channel, key.UserID)
}

func scoreKey(key model.SessionKey) string {
	return fmt.Sprintf("%s-quiz:%s:score", key.Channel, key.UserID)
}

func (s *sessionStore) GetQuestion(ctx context.Context, key model.SessionKey) (string, bool, error) {
	question, err := s.client.Get(ctx, questionKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErr(err)
	}
	return question, true, nil
}

func (s *sessionStore) SetQuestion(ctx context.Context, key model.SessionKey, question string) error {
	// No TTL: the store is the system of record for session state.
	if err := s.client.Set(ctx, questionKey(key), question, 0).Err(); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *sessionStore) ClearQuestion(ctx context.Context, key model.SessionKey) error {
	if err := s.client.Del(ctx, questionKey(key)).Err(); err != nil {
		return storeErr(err)
	}
	return nil
}

// IncrScore relies on Redis INCR being atomic; the engine never does a
// read-modify-write on the score.
func (s *sessionStore) IncrScore(ctx context.Context, key model.SessionKey) (int64, error) {
	score, err := s.client.Incr(ctx, scoreKey(key)).Result()
	if err != nil {
		return 0, storeErr(err)
	}
	return score, nil
}

func (s *sessionStore) GetScore(ctx context.Context, key model.SessionKey) (int64, error) {
	score, err := s.client.Get(ctx, scoreKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, storeErr(err)
	}
	return score, nil
}

func storeErr(err error) error {
	return fmt.Errorf("session store: %w", err)
}

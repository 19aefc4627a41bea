package model

import "fmt"

// Channel identifies the chat transport a session belongs to.
type Channel string

const (
	ChannelTelegram Channel = "tg"
	ChannelVK       Channel = "vk"
)

// SessionKey scopes all stored session state to one user on one transport,
// so the same human talking to both bots holds two independent sessions.
type SessionKey struct {
	Channel Channel
	UserID  string
}

func (k SessionKey) String() string {
	return fmt.Sprintf("%s:%s", k.Channel, k.UserID)
}

// State describes where a session is in the conversation loop.
type State string

const (
	// StateNewQuestion: no active question, the user is expected to
	// request one.
	StateNewQuestion State = "NEW_QUESTION"
	// StateAnswerAttempt: a question is active, the user is expected to
	// answer it, give up, or check the score.
	StateAnswerAttempt State = "ANSWER_ATTEMPT"
)

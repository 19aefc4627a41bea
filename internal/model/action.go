package model

// ActionType enumerates the closed set of user actions the engine accepts.
type ActionType string

const (
	ActionStart        ActionType = "START"
	ActionNewQuestion  ActionType = "NEW_QUESTION"
	ActionSubmitAnswer ActionType = "SUBMIT_ANSWER"
	ActionGiveUp       ActionType = "GIVE_UP"
	ActionShowScore    ActionType = "SHOW_SCORE"
)

// Action is a single user event translated by a channel adapter.
// Text is set for ActionSubmitAnswer only.
type Action struct {
	Type ActionType
	Text string
}

// Reply is the engine's response to one action: the text to render and the
// session state after the transition.
type Reply struct {
	Text  string
	State State
}

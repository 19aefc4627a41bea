package model

import "time"

// AttemptOutcome classifies how one answer attempt ended.
type AttemptOutcome string

const (
	OutcomeCorrect   AttemptOutcome = "correct"
	OutcomeIncorrect AttemptOutcome = "incorrect"
	OutcomeGaveUp    AttemptOutcome = "gave_up"
)

// AttemptRecord is one logged answer attempt or give-up. The log is an
// audit trail only; session state lives in the session store.
type AttemptRecord struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	Channel     Channel        `json:"channel" bson:"channel"`
	UserID      string         `json:"userId" bson:"userId"`
	Question    string         `json:"question" bson:"question"`
	GivenAnswer string         `json:"givenAnswer,omitempty" bson:"givenAnswer,omitempty"`
	Outcome     AttemptOutcome `json:"outcome" bson:"outcome"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
}

// AttemptStats is an aggregate over the attempt log, served by the admin API.
type AttemptStats struct {
	Total   int64 `json:"total"`
	Correct int64 `json:"correct"`
	GaveUp  int64 `json:"gaveUp"`
}

package telegram

import (
	"testing"

	"github.com/stretchr/testify/require"

	"quizbot/internal/model"
)

func TestMapAction(t *testing.T) {
	cases := []struct {
		name    string
		command string
		text    string
		want    model.Action
	}{
		{"start command", "start", "/start", model.Action{Type: model.ActionStart}},
		{"new question button", "", btnNewQuestion, model.Action{Type: model.ActionNewQuestion}},
		{"give up button", "", btnGiveUp, model.Action{Type: model.ActionGiveUp}},
		{"score button", "", btnScore, model.Action{Type: model.ActionShowScore}},
		{"free text is an answer", "", "Париж", model.Action{Type: model.ActionSubmitAnswer, Text: "Париж"}},
		{"button-like text with extra words is an answer", "", "Новый вопрос?", model.Action{Type: model.ActionSubmitAnswer, Text: "Новый вопрос?"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, mapAction(tc.command, tc.text))
		})
	}
}

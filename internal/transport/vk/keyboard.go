package vk

import "encoding/json"

// Keyboard JSON per the VK Bots API.
type keyboardMarkup struct {
	OneTime bool               `json:"one_time"`
	Buttons [][]keyboardButton `json:"buttons"`
}

type keyboardButton struct {
	Action keyboardAction `json:"action"`
	Color  string         `json:"color"`
}

type keyboardAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

func textButton(label, color string) keyboardButton {
	return keyboardButton{
		Action: keyboardAction{Type: "text", Label: label},
		Color:  color,
	}
}

// quizKeyboard serializes the persistent three-button quiz keyboard.
func quizKeyboard() (string, error) {
	markup := keyboardMarkup{
		OneTime: false,
		Buttons: [][]keyboardButton{
			{
				textButton(btnNewQuestion, "primary"),
				textButton(btnGiveUp, "negative"),
			},
			{
				textButton(btnScore, "secondary"),
			},
		},
	}

	data, err := json.Marshal(markup)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

package handler

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"quizbot/internal/cache"
	"quizbot/internal/model"
	"quizbot/internal/repository"
	"quizbot/internal/transport/rest/middleware"
)

// PlayerHandler exposes one user's session state to operators.
type PlayerHandler struct {
	store    cache.SessionStore
	attempts repository.AttemptRepo
}

func NewPlayerHandler(store cache.SessionStore, attempts repository.AttemptRepo) *PlayerHandler {
	return &PlayerHandler{store: store, attempts: attempts}
}

type playerResponse struct {
	Channel         model.Channel `json:"channel"`
	UserID          string        `json:"userId"`
	Score           int64         `json:"score"`
	State           model.State   `json:"state"`
	CurrentQuestion string        `json:"currentQuestion,omitempty"`
	Attempts        *int64        `json:"attempts,omitempty"`
}

// GetScore handles GET /v1/players/{channel}/{user}/score.
func (h *PlayerHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	channel := model.Channel(vars["channel"])
	if channel != model.ChannelTelegram && channel != model.ChannelVK {
		writeError(w, http.StatusBadRequest, "unknown channel")
		return
	}
	key := model.SessionKey{Channel: channel, UserID: vars["user"]}
	log.Printf("admin: %s inspected session %s", middleware.GetOperatorID(r.Context()), key)

	score, err := h.store.GetScore(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}
	question, active, err := h.store.GetQuestion(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}

	resp := playerResponse{
		Channel: key.Channel,
		UserID:  key.UserID,
		Score:   score,
		State:   model.StateNewQuestion,
	}
	if active {
		resp.State = model.StateAnswerAttempt
		resp.CurrentQuestion = question
	}

	if h.attempts != nil {
		if n, err := h.attempts.CountByUser(r.Context(), key.Channel, key.UserID); err == nil {
			resp.Attempts = &n
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

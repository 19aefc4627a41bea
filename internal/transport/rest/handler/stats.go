package handler

import (
	"net/http"

	"quizbot/internal/corpus"
	"quizbot/internal/model"
	"quizbot/internal/repository"
)

// StatsHandler serves corpus and attempt-log aggregates for operators.
type StatsHandler struct {
	corpus   *corpus.Corpus
	attempts repository.AttemptRepo
}

func NewStatsHandler(c *corpus.Corpus, attempts repository.AttemptRepo) *StatsHandler {
	return &StatsHandler{corpus: c, attempts: attempts}
}

type statsResponse struct {
	Questions int                 `json:"questions"`
	Attempts  *model.AttemptStats `json:"attempts,omitempty"`
}

// Get handles GET /v1/stats.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{Questions: h.corpus.Len()}

	if h.attempts != nil {
		stats, err := h.attempts.Stats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "attempt stats unavailable")
			return
		}
		resp.Attempts = stats
	}

	writeJSON(w, http.StatusOK, resp)
}

// Package rest is the admin/ops HTTP surface: health, operator login, corpus
// and attempt stats, per-user session inspection. It never drives the quiz —
// that is the chat adapters' job.
package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"quizbot/internal/app"
	"quizbot/internal/transport/rest/handler"
	"quizbot/internal/transport/rest/middleware"
)

// NewRouter creates the admin API router.
func NewRouter(a *app.App) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(a.Auth)
	statsHandler := handler.NewStatsHandler(a.Corpus, a.Attempts)
	playerHandler := handler.NewPlayerHandler(a.Store, a.Attempts)

	authMW := middleware.NewAuthMiddleware(a.Auth)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	ops := v1.NewRoute().Subrouter()
	ops.Use(authMW.RequireOperator)
	ops.HandleFunc("/stats", statsHandler.Get).Methods("GET")
	ops.HandleFunc("/players/{channel}/{user}/score", playerHandler.GetScore).Methods("GET")

	return r
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(apiHandler *APIHandler, static *StaticHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling
	r.Use(RequestID)

	// The front-end may be hosted separately during development.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", apiHandler.ChatHandler)
		r.Get("/history", apiHandler.HistoryHandler)
		r.Get("/recent-chats", apiHandler.RecentChatsHandler)
		r.Post("/user", apiHandler.CreateUserHandler)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	// Everything outside /api is the static front-end.
	r.Handle("/*", static)

	return r
}

package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "vectorchat/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures the chi router with all application routes.
func NewRouter(chatHandler *ChatHandler, dirHandler *DirectoryHandler, searchHandler *SearchHandler, auth func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Unknown routes answer with the JSON envelope rather than a bare 404.
	notFound := func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusNotFound, APIResponse{Success: false, Error: "Not found"})
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Health check endpoint for container orchestration probes.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(auth)
		r.NotFound(notFound)
		r.MethodNotAllowed(notFound)

		// Standard JSON routes get a request timeout so connections cannot
		// hang indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/chat/{sessionID}/messages", chatHandler.GetMessages)
			r.Delete("/chat/{sessionID}/clear", chatHandler.HandleClear)
			r.Post("/chat/{sessionID}/model", chatHandler.HandleModel)

			r.Get("/sessions", dirHandler.ListSessions)
			r.Post("/sessions", dirHandler.CreateSession)
			r.Delete("/sessions", dirHandler.ClearSessions)
			r.Get("/sessions/stats", dirHandler.SessionStats)
			r.Delete("/sessions/{sessionID}", dirHandler.DeleteSession)
			r.Put("/sessions/{sessionID}/title", dirHandler.RenameSession)

			r.Post("/search", searchHandler.Search)
			r.Get("/records", searchHandler.ListRecords)
		})

		// The chat submission route streams and must not carry the timeout
		// middleware; the actor's own watchdog bounds the engine call.
		r.Group(func(r chi.Router) {
			r.Post("/chat/{sessionID}/chat", chatHandler.HandleChat)
		})
	})

	return r
}

package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every REST route onto a chi router.
func NewRouter(logger *slog.Logger, games gameUseCase) http.Handler {
	handler := NewGameHandler(logger, games)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(logger))

	router.Get("/ping", pingHandler)

	router.Post("/create", handler.CreateGame)
	router.Get("/games", handler.ListGames)
	router.Get("/game/{id}", handler.GetGame)
	router.Post("/move/{id}", handler.MakeTurn)
	router.Post("/opponent/{id}", handler.MakeOpponentTurn)

	router.Route("/api", func(r chi.Router) {
		r.Get("/stats", handler.Stats)
		r.Get("/games", handler.ListRecords)
		r.Post("/games", handler.RecordGame)
	})

	return router
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With("component", "http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Debug("request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"requestID", middleware.GetReqID(r.Context()),
			)
		})
	}
}

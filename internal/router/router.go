package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"edid-backend/internal/handlers"
	"edid-backend/internal/middleware"
)

func New(
	systemHandler *handlers.SystemHandler,
	geminiHandler *handlers.GeminiHandler,
	allowedOrigins []string,
	log logrus.FieldLogger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(allowedOrigins))

	r.Get(handlers.PathHealth, systemHandler.Health)
	r.Get(handlers.PathRoot, systemHandler.Root)

	// ──── Gemini Proxy ────
	r.Route("/api/gemini", func(r chi.Router) {
		r.Post("/analyze", geminiHandler.Analyze)
	})

	return r
}

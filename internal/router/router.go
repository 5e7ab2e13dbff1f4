// internal/router/router.go
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/pickmybite/internal/api/auth"
	"github.com/FACorreiaa/pickmybite/internal/api/history"
	"github.com/FACorreiaa/pickmybite/internal/api/photo"
	"github.com/FACorreiaa/pickmybite/internal/api/recommend"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler      *auth.Handler
	HistoryHandler   *history.Handler
	RecommendHandler *recommend.Handler
	PhotoHandler     *photo.Handler

	AuthenticateMiddleware      func(http.Handler) http.Handler
	MaybeAuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied *before* mounting this router in main.go. Routes are kept at the
// root so existing mobile clients don't need an /api prefix.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Heartbeat/health check (public)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	// --- Public auth routes ---
	r.Group(func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	// --- Pick: works anonymously, uses history when a token is present ---
	r.Group(func(r chi.Router) {
		r.Use(cfg.MaybeAuthenticateMiddleware)
		r.Post("/pick", cfg.RecommendHandler.Pick)
	})

	// Photo proxy (public; the upstream key stays server-side)
	r.Get("/photo", cfg.PhotoHandler.GetPhoto)

	// --- Protected routes ---
	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthenticateMiddleware)
		r.Post("/history/add", cfg.HistoryHandler.AddVisit)
		r.Get("/history/get", cfg.HistoryHandler.GetHistory)
	})

	return r
}

package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type RouterConfig struct {
	JWTSecret   string
	CORSOrigins []string
	// requests por IP en RateWindow; 0 desactiva el límite
	RateLimit  int
	RateWindow time.Duration
}

type Handlers struct {
	Auth      *AuthHandler
	Movie     *MovieHandler
	Rating    *RatingHandler
	Recommend *RecommendHandler
	System    *SystemHandler
}

func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Endpoint no encontrado")
	})

	// fuera del rate limit
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/api/health", h.System.Health)

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit, cfg.RateWindow))
		}

		// =============
		// Rutas públicas
		// =============
		r.Get("/methods", h.Recommend.Methods)
		r.Get("/stats", h.System.Stats)

		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		r.Get("/movies", h.Movie.List)
		r.Get("/movies/{id}", h.Movie.Detail)
		r.Get("/search", h.Movie.Search)
		r.Get("/genres", h.Movie.Genres)
		r.Get("/genres/{genre}", h.Movie.ByGenre)
		r.Get("/genre-recommendations", h.Movie.GenreRecommendations)

		r.Get("/recommendations/{id}", h.Recommend.ForMovie)
		r.Get("/user-recommendations/{id}", h.Recommend.ForUser)
		r.Get("/similarity/{id1}/{id2}", h.Recommend.Similarity)
		r.Get("/ws/user-recommendations/{id}", h.Recommend.ForUserWS)

		// ===========================
		// Rutas protegidas con JWT
		// ===========================
		r.Group(func(r chi.Router) {
			r.Use(JWTAuth(cfg.JWTSecret))

			r.Route("/me", func(r chi.Router) {
				r.Get("/", h.Auth.Me)
				r.Get("/ratings", h.Rating.GetMyRatings)
				r.Post("/ratings", h.Rating.PostMyRating)
				r.Get("/recommendations", h.Recommend.Mine)
				r.Get("/history", h.Recommend.History)
			})

			// ---- solo ADMIN ----
			r.Group(func(r chi.Router) {
				r.Use(AdminOnly())
				r.Post("/admin/init", h.System.Init)
				r.Post("/admin/cache/clear", h.System.ClearCache)
			})
		})
	})

	return r
}

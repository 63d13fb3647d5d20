package router

import (
	"net/http"
	"time"

	"github.com/actuallystonmai/catalog-recommender/internal/auth"
	"github.com/actuallystonmai/catalog-recommender/internal/domain"
	"github.com/actuallystonmai/catalog-recommender/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
}

func Setup(h *handler.Handler, tokens *auth.TokenManager, opts Options) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(RequestID)
	r.Use(AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	// Routes
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(middleware.Timeout(opts.RequestTimeout))
		}
		if opts.RateLimitRequests > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimitRequests, opts.RateLimitWindow))
		}

		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.Post("/movies", h.ByGenres(domain.KindMovie))
		r.Post("/series", h.ByGenres(domain.KindSerie))
		r.Post("/nlp-recommendations", h.Similar)
		r.Get("/users/{userID}/recommendations/{kind}", h.GetRecommendations)
		r.Get("/recommendations/batch", h.GetBatchRecommendations)

		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware(handler.Unauthorized))
			r.Post("/first-access", h.FirstAccess)
			r.Put("/users/{userID}/ratings/{kind}/{itemID}", h.RateItem)
		})
	})

	return r
}

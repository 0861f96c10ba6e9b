package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"roomtoken/internal/pkg/limiter"
	"roomtoken/internal/pkg/logx"
	"roomtoken/internal/pkg/resp"
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It configures CORS, request logging and per-IP rate limiting on the token routes.
// The limiter's background cleanup stops when ctx is done.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	issueLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(deps.Config.IssueRate), deps.Config.IssueBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Room token server is running. Request /api/token to get a token.\n"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "roomtoken",
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	issue := issueLimiter.Middleware(HandleIssueToken(deps))

	r.Route("/api", func(api chi.Router) {
		api.Method(http.MethodGet, "/token", issue)
		api.Method(http.MethodPost, "/token", issue)

		// Path used by earlier clients.
		api.Method(http.MethodGet, "/skyway-token", issue)
	})

	return r
}

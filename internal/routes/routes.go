package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/fittrack-backend/internal/handlers"
	"github.com/AnshRaj112/fittrack-backend/internal/middleware"
)

// Options carries what the route table needs besides the handlers.
type Options struct {
	Sessions      middleware.SessionResolver
	SessionCookie string
	Redis         *redis.Client // API rate limit; nil disables it
	Ready         map[string]handlers.Pinger
}

func SetupRoutes(r chi.Router, h *handlers.Handler, opts Options) {
	// Probes and metrics
	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready(opts.Ready))
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", handlers.Static())

	// Public pages and auth
	r.Get("/", h.Index)
	r.Get("/register", h.RegisterPage)
	r.Post("/register", h.Register)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)

	requireAuth := middleware.RequireAuth(opts.Sessions, opts.SessionCookie)

	// Pages
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/dashboard", h.Dashboard)
		r.Get("/workout-planner", h.WorkoutPlanner)
		r.Get("/nutrition-tracker", h.NutritionTracker)
		r.Get("/progress-tracker", h.ProgressTracker)
		r.Get("/prediction-tool", h.PredictionTool)
	})

	// JSON API
	r.Route("/api", func(r chi.Router) {
		if opts.Redis != nil {
			r.Use(middleware.APIRateLimit(opts.Redis, middleware.RateLimitMaxRequests, middleware.RateLimitWindow))
		}
		r.Use(requireAuth)

		r.Get("/workout/templates", h.ListTemplates)
		r.Post("/workout/select-template", h.SelectTemplate)

		r.Get("/foods", h.ListFoods)
		r.Post("/nutrition/log", h.LogFood)
		r.Get("/nutrition/summary", h.NutritionSummary)

		r.Post("/progress/log", h.LogProgress)
		r.Get("/progress/data", h.ProgressData)
		r.Post("/progress/{id}/photo", h.UploadProgressPhoto)

		r.Post("/predict-weight", h.PredictWeight)
		r.Get("/predictions/history", h.PredictionHistory)
	})
}

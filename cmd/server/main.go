package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/AnshRaj112/fittrack-backend/internal/config"
	"github.com/AnshRaj112/fittrack-backend/internal/database"
	"github.com/AnshRaj112/fittrack-backend/internal/handlers"
	"github.com/AnshRaj112/fittrack-backend/internal/middleware"
	"github.com/AnshRaj112/fittrack-backend/internal/predictor"
	"github.com/AnshRaj112/fittrack-backend/internal/repository"
	"github.com/AnshRaj112/fittrack-backend/internal/routes"
	"github.com/AnshRaj112/fittrack-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() && cfg.SessionSecret == "dev-session-secret-change-in-production" {
		return errors.New("SESSION_SECRET must be set in production")
	}

	// PostgreSQL
	db, err := database.ConnectPostgres(ctx, cfg.PostgresURI)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.RunMigrations(cfg.PostgresURI); err != nil {
		return err
	}

	// Redis
	rdb, err := database.ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// MongoDB is optional; without it prediction history is not kept.
	var history services.PredictionHistory
	if cfg.MongoURI != "" {
		client, mdb, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			slog.Warn("mongodb unavailable, prediction history disabled", slog.String("error", err.Error()))
		} else {
			defer database.DisconnectMongo(client)
			mongoHistory := services.NewMongoHistory(mdb)
			if err := mongoHistory.EnsureIndexes(ctx); err != nil {
				slog.Warn("failed to ensure prediction history indexes", slog.String("error", err.Error()))
			}
			history = mongoHistory
		}
	} else {
		slog.Warn("MONGODB_URI not set, prediction history disabled")
	}

	// Cloudinary is optional; without it photo uploads answer 503.
	var photos services.PhotoUploader
	if cfg.CloudinaryEnabled() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			slog.Warn("failed to initialize cloudinary, photo uploads disabled", slog.String("error", err.Error()))
		} else {
			photos = cld
		}
	} else {
		slog.Warn("cloudinary credentials not found, photo uploads disabled")
	}

	model, err := predictor.Load(cfg.ModelPath, cfg.ModelURL)
	if err != nil {
		slog.Error("failed to load prediction model", slog.String("error", err.Error()))
		model = nil
	}

	clock := services.NewClock(cfg.Timezone)
	users := repository.NewUserRepository(db)
	sessions := services.NewSessionStore(rdb, cfg.SessionTTL)

	authService := services.NewAuthService(users, sessions)
	workoutService := services.NewWorkoutService(repository.NewWorkoutRepository(db))
	nutritionService := services.NewNutritionService(
		repository.NewFoodRepository(db),
		repository.NewNutritionRepository(db),
		services.NewCacheService(rdb),
		cfg.SummaryCacheTTL,
		clock,
	)
	progressService := services.NewProgressService(repository.NewProgressRepository(db), photos, clock)
	dashboardService := services.NewDashboardService(users, progressService, nutritionService, workoutService)
	predictionService := services.NewPredictionService(model, history)

	h := handlers.New(handlers.Deps{
		Auth:       authService,
		Dashboard:  dashboardService,
		Workouts:   workoutService,
		Nutrition:  nutritionService,
		Progress:   progressService,
		Prediction: predictionService,
		Flashes:    handlers.NewFlashStore(cfg.SessionSecret, cfg.IsProduction()),
		Cookie: handlers.CookieConfig{
			Name:   cfg.SessionCookie,
			TTL:    cfg.SessionTTL,
			Secure: cfg.IsProduction(),
		},
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → HostCheck → GlobalRateLimit → LoginRateLimit
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		slog.Info("production security enabled")
	}

	routes.SetupRoutes(r, h, routes.Options{
		Sessions:      authService,
		SessionCookie: cfg.SessionCookie,
		Redis:         rdb,
		Ready: map[string]handlers.Pinger{
			"postgres": db.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("fittrack backend listening",
			slog.String("addr", srv.Addr),
			slog.Bool("prediction", predictionService.Available()),
			slog.Bool("photo_uploads", photos != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := predictionService.Wait(shutdownCtx); err != nil {
		slog.Warn("prediction history writes still pending at shutdown", slog.String("error", err.Error()))
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/ai"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/config"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/handler"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/matching"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/middleware"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/repository"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/security"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/service"
	"github.com/IBE160/SG-Gruppe-12-sub002/pkg/database"
	"github.com/IBE160/SG-Gruppe-12-sub002/pkg/logger"
	"github.com/IBE160/SG-Gruppe-12-sub002/pkg/redis"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.Environment)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redisClient, err := redis.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	rateLimiter := security.NewRateLimiter(security.RateLimiterConfig{
		Redis:              redisClient,
		Limit:              cfg.RateLimitPerMinute,
		Interval:           cfg.RateLimitInterval,
		SkipSuccessfulAuth: true,
	})

	analyzer, err := ai.New(context.Background(), cfg.AI, redisClient)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.AI.Provider).Msg("Failed to initialise AI analyzer")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient)
	cvRepo := repository.NewCvRepository(db)
	jobRepo := repository.NewJobRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)

	// Services
	var oauthService domain.OAuthService
	if cfg.GoogleEnabled() {
		oauthService = service.NewOAuthService(cfg)
	}
	authService := service.NewAuthenticationService(cfg, oauthService, userRepo, sessionRepo)
	cvService := service.NewCvService(cvRepo)
	skillService := service.NewSkillService(cvService, cvRepo)
	analysisService := service.NewAnalysisService(analysisRepo, jobRepo, cvService, matching.NewEngine(), analyzer, cfg.AI.Timeout)
	jobService := service.NewJobService(jobRepo, cvService, analysisService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Auth:        handler.NewAuthHandler(authService, cfg),
		User:        handler.NewUserHandler(userRepo),
		Cv:          handler.NewCvHandler(cvService),
		Skill:       handler.NewSkillHandler(skillService),
		Job:         handler.NewJobHandler(jobService),
		Analysis:    handler.NewAnalysisHandler(analysisService),
		RequireAuth: middleware.AuthMiddleware(authService),
		Middleware: []gin.HandlerFunc{
			middleware.RequestLogger(),
			middleware.CORS(cfg.FrontendURL),
			rateLimiter.GinMiddleware(),
		},
		Health: map[string]handler.HealthChecker{
			"database": db.PingContext,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("environment", cfg.Environment).
		Int("rate_limit", cfg.RateLimitPerMinute).
		Dur("rate_interval", cfg.RateLimitInterval).
		Bool("google_login", cfg.GoogleEnabled()).
		Str("ai_provider", cfg.AI.Provider).
		Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

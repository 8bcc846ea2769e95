package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/logger"
	"fintrack/internal/planner"
	"fintrack/internal/router"
	"fintrack/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title           Fintrack API
// @version         1.0
// @description     Fintrack records incomes and expenses, tracks budgets and savings goals, and produces monthly budget plans.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	deps := router.Deps{
		DB:                dbManager.DB(),
		Resolver:          appConfig.Resolver(),
		Planner:           newPlanner(appConfig),
		JWTSecret:         []byte(appConfig.JWTSecret),
		ContributeRetries: appConfig.GoalContributeRetries,
		RateLimitMax:      appConfig.RateLimitMax,
		RateLimitWindow:   appConfig.RateLimitWindow,
	}
	if appConfig.RedisURL != "" {
		opts, err := redis.ParseURL(appConfig.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		deps.Redis = redis.NewClient(opts)
		defer deps.Redis.Close()
		log.Infow("Rate limiting enabled", "max", appConfig.RateLimitMax, "window", appConfig.RateLimitWindow)
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Fintrack server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newPlanner(cfg *config.Config) planner.Planner {
	if cfg.Planner == config.PlannerGemini {
		return planner.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	return planner.NewScript(cfg.PythonExecutable, cfg.PlannerScript)
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/krishisaarathi/backend/docs"
	"github.com/krishisaarathi/backend/internal/auth"
	"github.com/krishisaarathi/backend/internal/config"
	"github.com/krishisaarathi/backend/internal/database"
	"github.com/krishisaarathi/backend/internal/handlers"
	"github.com/krishisaarathi/backend/internal/logger"
	"github.com/krishisaarathi/backend/internal/metrics"
	"github.com/krishisaarathi/backend/internal/middleware"
	"github.com/krishisaarathi/backend/internal/repositories"
	"github.com/krishisaarathi/backend/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// @title Krishi Saarathi User API
// @version 1.0
// @description User registration and role management for the Krishi Saarathi agricultural platform

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
func main() {
	cmd := &cli.Command{
		Name:   "krishi-saarathi",
		Usage:  "Krishi Saarathi user service",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run migrations, seed roles and start the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Apply pending database migrations",
				Action: migrateCmd,
			},
			{
				Name:   "seed",
				Usage:  "Ensure the canonical roles exist",
				Action: seedCmd,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// bootstrap loads configuration, initializes the logger and connects to the database
func bootstrap() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, nil, err
	}

	return cfg, db, nil
}

func migrateCmd(ctx context.Context, c *cli.Command) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer db.Close()

	if err := database.RunMigrations(db, cfg.Migrations.Path); err != nil {
		return err
	}

	version, dirty, err := database.MigrationVersion(db, cfg.Migrations.Path)
	if err != nil {
		return err
	}
	logger.Logger.Info("Migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func seedCmd(ctx context.Context, c *cli.Command) error {
	_, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer db.Close()

	roleService := services.NewRoleService(repositories.NewRoleRepository(db, logger.Logger), logger.Logger)
	if _, err := roleService.SeedRoles(ctx); err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}
	return nil
}

func serve(ctx context.Context, c *cli.Command) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer db.Close()

	logger.Logger.Info("Starting Krishi Saarathi user service")

	// Run migrations
	if err := database.RunMigrations(db, cfg.Migrations.Path); err != nil {
		return err
	}

	// Initialize repositories
	roleRepo := repositories.NewRoleRepository(db, logger.Logger)
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	profileRepo := repositories.NewUserProfileRepository(db, logger.Logger)

	// Seed the role catalog before accepting traffic
	roleService := services.NewRoleService(roleRepo, logger.Logger)
	if _, err := roleService.SeedRoles(ctx); err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}

	encoder, err := auth.NewPasswordEncoder(cfg.Security.PasswordEncoder)
	if err != nil {
		return err
	}

	// Initialize services
	userService := services.NewUserService(userRepo, roleRepo, encoder, logger.Logger)
	profileService := services.NewProfileService(profileRepo, userRepo)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "krishi"),
	)
	appMetrics, err := metrics.New(registry)
	if err != nil {
		return err
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, logger.Logger)
	userHandler := handlers.NewUserHandler(userService, appMetrics, logger.Logger)
	profileHandler := handlers.NewProfileHandler(profileService, logger.Logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.MetricsMiddleware(appMetrics))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.RateLimit.RequestsPerMinute, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))

	healthHandler.RegisterRoutes(r)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(auth.PermitAll{}))
		r.Route("/users", func(r chi.Router) {
			userHandler.RegisterRoutes(r)
			profileHandler.RegisterRoutes(r)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	}

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"showoff/internal/auth"
	"showoff/internal/catalog"
	"showoff/internal/config"
	"showoff/internal/database"
	"showoff/internal/handler"
	"showoff/internal/identity"
	"showoff/internal/logging"
	"showoff/internal/metrics"
	"showoff/internal/middleware"
	"showoff/internal/profile"
	"showoff/internal/repository"
	"showoff/internal/review"
	"showoff/internal/session"
	"showoff/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB, log)
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()

	// Redis holds bearer tokens, so it is required
	rdb, err := database.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	provider, err := identity.NewCognito(ctx, cfg.AWS.Region, cfg.AWS.CognitoClientID)
	if err != nil {
		log.Fatal("failed to configure identity provider", zap.Error(err))
	}

	media, err := storage.NewS3Store(cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.PresignTTL)
	if err != nil {
		log.Fatal("failed to configure object storage", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize layers
	users := repository.NewUserRepository(db)
	shows := repository.NewCatalogRepository(db)
	reviews := repository.NewReviewRepository(db)
	playlists := repository.NewPlaylistRepository(db)
	tokens := session.NewRegistry(rdb, cfg.Session.TokenTTL)

	store := catalog.NewStore(shows, m, log)
	store.Load(ctx)

	h := handler.New(handler.Deps{
		Auth:      auth.NewFlows(provider, users, m, log),
		Tokens:    tokens,
		Catalog:   store,
		Shows:     shows,
		Reviews:   reviews,
		Averages:  review.NewRecomputer(shows, reviews, m, log),
		Playlists: playlists,
		Profiles:  profile.NewService(users, reviews, media, log),
		Metrics:   m,
		Logger:    log,
	})

	app := fiber.New(fiber.Config{
		AppName:      "Showoff",
		ServerHeader: "Showoff",
		ErrorHandler: handler.ErrorHandler(log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		log.Warn("swagger.yaml not found, swagger UI will be unavailable", zap.Error(err))
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}
	handler.RegisterMetrics(app, reg)

	app.Use(middleware.AuthMiddleware(tokens, users, log))
	h.Register(app)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info("shutting down showoff...")
		_ = app.Shutdown()
	}()

	addr := ":" + cfg.Port
	log.Info("starting showoff", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

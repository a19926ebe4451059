package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"movierec-backend/internal/catalog"
	"movierec-backend/internal/config"
	"movierec-backend/internal/database"
	"movierec-backend/internal/handler"
	"movierec-backend/internal/middleware"
	"movierec-backend/internal/repository"
	"movierec-backend/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
	}

	accounts := repository.NewAccountRepository(db)
	interactions := repository.NewInteractionRepository(db)
	lookup := catalog.NewLookup(db, rdb)

	authSvc := service.NewAuthService(accounts, cfg.Auth)
	prefSvc := service.NewPreferenceService(accounts, interactions, lookup, rdb)

	authHandler := handler.NewAuthHandler(authSvc)
	prefHandler := handler.NewPreferenceHandler(prefSvc)
	catalogHandler := handler.NewCatalogHandler(lookup)

	app := fiber.New(fiber.Config{
		AppName:      "MovieRec Backend",
		ServerHeader: "MovieRec-Backend",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.NewRateLimiter(rdb, cfg.RateLimit.MaxRequests, cfg.RateLimit.WindowSec).Handler())

	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	api := app.Group("/api/v1")
	api.Get("/health", catalogHandler.Health)

	// Registration and authentication
	api.Post("/auth/signup", authHandler.Signup)
	api.Post("/auth/login", authHandler.Login)

	// Catalog search
	api.Get("/movies/search", catalogHandler.Search)

	// Per-account preferences, guarded by the account's own access token
	accountsGrp := api.Group("/accounts/:id", middleware.RequireAccount([]byte(cfg.Auth.JWTKey)))
	accountsGrp.Get("/profile", prefHandler.GetProfile)
	accountsGrp.Post("/watchlist", prefHandler.AddToWatchlist)
	accountsGrp.Delete("/watchlist/:movieID", prefHandler.RemoveFromWatchlist)
	accountsGrp.Get("/watchlist", prefHandler.GetWatchlist)
	accountsGrp.Post("/ratings", prefHandler.Rate)
	accountsGrp.Get("/ratings", prefHandler.GetRatings)
	accountsGrp.Post("/watched", prefHandler.MarkWatched)
	accountsGrp.Delete("/watched/:movieID", prefHandler.MarkUnwatched)
	accountsGrp.Get("/interactions", prefHandler.GetInteractions)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down movierec backend...")
		_ = app.Shutdown()
	}()

	addr := ":" + cfg.Port
	slog.Info("starting movierec backend", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

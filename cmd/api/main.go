package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/supplyoffice/ris-backend/internal/config"
	"github.com/supplyoffice/ris-backend/internal/db"
	"github.com/supplyoffice/ris-backend/internal/modules/auth"
	"github.com/supplyoffice/ris-backend/internal/modules/catalog"
	"github.com/supplyoffice/ris-backend/internal/modules/inventory"
	"github.com/supplyoffice/ris-backend/internal/modules/realtime"
	"github.com/supplyoffice/ris-backend/internal/modules/release"
	"github.com/supplyoffice/ris-backend/internal/modules/request"
	"github.com/supplyoffice/ris-backend/internal/modules/user"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, reading configuration from environment")
	}
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	database, err := db.Open(cfg.Postgres.URL, cfg.Postgres.MaxOpenConns, cfg.Postgres.MaxIdleConns)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		logger.Fatal("bootstrapping schema", zap.Error(err))
	}
	logger.Info("connected to database")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	authmw := auth.NewMiddleware(cfg.Auth.Secret, cfg.Auth.CookieName)
	hub := realtime.NewHub(logger.Named("realtime"))
	secureCookies := cfg.Server.Env == "production"

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(database)
	userService := user.NewService(userRepo)
	user.NewHandler(userService, authmw.RequireUser, authmw.RequireAdmin, auth.UserIDFromContext).RegisterRoutes(router)

	tokenTTL := time.Duration(cfg.Auth.CookieMaxAgeSec) * time.Second
	authService := auth.NewService(userRepo, cfg.Auth.Secret, tokenTTL)
	auth.NewHandler(authService, cfg.Auth.CookieName, cfg.Auth.CookieMaxAgeSec, secureCookies).RegisterRoutes(router)

	// ── Catalog & Inventory ─────────────────────────────────
	itemRepo := catalog.NewItemPostgresRepository(database)
	unitRepo := catalog.NewUnitPostgresRepository(database)
	catalogService := catalog.NewService(itemRepo, unitRepo)
	catalog.NewHandler(catalogService, authmw).RegisterRoutes(router)

	inventoryRepo := inventory.NewPostgresRepository(database)
	inventoryService := inventory.NewService(inventoryRepo, logger.Named("inventory"))
	inventory.NewHandler(inventoryService, authmw).RegisterRoutes(router)

	// ── Requests & Release ──────────────────────────────────
	requestRepo := request.NewPostgresRepository(database)
	requestService := request.NewService(requestRepo, hub, logger.Named("request"))
	request.NewHandler(requestService, authmw).RegisterRoutes(router)

	releaseService := release.NewService(requestRepo, itemRepo, inventoryRepo, hub, logger.Named("release"))
	release.NewHandler(releaseService, authmw).RegisterRoutes(router)

	// ── Realtime ────────────────────────────────────────────
	realtime.NewHandler(hub, authmw).RegisterRoutes(router)

	logger.Info("API server starting", zap.String("port", cfg.Server.Port))
	if err := http.ListenAndServe(":"+cfg.Server.Port, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Server.Env == "development" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.Logger.Level); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zapCfg.Build()
}

package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/inkwell/backend/internal/config"
	"github.com/inkwell/backend/internal/db"
	"github.com/inkwell/backend/internal/handler"
	"github.com/inkwell/backend/internal/logging"
	"github.com/inkwell/backend/internal/service"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// @title inkwell API
// @version 1.0
// @description Blogging backend: users, posts, email/password auth.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	store := &db.Postgres{Pool: pool}
	if err := store.EnsureUserSchema(ctx); err != nil {
		logger.Fatal("failed to ensure user schema", zap.Error(err))
	}
	if err := store.EnsurePostSchema(ctx); err != nil {
		logger.Fatal("failed to ensure post schema", zap.Error(err))
	}

	ttl, err := time.ParseDuration(cfg.Auth.JWTTTL)
	if err != nil {
		logger.Fatal("invalid JWT_TTL", zap.Error(err))
	}

	bcryptCost := 0
	if cfg.Auth.BcryptCost != "" {
		bcryptCost, err = strconv.Atoi(cfg.Auth.BcryptCost)
		if err != nil {
			logger.Fatal("invalid BCRYPT_COST", zap.Error(err))
		}
	}

	tokenService, err := service.NewTokenService([]byte(cfg.Auth.JWTSecret), ttl)
	if err != nil {
		logger.Fatal("failed to build token service", zap.Error(err))
	}

	authService := service.NewAuthService(store, tokenService, bcryptCost)
	postService := service.NewPostService(store)
	userService := service.NewUserService(store)

	router := handler.NewRouter(handler.RouterDeps{
		Auth:           authService,
		Posts:          postService,
		Users:          userService,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	addr := ":" + cfg.Server.Port
	logger.Info("starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "authgate/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"authgate/internal/auth"
	"authgate/internal/cache"
	"authgate/internal/config"
	"authgate/internal/db"
	"authgate/internal/handler"
	"authgate/internal/model"
	"authgate/internal/repository"
	"authgate/internal/router"
	"authgate/internal/service"
)

// @title Authentication API
// @version 1.0
// @description Minimal authentication API: registration, token login, logout, and profile fetch.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.AccessToken{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	tokenRepo := repository.NewAccessTokenRepository(gormDB)

	issuer := auth.NewIssuer(tokenRepo, cacheClient)

	authService := service.NewAuthService(userRepo, issuer, cacheClient, service.Config{
		LoginTokenTTL:    cfg.LoginTokenTTL,
		RegisterTokenTTL: cfg.RegisterTokenTTL,
	})

	authHandler := handler.NewAuthHandler(authService, cfg.LoginTokenTTL)

	router.Register(e, cfg, cacheClient, authService, authHandler)

	// Expired tokens are rejected at resolution; the sweep just keeps the
	// table from growing between deploys.
	if n, err := sweepExpiredTokens(tokenRepo); err != nil {
		log.Printf("Warning: expired token sweep failed: %v", err)
	} else if n > 0 {
		log.Printf("Removed %d expired tokens", n)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

func sweepExpiredTokens(tokenRepo repository.AccessTokenRepository) (int64, error) {
	ctx := context.Background()
	return tokenRepo.DeleteExpired(ctx, time.Now())
}

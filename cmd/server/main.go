// Command flowgrid-server starts the FlowGrid HTTP API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/WaryFriend456/FlowGrid/internal/config"
	"github.com/WaryFriend456/FlowGrid/internal/limiter"
	"github.com/WaryFriend456/FlowGrid/internal/migrate"
	"github.com/WaryFriend456/FlowGrid/internal/repository/postgres"
	"github.com/WaryFriend456/FlowGrid/internal/server/httpapi"
	"github.com/WaryFriend456/FlowGrid/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and serves the REST API until
// interrupted.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("pgxpool.New", zap.Error(err))
	}
	defer pool.Close()

	// Repositories
	db := &postgres.DB{Pool: pool}
	userRepo := postgres.NewUserRepo(db)
	boardRepo := postgres.NewBoardRepo(db)
	listRepo := postgres.NewListRepo(db)
	cardRepo := postgres.NewCardRepo(db)

	lim := limiter.NewPG(pool, cfg.LoginWindow, cfg.LoginMaxFails, cfg.LoginBlockFor)

	// Services
	tok := service.TokenConfig{
		Key:      []byte(cfg.JWTKey),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.TokenTTL,
	}
	authSvc := service.NewAuthService(userRepo, tok, lim)
	boardSvc := service.NewBoardService(boardRepo, listRepo, cardRepo)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	app := httpapi.New(authSvc, boardSvc, []byte(cfg.JWTKey), cfg.JWTIssuer, cfg.JWTAudience)
	app.Register(e, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- e.Start(cfg.Addr)
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}

	logger.Info("shutdown complete")
}

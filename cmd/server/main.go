package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vigil-iam/vigil/api"
	"github.com/vigil-iam/vigil/config"
	"github.com/vigil-iam/vigil/mongodb"
	redisnotifier "github.com/vigil-iam/vigil/notifier/redis"
	"github.com/vigil-iam/vigil/services"
	"github.com/vigil-iam/vigil/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	setupLogging(cfg)

	tp, err := tracing.InitTracerProvider("")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("tracer shutdown failed")
		}
	}()

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := mongodb.Connect(connectCtx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		cancelConnect()
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	repos, err := mongodb.NewRepositories(connectCtx, db)
	cancelConnect()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize repositories")
	}

	redisClient := goredis.NewClient(&goredis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	notifier := redisnotifier.NewNotifier(redisClient, repos.Domains, cfg.EventPrefix)
	defer notifier.Close()

	scopeService := services.NewScopeService(repos.Scopes, repos.Approvals, repos.Roles, notifier)
	clientService := services.NewClientService(
		repos.Clients,
		repos.Domains,
		repos.IdPs,
		repos.AccessTokens,
		scopeService,
		notifier,
		services.ClientDefaults{
			ClientName:                  cfg.DefaultClientName,
			AccessTokenValiditySeconds:  cfg.AccessTokenValiditySeconds,
			RefreshTokenValiditySeconds: cfg.RefreshTokenValiditySeconds,
			IDTokenValiditySeconds:      cfg.IDTokenValiditySeconds,
		},
	)
	scopeService.BindClientManager(clientService)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	api.NewManagementAPI(clientService, scopeService).RegisterRoutes(e)

	go func() {
		if err := e.Start(":" + cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("management server failed")
		}
	}()
	log.Info().Str("port", cfg.HTTPPort).Msg("management server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func setupLogging(cfg *config.ServerConfig) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

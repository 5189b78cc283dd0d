package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/filmstore/rental-system/internal/api"
	"github.com/filmstore/rental-system/internal/core/guard"
	"github.com/filmstore/rental-system/internal/core/ports"
	"github.com/filmstore/rental-system/internal/core/service"
	"github.com/filmstore/rental-system/internal/core/session"
	mongodb "github.com/filmstore/rental-system/internal/infrastructure/db/mongo"
	redisdb "github.com/filmstore/rental-system/internal/infrastructure/db/redis"
	"github.com/filmstore/rental-system/internal/infrastructure/httpstore"
	"github.com/filmstore/rental-system/internal/pkg/config"
	"github.com/filmstore/rental-system/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("loading configuration failed")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("fatal error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		if derr := mongoClient.Disconnect(ctx); derr != nil {
			log.Warn().Err(derr).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("redis close failed")
		}
	}()

	// Local collections backing /users and /admins.
	records := mongodb.NewIdentityRepository(db)

	// The session core reads the remote store over HTTP when one is
	// configured; otherwise it addresses the local collections directly.
	var users ports.UserStore = records
	var admins ports.AdminStore = records
	if cfg.RemoteStoreURL != "" {
		remote := httpstore.New(cfg.RemoteStoreURL, log)
		users = remote
		admins = remote
	}

	vault := redisdb.NewSessionVault(rdb)
	sessions := session.New(ctx, session.Config{
		Vault:        vault,
		Users:        users,
		Navigator:    api.NewLogNavigator(log),
		LoggedFlag:   session.NewSharedFlag(),
		LandingRoute: cfg.LandingRoute,
		Logger:       log,
	})

	profiles := service.NewProfileService(users, admins, sessions, log)
	evaluator := guard.New(sessions, api.NewLogNavigator(log), cfg.LandingRoute, guard.ParseMode(cfg.GuardMode), log)

	e := api.NewRouter(api.RouterConfig{
		DB:        db,
		Redis:     rdb,
		Users:     records,
		Admins:    records,
		Sessions:  sessions,
		Profiles:  profiles,
		Evaluator: evaluator,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  24 * time.Hour,
		Logger:    log,
	})

	// Serve until interrupted, then drain.
	errCh := make(chan error, 1)
	go func() {
		if serr := e.Start(":" + cfg.Port); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("rental-api started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

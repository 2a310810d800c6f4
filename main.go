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

	"github.com/isdelr/account-api/internal/api"
	"github.com/isdelr/account-api/internal/auth"
	"github.com/isdelr/account-api/internal/config"
	"github.com/isdelr/account-api/internal/database"
	"github.com/isdelr/account-api/internal/logger"
	"github.com/isdelr/account-api/internal/services"
	"github.com/isdelr/account-api/internal/store"
	"github.com/rs/zerolog/log"
)

// stores bundles the selected backend and its teardown.
type stores struct {
	users  store.UserStore
	events store.EventStore
	close  func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := database.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		return &stores{
			users:  store.NewSQLiteUserStore(db),
			events: store.NewSQLiteEventStore(db),
			close:  func(context.Context) error { return db.Close() },
		}, nil

	default:
		client, err := database.NewMongo(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.DatabaseName)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &stores{
			users:  store.NewMongoUserStore(db),
			events: store.NewMongoEventStore(db),
			close:  client.Disconnect,
		}, nil
	}
}

func main() {
	logger.Init("info")

	// Load configuration; a missing JWT_SECRET is fatal here.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel)

	// Set up token signing
	tokens, err := auth.NewJWTManager(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token manager")
	}

	// Set up the store
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 15*time.Second)
	st, err := openStores(connectCtx, cfg)
	cancelConnect()
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to initialize store")
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("Connected successfully")

	// Set up services
	eventService := services.NewEventService(st.events)
	userService := services.NewUserService(st.users, tokens, eventService)

	// Set up router
	router := api.NewRouter(tokens, userService, eventService, cfg.CORSOrigins)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := st.close(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to close store")
	}

	log.Info().Msg("Server exiting")
}

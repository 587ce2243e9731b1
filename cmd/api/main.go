package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/01moynul/autoparts-golang/internal/auth"
	"github.com/01moynul/autoparts-golang/internal/config"
	"github.com/01moynul/autoparts-golang/internal/database"
	"github.com/01moynul/autoparts-golang/internal/handlers"
	"github.com/01moynul/autoparts-golang/internal/logger"
	"github.com/01moynul/autoparts-golang/internal/metrics"
	"github.com/01moynul/autoparts-golang/internal/routes"
	"github.com/01moynul/autoparts-golang/internal/seed"
	"github.com/01moynul/autoparts-golang/internal/store"
)

// app is what every subcommand needs: config, logger and an open database.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func setup() (*app, error) {
	// 0. --- Config (.env + environment) ---
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	// 1. --- Logger ---
	log, err := logger.Init(cfg.Server.Env, cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "init logger")
	}

	// 2. --- Database ---
	db, err := database.OpenDB(cfg.DB, log)
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
	_ = a.log.Sync()
}

func main() {
	root := &cobra.Command{
		Use:           "api",
		Short:         "Auto parts storefront and admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API (default)",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE:  runMigrate,
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Delete all data and load the demo catalog",
			RunE:  runSeed,
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	if err := database.Migrate(a.db.WithContext(cmd.Context())); err != nil {
		return err
	}
	a.log.Info("schema migrated")
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	_, err = seed.Run(cmd.Context(), store.New(a.db), a.cfg.Admin, a.log)
	return errors.Wrap(err, "seed")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		if a.cfg.JWT.Secret == "change-me" {
			return errors.New("JWT_SECRET must be set in production")
		}
	}

	// --- Application Setup ---
	// All dependencies are injected into the Handlers struct.
	h := handlers.New(
		store.New(a.db),
		auth.NewTokens(a.cfg.JWT),
		metrics.New(a.cfg.MetricsNamespace),
		a.cfg,
	)
	router := routes.SetupRouter(h)

	srv := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Start Server ---
	serverErrors := make(chan error, 1)
	go func() {
		a.log.Info("starting API server", zap.String("port", a.cfg.Server.Port))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server error")

	case sig := <-shutdown:
		a.log.Info("shutdown signal received", zap.String("signal", sig.String()))

		// Give outstanding requests 10 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			a.log.Error("could not stop server gracefully", zap.Error(err))
			_ = srv.Close()
		}
	}

	a.log.Info("server stopped")
	return nil
}

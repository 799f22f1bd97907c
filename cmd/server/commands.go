package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iliyamo/car-rental/internal/config"
	"github.com/iliyamo/car-rental/internal/database"
	"github.com/iliyamo/car-rental/internal/logger"
	"github.com/iliyamo/car-rental/internal/queue"
	"github.com/iliyamo/car-rental/internal/repository"
	"github.com/iliyamo/car-rental/internal/router"
	"github.com/iliyamo/car-rental/internal/service"
)

// newRootCmd creates the carrental command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "carrental",
		Short:         "DriveHub car rental backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(),
		newSeedCommand(),
		newWorkerCommand(),
		newSchemaCommand(),
	)
	return root
}

// bootstrap loads configuration and builds the logger every command uses.
func bootstrap() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		// no logger yet; the console writer keeps this readable
		l := logger.New(logger.Config{Env: "development"})
		l.Error().Err(err).Msg("load config")
		return config.Config{}, l, err
	}
	return cfg, logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel}), nil
}

func openDB(cfg config.Config, log zerolog.Logger) (*sql.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.DBDriver).Msg("open database")
		return nil, err
	}
	return db, nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.SeedOnStart {
				if _, err := service.NewSeeder(repository.NewStore(db), cfg.BcryptCost, log).Run(ctx); err != nil {
					log.Error().Err(err).Msg("seed on start")
					return err
				}
			}

			var events service.EventPublisher = queue.NoopPublisher{}
			if cfg.EventsEnabled {
				events = queue.NewPublisher(cfg.RabbitURL, log)
			}
			rdb := config.NewRedisClient(cfg.Redis)
			if rdb != nil {
				defer rdb.Close()
			}

			e := router.New(router.Deps{Config: cfg, Log: log, DB: db, Redis: rdb, Events: events})
			addr := ":" + cfg.Port

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", addr).Str("env", cfg.Env).Str("driver", cfg.DBDriver).
					Bool("redis", rdb != nil).Bool("events", cfg.EventsEnabled).Msg("listening")
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					log.Error().Err(err).Msg("server stopped")
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("graceful shutdown")
				return err
			}
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Args:  cobra.NoArgs,
		Short: "Install the demo accounts and fleet (idempotent)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			rep, err := service.NewSeeder(repository.NewStore(db), cfg.BcryptCost, log).Run(cmd.Context())
			if err != nil {
				log.Error().Err(err).Msg("seed")
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d cars\n", rep.UsersCreated, rep.CarsCreated)
			return nil
		},
	}
}

func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Args:  cobra.NoArgs,
		Short: "Consume rental events and append them to the rental log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := &queue.Consumer{URL: cfg.RabbitURL, LogDir: cfg.EventsLogDir, Log: log}
			log.Info().Str("queue", queue.RentalQueue).Str("dir", cfg.EventsLogDir).Msg("rental consumer started")
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info().Msg("rental consumer stopped")
			return nil
		},
	}
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Args:  cobra.NoArgs,
		Short: "Create the tables for the configured driver",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.ApplySchema(cmd.Context(), db, cfg.DBDriver); err != nil {
				log.Error().Err(err).Msg("apply schema")
				return err
			}
			log.Info().Str("driver", cfg.DBDriver).Msg("schema applied")
			return nil
		},
	}
}

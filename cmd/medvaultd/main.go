package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/medvault/medvault/internal/aiparse/openrouter"
	"github.com/medvault/medvault/internal/common"
	"github.com/medvault/medvault/internal/export"
	"github.com/medvault/medvault/internal/filestore"
	"github.com/medvault/medvault/internal/pipeline"
	"github.com/medvault/medvault/internal/repository"
	"github.com/medvault/medvault/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:   "medvaultd",
		Short: "Personal medical record manager",
	}
	root.AddCommand(serveCmd(logger), migrateCmd(logger))

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func serveCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.LoadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.AI.APIKey == "" {
				logger.Warn("OPENROUTER_API_KEY is not set; uploads will be stored unparsed")
			}

			db, err := repository.Open(cfg.Database, logger)
			if err != nil {
				return err
			}
			if err := repository.AutoMigrate(db); err != nil {
				return err
			}

			files, err := filestore.New(cfg.FileStore, logger)
			if err != nil {
				return err
			}

			parser := openrouter.NewClient(openrouter.Config{
				BaseURL:           cfg.AI.BaseURL,
				Model:             cfg.AI.Model,
				Temperature:       cfg.AI.Temperature,
				ClassifyMaxTokens: cfg.AI.ClassifyMaxTokens,
				ExtractMaxTokens:  cfg.AI.ExtractMaxTokens,
				ClassifyTimeout:   cfg.AI.ClassifyTimeout,
				ExtractTimeout:    cfg.AI.ExtractTimeout,
			}, logger)

			patients := repository.NewPatientRepository(db, logger)
			docs := repository.NewDocumentRepository(db, logger)
			rxs := repository.NewPrescriptionRepository(db, logger)
			reports := repository.NewMedicalReportRepository(db, logger)

			srv := server.New(cfg, server.Deps{
				Patients: patients,
				Docs:     docs,
				Rxs:      rxs,
				Reports:  reports,
				Files:    files,
				Pipe:     pipeline.New(parser, logger),
				Exporter: export.NewService(rxs, reports, logger),
			}, logger)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("server.shutdown.start")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			logger.Info("server.shutdown.done")
			return nil
		},
	}
}

func migrateCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.LoadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			db, err := repository.Open(cfg.Database, logger)
			if err != nil {
				return err
			}
			if err := repository.AutoMigrate(db); err != nil {
				return err
			}
			logger.Info("migrate.done")
			return nil
		},
	}
}

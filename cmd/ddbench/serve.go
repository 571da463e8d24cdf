package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ddbench/infrastructure/config"
	"ddbench/interfaces/http/rest"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the latest benchmark results over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("results") {
			cfg.ResultsPath = flags.results
		}
		if cmd.Flags().Changed("addr") {
			cfg.ServerAddress = flags.addr
		}

		var logger *zap.Logger
		if cfg.IsDevelopment() {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return err
		}
		defer logger.Sync()

		router := rest.NewRouter(cfg.ResultsPath, logger)

		srv := &http.Server{
			Addr:         cfg.ServerAddress,
			Handler:      router.Setup(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Serving benchmark results",
				zap.String("address", cfg.ServerAddress),
				zap.String("results", cfg.ResultsPath),
			)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-sigCh:
		}

		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nyayasankalan/case-api/api/handlers"
	"github.com/nyayasankalan/case-api/api/scheduler"
	"github.com/nyayasankalan/case-api/config"
	"github.com/nyayasankalan/case-api/databases"
)

const shutdownTimeout = 15 * time.Second

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "nyaya-api",
		Short: "Case management API for FIRs, cases and their assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a yaml config file, the environment is used when empty")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				conf, err := config.Load(configPath)
				if err != nil {
					return err
				}
				if err := databases.Migrate(cmd.Context(), conf); err != nil {
					return err
				}
				zap.S().Infow("migrations applied", "driver", conf.DBDriver)
				return nil
			},
		},
		&cobra.Command{
			Use:   "env",
			Short: "Describe the environment variables read by the service",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), config.Usage())
			},
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		log.Fatal(err)
	}
}

func serve(ctx context.Context) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = zap.L().Sync() }()

	a := handlers.App{Config: *conf}
	if err := a.Initialize(ctx); err != nil { // initialize database and router
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			zap.S().Warnw("failed to close database", "error", err)
		}
	}()

	s := scheduler.NewScheduler(a.Gateway.Cases, a.Metrics, conf.MetricsRefreshSchedule)
	if err := s.Start(); err != nil {
		return err
	}
	defer s.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", conf.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infow("nyaya-api is up and running",
			"port", conf.Port,
			"url", conf.BaseURL,
			"env", conf.Env,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	zap.S().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"Gin_postgres_redis_key_loans/app"
	"Gin_postgres_redis_key_loans/logger"
	"Gin_postgres_redis_key_loans/routes"
)

func newServeCommand() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			log := logger.Get()

			a, err := app.New(cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()
			routes.RegisterRoutes(a.Router, a)

			srv := &http.Server{
				Addr:         ":" + cfg.Server.Port,
				Handler:      a.Router,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("listening", "addr", srv.Addr, "driver", cfg.Database.Driver)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return fmt.Errorf("server: %w", err)
			case sig := <-quit:
				log.Info("shutting down", "signal", sig.String())
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			log.Info("server exited")
			return nil
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides server.port)")
	return cmd
}

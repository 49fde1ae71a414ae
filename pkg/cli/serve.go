package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/oprisk/pkg/cli/config"
	httpctrl "github.com/secmon-lab/oprisk/pkg/controller/http"
	"github.com/secmon-lab/oprisk/pkg/service/worker"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
)

func cmdServe(apiCfg *config.API) *cli.Command {
	var addr string
	var refreshInterval time.Duration

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("OPRISK_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "refresh-interval",
			Usage:       "Interval of the background value help and opportunity refresh",
			Value:       5 * time.Minute,
			Sources:     cli.EnvVars("OPRISK_REFRESH_INTERVAL"),
			Destination: &refreshInterval,
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server serving the dashboard and opportunity views",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			store, err := apiCfg.NewStore()
			if err != nil {
				return goerr.Wrap(err, "failed to configure API")
			}

			refreshWorker := worker.NewRefreshWorker(store, refreshInterval)
			if err := refreshWorker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start refresh worker")
			}

			httpHandler, err := httpctrl.New(store)
			if err != nil {
				refreshWorker.Stop()
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server", goerr.V("addr", addr))
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				refreshWorker.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop refresh worker first
				refreshWorker.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

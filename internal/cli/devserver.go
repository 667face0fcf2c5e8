package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"catalog-cli/internal/devserver"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDevServerCmd(app *App) *cobra.Command {
	var addr string
	var latency time.Duration
	var jitter time.Duration
	var requireSession string

	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run an in-memory catalog backend for local development",
		Long: `Serves the catalog HTTP API from seeded in-memory data.

--latency and --jitter delay every response; a jitter larger than the debounce
window makes responses arrive out of order, which is useful for exercising the
TUI's stale-response handling.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.LogLevel == "" {
				app.LogLevel = "info"
			}
			log, err := app.logger()
			if err != nil {
				return writeErr(cmd, err)
			}
			gin.SetMode(gin.ReleaseMode)

			srv := devserver.New(devserver.Options{
				Latency:        latency,
				Jitter:         jitter,
				RequireSession: requireSession,
				Logger:         log,
			})
			hs := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("dev server listening", zap.String("addr", addr),
					zap.Duration("latency", latency), zap.Duration("jitter", jitter))
				errCh <- hs.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return writeErr(cmd, err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Info("dev server shutting down")
			if err := hs.Shutdown(shutdownCtx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("CATALOG_DEV_ADDR", "127.0.0.1:8080"), "Listen address")
	cmd.Flags().DurationVar(&latency, "latency", 0, "Fixed delay added to every response")
	cmd.Flags().DurationVar(&jitter, "jitter", 0, "Random extra delay in [0, jitter)")
	cmd.Flags().StringVar(&requireSession, "require-session", "", "Answer 401 unless the session_token cookie has this value")
	return cmd
}

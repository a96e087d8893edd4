package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Azhovan/formguard/internal/httpapi"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve form validation and eligibility over HTTP",
		Long: `Serve starts the HTTP API:

  GET  /v1/forms                  built-in forms and their fields
  POST /v1/forms/:form/validate   200 when valid, 422 with field messages
  POST /v1/eligibility            donor eligibility
  GET  /metrics                   prometheus metrics (bearer server.metrics_token when set)

The response language follows Accept-Language or ?lang=.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			if a.cfg.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			router := httpapi.NewRouter(httpapi.Options{
				Bundle:       a.bundle,
				Logger:       a.logger,
				Registry:     reg,
				MetricsToken: a.cfg.Server.MetricsToken,
				Now:          a.now,
			})
			srv := httpapi.NewServer(addr, router, a.logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			startErr := srv.Start(ctx)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && startErr == nil {
				return usageError("shutdown", err)
			}
			if startErr != nil {
				return usageError("serve", startErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr)")
	return cmd
}

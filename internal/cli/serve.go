package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/httpapi"
	"github.com/goliatone/go-formbuilder/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(state *rootState) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve form descriptors over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := state.app(ctx)
			if err != nil {
				return err
			}
			handler, err := newServer(ctx, a)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("formbuilder listening", slog.String("addr", addr))
				errCh <- srv.ListenAndServe()
			}()
			printStatus(cmd.ErrOrStderr(), "serving on %s", addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			a.logger.Info("formbuilder shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to server.addr)")
	return cmd
}

// newServer assembles the HTTP handler from the app capabilities.
func newServer(ctx context.Context, a *app) (http.Handler, error) {
	store, err := a.templateStore(ctx)
	if err != nil {
		return nil, err
	}
	if store.Empty() {
		a.logger.Warn("no templates loaded", slog.String("dir", a.cfg.Templates.Dir))
	}

	opts := []httpapi.Option{
		httpapi.WithLogger(a.logger),
		httpapi.WithTranslator(a.translator, a.cfg.I18n.Locale),
		httpapi.WithJWTSecret(a.cfg.Server.JWTSecret),
		httpapi.WithCORSOrigins(a.cfg.Server.CORSOrigins...),
	}
	if a.gate != nil {
		opts = append(opts, httpapi.WithAccessGate(a.gate))
	}
	if a.entities != nil {
		opts = append(opts, httpapi.WithEntities(a.entities))
	}
	if a.cfg.Server.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector, err := metrics.NewCollector(reg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, httpapi.WithObserver(collector), httpapi.WithMetrics(reg))
	}
	return httpapi.New(store, a.resolver, opts...).Handler(), nil
}

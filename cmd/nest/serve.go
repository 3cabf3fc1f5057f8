package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"impractical.co/nest"
	"impractical.co/nest/internal/pagefile"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pages directory over HTTP",
		Long: `Serve every page file in the pages directory over HTTP, rendering each
request in its own pass. /about renders pages/about.yaml, and / renders
pages/index.yaml. Prometheus metrics are served at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			templates := newSite(a.cfg, a.log)
			if a.cfg.Watch {
				err := watchTemplates(ctx, a.log, a.cfg.Templates, templates)
				if err != nil {
					return err
				}
			}
			router, err := newRouter(a, templates, reg)
			if err != nil {
				return err
			}
			return serve(ctx, a.log, a.cfg.Addr, router)
		},
	}
	cmd.Flags().String("addr", defaultConfig().Addr, "address to listen on")
	cmd.Flags().String("error-page", "", "page file rendered when a page fails")
	cmd.Flags().Bool("watch", false, "parse templates again when they change")
	cobra.CheckErr(bindFlags(v, cmd.Flags(), "addr", "error_page", "watch"))
	return cmd
}

// newRouter returns the handler serving pages from the configured pages
// directory with the templates from s, with their render metrics
// registered in reg.
func newRouter(a *app, s *site, reg *prometheus.Registry) (http.Handler, error) {
	metrics, err := nest.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}
	pages := os.DirFS(a.cfg.Pages)
	pageHandler := nest.NewHandler(
		nest.NewTemplateHost(s),
		func(r *http.Request) (nest.Content, error) {
			name, err := pagefile.PageName(chi.URLParam(r, "*"))
			if err != nil {
				return nil, err
			}
			return pagefile.Load(pages, name)
		},
		nest.WithMetrics(metrics),
		nest.WithTracer(a.tracing.tracer),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := a.log.With("request_id", middleware.GetReqID(r.Context()))
			next.ServeHTTP(w, r.WithContext(nest.LoggingContext(r.Context(), log)))
		})
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		name, err := pagefile.PageName(chi.URLParam(r, "*"))
		if err == nil {
			_, err = fs.Stat(pages, name)
		}
		if err != nil {
			http.NotFound(w, r)
			return
		}
		pageHandler.ServeHTTP(w, r)
	})
	return r, nil
}

func serve(ctx context.Context, log *slog.Logger, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "serving pages", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	log.InfoContext(ctx, "server stopped")
	return nil
}

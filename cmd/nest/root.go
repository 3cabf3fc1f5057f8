package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"impractical.co/nest"
	"impractical.co/nest/internal/pagefile"
)

// app is the state shared by the subcommands once the config is loaded.
type app struct {
	cfg     config
	log     *slog.Logger
	tracing *tracing
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		a       app
		v       = viper.New()
	)
	defaults := defaultConfig()

	root := &cobra.Command{
		Use:          "nest",
		Short:        "Render pages built from nest components",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, cfgFile)
			if err != nil {
				return err
			}
			level, err := cfg.logLevel()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			a.tracing, err = newTracing(cfg.Trace, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(nest.LoggingContext(cmd.Context(), a.log))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.tracing == nil {
				return nil
			}
			return a.tracing.Shutdown(context.WithoutCancel(cmd.Context()))
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: ./nest.yaml)")
	flags.StringP("templates", "t", defaults.Templates, "directory holding component templates")
	flags.StringP("pages", "p", defaults.Pages, "directory holding page files")
	flags.Duration("cache-ttl", defaults.CacheTTL, "how long parsed templates are cached; 0 caches them forever")
	flags.Bool("trace", defaults.Trace, "write render spans to stderr")
	flags.String("log-level", defaults.LogLevel, "minimum level of log messages: debug, info, warn, or error")
	cobra.CheckErr(bindFlags(v, flags, "templates", "pages", "cache_ttl", "trace", "log_level"))

	root.AddCommand(newRenderCmd(&a), newServeCmd(&a, v))
	return root
}

// site serves templates from the configured directory, and the configured
// error page, if any.
type site struct {
	*nest.CachedSite
	errorPage string
	log       *slog.Logger
}

func newSite(cfg config, log *slog.Logger) *site {
	templates := os.DirFS(cfg.Templates)
	var cache *nest.CachedSite
	if cfg.CacheTTL > 0 {
		cache = nest.NewExpiringCachedSite(templates, cfg.CacheTTL)
	} else {
		cache = nest.NewCachedSite(templates)
	}
	return &site{
		CachedSite: cache,
		errorPage:  cfg.ErrorPage,
		log:        log,
	}
}

func (s *site) ServerErrorPage(ctx context.Context) nest.Content {
	if s.errorPage == "" {
		return nil
	}
	page, err := loadPageFile(s.errorPage)
	if err != nil {
		s.log.ErrorContext(ctx, "error loading server error page", "path", s.errorPage, "error", err)
		return nil
	}
	return page
}

func loadPageFile(path string) (nest.Content, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer f.Close()
	page, err := pagefile.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("error loading %q: %w", path, err)
	}
	return page, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sourced/internal/common/envutil"
	"sourced/internal/common/fsutil"
	"sourced/internal/config"
	"sourced/internal/httpapi"
	"sourced/internal/hub"
	"sourced/internal/logging"
	"sourced/internal/registry"
	"sourced/pkg/types"
)

const defaultAddr = ":8080"

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "sourced",
		Short:         "Host event sources and their sinks behind an HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.LogLevel, cfg.LogFormat, logOut)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
	fl := root.Flags()
	fl.String("config", "", "Config file (.yaml, .yml, .json or .toml)")
	fl.String("addr", "", "HTTP listen address, e.g. :8080 (defaults SOURCED_ADDR or :8080)")
	fl.String("sources-dir", "", "Directory of source definition files")
	fl.String("log-level", "", "Log level: trace|debug|info|warn|error (defaults SOURCED_LOG_LEVEL or info)")
	fl.String("log-format", "", "Log format: json|console")
	fl.String("cors-origins", "", "Comma-separated allowed CORS origins; enables CORS")
	fl.Int64("max-body-bytes", 0, "Maximum JSON request body size (0 = 1MiB)")
	return root
}

// resolveConfig layers the config file, environment defaults and explicitly
// set flags, in that order of increasing precedence.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	fl := cmd.Flags()
	var cfg config.Config
	if path, _ := fl.GetString("config"); path != "" {
		c, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	if cfg.Addr == "" {
		cfg.Addr = envutil.Str("SOURCED_ADDR", defaultAddr)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = envutil.Str("SOURCED_LOG_LEVEL", "info")
	}
	str := func(name string, dst *string) {
		if fl.Changed(name) {
			*dst, _ = fl.GetString(name)
		}
	}
	str("addr", &cfg.Addr)
	str("sources-dir", &cfg.SourcesDir)
	str("log-level", &cfg.LogLevel)
	str("log-format", &cfg.LogFormat)
	if fl.Changed("max-body-bytes") {
		cfg.MaxBodyBytes, _ = fl.GetInt64("max-body-bytes")
	}
	if fl.Changed("cors-origins") {
		v, _ := fl.GetString("cors-origins")
		cfg.CORS.Enabled = true
		cfg.CORS.Origins = splitCSV(v)
	}
	return cfg, nil
}

// newHub creates the hub from inline sources followed by the sources directory.
func newHub(cfg config.Config, log zerolog.Logger) (*hub.Hub, error) {
	specs := append([]types.SourceSpec(nil), cfg.Sources...)
	if cfg.SourcesDir != "" {
		dir, err := fsutil.ExpandHome(cfg.SourcesDir)
		if err != nil {
			return nil, err
		}
		if !fsutil.PathExists(dir) {
			return nil, fmt.Errorf("sources dir %s does not exist", cfg.SourcesDir)
		}
		more, err := registry.LoadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("load sources: %w", err)
		}
		specs = append(specs, more...)
	}
	return hub.New(hub.Config{Sources: specs, Logger: &log, MemoryCapacity: cfg.MemoryCapacity})
}

// newHandler configures the HTTP layer and returns the API handler over h.
func newHandler(cfg config.Config, h *hub.Hub, log zerolog.Logger) http.Handler {
	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	methods := cfg.CORS.Methods
	if cfg.CORS.Enabled && len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	}
	httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.Origins, methods, cfg.CORS.Headers)
	return httpapi.NewMux(h)
}

func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	h, err := newHub(cfg, log)
	if err != nil {
		return err
	}
	httpapi.SetBaseContext(ctx)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(cfg, h, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Int("sources", len(h.ListSources(ctx))).Msg("sourced listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown (Ctrl+C / SIGTERM)
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	log.Info().Msg("sourced stopped")
	return nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

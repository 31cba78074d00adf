package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-waypoint/internal/config"
	"github.com/joeblew999/plat-waypoint/internal/logging"
	"github.com/joeblew999/plat-waypoint/internal/server"
)

// Options defines all CLI flags and env vars for the waypoint server.
// Flags: --host, --port, --web-dir, --map-token, --profile, --log-level, --log-pretty, --session-ttl
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_WEB_DIR, SERVICE_MAP_TOKEN, ...
type Options struct {
	Host       string `doc:"Host to bind to" default:"0.0.0.0"`
	Port       int    `doc:"Port to listen on" short:"p" default:"8087"`
	WebDir     string `doc:"Serve web/ from this directory instead of the embedded copy"`
	MapToken   string `doc:"Mapbox access token (required to serve)"`
	Profile    string `doc:"Map profile file (YAML, JSON or TOML)"`
	LogLevel   string `doc:"Log level (trace, debug, info, warn, error)" default:"info"`
	LogPretty  bool   `doc:"Human-readable console logs"`
	SessionTTL string `doc:"Drop editor sessions idle for this long, e.g. 30m (0 keeps them)" default:"30m"`
}

func newLogger(opts *Options) zerolog.Logger {
	logger, err := logging.New(os.Stderr, opts.LogLevel, opts.LogPretty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q: %v\n", opts.LogLevel, err)
		os.Exit(1)
	}
	return logger
}

func newServer(opts *Options, logger zerolog.Logger) (*server.Server, error) {
	profile, err := config.LoadProfile(opts.Profile)
	if err != nil {
		return nil, err
	}
	ttl, err := time.ParseDuration(opts.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}
	return server.New(server.Config{
		Host:        opts.Host,
		Port:        fmt.Sprintf("%d", opts.Port),
		WebDir:      opts.WebDir,
		AccessToken: opts.MapToken,
		Profile:     profile,
		SessionTTL:  ttl,
		Logger:      logger,
	})
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		logger := newLogger(opts)
		ctx, cancel := context.WithCancel(context.Background())
		var httpServer *http.Server

		hooks.OnStart(func() {
			if err := config.RequireToken(opts.MapToken); err != nil {
				logger.Fatal().Err(err).Msg("set --map-token or SERVICE_MAP_TOKEN")
			}
			srv, err := newServer(opts, logger)
			if err != nil {
				logger.Fatal().Err(err).Msg("server setup failed")
			}
			go srv.Run(ctx)

			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			logger.Info().
				Str("editor", baseURL+"/editor").
				Str("docs", baseURL+"/docs").
				Str("openapi", baseURL+"/openapi.json").
				Msg("plat-waypoint server starting")

			httpServer = &http.Server{Addr: addr, Handler: srv}
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("server error")
			}
		})

		hooks.OnStop(func() {
			cancel()
			if httpServer == nil {
				return
			}
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown")
			}
		})
	})

	cli.Root().Use = "waypoint"
	cli.Root().Short = "Map editor for ordered waypoint routes"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv, err := newServer(opts, zerolog.Nop())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
				os.Exit(1)
			}
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	cli.Run()
}

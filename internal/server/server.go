package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/joeblew999/plat-waypoint/internal/api"
	"github.com/joeblew999/plat-waypoint/internal/api/editor"
	"github.com/joeblew999/plat-waypoint/internal/config"
	"github.com/joeblew999/plat-waypoint/internal/session"
	"github.com/joeblew999/plat-waypoint/internal/templates"
	"github.com/joeblew999/plat-waypoint/web"
)

// Config holds the server configuration.
type Config struct {
	Host        string
	Port        string
	WebDir      string // Serve templates and static files from disk instead of the embedded copy
	AccessToken string
	Profile     config.Profile
	SessionTTL  time.Duration
	Logger      zerolog.Logger
}

// Server is the waypoint editor HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	handler  http.Handler
	humaAPI  huma.API
	sessions *session.Manager
	renderer *templates.Renderer
	assets   fs.FS
	log      zerolog.Logger
}

// New creates a new waypoint editor server.
func New(cfg Config) (*Server, error) {
	mux := http.NewServeMux()

	// Create Huma API with humago (pure stdlib) adapter
	humaConfig := huma.DefaultConfig("plat-waypoint API", "1.0.0")
	humaConfig.Info.Description = "Waypoint editor API: per-session waypoint sequences, interaction modes and the Datastar map stream."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	var assets fs.FS = web.FS
	if cfg.WebDir != "" {
		assets = os.DirFS(cfg.WebDir)
	}
	renderer, err := templates.New(assets, web.TemplatePatterns...)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	log := cfg.Logger.With().Str("component", "server").Logger()
	s := &Server{
		config:  cfg,
		mux:     mux,
		humaAPI: humaAPI,
		sessions: session.NewManager(session.Config{
			AccessToken: cfg.AccessToken,
			Map:         cfg.Profile.MapOptions(),
		}, cfg.SessionTTL, cfg.Logger),
		renderer: renderer,
		assets:   assets,
		log:      log,
	}

	s.routes()
	s.handler = s.logRequests(mux)
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// OpenAPI returns the generated OpenAPI document.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Sessions returns the live session manager.
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// Run sweeps idle sessions until ctx is done.
func (s *Server) Run(ctx context.Context) {
	s.sessions.Run(ctx)
}

func (s *Server) routes() {
	// Register Huma REST API routes (OpenAPI-documented JSON endpoints)
	api.RegisterRoutes(s.humaAPI, s.sessions)
	api.NewInfoHandler(s.sessions, s.config.Profile).RegisterRoutes(s.humaAPI)

	// Register Editor SSE routes using Huma + Datastar SDK
	editor.NewHandler(s.sessions, s.renderer, s.config.Logger).RegisterRoutes(s.humaAPI)

	// Static files
	static, err := fs.Sub(s.assets, "static")
	if err == nil {
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	}

	// Page routes
	s.mux.HandleFunc("GET /editor", s.handleEditor)
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]string{
		"service": "plat-waypoint",
		"status":  "running",
		"editor":  "/editor",
	})
	if err != nil {
		s.log.Debug().Err(err).Msg("write root status")
	}
}

// handleEditor starts a fresh session for every page load.
func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	if s.config.WebDir != "" {
		if err := s.renderer.Reload(); err != nil {
			s.log.Error().Err(err).Msg("template reload failed")
		}
	}

	sess := s.sessions.Create()
	html, err := s.renderer.Render("editor-page", editor.NewPageData(sess))
	if err != nil {
		s.sessions.Remove(sess.ID)
		s.log.Error().Err(err).Msg("render editor page")
		http.Error(w, "failed to render editor", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write([]byte(html)); err != nil {
		s.log.Debug().Err(err).Str("session", sess.ID).Msg("write editor page")
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	h := hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})(next)
	return hlog.NewHandler(s.log)(h)
}

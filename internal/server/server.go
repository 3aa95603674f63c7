// Package server exposes the edit page over HTTP: an HTML admin front end,
// a JSON record API and the assets both need.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-recordedit/internal/config"
	"github.com/goliatone/go-recordedit/internal/openapi"
	"github.com/goliatone/go-recordedit/pkg/editpage"
	"github.com/goliatone/go-recordedit/pkg/i18n"
	"github.com/goliatone/go-recordedit/pkg/render"
	"github.com/goliatone/go-recordedit/pkg/renderers/jsonview"
	"github.com/goliatone/go-recordedit/pkg/renderers/vanilla"
	"github.com/goliatone/go-recordedit/pkg/widgets"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWidgets replaces the widget registry handed to every page.
func WithWidgets(registry *widgets.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.widgets = registry
		}
	}
}

// WithVanillaOptions appends options to the HTML renderer.
func WithVanillaOptions(options ...vanilla.Option) Option {
	return func(s *Server) {
		s.vanillaOptions = append(s.vanillaOptions, options...)
	}
}

// Server serves the admin edit pages for records read through a loader.
type Server struct {
	cfg        *config.Config
	loader     editpage.Loader
	logger     *slog.Logger
	widgets    *widgets.Registry
	translator *i18n.Catalog
	platform   editpage.Platform

	renderers      *render.Registry
	html           *vanilla.Renderer
	json           *jsonview.Renderer
	themes         *render.ThemeCatalog
	vanillaOptions []vanilla.Option

	spec      *openapi3.T
	validator func(http.Handler) http.Handler
}

// New wires renderers, themes and the API description around loader.
func New(ctx context.Context, cfg *config.Config, loader editpage.Loader, options ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: config is required")
	}
	if loader == nil {
		return nil, errors.New("server: loader is required")
	}
	s := &Server{
		cfg:      cfg,
		loader:   loader,
		logger:   slog.Default(),
		widgets:  widgets.NewRegistry(),
		platform: editpage.ParsePlatform(cfg.Admin.Platform),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	catalog, err := i18n.Default()
	if err != nil {
		return nil, fmt.Errorf("server: load translations: %w", err)
	}
	s.translator = catalog

	s.themes = render.NewThemeCatalog()
	if err := s.themes.Add(cfg.Theme.Manifest()); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	themeCfg, err := s.themes.Resolve(cfg.Theme.Name, cfg.Theme.Variant)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	htmlOptions := []vanilla.Option{
		vanilla.WithDefaultStyles(),
		vanilla.WithAssetPrefix("/assets"),
		vanilla.WithTheme(themeCfg),
		vanilla.WithLogger(s.logger),
		vanilla.WithTranslator(s.translator),
	}
	if dir := cfg.Templates.Dir; dir != "" {
		htmlOptions = append(htmlOptions, vanilla.WithTemplatesDir(dir))
	}
	s.html, err = vanilla.New(append(htmlOptions, s.vanillaOptions...)...)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.json = jsonview.New()

	s.renderers = render.NewRegistry()
	s.renderers.MustRegister(s.html)
	s.renderers.MustRegister(s.json)

	s.spec, err = openapi.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.validator, err = openapi.RequestValidator(s.spec)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	return s, nil
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.validator)
		r.Get("/openapi.json", s.openAPI)
		r.Get("/records/{record}", s.getRecord)
		r.Put("/records/{record}", s.putRecord)
	})

	base := s.adminBase()
	r.Get(base+"/edit/{record}", s.showEdit)
	r.Post(base+"/edit/{record}", s.submitEdit)
	r.Post(base+"/delete/{record}", s.deleteRecord)
	return r
}

func (s *Server) adminBase() string {
	return strings.TrimRight(s.cfg.Admin.BaseURL, "/")
}

func (s *Server) pageURL(page, urlPath string) string {
	return s.cfg.Admin.PageURL(page, urlPath)
}

// Run serves HTTP until ctx is cancelled or a shutdown signal arrives. The
// template directory is watched when configured.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.App.HTTP.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if s.cfg.Templates.Watch {
		g.Go(func() error {
			if err := s.html.Watch(gCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watch templates: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		s.logger.Info("Starting HTTP server", slog.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			s.logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			s.logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		s.logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the template watcher stops with the HTTP
// server.
var errShutdown = errors.New("server: shut down")

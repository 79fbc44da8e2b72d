package main

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	auth2 "github.com/go-pkgz/auth/v2"
	"github.com/icco/gutil/logging"
	"github.com/icco/recall"
	"github.com/icco/recall/cmd/server/docs"
	"github.com/icco/recall/store"
	"github.com/microcosm-cc/bluemonday"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/unrolled/render"
	"github.com/unrolled/secure"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// Renderer renders every JSON response.
	Renderer = render.New(render.Options{
		Charset:                   "UTF-8",
		DisableHTTPErrorRendering: false,
		IndentJSON:                false,
	})

	log       = logging.Must(logging.NewLogger(recall.Service))
	ugcPolicy = bluemonday.StrictPolicy()
)

func clean(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}

// @title Recall API
// @version 1.0
// @description Memory-training games, sessions, rounds and performance tracking
// @contact.name API Support
// @contact.url http://github.com/icco/recall
// @license.name MIT
// @license.url https://github.com/icco/recall/blob/main/LICENSE
// @host recall.natwelch.com
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token in format: Bearer {token}

type server struct {
	cfg     Config
	store   *store.Store
	actions *recall.Actions
	auth    *auth2.Service
	metrics *metrics
}

func newServer(cfg Config, db *gorm.DB) (*server, error) {
	m, err := newMetrics()
	if err != nil {
		return nil, err
	}

	st := store.New(db)
	return &server{
		cfg:     cfg,
		store:   st,
		actions: recall.NewActions(st, log),
		auth:    newAuthService(cfg),
		metrics: m,
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(log.Desugar()))

	r.Use(cors.New(cors.Options{
		AllowCredentials:   true,
		OptionsPassthrough: true,
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:     []string{"Link"},
		MaxAge:             300, // Maximum value not ignored by any of major browsers
	}).Handler)

	r.NotFound(notFoundHandler)

	// Probes and scrapes skip the SSL redirect.
	r.Get("/healthz", s.healthCheckHandler)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Group(func(r chi.Router) {
		r.Use(secure.New(secure.Options{
			BrowserXssFilter:     true,
			ContentTypeNosniff:   true,
			FrameDeny:            true,
			HostsProxyHeaders:    []string{"X-Forwarded-Host"},
			IsDevelopment:        s.cfg.IsDev(),
			SSLProxyHeaders:      map[string]string{"X-Forwarded-Proto": "https"},
			SSLRedirect:          !s.cfg.IsDev(),
			STSIncludeSubdomains: true,
			STSPreload:           true,
			STSSeconds:           315360000,
		}).Handler)

		r.Get("/", rootHandler)
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL(strings.TrimSuffix(s.cfg.AuthURL, "/")+"/swagger/doc.json"),
		))

		r.Mount("/auth", s.authRoutes())

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/catalog", s.catalogHandler)

			r.Route("/games", func(r chi.Router) {
				r.Post("/", s.createGameHandler)
				r.Get("/", s.listMyGamesHandler)
				r.Get("/{id}", s.getGameHandler)
				r.Patch("/{id}", s.updateGameHandler)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", s.startSessionHandler)
				r.Get("/{id}", s.getSessionHandler)
				r.Post("/{id}/complete", s.completeSessionHandler)
				r.Post("/{id}/rounds", s.recordRoundHandler)
			})

			r.Get("/performance", s.listPerformanceHandler)
			r.Put("/performance/{gameId}", s.upsertPerformanceHandler)
		})
	})

	return otelhttp.NewHandler(r, recall.Service, otelhttp.WithMeterProvider(s.metrics.provider))
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalw("could not load config", zap.Error(err))
	}
	log.Infow("Starting up", "host", cfg.AuthURL, "port", cfg.Port)

	db, err := store.Open(store.Config{
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
		Logger:      log.Desugar(),
	})
	if err != nil {
		log.Fatalw("could not get db", zap.Error(err))
	}

	s, err := newServer(cfg, db)
	if err != nil {
		log.Fatalw("could not build server", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.metrics.shutdown(ctx); err != nil {
			log.Errorw("could not shut down metrics", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        s.routes(),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Errorw("server stopped", zap.Error(err))
	}
}

// @Summary Get API information
// @Description Returns basic API information and available endpoints
// @Tags info
// @Produce html
// @Success 200 {string} string "HTML page with API information"
// @Router / [get]
func rootHandler(w http.ResponseWriter, r *http.Request) {
	spec, err := docs.GetSwaggerSpec()
	if err != nil {
		log.Errorw("failed to parse swagger.json", zap.Error(err))
		spec = &docs.SwaggerSpec{}
	}

	var b strings.Builder
	b.WriteString(`
<html>
  <head>
    <title>Recall API</title>
    <style>
      body { font-family: Arial, sans-serif; max-width: 800px; margin: 40px auto; padding: 20px; }
      .endpoint { margin: 20px 0; padding: 15px; border-left: 4px solid #007acc; background: #f8f9fa; }
      .method { font-weight: bold; color: #007acc; text-transform: uppercase; }
      .path { font-family: monospace; margin: 5px 0; }
      .description { color: #666; margin: 5px 0; }
    </style>
  </head>
  <body>
    <h1>Recall API</h1>
    <p>Memory-training games, sessions and performance tracking.</p>
    <p><a href="/swagger/">View Swagger Documentation</a></p>
    <h2>Available Endpoints</h2>`)

	for _, e := range spec.Endpoints() {
		lock := ""
		if e.Protected() {
			lock = " (auth)"
		}
		fmt.Fprintf(&b, `
    <div class="endpoint">
      <div class="method">%s%s</div>
      <div class="path">%s</div>
      <div class="description">%s</div>
    </div>`, e.Method, lock, html.EscapeString(e.Path), html.EscapeString(e.Description))
	}

	b.WriteString(`
  </body>
</html>`)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(b.String())); err != nil {
		log.Errorw("failed to write response", zap.Error(err))
	}
}

// @Summary Health check
// @Description Returns service health status
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func (s *server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Healthy:  "true",
		Revision: s.cfg.GitRevision,
		Tag:      s.cfg.GitTag,
		Branch:   s.cfg.GitBranch,
	}

	status := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		log.Errorw("database ping failed", zap.Error(err))
		resp.Healthy = "false"
		status = http.StatusServiceUnavailable
	}

	renderJSON(w, status, resp)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusNotFound, ErrorResponse{
		Error: "404: This page could not be found",
		Kind:  recall.KindNotFound,
	})
}

// Package server exposes the generation form, its exports and a small
// JSON API over HTTP.
package server

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"social_media_agent/generator"
	"social_media_agent/history"
	"social_media_agent/present"
)

//go:embed web/templates/*.html
var templateFS embed.FS

// Options tunes a Server. Zero values fall back to sensible defaults.
type Options struct {
	CORSOrigins []string
	SessionTTL  time.Duration
	Shown       int
	Footer      string
	Logger      logrus.FieldLogger
	Registry    *prometheus.Registry
}

type Server struct {
	agent    *generator.Agent
	store    history.Store
	logger   logrus.FieldLogger
	metrics  *Metrics
	registry *prometheus.Registry
	tmpl     *template.Template
	opts     Options

	inflight sync.Map
}

func New(agent *generator.Agent, store history.Store, opts Options) (*Server, error) {
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	if store == nil {
		return nil, errors.New("history store required")
	}
	if opts.Shown <= 0 {
		opts.Shown = history.Shown
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		opts.Logger = l
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"inline":   present.Inline,
		"hashtags": present.HashtagLine,
		"label":    present.HistoryLabel,
		"empty":    func() string { return present.Empty },
	}).ParseFS(templateFS, "web/templates/*.html")
	if err != nil {
		return nil, err
	}

	metrics, err := NewMetrics(opts.Registry)
	if err != nil {
		return nil, err
	}

	return &Server{
		agent:    agent,
		store:    store,
		logger:   opts.Logger,
		metrics:  metrics,
		registry: opts.Registry,
		tmpl:     tmpl,
		opts:     opts,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerate)
	r.Get("/results/{id}/captions.csv", s.handleCaptionsCSV)
	r.Get("/results/{id}/output.txt", s.handleOutputTXT)
	r.Get("/history/{n}/raw.txt", s.handleHistoryRaw)

	r.Route("/api", func(r chi.Router) {
		if len(s.opts.CORSOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   s.opts.CORSOrigins,
				AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders:   []string{"Content-Type"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
		}
		r.Post("/generate", s.handleAPIGenerate)
		r.Get("/history", s.handleAPIHistory)
	})
	return r
}

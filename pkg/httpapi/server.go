// Package httpapi serves form descriptors over HTTP.
//
//	GET /health
//	GET /schema
//	GET /forms
//	GET /forms/{template}?method=put&prefix=users&entity=42&actions=update,destroy&locale=es
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/entity"
	"github.com/goliatone/go-formbuilder/pkg/i18n"
	"github.com/goliatone/go-formbuilder/pkg/routing"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

// EntityFinder loads the record a form edits. *entity.Store satisfies it.
type EntityFinder interface {
	Find(ctx context.Context, id any) (entity.Record, error)
}

// Server wires a template store and the builder capabilities into HTTP
// handlers.
type Server struct {
	templates  *templates.Store
	resolver   routing.Resolver
	gate       routing.AccessGate
	translator i18n.Translator
	locale     string
	entities   EntityFinder
	observer   builder.Observer
	gatherer   prometheus.Gatherer
	logger     *slog.Logger
	secret     []byte
	origins    []string
}

// Option customises a Server.
type Option func(*Server)

// WithAccessGate enables route authorisation against the request user.
func WithAccessGate(gate routing.AccessGate) Option {
	return func(s *Server) {
		s.gate = gate
	}
}

// WithTranslator sets the translator and the locale used when a request names
// none.
func WithTranslator(t i18n.Translator, defaultLocale string) Option {
	return func(s *Server) {
		s.translator = t
		s.locale = defaultLocale
	}
}

// WithEntities enables loading the edited record by the `entity` query
// parameter.
func WithEntities(finder EntityFinder) Option {
	return func(s *Server) {
		s.entities = finder
	}
}

// WithObserver forwards build results, typically to a metrics collector.
func WithObserver(observer builder.Observer) Option {
	return func(s *Server) {
		s.observer = observer
	}
}

// WithMetrics exposes gatherer on GET /metrics.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithLogger sets the request and diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithJWTSecret enables bearer token authentication.
func WithJWTSecret(secret string) Option {
	return func(s *Server) {
		s.secret = []byte(secret)
	}
}

// WithCORSOrigins enables CORS for the given origins.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = append([]string(nil), origins...)
	}
}

// New returns a Server serving store through resolver.
func New(store *templates.Store, resolver routing.Resolver, opts ...Option) *Server {
	s := &Server{
		templates: store,
		resolver:  resolver,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler returns the chi router for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Accept-Language"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.health)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(s.bearer)
		r.Get("/schema", s.describeSchema)
		r.Get("/forms", s.listForms)
		r.Get("/forms/*", s.buildForm)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

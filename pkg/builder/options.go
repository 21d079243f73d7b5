package builder

import (
	"io"
	"log/slog"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/i18n"
	"github.com/goliatone/go-formbuilder/pkg/routing"
)

// Option customises a Builder.
type Option func(*options)

type options struct {
	resolver     routing.Resolver
	gate         routing.AccessGate
	user         any
	translator   i18n.Translator
	locale       string
	onMissing    i18n.MissingTranslationHandler
	logger       *slog.Logger
	observer     Observer
	strictMeta   bool
	strictAccess bool
}

func defaultOptions() options {
	return options{
		strictMeta: true,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithResolver sets the routing capability used to turn route names into
// paths.
func WithResolver(resolver routing.Resolver) Option {
	return func(o *options) {
		o.resolver = resolver
	}
}

// WithAccessGate enables route authorisation for SetRoute, checked against
// user.
func WithAccessGate(gate routing.AccessGate, user any) Option {
	return func(o *options) {
		o.gate = gate
		o.user = user
	}
}

// WithTranslator sets the translator and locale used for the title and
// button labels.
func WithTranslator(t i18n.Translator, locale string) Option {
	return func(o *options) {
		o.translator = t
		o.locale = locale
	}
}

// WithMissingTranslation overrides what is emitted when a key cannot be
// translated. The default keeps the key.
func WithMissingTranslation(handler i18n.MissingTranslationHandler) Option {
	return func(o *options) {
		o.onMissing = handler
	}
}

// WithLogger routes builder diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver registers an observer notified after every Build.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLenientMeta accepts metadata attribute names outside the schema table
// and stores SetMetaParam values without coercion. Mandatory attributes and the
// type check still apply.
func WithLenientMeta() Option {
	return func(o *options) {
		o.strictMeta = false
	}
}

// WithStrictRouteAccess makes SetRoute fail with form.ErrRouteAccessDenied
// instead of silently ignoring routes the user cannot reach.
func WithStrictRouteAccess() Option {
	return func(o *options) {
		o.strictAccess = true
	}
}

// Observer receives the outcome of each Build call.
type Observer interface {
	ObserveBuild(Result)
}

// ObserverFunc adapts a function into an Observer.
type ObserverFunc func(Result)

// ObserveBuild calls the underlying function.
func (fn ObserverFunc) ObserveBuild(result Result) {
	fn(result)
}

// Result summarises a Build call. Method and Actions are empty when the
// pipeline failed before resolving them.
type Result struct {
	Method   form.Method
	Actions  []form.Action
	Duration time.Duration
	Err      error
}

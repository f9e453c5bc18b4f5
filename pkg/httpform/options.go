package httpform

import (
	"net/http"

	theme "github.com/goliatone/go-theme"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render/template"
	"github.com/goliatone/go-formkit/pkg/session"
)

// GuardFunc rejects a request before the form sees it. Errors implementing
// HTTPError choose the status code.
type GuardFunc func(r *http.Request) error

// SessionBackend hands out the form session store of one browser session.
// *session.MemoryStore satisfies it.
type SessionBackend interface {
	Scope(id string) (form.SessionStore, error)
}

// Options configure the HTTP glue around a form.
type Options struct {
	RoutePath string
	Guard     GuardFunc

	// Renderer renders the form template. Without one the form markup is
	// written as is.
	Renderer template.TemplateRenderer

	Sessions        SessionBackend
	DisableSessions bool
	CookieName      string
	CookiePath      string
	CookieSecure    bool

	// MaxMemory bounds multipart parsing, see http.Request.ParseMultipartForm.
	MaxMemory int64

	Logger     logrus.FieldLogger
	Registerer prometheus.Registerer
	TracerName string

	ThemeSelector theme.ThemeSelector
	ThemeName     string
	ThemeVariant  string
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:  "/",
		CookieName: "formkit_session",
		CookiePath: "/",
		MaxMemory:  32 << 20,
		TracerName: "formkit",
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/"
	}
	if opts.CookieName == "" {
		opts.CookieName = "formkit_session"
	}
	if opts.CookiePath == "" {
		opts.CookiePath = "/"
	}
	if opts.MaxMemory <= 0 {
		opts.MaxMemory = 32 << 20
	}
	if opts.TracerName == "" {
		opts.TracerName = "formkit"
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Sessions == nil && !opts.DisableSessions {
		opts.Sessions = session.NewMemoryStore()
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithRenderer(renderer template.TemplateRenderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}

// WithSessions shares a session store between handlers.
func WithSessions(store SessionBackend) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Sessions = store
		o.DisableSessions = store == nil
	}
}

// WithoutSessions turns off the redirect-after-post session slot.
func WithoutSessions() OptionFn {
	return WithSessions(nil)
}

func WithCookie(name, path string, secure bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieName = name
		o.CookiePath = path
		o.CookieSecure = secure
	}
}

func WithMaxMemory(size int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxMemory = size
	}
}

func WithLogger(logger logrus.FieldLogger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithRegisterer registers the submission counters on reg instead of the
// default registry.
func WithRegisterer(reg prometheus.Registerer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Registerer = reg
	}
}

func WithTracerName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.TracerName = name
	}
}

// WithThemeSelector resolves template overrides and tokens from a go-theme
// selection before rendering.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ThemeSelector = selector
		o.ThemeName = name
		o.ThemeVariant = variant
	}
}

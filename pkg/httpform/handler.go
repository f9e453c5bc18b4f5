package httpform

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-formkit/pkg/form"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Handler serves f over net/http with default options plus any overrides.
func Handler(f *form.Form, fns ...OptionFn) http.Handler {
	return HandlerWithOptions(f, NewOptions(fns...))
}

// HandlerWithOptions serves f using a pre-built Options value. Defaults are
// applied again so a zero Options works.
func HandlerWithOptions(f *form.Form, opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	m := newMetrics(opts.Registerer)
	tracer := otel.Tracer(opts.TracerName)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		ctx, span := tracer.Start(r.Context(), "formkit.Handle",
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("formkit.form", f.Name()),
				attribute.String("http.method", r.Method),
			),
		)
		defer span.End()
		r = r.WithContext(ctx)

		logger := opts.Logger.WithFields(logrus.Fields{
			"form":   f.Name(),
			"method": r.Method,
			"path":   r.URL.Path,
		})
		sw := &statusWriter{ResponseWriter: w}

		outcome, failed, err := serve(sw, r, f, opts)
		m.observe(f.Name(), outcome, failed)
		span.SetAttributes(attribute.String("formkit.outcome", outcome))

		entry := logger.WithField("outcome", outcome)
		if err == nil {
			entry.Debug("form request handled")
			return
		}

		status := statusFor(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if status >= http.StatusInternalServerError {
			entry.WithError(err).Error("form request failed")
		} else {
			entry.WithError(err).Warn("form request rejected")
		}
		if sw.written() {
			return
		}
		if status == http.StatusMethodNotAllowed {
			sw.Header().Set("Allow", "GET, HEAD, POST")
		}
		http.Error(sw, http.StatusText(status), status)
	})
}

// serve runs one request through the form lifecycle and classifies it.
func serve(w *statusWriter, r *http.Request, f *form.Form, opts Options) (string, []string, error) {
	if opts.Guard != nil {
		if err := opts.Guard(r); err != nil {
			return OutcomeRejected, nil, err
		}
	}

	view, err := resolveTheme(opts)
	if err != nil {
		opts.Logger.WithError(err).WithField("form", f.Name()).Warn("theme selection failed, using defaults")
		view = nil
	}

	store, err := sessionFor(w, r, opts)
	if err != nil {
		return OutcomeError, nil, err
	}

	req := request{r: r, session: store, maxMemory: opts.MaxMemory}
	res := &response{w: w, r: r, opts: opts, theme: view}

	h, err := f.Handle(r.Context(), req, res)
	switch {
	case errors.Is(err, form.ErrUnsupportedMethod):
		return OutcomeUnsupported, nil, StatusError{Code: http.StatusMethodNotAllowed, Err: err}
	case errors.Is(err, errBadBody):
		return OutcomeError, nil, StatusError{Code: http.StatusBadRequest, Err: err}
	case r.Method != http.MethodPost:
		if err != nil {
			return OutcomeError, nil, err
		}
		return OutcomeRendered, nil, nil
	}

	var failed []string
	if h != nil {
		if verr := h.ValidationErrors(); verr != nil {
			failed = verr.FieldIDs()
		}
	}
	switch {
	case err != nil:
		return OutcomeError, failed, err
	case len(failed) > 0:
		return OutcomeInvalid, failed, nil
	default:
		return OutcomeSuccess, nil, nil
	}
}

func statusFor(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode()
	}
	return http.StatusInternalServerError
}

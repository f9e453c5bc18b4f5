package form

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/formerror"
)

// ErrUnsupportedMethod is returned by Handle for methods other than GET,
// HEAD and POST. Callers usually pass the request on to the next handler.
var ErrUnsupportedMethod = errors.New("form: unsupported method")

// Request is the part of an incoming request the lifecycle needs.
type Request interface {
	Method() string
	Path() string
	// Body returns the submitted values keyed by field id.
	Body() (field.Body, error)
	// XHR reports whether the client expects a JSON answer.
	XHR() bool
	// Session returns nil when the request has no session.
	Session() SessionStore
}

// Response is the part of the response the lifecycle drives.
type Response interface {
	Render(ctx context.Context, template string, data map[string]any) error
	Redirect(ctx context.Context, url string) error
	JSON(ctx context.Context, status int, payload any) error
}

// SessionRecord is the per-form slot that survives a redirect after POST.
type SessionRecord struct {
	Values       field.Values `json:"values,omitempty"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
	Success      bool         `json:"success,omitempty"`
}

// SessionStore keeps one record per form name. Records are single use: the
// GET that reads a record deletes it.
type SessionStore interface {
	Get(ctx context.Context, form string) (SessionRecord, bool, error)
	Set(ctx context.Context, form string, record SessionRecord) error
	Delete(ctx context.Context, form string) error
}

// Result is the JSON body sent to XHR clients.
type Result struct {
	Values       field.Values     `json:"values"`
	ErrorMessage *formerror.Error `json:"errorMessage"`
	Success      bool             `json:"success,omitempty"`
}

// GetValuesFunc loads the current values, e.g. from a backing store.
type GetValuesFunc func(ctx context.Context, req Request) (field.Values, error)

// SetValuesFunc persists validated values.
type SetValuesFunc func(ctx context.Context, req Request, values field.Values) error

// SuccessHandlerFunc answers a valid, persisted submission.
type SuccessHandlerFunc func(ctx context.Context, f *Form, h *Handler, req Request, res Response) error

// ErrorHandlerFunc answers a failed submission. err is either a
// *formerror.Error or an upstream error from SetValues.
type ErrorHandlerFunc func(ctx context.Context, f *Form, h *Handler, err error, req Request, res Response) error

func defaultGetValues(context.Context, Request) (field.Values, error) {
	return field.Values{}, nil
}

func defaultSetValues(context.Context, Request, field.Values) error {
	return nil
}

// Handle runs one request through the form: GET renders the form (restoring
// a redirected submission from the session), POST validates, persists and
// dispatches to the success or error handler. Upstream errors are returned
// untouched.
func (f *Form) Handle(ctx context.Context, req Request, res Response) (*Handler, error) {
	switch strings.ToUpper(req.Method()) {
	case http.MethodGet, http.MethodHead:
		return f.handleGet(ctx, req, res)
	case http.MethodPost:
		return f.handlePost(ctx, req, res)
	default:
		return nil, fmt.Errorf("%w %s", ErrUnsupportedMethod, req.Method())
	}
}

// Retrieve resolves the values and render options of a GET without
// rendering anything.
func (f *Form) Retrieve(ctx context.Context, req Request) (*Handler, error) {
	opts := field.RenderOptions{HideErrors: true}
	if session := req.Session(); session != nil {
		record, ok, err := session.Get(ctx, f.name)
		if err != nil {
			return nil, fmt.Errorf("form: %s: read session: %w", f.name, err)
		}
		if ok {
			if err := session.Delete(ctx, f.name); err != nil {
				return nil, fmt.Errorf("form: %s: clear session: %w", f.name, err)
			}
			opts.RenderSuccess = record.Success
			if record.ErrorMessage != "" {
				opts.HideErrors = false
				opts.ErrorMessage = record.ErrorMessage
			}
			if record.Values != nil {
				return f.NewHandler(record.Values, opts), nil
			}
		}
	}

	values, err := f.opts.GetValues(ctx, req)
	if err != nil {
		return nil, err
	}
	return f.NewHandler(values, opts), nil
}

func (f *Form) handleGet(ctx context.Context, req Request, res Response) (*Handler, error) {
	h, err := f.Retrieve(ctx, req)
	if err != nil {
		return nil, err
	}
	template := f.opts.Template
	if h.opts.RenderSuccess && f.opts.SuccessTemplate != "" {
		template = f.opts.SuccessTemplate
	}
	data := map[string]any{
		"form":  h,
		"forms": map[string]*Handler{f.name: h},
	}
	if err := res.Render(ctx, template, data); err != nil {
		return h, err
	}
	return h, nil
}

func (f *Form) handlePost(ctx context.Context, req Request, res Response) (*Handler, error) {
	body, err := req.Body()
	if err != nil {
		return nil, fmt.Errorf("form: %s: read body: %w", f.name, err)
	}
	values := f.ParseBody(body)
	h := f.NewHandler(values, field.RenderOptions{})

	if session := req.Session(); session != nil && !req.XHR() {
		if err := session.Set(ctx, f.name, SessionRecord{Values: values}); err != nil {
			return h, fmt.Errorf("form: %s: write session: %w", f.name, err)
		}
	}

	if !h.Valid() {
		return h, f.opts.ErrorHandler(ctx, f, h, h.ValidationErrors(), req, res)
	}
	if err := f.opts.SetValues(ctx, req, values); err != nil {
		return h, f.opts.ErrorHandler(ctx, f, h, err, req, res)
	}
	return h, f.opts.SuccessHandler(ctx, f, h, req, res)
}

// DefaultSuccessHandler redirects browsers back to the form (or to
// RedirectURL) with the success flag in the session. XHR clients get the
// fresh values as JSON unless RedirectURL is set.
func DefaultSuccessHandler(ctx context.Context, f *Form, _ *Handler, req Request, res Response) error {
	redirect := f.opts.RedirectURL
	if req.XHR() {
		values, err := f.opts.GetValues(ctx, req)
		if err != nil {
			return err
		}
		if values == nil {
			values = field.Values{}
		}
		if redirect != "" {
			return res.Redirect(ctx, redirect)
		}
		return res.JSON(ctx, http.StatusOK, Result{Values: values, Success: true})
	}

	if session := req.Session(); session != nil {
		var err error
		if redirect == "" {
			err = session.Set(ctx, f.name, SessionRecord{Success: true})
		} else {
			err = session.Delete(ctx, f.name)
		}
		if err != nil {
			return fmt.Errorf("form: %s: write session: %w", f.name, err)
		}
	}
	if redirect == "" {
		redirect = req.Path()
	}
	return res.Redirect(ctx, redirect)
}

// DefaultErrorHandler answers validation failures: JSON 403 for XHR clients,
// otherwise the error is stored in the session and the browser is sent back
// to the form. Other errors are returned unchanged.
func DefaultErrorHandler(ctx context.Context, f *Form, h *Handler, err error, req Request, res Response) error {
	var formErr *formerror.Error
	if !errors.As(err, &formErr) {
		return err
	}
	if req.XHR() {
		return res.JSON(ctx, http.StatusForbidden, Result{Values: h.Values(), ErrorMessage: formErr})
	}
	if session := req.Session(); session != nil {
		record := SessionRecord{Values: h.Values(), ErrorMessage: formErr.Error()}
		if err := session.Set(ctx, f.name, record); err != nil {
			return fmt.Errorf("form: %s: write session: %w", f.name, err)
		}
	}
	return res.Redirect(ctx, req.Path())
}

package httpform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/goliatone/go-formkit/pkg/form"
)

// response adapts http.ResponseWriter to form.Response.
type response struct {
	w     *statusWriter
	r     *http.Request
	opts  Options
	theme *themeView
}

var _ form.Response = (*response)(nil)

// Render executes the named template through the configured renderer. The
// theme may swap the template name and contributes a "theme" value. Without
// a renderer the form markup is written directly.
func (res *response) Render(_ context.Context, name string, data map[string]any) error {
	res.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if res.opts.Renderer == nil {
		h, _ := data["form"].(*form.Handler)
		if h == nil {
			return fmt.Errorf("httpform: no renderer and no form handler to render %q", name)
		}
		res.w.WriteHeader(http.StatusOK)
		_, err := res.w.Write([]byte(h.HTML()))
		return err
	}

	if themed := res.theme.data(); themed != nil {
		data["theme"] = themed
	}
	var page bytes.Buffer
	if err := res.opts.Renderer.Render(&page, res.theme.Template(name), data); err != nil {
		return fmt.Errorf("httpform: render %q: %w", name, err)
	}
	res.w.WriteHeader(http.StatusOK)
	_, err := page.WriteTo(res.w)
	return err
}

// Redirect answers with 302 Found.
func (res *response) Redirect(_ context.Context, url string) error {
	http.Redirect(res.w, res.r, url, http.StatusFound)
	return nil
}

func (res *response) JSON(_ context.Context, status int, payload any) error {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	return json.NewEncoder(res.w).Encode(payload)
}

// statusWriter remembers whether a response was started so error paths do
// not write twice.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status != 0 {
		return
	}
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(p)
}

func (w *statusWriter) written() bool { return w.status != 0 }

package pongo

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formkit/pkg/render/template"
)

// ErrNoTemplates is returned by New when neither a directory nor a
// filesystem was given.
var ErrNoTemplates = errors.New("pongo: no template directory or filesystem")

// Option configures an Engine.
type Option func(*Engine) error

// WithBaseDir looks templates up in dir. Blank dirs are ignored.
func WithBaseDir(dir string) Option {
	return func(e *Engine) error {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			return nil
		}
		loader, err := pongo2.NewLocalFileSystemLoader(dir)
		if err != nil {
			return fmt.Errorf("pongo: template dir %q: %w", dir, err)
		}
		e.loaders = append(e.loaders, loader)
		return nil
	}
}

// WithFS looks templates up in files, after any base dir.
func WithFS(files fs.FS) Option {
	return func(e *Engine) error {
		if files != nil {
			e.loaders = append(e.loaders, pongo2.NewFSLoader(files))
		}
		return nil
	}
}

// WithExtension sets the suffix appended to template names ("tpl" by
// default). The leading dot is optional.
func WithExtension(ext string) Option {
	return func(e *Engine) error {
		if ext = strings.TrimPrefix(strings.TrimSpace(ext), "."); ext != "" {
			e.ext = "." + ext
		}
		return nil
	}
}

// WithReload parses templates on every render instead of once.
func WithReload(reload bool) Option {
	return func(e *Engine) error {
		e.reload = reload
		return nil
	}
}

// Engine renders form pages with pongo2. Besides the pongo2 builtins,
// templates get a "trim" filter and a "sanitize" filter that cleans user
// supplied HTML.
type Engine struct {
	set     *pongo2.TemplateSet
	ext     string
	reload  bool
	loaders []pongo2.TemplateLoader
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine. WithBaseDir or WithFS must supply templates.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{ext: ".tpl"}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if len(e.loaders) == 0 {
		return nil, ErrNoTemplates
	}

	e.set = pongo2.NewSet("formkit", e.loaders...)
	e.set.Debug = e.reload
	e.loaders = nil
	filters.Do(registerFilters)
	return e, nil
}

// Render executes the template name, with the engine extension added when
// missing, and writes the output to w. Nothing is written if execution fails.
func (e *Engine) Render(w io.Writer, name string, data map[string]any) error {
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}
	tmpl, err := e.set.FromCache(path)
	if err != nil {
		return fmt.Errorf("pongo: load %q: %w", path, err)
	}
	out, err := tmpl.ExecuteBytes(pongo2.Context(data))
	if err != nil {
		return fmt.Errorf("pongo: execute %q: %w", path, err)
	}
	_, err = w.Write(out)
	return err
}

var (
	filters sync.Once
	ugc     = bluemonday.UGCPolicy()
)

// registerFilters installs the engine filters. pongo2 keeps filters in a
// process wide registry, so names already taken are left alone.
func registerFilters() {
	for name, fn := range map[string]pongo2.FilterFunction{
		"trim":     trimFilter,
		"sanitize": sanitizeFilter,
	} {
		if !pongo2.FilterExists(name) {
			_ = pongo2.RegisterFilter(name, fn)
		}
	}
}

func trimFilter(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// sanitizeFilter output is marked safe so autoescaping leaves the allowed
// markup intact.
func sanitizeFilter(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsSafeValue(""), nil
	}
	return pongo2.AsSafeValue(ugc.Sanitize(in.String())), nil
}

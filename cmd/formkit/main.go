// Command formkit renders, fills or serves a form described by a schema
// document or an OpenAPI operation.
//
//	formkit html  -schema contact.yaml
//	formkit fill  -openapi api.yaml -operation createContact -format pretty
//	formkit serve -schema contact.yaml -templates ./templates -addr :8383
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	formkit "github.com/goliatone/go-formkit"
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/httpform"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/render/template/pongo"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
)

const usage = `usage: formkit <html|fill|serve> [flags]`

type sourceFlags struct {
	schema    *string
	openapi   *string
	operation *string
}

func bindSource(fs *flag.FlagSet) sourceFlags {
	return sourceFlags{
		schema:    fs.String("schema", "", "schema document (.yaml, .yml or .json)"),
		openapi:   fs.String("openapi", "", "OpenAPI document to derive the form from"),
		operation: fs.String("operation", "", "operation ID inside -openapi"),
	}
}

func (s sourceFlags) load(ctx context.Context) (*form.Form, error) {
	switch {
	case strings.TrimSpace(*s.schema) != "":
		path := filepath.Clean(*s.schema)
		return formkit.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	case strings.TrimSpace(*s.openapi) != "":
		if *s.operation == "" {
			return nil, errors.New("-operation is required with -openapi")
		}
		return formkit.FromOpenAPI(ctx, openapi.NewLoader(), openapi.SourceFromFile(*s.openapi), *s.operation)
	default:
		return nil, errors.New("one of -schema or -openapi is required")
	}
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "html":
		err = runHTML(ctx, os.Args[2:], os.Stdout)
	case "fill":
		err = runFill(ctx, os.Args[2:], os.Stdout)
	case "serve":
		err = runServe(ctx, os.Args[2:], logger)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if errors.Is(err, tui.ErrAborted) {
		os.Exit(130)
	}
	if err != nil {
		logger.WithError(err).Fatal("formkit failed")
	}
}

func runHTML(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("html", flag.ExitOnError)
	src := bindSource(fs)
	output := fs.String("output", "", "output file (stdout if empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := src.load(ctx)
	if err != nil {
		return err
	}
	html := f.HTML(nil, field.RenderOptions{})
	if *output != "" {
		return os.WriteFile(*output, []byte(html+"\n"), 0o644)
	}
	_, err = fmt.Fprintln(out, html)
	return err
}

func runFill(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("fill", flag.ExitOnError)
	src := bindSource(fs)
	format := fs.String("format", string(tui.OutputFormatJSON), "output format: json, form or pretty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := src.load(ctx)
	if err != nil {
		return err
	}
	payload, err := tui.New(tui.WithOutput(os.Stderr), tui.WithOutputFormat(tui.OutputFormat(*format))).Render(ctx, f, nil)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(payload))
	return err
}

func runServe(ctx context.Context, args []string, logger *logrus.Logger) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	src := bindSource(fs)
	addr := fs.String("addr", ":8383", "HTTP listen address")
	base := fs.String("base", "/forms", "base path the form is mounted under")
	templates := fs.String("templates", "", "pongo2 templates directory (built-in markup if empty)")
	ext := fs.String("template-ext", "tpl", "template file extension")
	grace := fs.Duration("grace", 5*time.Second, "shutdown grace period")
	debug := fs.Bool("debug", false, "log every request outcome and reparse templates on each render")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	f, err := src.load(ctx)
	if err != nil {
		return err
	}

	opts := []httpform.OptionFn{
		httpform.WithRoutePath("/" + f.Name()),
		httpform.WithLogger(logger),
	}
	if *templates != "" {
		engine, err := pongo.New(
			pongo.WithBaseDir(*templates),
			pongo.WithExtension(*ext),
			pongo.WithReload(*debug),
		)
		if err != nil {
			return fmt.Errorf("templates: %w", err)
		}
		opts = append(opts, httpform.WithRenderer(engine))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	pattern, err := httpform.RegisterRoutes(r, *base, f, opts...)
	if err != nil {
		return err
	}
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: *addr, Handler: r}
	logger.WithFields(logrus.Fields{"addr": *addr, "form": pattern}).Info("listening")

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *grace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

package tui

import (
	"io"

	"github.com/goliatone/go-formkit/pkg/field"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one id=value line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures the prefixes used when printing messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
	// NoneLabel is the option offered to leave an optional select empty.
	NoneLabel string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{ErrorPrefix: "! ", NoneLabel: "(none)"}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(field.Values) (field.Values, error)

// Option configures the Filler.
type Option func(*Filler)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithOutput sets where the default survey driver prints messages.
func WithOutput(w io.Writer) Option {
	return func(f *Filler) {
		if w != nil {
			f.out = w
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(f *Filler) {
		if format != "" {
			f.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(f *Filler) {
		f.submitTransformer = fn
	}
}

// WithTheme applies message prefixes. Empty fields keep their defaults.
func WithTheme(theme Theme) Option {
	return func(f *Filler) {
		if theme.InfoPrefix != "" {
			f.theme.InfoPrefix = theme.InfoPrefix
		}
		if theme.ErrorPrefix != "" {
			f.theme.ErrorPrefix = theme.ErrorPrefix
		}
		if theme.NoneLabel != "" {
			f.theme.NoneLabel = theme.NoneLabel
		}
	}
}

package template

import (
	"io"
)

// TemplateRenderer writes the named template, executed with data, to w. Data
// reaches the template as is, so templates can call methods on form and
// field handlers.
type TemplateRenderer interface {
	Render(w io.Writer, name string, data map[string]any) error
}

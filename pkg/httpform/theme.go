package httpform

import (
	"fmt"

	theme "github.com/goliatone/go-theme"
)

// themeTemplatePrefix namespaces form templates inside a theme manifest:
// a form template "contact" is overridden by the "forms.contact" entry.
const themeTemplatePrefix = "forms."

// themeView is what the selected theme contributes to a render.
type themeView struct {
	Name      string
	Variant   string
	Tokens    map[string]string
	templates map[string]string
}

// resolveTheme asks the selector for the configured theme. A nil selector
// yields a nil view.
func resolveTheme(opts Options) (*themeView, error) {
	if opts.ThemeSelector == nil {
		return nil, nil
	}
	selection, err := opts.ThemeSelector.Select(opts.ThemeName, opts.ThemeVariant)
	if err != nil {
		return nil, fmt.Errorf("httpform: select theme %q: %w", opts.ThemeName, err)
	}
	if selection == nil {
		return nil, nil
	}
	return newThemeView(selection), nil
}

// newThemeView flattens a selection: variant tokens and templates win over
// the manifest's own.
func newThemeView(selection *theme.Selection) *themeView {
	view := &themeView{
		Name:      selection.Theme,
		Variant:   selection.Variant,
		Tokens:    map[string]string{},
		templates: map[string]string{},
	}
	manifest := selection.Manifest
	if manifest == nil {
		return view
	}
	mergeTheme(view, manifest.Tokens, manifest.Templates)
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		mergeTheme(view, variant.Tokens, variant.Templates)
	}
	return view
}

func mergeTheme(view *themeView, tokens, templates map[string]string) {
	for key, value := range tokens {
		view.Tokens[key] = value
	}
	for key, value := range templates {
		view.templates[key] = value
	}
}

// Template returns the theme override for a form template, or name.
func (v *themeView) Template(name string) string {
	if v == nil {
		return name
	}
	if override, ok := v.templates[themeTemplatePrefix+name]; ok && override != "" {
		return override
	}
	return name
}

// data is the "theme" value exposed to templates.
func (v *themeView) data() map[string]any {
	if v == nil {
		return nil
	}
	return map[string]any{
		"name":    v.Name,
		"variant": v.Variant,
		"tokens":  v.Tokens,
	}
}

package htmltag

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// voidElements never receive content or a closing tag.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "command": {}, "embed": {},
	"hr": {}, "img": {}, "input": {}, "keygen": {}, "link": {}, "meta": {},
	"param": {}, "source": {}, "track": {}, "wbr": {},
}

var quoteEscaper = strings.NewReplacer(`"`, "&quot;", "'", "&apos;")

// Attr is a single attribute name/value pair. A nil Value marks the
// attribute as unset and it is skipped when rendering.
type Attr struct {
	Name  string
	Value any
}

// Attrs is an insertion-ordered attribute list. Renderers rely on the order
// being stable, so Set updates existing names in place instead of moving
// them to the end.
type Attrs []Attr

// Set assigns value to name, keeping the original position when name is
// already present.
func (a *Attrs) Set(name string, value any) {
	for idx := range *a {
		if (*a)[idx].Name == name {
			(*a)[idx].Value = value
			return
		}
	}
	*a = append(*a, Attr{Name: name, Value: value})
}

// Get returns the value stored for name.
func (a Attrs) Get(name string) (any, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return nil, false
}

// Delete removes name from the list.
func (a *Attrs) Delete(name string) {
	out := (*a)[:0]
	for _, attr := range *a {
		if attr.Name != name {
			out = append(out, attr)
		}
	}
	*a = out
}

// Merge applies every attribute of other in order.
func (a *Attrs) Merge(other Attrs) {
	for _, attr := range other {
		a.Set(attr.Name, attr.Value)
	}
}

// Clone returns a copy that can be mutated independently.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	copy(out, a)
	return out
}

// String renders the list as ` name="value"` pairs. Values are inserted
// verbatim; callers escape user supplied values beforehand.
func (a Attrs) String() string {
	var builder strings.Builder
	for _, attr := range a {
		value, ok := FormatValue(attr.Value)
		if !ok {
			continue
		}
		builder.WriteByte(' ')
		builder.WriteString(attr.Name)
		builder.WriteString(`="`)
		builder.WriteString(value)
		builder.WriteByte('"')
	}
	return builder.String()
}

// FormatValue stringifies an attribute value. Regular expressions render
// their source text. It reports false for unset (nil) values.
func FormatValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case *regexp.Regexp:
		if v == nil {
			return "", false
		}
		return v.String(), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}

// Tag renders an element. Without content (or with empty content) the
// element is self-closed. Content equal to the tag name renders an
// explicitly empty element (`<div></div>`). Void elements never close and
// never carry content.
func Tag(name string, attrs Attrs, content ...string) string {
	body := strings.Join(content, "")
	closeTag := true

	switch {
	case body == "":
		closeTag = false
	case body == name:
		body = ""
	}

	if IsVoid(name) {
		closeTag = false
		body = ""
	}

	var builder strings.Builder
	builder.Grow(len(name)*2 + len(body) + 16)
	builder.WriteByte('<')
	builder.WriteString(name)
	builder.WriteString(attrs.String())
	if !closeTag {
		builder.WriteByte('/')
	}
	builder.WriteByte('>')
	builder.WriteString(body)
	if closeTag {
		builder.WriteString("</")
		builder.WriteString(name)
		builder.WriteByte('>')
	}
	return builder.String()
}

// IsVoid reports whether name is a void element.
func IsVoid(name string) bool {
	_, ok := voidElements[strings.ToLower(name)]
	return ok
}

// EscapeValue replaces quote characters so a value cannot break out of an
// attribute. No other escaping is applied.
func EscapeValue(value string) string {
	return quoteEscaper.Replace(value)
}

// MungeClasses joins classes into a class attribute value, prefixed with
// base when provided.
func MungeClasses(classes []string, base string) string {
	keep := make([]string, 0, len(classes)+1)
	if base != "" {
		keep = append(keep, base)
	}
	for _, class := range classes {
		if trimmed := strings.TrimSpace(class); trimmed != "" {
			keep = append(keep, trimmed)
		}
	}
	return strings.Join(keep, " ")
}

package field

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
)

// Values maps field ids to their current values.
type Values map[string]any

// Body is a decoded request body keyed by field id.
type Body map[string]any

// Context is the sibling snapshot a field validates against: the field
// instances plus the values they currently hold.
type Context struct {
	fields map[string]*Field
	values Values
}

// NewContext indexes fields by id. values may be nil.
func NewContext(fields []*Field, values Values) Context {
	index := make(map[string]*Field, len(fields))
	for _, f := range fields {
		if f != nil {
			index[f.ID] = f
		}
	}
	return Context{fields: index, values: values}
}

// Lookup returns the sibling with id and its current value: the submitted
// value when present, the field's own value otherwise. A checkbox or radio
// absent from a values snapshot was not checked, so it has no value; its
// own Value is the on-value and only stands in when there is no snapshot.
func (c Context) Lookup(id string) (*Field, any, bool) {
	sibling, ok := c.fields[id]
	if value, submitted := c.values[id]; submitted {
		return sibling, value, true
	}
	if !ok {
		return nil, nil, false
	}
	if c.values != nil && sibling.variant.checkable {
		return sibling, nil, true
	}
	return sibling, sibling.Value, true
}

// Has reports whether ctx knows a field with id.
func (c Context) Has(id string) bool {
	_, ok := c.fields[id]
	return ok
}

// Stringify coerces a value into the text the validation rules inspect.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for idx, item := range v {
			parts[idx] = Stringify(item)
		}
		return strings.Join(parts, ",")
	case *multipart.FileHeader:
		if v == nil {
			return ""
		}
		return v.Filename
	case []*multipart.FileHeader:
		parts := make([]string, 0, len(v))
		for _, header := range v {
			parts = append(parts, Stringify(header))
		}
		return strings.Join(parts, ",")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Truthy mirrors the loose truthiness used by validateif: nil, false, zero
// numbers and empty strings are false.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

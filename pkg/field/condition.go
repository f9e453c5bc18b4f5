package field

import (
	"strings"
)

// Combinator selects how the references of a Condition are combined.
type Combinator int

const (
	// Any is satisfied when at least one reference is truthy.
	Any Combinator = iota
	// All requires every reference to be truthy.
	All
)

// Reference points at a sibling field, optionally negated with a leading "!".
type Reference struct {
	ID      string
	Negated bool
}

// Condition is a parsed validateif expression.
type Condition struct {
	Refs       []Reference
	Combinator Combinator
}

// ParseCondition parses "a, !b, &" style expressions. Ids are separated by
// commas or whitespace. A "&" token switches the combinator to All; "&" and
// "|" tokens are otherwise ignored.
func ParseCondition(expr string) Condition {
	cond := Condition{Combinator: Any}
	tokens := strings.FieldsFunc(expr, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	for _, token := range tokens {
		switch token {
		case "&":
			cond.Combinator = All
			continue
		case "|":
			continue
		}
		ref := Reference{ID: token}
		if strings.HasPrefix(token, "!") {
			ref.ID = token[1:]
			ref.Negated = true
		}
		if ref.ID == "" {
			continue
		}
		cond.Refs = append(cond.Refs, ref)
	}
	return cond
}

// Empty reports whether the condition references no field.
func (c Condition) Empty() bool {
	return len(c.Refs) == 0
}

// Ready evaluates the condition against ctx. An empty condition is always
// ready. Missing siblings count as empty.
func (c Condition) Ready(ctx Context) bool {
	if c.Empty() {
		return true
	}
	for _, ref := range c.Refs {
		ok := ref.truthy(ctx)
		if c.Combinator == Any && ok {
			return true
		}
		if c.Combinator == All && !ok {
			return false
		}
	}
	return c.Combinator == All
}

func (r Reference) truthy(ctx Context) bool {
	sibling, value, found := ctx.Lookup(r.ID)
	var result bool
	switch {
	case !found:
		result = false
	case sibling != nil && sibling.Type == TypeRadio:
		result = radioChecked(sibling.ID, value)
	default:
		result = Truthy(value)
	}
	if r.Negated {
		return !result
	}
	return result
}

// radioChecked compares the option segment of a radio id ("title-mr" → "mr")
// with the group's current value.
func radioChecked(id string, value any) bool {
	parts := strings.Split(id, "-")
	if len(parts) < 2 || value == nil {
		return false
	}
	return parts[1] == Stringify(value)
}

// Ready reports whether the field's validateif condition holds in ctx.
func (f *Field) Ready(ctx Context) bool {
	return f.condition.Ready(ctx)
}

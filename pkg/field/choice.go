package field

import (
	"sort"
)

// Choice is one selectable option. Scalar choices use the same text for
// Label and Value.
type Choice struct {
	Label string
	Value any
}

// Choices builds choices from scalars or single-key maps (label → value).
func Choices(items ...any) []Choice {
	out := make([]Choice, 0, len(items))
	for _, item := range items {
		out = append(out, choiceOf(item))
	}
	return out
}

func choiceOf(item any) Choice {
	switch v := item.(type) {
	case Choice:
		return v
	case map[string]any:
		return labelled(v)
	case map[string]string:
		generic := make(map[string]any, len(v))
		for k, val := range v {
			generic[k] = val
		}
		return labelled(generic)
	default:
		return Choice{Label: Stringify(v), Value: v}
	}
}

func labelled(m map[string]any) Choice {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return Choice{}
	}
	return Choice{Label: keys[0], Value: m[keys[0]]}
}

func (c Choice) attrValue() any {
	return escape(Stringify(c.Value))
}

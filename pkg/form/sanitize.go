package form

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	buttonSetPolicyOnce sync.Once
	buttonSetPolicy     *bluemonday.Policy
)

// SanitizeButtonSetHTML keeps links, buttons and inline formatting and drops
// everything else (scripts, handlers, inputs).
func SanitizeButtonSetHTML(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(buttonSetSanitizer().Sanitize(trimmed))
}

func buttonSetSanitizer() *bluemonday.Policy {
	buttonSetPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("a", "button", "li", "span", "em", "strong", "small", "i", "b")
		policy.AllowAttrs("class", "id", "title", "role", "aria-label").Globally()
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowAttrs("type", "name", "value", "formaction", "formmethod").OnElements("button")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(false)
		buttonSetPolicy = policy
	})
	return buttonSetPolicy
}

package builder

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	inlinePolicyOnce sync.Once
	defaultPolicy    *bluemonday.Policy
)

func sanitizeMarkup(policy *bluemonday.Policy, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if policy == nil {
		policy = inlinePolicy()
	}
	return strings.TrimSpace(policy.Sanitize(trimmed))
}

// inlinePolicy allows phrasing content and icon markup, the kind of thing
// that ends up in labels and button captions.
func inlinePolicy() *bluemonday.Policy {
	inlinePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()

		inline := []string{"b", "strong", "i", "em", "small", "span", "abbr", "code", "kbd", "sup", "sub", "mark"}
		policy.AllowElements(inline...)
		policy.AllowElements("br")
		policy.AllowAttrs("class", "title", "aria-hidden", "aria-label").OnElements(inline...)

		policy.AllowElements("svg", "g", "path", "circle", "rect", "use", "title")
		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "aria-hidden", "role", "focusable", "class",
		).OnElements("svg")
		policy.AllowAttrs("href", "xlink:href").OnElements("use")
		for _, el := range []string{"path", "circle", "rect"} {
			policy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "rx", "ry",
				"fill", "stroke", "stroke-width", "class",
			).OnElements(el)
		}

		defaultPolicy = policy
	})
	return defaultPolicy
}

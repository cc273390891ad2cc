package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func policies() (strict, safe *bluemonday.Policy) {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)
	})
	return strictPolicy, safePolicy
}

// StripHTML removes every tag and returns the unescaped text content.
func StripHTML(s string) string {
	strict, _ := policies()
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// SanitizeHTML keeps basic formatting tags and drops scripts, event
// handlers and javascript: URLs. Links get rel="nofollow".
func SanitizeHTML(s string) string {
	_, safe := policies()
	return safe.Sanitize(s)
}

// SanitizeHTMLCustom applies policy, or returns s unchanged when policy is nil.
func SanitizeHTMLCustom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}

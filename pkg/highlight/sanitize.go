package highlight

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	fragmentPolicyOnce sync.Once
	fragmentPolicy     *bluemonday.Policy

	classListPattern = regexp.MustCompile(`^[A-Za-z0-9_\- ]*$`)
)

// Sanitize strips anything but class-annotated spans from a highlighted
// fragment. Text content is re-escaped.
func Sanitize(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	return fragmentSanitizer().Sanitize(fragment)
}

func fragmentSanitizer() *bluemonday.Policy {
	fragmentPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("span")
		policy.AllowAttrs("class").Matching(classListPattern).OnElements("span")
		policy.AllowNoAttrs().OnElements("span")
		fragmentPolicy = policy
	})
	return fragmentPolicy
}

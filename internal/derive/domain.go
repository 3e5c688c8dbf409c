package derive

import (
	"strings"

	"github.com/Aman-CERP/pulse/internal/blocklist"
)

// ExtractDomain treats s as a URL and returns its lowercased host part:
// at most one leading scheme (http:// or https://) is removed, then a
// leading "www.", then everything from the first "/" on.
// An empty result means no domain.
func ExtractDomain(s string) string {
	if rest, ok := strings.CutPrefix(s, "http://"); ok {
		s = rest
	} else if rest, ok := strings.CutPrefix(s, "https://"); ok {
		s = rest
	}
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(s)
}

// IsNSFWDomain reports whether the domain extracted from text is listed.
//
// The same test is applied to free text (content, title, meta), which only
// matches when the text itself looks like a listed host. No keyword search.
func IsNSFWDomain(text string, bl *blocklist.Blocklist) bool {
	domain := ExtractDomain(text)
	if domain == "" {
		return false
	}
	return bl.Contains(domain)
}

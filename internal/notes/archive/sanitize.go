package archive

import (
	"strings"
	"unicode"
)

const untitled = "untitled"

// Sanitize makes name safe as a single path segment: characters illegal on
// common filesystems and control characters are dropped, whitespace runs
// become a single hyphen, and the result is lowercased.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingSpace := false
	for _, r := range name {
		switch {
		case strings.ContainsRune(`<>:"/\|?*`, r):
			continue
		case unicode.IsSpace(r):
			pendingSpace = true
			continue
		case unicode.IsControl(r):
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingSpace = false
		b.WriteRune(unicode.ToLower(r))
	}
	out := strings.Trim(b.String(), "- ")
	if out == "" {
		return untitled
	}
	return out
}

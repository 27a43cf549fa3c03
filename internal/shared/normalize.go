// Utilities for turning pasted text and spreadsheet cells into bare handles.
package shared

import (
	"regexp"
	"strings"
)

var (
	profilePrefix = regexp.MustCompile(`https?://(www\.)?instagram\.com/`)
	textSeparator = regexp.MustCompile(`[\n,]+`)
)

// NormalizeHandle reduces a handle, @mention or profile URL to the bare username.
//
// Every "@" is removed, the first Instagram profile URL prefix is dropped along with any query or fragment,
// stray slashes are removed and surrounding whitespace is trimmed.
// The result may be empty. Applying it twice yields the same string.
func NormalizeHandle(s string) string {
	s = strings.ReplaceAll(s, "@", "")
	s = profilePrefix.ReplaceAllStringFunc(s, onlyFirst())
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "/", "")
	return strings.TrimSpace(s)
}

// onlyFirst returns a replacement func that blanks the first match and keeps the rest.
func onlyFirst() func(string) string {
	done := false
	return func(m string) string {
		if done {
			return m
		}
		done = true
		return ""
	}
}

// NormalizeHandles normalizes each value and drops those that end up empty, preserving order.
func NormalizeHandles(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if h := NormalizeHandle(v); h != "" {
			out = append(out, h)
		}
	}
	return out
}

// SplitHandles splits a newline- or comma-separated block of text into normalized handles.
func SplitHandles(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return NormalizeHandles(textSeparator.Split(text, -1))
}

package payloads

import (
	"strings"
	"unicode"
)

// alternateCase upper-cases every other letter starting with the first:
// script -> ScRiPt
func alternateCase(s string) string {
	var sb strings.Builder
	upper := true
	for _, r := range s {
		if !unicode.IsLetter(r) {
			sb.WriteRune(r)
			continue
		}
		if upper {
			sb.WriteRune(unicode.ToUpper(r))
		} else {
			sb.WriteRune(unicode.ToLower(r))
		}
		upper = !upper
	}
	return sb.String()
}

// injectNull inserts a NUL byte before the rune at index i
func injectNull(s string, i int) string {
	rs := []rune(s)
	if i < 0 || i > len(rs) {
		return s
	}
	return string(rs[:i]) + "\x00" + string(rs[i:])
}

// camelEvent capitalizes the "on" prefix and the event name: onload -> OnLoad
func camelEvent(ev string) string {
	if len(ev) < 3 || !strings.HasPrefix(ev, "on") {
		return ev
	}
	return "On" + strings.ToUpper(ev[2:3]) + ev[3:]
}

// tagMutations returns the case and NUL variants of a tag name
func tagMutations(tag string) []string {
	return []string{alternateCase(tag), injectNull(tag, len([]rune(tag))/2)}
}

// eventMutations returns the case and NUL variants of an event handler
func eventMutations(ev string) []string {
	return []string{camelEvent(ev), strings.ToUpper(ev), injectNull(ev, 2)}
}

package input

import (
	"bufio"
	"io"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	httpPrefix   = regexp.MustCompile(`^https?://`)
	specialChars = regexp.MustCompile(`[^\w\-./&?=%]`)
)

// maxSpecialRatio is the share of unusual characters above which a line is
// treated as garbage rather than a URL
const maxSpecialRatio = 0.5

// FilterStats describes what FilterURLs discarded
type FilterStats struct {
	Total      int
	Invalid    int
	NoParams   int
	Duplicates int
}

// ReadURLs returns the trimmed, non-empty lines of r
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			urls = append(urls, line)
		}
	}
	return urls, sc.Err()
}

// PatternKey identifies a URL by scheme, host, path and the set of its
// parameter names. Values and parameter order do not matter.
func PatternKey(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return "", false
	}
	names := ParamNames(rawURL)
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return u.Scheme + "://" + u.Host + u.Path + "?" + strings.Join(names, "\x00"), true
}

// FilterURLs keeps http(s) URLs with a query, drops lines that are mostly
// special characters and keeps only the first URL of each PatternKey.
func FilterURLs(urls []string) ([]string, FilterStats) {
	var stats FilterStats
	var kept []string
	seen := make(map[string]struct{})

	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		stats.Total++

		if !httpPrefix.MatchString(raw) {
			stats.Invalid++
			continue
		}
		if n := len(specialChars.FindAllStringIndex(raw, -1)); n > 0 {
			if float64(n)/float64(utf8.RuneCountInString(raw)) > maxSpecialRatio {
				stats.Invalid++
				continue
			}
		}
		u, err := url.Parse(raw)
		if err != nil {
			stats.Invalid++
			continue
		}
		if u.RawQuery == "" {
			stats.NoParams++
			continue
		}
		key, ok := PatternKey(raw)
		if !ok {
			stats.NoParams++
			continue
		}
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, raw)
	}
	return kept, stats
}

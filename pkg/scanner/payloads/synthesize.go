// Package payloads turns a parameter profile into the XSS payloads it is
// likely to let through.
package payloads

import (
	"sort"

	"github.com/lcalzada-xor/xssdynagen/pkg/models"
)

// Options tunes synthesis. The zero value keeps the plain character-level
// heuristic.
type Options struct {
	// StrictJS drops payloads whose <script> body does not parse
	StrictJS bool
}

// Synthesize returns the sorted, deduplicated payloads for p
func Synthesize(p *models.ParamProfile, opts Options) []string {
	candidates := append(Predefined(p), Dynamic(p)...)
	filtered := Filter(candidates, p)

	seen := make(map[string]struct{}, len(filtered))
	out := make([]string, 0, len(filtered))
	for _, payload := range filtered {
		if _, dup := seen[payload]; dup {
			continue
		}
		seen[payload] = struct{}{}
		if opts.StrictJS && !validScripts(payload) {
			continue
		}
		out = append(out, payload)
	}
	sort.Strings(out)
	return out
}

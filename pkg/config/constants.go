package config

import "time"

// Version is the current version of xssdynagen
const Version = "v0.0.1"

// Author is the author of the tool
const Author = "@Cybersecurity-Ethical-Hacker"

// Default Values
const (
	DefaultMaxConnections = 40
	DefaultBatchSize      = 20
	DefaultSessionTimeout = 5 * time.Second
	DefaultProbeTimeout   = 2 * time.Second
	DefaultCacheTTL       = 300 * time.Second
	DefaultOutputDir      = "payloads"
	DefaultOutputName     = "xss_payloads_gen"
	DefaultLogFile        = "logs/xssdynagen_logs.txt"

	// MaxRedirects bounds how many redirects a request follows
	MaxRedirects = 10

	// Grace delay after closing the connection pool
	TeardownGrace = 100 * time.Millisecond

	// MaxBodySize caps how much of a probe response is read
	MaxBodySize = 10 * 1024 * 1024
)

// Analyzer constants
const (
	// GateSampleSize is the number of basic characters tried before the full sweep
	GateSampleSize = 10
	// BasicGroup is the catalog group the viability gate samples from
	BasicGroup = "basic"

	LengthSearchMin = 10
	LengthSearchMax = 5000
)

// ScriptProbes are the script-opening variants tried by the script quick test.
// Order only matters for short-circuiting.
var ScriptProbes = []string{
	"<script>",
	"<SCRIPT>",
	"<ScRiPt>",
	"<%73cript>",
	"<scr<script>ipt>",
	"<svg/script>",
	"<<script>>",
	"</script>",
	"<script/>",
	"\\x3Cscript\\x3E",
	"&lt;script&gt;",
	"&#x3C;script&#x3E;",
	"<img src=x onerror=",
	"<svg onload=",
	"<iframe onload=",
	"<video onloadstart=",
}

// EventProbes are the event-handler attributes tried by the event quick test
var EventProbes = []string{
	"onmouseover=",
	"onclick=",
	"onerror=",
	"onload=",
	"onmouseenter=",
	"onmouseleave=",
	"onfocus=",
	"onblur=",
	"onkeyup=",
	"onkeydown=",
	"ondblclick=",
	"oncontextmenu=",
	"ondrag=",
	"ondragend=",
	"onkeypress=",
	"onchange=",
	"onsubmit=",
}

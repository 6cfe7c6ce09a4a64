package network

import (
	"fmt"
	"math/rand"
	"net/http"
)

var (
	chromeVersions = []string{"122.0.6261.112", "121.0.6167.184", "120.0.6099.130"}
	languages      = []string{
		"en-US,en;q=0.9",
		"en-GB,en;q=0.9",
		"en-US,en;q=0.9,es;q=0.8",
		"en-US,en;q=0.9,fr;q=0.8",
	}
)

func pick(options ...string) string {
	return options[rand.Intn(len(options))]
}

// DefaultHeaders returns a randomized browser-like header set
func DefaultHeaders() map[string]string {
	chrome := pick(chromeVersions...)
	return map[string]string{
		"User-Agent":                  fmt.Sprintf("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%s Safari/537.36", chrome),
		"Accept":                      "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
		"Accept-Language":             pick(languages...),
		"Accept-Encoding":             "gzip, deflate, br",
		"Cache-Control":               "no-cache",
		"Pragma":                      "no-cache",
		"Sec-Ch-Ua":                   fmt.Sprintf(`"Chromium";v="%s", "Google Chrome";v="%s", "Not(A:Brand";v="24"`, chrome, chrome),
		"Sec-Ch-Ua-Mobile":            "?0",
		"Sec-Ch-Ua-Platform":          `"Windows"`,
		"Sec-Ch-Ua-Platform-Version":  `"15.0.0"`,
		"Sec-Ch-Ua-Full-Version-List": fmt.Sprintf(`"Chromium";v="%s", "Google Chrome";v="%s", "Not(A:Brand";v="24.0.0.0"`, chrome, chrome),
		"Sec-Fetch-Site":              pick("none", "same-origin", "same-site"),
		"Sec-Fetch-Mode":              "navigate",
		"Sec-Fetch-User":              "?1",
		"Sec-Fetch-Dest":              "document",
		"Upgrade-Insecure-Requests":   "1",
		"Priority":                    pick("u=0, i", "u=1, i"),
		"Viewport-Width":              pick("1920", "1600", "1440"),
		"Device-Memory":               pick("8", "4", "6"),
		"Permissions-Policy":          "interest-cohort=()",
		"DNT":                         "1",
	}
}

// BuildHeaders merges custom over the randomized defaults
func BuildHeaders(custom map[string]string) http.Header {
	h := make(http.Header)
	for k, v := range DefaultHeaders() {
		h.Set(k, v)
	}
	for k, v := range custom {
		h.Set(k, v)
	}
	return h
}

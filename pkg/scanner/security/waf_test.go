package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/xssdynagen/pkg/network"
)

func TestWAFManager_Detect(t *testing.T) {
	m, err := NewWAFManager()
	require.NoError(t, err)

	tests := []struct {
		name     string
		headers  map[string]string
		body     string
		expected string
	}{
		{"Cloudflare header", map[string]string{"CF-RAY": "8a1b2c"}, "", "Cloudflare WAF"},
		{"Cloudflare server", map[string]string{"Server": "cloudflare"}, "", "Cloudflare WAF"},
		{"AWS cookie", map[string]string{"Set-Cookie": "AWSALB=abc; Path=/"}, "", "AWS WAF"},
		{"Incapsula x-cdn", map[string]string{"X-CDN": "Incapsula"}, "", "Incapsula WAF"},
		{"Incapsula body", nil, "Request unsuccessful. Incapsula incident ID: 123", "Incapsula WAF"},
		{"ModSecurity server", map[string]string{"Server": "Apache mod_security"}, "", "ModSecurity"},
		{"Akamai body", nil, "<html>AkamaiGHost</html>", "Akamai WAF"},
		{"Nothing", map[string]string{"Server": "nginx"}, "<html>hello</html>", ""},
		{"Generic text is not enough", nil, "Access Denied", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := make(http.Header)
			for k, v := range tc.headers {
				h.Set(k, v)
			}
			waf := m.Detect(h, tc.body)
			assert.Equal(t, tc.expected, waf.Name)
			assert.Equal(t, tc.expected != "", waf.Detected)
		})
	}
}

func TestParseSignatures_Invalid(t *testing.T) {
	_, err := ParseSignatures([]byte("- name: [unclosed"))
	assert.Error(t, err)
}

func TestWAFManager_Baseline(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("X-Sucuri-ID", "1234")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	m, err := NewWAFManager()
	require.NoError(t, err)

	client := network.NewClient(2*time.Second, "", 2, 0)
	waf, err := m.Baseline(context.Background(), client, server.URL+"/?q=test")
	require.NoError(t, err)
	assert.Equal(t, "Sucuri WAF", waf.Name)
	assert.Equal(t, "q=test", gotQuery, "the baseline request is not modified")
}

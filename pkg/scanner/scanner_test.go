package scanner

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/xssdynagen/pkg/charset"
	"github.com/lcalzada-xor/xssdynagen/pkg/logger"
	"github.com/lcalzada-xor/xssdynagen/pkg/network"
	"github.com/lcalzada-xor/xssdynagen/pkg/scanner/cache"
)

// newTarget reflects "q" with angle brackets stripped and ignores "id"
func newTarget(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := strings.NewReplacer("<", "", ">", "").Replace(r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Sucuri-ID", "42")
		fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", q)
	}))
	t.Cleanup(server.Close)
	return server
}

func newScanner() *Scanner {
	client := network.NewClient(5*time.Second, "", 20, 0)
	return NewScanner(client, cache.New(time.Minute), charset.Default(), logger.NewLogger(0), 20)
}

func TestScanner_Scan(t *testing.T) {
	server := newTarget(t)
	s := newScanner()

	res, err := s.Scan(context.Background(), server.URL+"/search?q=test&id=7")
	require.NoError(t, err)
	require.Len(t, res.Profiles, 2)

	q := res.Profiles["q"]
	require.NotNil(t, q)
	assert.True(t, q.Reflective)
	assert.False(t, q.AllowsAngles)
	assert.True(t, q.AllowsQuotes)
	assert.True(t, q.BlockedChars.Has('<'))
	assert.Equal(t, "Sucuri WAF", q.WAF)
	require.NotNil(t, q.MaxLength)
	assert.Equal(t, 5000, *q.MaxLength)

	assert.Contains(t, res.Payloads["q"], "&lt;script&gt;alert(1)&lt;/script&gt;")
	for _, p := range res.Payloads["q"] {
		assert.NotContains(t, p, "<")
	}

	id := res.Profiles["id"]
	require.NotNil(t, id)
	assert.False(t, id.Reflective)
	assert.Empty(t, id.AllowedChars)

	assert.Greater(t, s.GetRequestCount(), 10)
}

func TestScanner_NoWAFBaseline(t *testing.T) {
	server := newTarget(t)
	s := newScanner()
	s.SetDetectWAF(false)

	res, err := s.Scan(context.Background(), server.URL+"/?q=1")
	require.NoError(t, err)
	assert.Empty(t, res.Profiles["q"].WAF)
}

func TestScanner_NoParameters(t *testing.T) {
	_, err := newScanner().Scan(context.Background(), "http://127.0.0.1/")
	assert.ErrorIs(t, err, ErrNoParameters)
}

func TestScanner_Cancelled(t *testing.T) {
	server := newTarget(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newScanner().Scan(ctx, server.URL+"/?q=1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

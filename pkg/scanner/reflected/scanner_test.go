package reflected

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/xssdynagen/pkg/logger"
	"github.com/lcalzada-xor/xssdynagen/pkg/network"
	"github.com/lcalzada-xor/xssdynagen/pkg/scanner/cache"
)

// echoServer reflects q after removing every character in strip and
// truncating it to maxLen runes.
func echoServer(t *testing.T, strip string, maxLen int, hits *int64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt64(hits, 1)
		}
		switch r.URL.Path {
		case "/search":
			http.Redirect(w, r, "/search/?"+r.URL.RawQuery, http.StatusMovedPermanently)
			return
		case "/loop":
			http.Redirect(w, r, "/loop?"+r.URL.RawQuery, http.StatusFound)
			return
		}
		q := r.URL.Query().Get("q")
		q = strings.Map(func(r rune) rune {
			if strings.ContainsRune(strip, r) {
				return -1
			}
			return r
		}, q)
		if rs := []rune(q); maxLen > 0 && len(rs) > maxLen {
			q = string(rs[:maxLen])
		}
		if r.URL.Path == "/error" {
			w.WriteHeader(http.StatusInternalServerError)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<html><body>%s</body></html>", q)
	}))
	t.Cleanup(server.Close)
	return server
}

func newScanner() *Scanner {
	client := network.NewClient(5*time.Second, "", 10, 0)
	return NewScanner(client, cache.New(time.Minute), logger.NewLogger(0))
}

func TestScanner_TestChar(t *testing.T) {
	server := echoServer(t, "<>", 0, nil)
	s := newScanner()
	ctx := context.Background()

	tests := []struct {
		name string
		path string
		char rune
		want bool
	}{
		{"plain letter", "/?q=x", 'a', true},
		{"quote", "/?q=x", '"', true},
		{"space", "/?q=x", ' ', true},
		{"stripped angle", "/?q=x", '<', false},
		{"non-200 is negative", "/error?q=x", 'a', false},
		{"redirect is followed", "/search?q=x", 'a', true},
		{"redirect to stripped angle", "/search?q=x", '<', false},
		{"redirect loop is negative", "/loop?q=x", 'a', false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.TestChar(ctx, server.URL+tt.path, "q", tt.char))
		})
	}
}

func TestScanner_UnreachableIsNegative(t *testing.T) {
	s := newScanner()
	s.SetProbeTimeout(200 * time.Millisecond)
	assert.False(t, s.TestChar(context.Background(), "http://127.0.0.1:1/?q=x", "q", 'a'))
}

func TestScanner_Cached(t *testing.T) {
	var hits int64
	server := echoServer(t, "", 0, &hits)
	s := newScanner()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, s.TestChar(ctx, server.URL+"/?q=1", "q", 'z'))
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
	assert.Equal(t, 1, s.GetRequestCount())

	s.ResetRequestCount()
	assert.Equal(t, 0, s.GetRequestCount())
}

func TestScanner_CancelledNotCached(t *testing.T) {
	server := echoServer(t, "", 0, nil)
	s := newScanner()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, s.TestChar(ctx, server.URL+"/?q=1", "q", 'a'))
	assert.Equal(t, 0, s.cache.Len())

	assert.True(t, s.TestChar(context.Background(), server.URL+"/?q=1", "q", 'a'))
}

func TestScanner_QuickTests(t *testing.T) {
	ctx := context.Background()

	open := echoServer(t, "", 0, nil)
	s := newScanner()
	assert.True(t, s.QuickTestScripts(ctx, open.URL+"/?q=1", "q"))
	assert.True(t, s.QuickTestEvents(ctx, open.URL+"/?q=1", "q"))

	closed := echoServer(t, "<&\\=", 0, nil)
	s = newScanner()
	assert.False(t, s.QuickTestScripts(ctx, closed.URL+"/?q=1", "q"))
	assert.False(t, s.QuickTestEvents(ctx, closed.URL+"/?q=1", "q"))
}

func TestScanner_QuickTestLength(t *testing.T) {
	ctx := context.Background()

	truncating := echoServer(t, "", 300, nil)
	got := newScanner().QuickTestLength(ctx, truncating.URL+"/?q=1", "q")
	require.NotNil(t, got)
	assert.Equal(t, 300, *got)

	unlimited := echoServer(t, "", 0, nil)
	got = newScanner().QuickTestLength(ctx, unlimited.URL+"/?q=1", "q")
	require.NotNil(t, got)
	assert.Equal(t, 5000, *got)

	tiny := echoServer(t, "", 5, nil)
	assert.Nil(t, newScanner().QuickTestLength(ctx, tiny.URL+"/?q=1", "q"))
}

func TestSearchLength(t *testing.T) {
	for _, limit := range []int{0, 9, 10, 11, 57, 1024, 4999, 5000, 9000} {
		t.Run(fmt.Sprint(limit), func(t *testing.T) {
			calls := 0
			got := SearchLength(10, 5000, func(n int) bool {
				calls++
				return n <= limit
			})
			assert.LessOrEqual(t, calls, 13)

			switch {
			case limit < 10:
				assert.Nil(t, got)
			case limit > 5000:
				require.NotNil(t, got)
				assert.Equal(t, 5000, *got)
			default:
				require.NotNil(t, got)
				assert.Equal(t, limit, *got)
			}
		})
	}
}

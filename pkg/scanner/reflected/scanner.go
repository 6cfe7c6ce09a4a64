// Package reflected implements the reflection oracle: a value is reflected
// when a GET carrying it answers 200 and echoes it back verbatim.
package reflected

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lcalzada-xor/xssdynagen/pkg/config"
	"github.com/lcalzada-xor/xssdynagen/pkg/input"
	"github.com/lcalzada-xor/xssdynagen/pkg/logger"
	"github.com/lcalzada-xor/xssdynagen/pkg/network"
	"github.com/lcalzada-xor/xssdynagen/pkg/scanner/cache"
)

// Scanner sends reflection probes. It never reports errors: anything other
// than a 200 response echoing the value counts as not reflected.
type Scanner struct {
	client  *network.Client
	cache   *cache.ResultCache
	logger  *logger.Logger
	timeout time.Duration

	requestCount int
	requestMutex sync.Mutex
}

// NewScanner creates a new reflection scanner sharing the run's client and cache
func NewScanner(client *network.Client, results *cache.ResultCache, logger *logger.Logger) *Scanner {
	return &Scanner{
		client:  client,
		cache:   results,
		logger:  logger,
		timeout: config.DefaultProbeTimeout,
	}
}

// SetProbeTimeout overrides the per-probe timeout
func (s *Scanner) SetProbeTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// GetRequestCount returns the number of HTTP requests made
func (s *Scanner) GetRequestCount() int {
	s.requestMutex.Lock()
	defer s.requestMutex.Unlock()
	return s.requestCount
}

// ResetRequestCount resets the request counter to zero
func (s *Scanner) ResetRequestCount() {
	s.requestMutex.Lock()
	defer s.requestMutex.Unlock()
	s.requestCount = 0
}

// TestChar reports whether c survives when sent doubled as the value of param
func (s *Scanner) TestChar(ctx context.Context, targetURL, param string, c rune) bool {
	return s.TestValue(ctx, targetURL, param, string([]rune{c, c}))
}

// TestValue reports whether value is reflected verbatim. Outcomes are
// cached per (url, param, value) unless ctx was cancelled mid-probe.
func (s *Scanner) TestValue(ctx context.Context, targetURL, param, value string) bool {
	if hit, ok := s.cache.Get(targetURL, param, value); ok {
		return hit
	}
	if ctx.Err() != nil {
		return false
	}

	reflected := s.probe(ctx, targetURL, param, value)
	if ctx.Err() == nil {
		s.cache.Set(targetURL, param, value, reflected)
	}
	return reflected
}

func (s *Scanner) probe(ctx context.Context, targetURL, param, value string) bool {
	probeURL, err := input.ProbeURL(targetURL, param, value)
	if err != nil {
		s.logger.Detail("Error building probe URL: %v", err)
		return false
	}

	s.requestMutex.Lock()
	s.requestCount++
	s.requestMutex.Unlock()

	status, body, err := s.client.Probe(ctx, probeURL, s.timeout)
	if err != nil {
		s.logger.Detail("Probe %q on %s failed: %v", value, param, err)
		return false
	}
	if status != http.StatusOK {
		s.logger.Detail("Probe %q on %s: status %d", value, param, status)
		return false
	}
	return strings.Contains(body, value)
}

// QuickTestScripts reports whether any script-opening variant is reflected
func (s *Scanner) QuickTestScripts(ctx context.Context, targetURL, param string) bool {
	return s.anyReflected(ctx, targetURL, param, config.ScriptProbes)
}

// QuickTestEvents reports whether any event-handler attribute is reflected
func (s *Scanner) QuickTestEvents(ctx context.Context, targetURL, param string) bool {
	return s.anyReflected(ctx, targetURL, param, config.EventProbes)
}

func (s *Scanner) anyReflected(ctx context.Context, targetURL, param string, probes []string) bool {
	for _, p := range probes {
		if ctx.Err() != nil {
			return false
		}
		if s.TestValue(ctx, targetURL, param, p) {
			s.logger.Detail("%s reflects %q", param, p)
			return true
		}
	}
	return false
}

// QuickTestLength finds the longest run of 'A' the parameter reflects
func (s *Scanner) QuickTestLength(ctx context.Context, targetURL, param string) *int {
	return SearchLength(config.LengthSearchMin, config.LengthSearchMax, func(n int) bool {
		return s.TestValue(ctx, targetURL, param, strings.Repeat("A", n))
	})
}

// SearchLength binary searches [lo, hi] for the largest accepted length.
// accepts must be monotonic (true up to some L, false after). The result
// is nil when even lo is rejected.
func SearchLength(lo, hi int, accepts func(int) bool) *int {
	left, right := lo, hi
	for left <= right {
		mid := (left + right) / 2
		if accepts(mid) {
			left = mid + 1
		} else {
			right = mid - 1
		}
	}
	if right < lo {
		return nil
	}
	return &right
}

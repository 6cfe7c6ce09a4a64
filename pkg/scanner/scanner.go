package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lcalzada-xor/xssdynagen/pkg/charset"
	"github.com/lcalzada-xor/xssdynagen/pkg/input"
	"github.com/lcalzada-xor/xssdynagen/pkg/logger"
	"github.com/lcalzada-xor/xssdynagen/pkg/models"
	"github.com/lcalzada-xor/xssdynagen/pkg/network"
	"github.com/lcalzada-xor/xssdynagen/pkg/scanner/analyzer"
	"github.com/lcalzada-xor/xssdynagen/pkg/scanner/cache"
	"github.com/lcalzada-xor/xssdynagen/pkg/scanner/payloads"
	"github.com/lcalzada-xor/xssdynagen/pkg/scanner/reflected"
	"github.com/lcalzada-xor/xssdynagen/pkg/scanner/security"
)

// ErrNoParameters is returned for URLs without a usable query parameter
var ErrNoParameters = errors.New("url has no query parameters")

// Scanner is the main struct for the payload generator.
// It profiles every parameter of a URL and synthesizes payloads for it.
type Scanner struct {
	client *network.Client
	logger *logger.Logger

	// Sub-scanners
	reflectedScanner *reflected.Scanner
	analyzer         *analyzer.Analyzer
	wafManager       *security.WAFManager

	// Configuration
	detectWAF bool
	synthesis payloads.Options

	// State
	requestCount int // Local count for baseline requests
	requestMutex sync.Mutex
}

// NewScanner creates a new Scanner instance. The cache and catalog are
// shared by every URL of the run.
func NewScanner(client *network.Client, results *cache.ResultCache, catalog *charset.Catalog, log *logger.Logger, batchSize int) *Scanner {
	wafManager, err := security.NewWAFManager()
	if err != nil {
		log.Warn("WAF signatures unavailable: %v", err)
	}

	reflectedScanner := reflected.NewScanner(client, results, log)
	return &Scanner{
		client:           client,
		logger:           log,
		reflectedScanner: reflectedScanner,
		analyzer:         analyzer.New(reflectedScanner, catalog, batchSize, log),
		wafManager:       wafManager,
		detectWAF:        wafManager != nil,
	}
}

// SetDetectWAF enables or disables the passive WAF baseline request
func (s *Scanner) SetDetectWAF(enable bool) {
	s.detectWAF = enable && s.wafManager != nil
}

// SetSynthesisOptions sets the payload synthesis options
func (s *Scanner) SetSynthesisOptions(opts payloads.Options) {
	s.synthesis = opts
}

// SetProbeTimeout overrides the per-probe timeout
func (s *Scanner) SetProbeTimeout(d time.Duration) {
	s.reflectedScanner.SetProbeTimeout(d)
}

// GetRequestCount returns the total number of HTTP requests made
func (s *Scanner) GetRequestCount() int {
	s.requestMutex.Lock()
	defer s.requestMutex.Unlock()

	total := s.requestCount
	total += s.reflectedScanner.GetRequestCount()
	return total
}

// ResetRequestCount resets the request counter
func (s *Scanner) ResetRequestCount() {
	s.requestMutex.Lock()
	s.requestCount = 0
	s.requestMutex.Unlock()

	s.reflectedScanner.ResetRequestCount()
}

// Scan profiles each query parameter of targetURL in turn and synthesizes
// its payloads. On cancellation the partial result is dropped and the
// context error returned.
func (s *Scanner) Scan(ctx context.Context, targetURL string) (*models.URLResult, error) {
	params, err := input.ExtractParameters(targetURL)
	if err != nil {
		return nil, fmt.Errorf("extracting parameters: %w", err)
	}
	if len(params) == 0 {
		return nil, ErrNoParameters
	}

	wafName := s.baseline(ctx, targetURL)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &models.URLResult{
		URL:      targetURL,
		Payloads: make(map[string][]string, len(params)),
		Profiles: make(map[string]*models.ParamProfile, len(params)),
	}

	for _, p := range params {
		profile, err := s.analyzer.Analyze(ctx, targetURL, p.Name)
		if err != nil {
			return nil, err
		}
		profile.WAF = wafName

		generated := payloads.Synthesize(profile, s.synthesis)
		s.logger.V("Generated %d payloads for %s", len(generated), p.Name)

		result.Payloads[p.Name] = generated
		result.Profiles[p.Name] = profile
	}

	return result, nil
}

// baseline sends one unmodified request and returns the detected WAF name.
// Failures only cost the WAF annotation.
func (s *Scanner) baseline(ctx context.Context, targetURL string) string {
	if !s.detectWAF {
		return ""
	}

	s.requestMutex.Lock()
	s.requestCount++
	s.requestMutex.Unlock()

	waf, err := s.wafManager.Baseline(ctx, s.client, targetURL)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.V("WAF baseline failed for %s: %v", targetURL, err)
		}
		return ""
	}
	if waf.Detected {
		s.logger.Info("WAF detected on %s: %s", targetURL, waf.Name)
	}
	return waf.Name
}

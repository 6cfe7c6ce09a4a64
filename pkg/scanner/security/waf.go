// Package security detects web application firewalls in front of a target.
package security

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lcalzada-xor/xssdynagen/pkg/network"
)

// WAF represents a detected Web Application Firewall
type WAF struct {
	Name     string
	Detected bool
}

// WAFSignature represents a single WAF detection signature
type WAFSignature struct {
	Name           string              `yaml:"name"`
	Headers        map[string]string   `yaml:"headers,omitempty"`         // Header key -> value substring ("" for key existence)
	HeaderPatterns map[string][]string `yaml:"header_patterns,omitempty"` // Header key to list of value substrings
	BodyPatterns   []string            `yaml:"body_patterns,omitempty"`   // Substrings to find in body
}

//go:embed waf_signatures.yaml
var defaultSignatures []byte

// WAFManager handles WAF detection logic
type WAFManager struct {
	signatures []WAFSignature
}

// NewWAFManager creates a manager with the built-in signatures
func NewWAFManager() (*WAFManager, error) {
	return ParseSignatures(defaultSignatures)
}

// ParseSignatures builds a manager from a YAML signature list
func ParseSignatures(data []byte) (*WAFManager, error) {
	var sigs []WAFSignature
	if err := yaml.Unmarshal(data, &sigs); err != nil {
		return nil, fmt.Errorf("parsing WAF signatures: %w", err)
	}
	return &WAFManager{signatures: sigs}, nil
}

// Detect passively checks response headers and body against the signatures
func (m *WAFManager) Detect(headers http.Header, body string) *WAF {
	for _, sig := range m.signatures {
		// 1. Check Exact Headers
		for key, val := range sig.Headers {
			headerVal := headers.Get(key)
			if headerVal == "" {
				continue
			}
			if val == "" || strings.Contains(strings.ToLower(headerVal), strings.ToLower(val)) {
				return &WAF{Name: sig.Name, Detected: true}
			}
		}

		// 2. Check Header Patterns
		for key, patterns := range sig.HeaderPatterns {
			lowerVal := strings.ToLower(strings.Join(headers.Values(key), " "))
			if lowerVal == "" {
				continue
			}
			for _, pattern := range patterns {
				if strings.Contains(lowerVal, strings.ToLower(pattern)) {
					return &WAF{Name: sig.Name, Detected: true}
				}
			}
		}

		// 3. Check Body Patterns
		for _, pattern := range sig.BodyPatterns {
			if strings.Contains(body, pattern) {
				return &WAF{Name: sig.Name, Detected: true}
			}
		}
	}

	return &WAF{Name: "", Detected: false}
}

// Baseline fetches targetURL unmodified through the session path and runs
// Detect on the response. It never sends attack strings.
func (m *WAFManager) Baseline(ctx context.Context, client *network.Client, targetURL string) (*WAF, error) {
	resp, err := client.Get(ctx, targetURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := network.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	return m.Detect(resp.Header, body), nil
}

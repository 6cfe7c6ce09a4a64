package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/lcalzada-xor/xssdynagen/pkg/config"
)

// Client wraps http.Client with a run-wide connection bound, shared
// headers, retry logic for session requests and rate limiting.
type Client struct {
	HTTPClient  *http.Client
	RateLimiter *RateLimiter

	headers http.Header
	slots   *semaphore.Weighted
	grace   time.Duration
}

// NewClient creates a new Client instance with optimized connection pooling and optional rate limiting.
// timeout bounds session requests; maxConns bounds concurrent requests across the whole run.
// rateLimit: requests per second (0 = unlimited)
func NewClient(timeout time.Duration, proxyURL string, maxConns int, rateLimit float64) *Client {
	if maxConns <= 0 {
		maxConns = config.DefaultMaxConnections
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		// Connection pooling - scales with the connection bound
		MaxIdleConns:        maxConns * 2,
		MaxIdleConnsPerHost: max(maxConns/2, 10),
		MaxConnsPerHost:     maxConns,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if proxyURL != "" {
		if pURL, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(pURL)
		}
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Status checks apply to the final response
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
			}
			return nil
		},
	}

	return &Client{
		HTTPClient:  httpClient,
		RateLimiter: NewRateLimiter(rateLimit),
		headers:     BuildHeaders(nil),
		slots:       semaphore.NewWeighted(int64(maxConns)),
		grace:       config.TeardownGrace,
	}
}

// SetHeaders replaces the run headers with the randomized defaults
// overridden by custom.
func (c *Client) SetHeaders(custom map[string]string) {
	c.headers = BuildHeaders(custom)
}

// Headers returns a copy of the headers applied to every request
func (c *Client) Headers() http.Header {
	return c.headers.Clone()
}

// Get performs a session request with retries (see Do)
func (c *Client) Get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Do sends an HTTP request with automatic retries and rate limiting.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error
	maxRetries := 3

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			// Exponential backoff: 100ms, 200ms, 400ms
			backoff := time.Duration(math.Pow(2, float64(i-1))*100) * time.Millisecond
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(backoff):
			}
		}

		resp, err = c.send(req)

		// Success, or a client error that retrying won't fix
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if req.Context().Err() != nil {
			break
		}

		// Close body if we are going to retry
		if resp != nil && i < maxRetries {
			resp.Body.Close()
		}
	}

	// Return last error or response
	if err != nil {
		return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
	}
	return resp, nil
}

// Probe sends exactly one GET bounded by timeout and returns the status
// code and the decoded body. It never retries.
func (c *Client) Probe(ctx context.Context, target string, timeout time.Duration) (int, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, "", err
	}

	resp, err := c.send(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := ReadBody(resp)
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, body, nil
}

// send applies headers, rate limiting and the connection bound, then
// performs a single round trip. The slot is released when the body is closed.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	if err := c.RateLimiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	if err := c.slots.Acquire(req.Context(), 1); err != nil {
		return nil, err
	}

	for k, v := range c.headers {
		req.Header[k] = v
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.slots.Release(1)
		return nil, err
	}
	resp.Body = &releasingBody{ReadCloser: resp.Body, release: func() { c.slots.Release(1) }}
	return resp, nil
}

// Close drops pooled connections and waits a short grace period so the
// closed sockets can settle before the process exits.
func (c *Client) Close() {
	c.HTTPClient.CloseIdleConnections()
	time.Sleep(c.grace)
}

type releasingBody struct {
	io.ReadCloser
	once    sync.Once
	release func()
}

func (b *releasingBody) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(b.release)
	return err
}

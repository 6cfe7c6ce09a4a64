package network

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"

	"github.com/lcalzada-xor/xssdynagen/pkg/config"
)

// ReadBody reads at most config.MaxBodySize bytes of the response,
// undoing any content encoding and converting the declared charset to UTF-8.
func ReadBody(resp *http.Response) (string, error) {
	r, err := decodeContent(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return "", fmt.Errorf("decoding %q body: %w", resp.Header.Get("Content-Encoding"), err)
	}

	limited := io.LimitReader(r, config.MaxBodySize)
	utf8, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		// Unknown charset: keep the raw bytes
		utf8 = limited
	}

	b, err := io.ReadAll(utf8)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeContent(body io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return body, nil
	case "gzip", "x-gzip":
		return gzip.NewReader(body)
	case "deflate":
		// Servers send either zlib-wrapped or raw deflate streams
		br := bufio.NewReader(body)
		if head, err := br.Peek(1); err == nil && head[0] == 0x78 {
			return zlib.NewReader(br)
		}
		return flate.NewReader(br), nil
	case "br":
		return brotli.NewReader(body), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding")
	}
}

package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"polygraph/internal/urlutil"
)

// HTTPLoader fetches http(s) URLs, rate limited with a token bucket so
// a package with many remote imports does not hammer its host.
type HTTPLoader struct {
	client  *http.Client
	limiter *rate.Limiter
	maxSize int64
}

func NewHTTPLoader(requestsPerSecond float64, burst int) *HTTPLoader {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 4
	}
	if burst <= 0 {
		burst = 2
	}
	return &HTTPLoader{
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		maxSize: 16 << 20,
	}
}

func (l *HTTPLoader) CanLoad(u urlutil.ResolvedURL) bool {
	parsed, err := url.Parse(string(u))
	if err != nil {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

func (l *HTTPLoader) Load(ctx context.Context, u urlutil.ResolvedURL) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(u), nil)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", u, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("load %s: unexpected status %s", u, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxSize))
	if err != nil {
		return "", fmt.Errorf("load %s: %w", u, err)
	}
	return string(data), nil
}
